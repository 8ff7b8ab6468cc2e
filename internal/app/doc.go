// Package app implements the dstk command line.
//
// # Overview
//
// Execute builds a cobra command tree, one subcommand per DSTK endpoint,
// and returns a process exit code. It is the composition root: it loads
// configuration, builds the logger and terminal styles, and connects a
// dstk.Client for the chosen command.
//
// # Components
//
//   - app.go: root command, global flags, configuration and exit codes
//   - commands.go: the endpoint subcommands
//   - output.go: CSV and plain-text writers
//   - batch.go: parallel file conversion with ordered output
//
// # Inputs
//
// Commands take their inputs as arguments. Without arguments they read
// standard input: one value per line for IPs, addresses and coordinates,
// the whole stream for free text, a single document for file commands.
// File commands expand directories recursively.
//
// # Output
//
// Structured results are CSV on stdout, one row per match. --show-headers
// adds a header row, or a "--File--: <path>" line before each document.
// Diagnostics go to stderr.
//
// # Exit Codes
//
//   - 0: success
//   - 1: a request or conversion failed
//   - 2: bad flags, arguments or configuration
//
// # Batches
//
// File commands run up to --concurrency conversions at once through an
// errgroup. Results are printed in input order as soon as each one and all
// its predecessors are done. A failing file does not stop the batch; the
// command reports each failure and exits 1 at the end. On a terminal a
// progress bar is drawn on stderr.
package app
