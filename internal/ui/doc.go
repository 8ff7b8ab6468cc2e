// Package ui holds the terminal presentation of the dstk CLI: color themes
// for diagnostics and a Bubble Tea progress bar for file batches.
//
// Command results on stdout are never styled. Styles apply only to messages
// on stderr, and only when stderr is a terminal; Resolve falls back to the
// plain theme otherwise, or when NO_COLOR is set.
//
// # Themes
//
//   - dark: Nightfox palette
//   - light: Dayfox palette
//   - plain: no colors
//   - auto: dark or light, following the terminal background
//
// # Progress
//
// StartProgress runs a BatchProgress program on stderr while uploads are in
// flight. Workers call FileDone as each file finishes; Stop removes the bar.
// Input handling and signal handling stay with the caller.
package ui
