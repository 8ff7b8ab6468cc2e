// Package logging builds the zerolog logger shared by the CLI and the client.
//
// Output goes to stderr so that command results on stdout stay clean for
// piping. Two formats are supported:
//
//   - console: human readable, colorized when the writer is a terminal
//   - json: one object per line
//
// Levels follow zerolog names (trace, debug, info, warn, error, disabled).
// At debug the client logs one event per HTTP round trip.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Formats accepted by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects the level, format and destination of log output.
type Config struct {
	Level  string
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig is quiet enough that normal runs print nothing but results.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: FormatConsole,
		Output: os.Stderr,
	}
}

// New returns a logger for cfg. Empty fields take their DefaultConfig value.
func New(cfg Config) (zerolog.Logger, error) {
	def := DefaultConfig()
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	if cfg.Output == nil {
		cfg.Output = def.Output
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var out io.Writer
	switch strings.ToLower(cfg.Format) {
	case FormatConsole:
		out = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
			NoColor:    !isTerminal(cfg.Output),
		}
	case FormatJSON:
		out = cfg.Output
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (want console or json)", cfg.Format)
	}

	return zerolog.New(out).Level(level).Hook(timestampHook{}), nil
}

// timestampHook stamps events in RFC 3339 without touching
// zerolog.TimeFieldFormat, which is process-global.
type timestampHook struct{}

func (timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str(zerolog.TimestampFieldName, time.Now().Format(time.RFC3339))
}

// ParseLevel maps a level name onto zerolog, accepting "warning" for warn.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off", "none":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
