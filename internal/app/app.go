package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/dstk/internal/config"
	"github.com/five82/dstk/internal/logging"
	"github.com/five82/dstk/internal/ui"
	"github.com/five82/dstk/pkg/dstk"
)

// Version is reported by --version and sent in the User-Agent.
var Version = "0.1.0"

// Exit codes returned by Execute.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// usageError marks mistakes in how the command was invoked.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// globalFlags are bound to the root command and feed config overrides.
type globalFlags struct {
	configPath     string
	apiBase        string
	showHeaders    bool
	noVersionCheck bool
	concurrency    int
	logLevel       string
	logFormat      string
}

// session is the state shared by every subcommand of one invocation.
type session struct {
	streams Streams
	flags   globalFlags

	cfg    config.Config
	log    zerolog.Logger
	styles ui.Styles
}

// Execute runs the CLI with args (without the program name) and returns the
// process exit code.
func Execute(ctx context.Context, args []string, streams Streams) int {
	s := &session{
		streams: streams,
		log:     zerolog.Nop(),
		styles:  ui.GetTheme(ui.ThemePlain).Styles(),
	}
	root := newRootCommand(s)
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	s.reportError(err)

	var usage usageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	return ExitError
}

func newRootCommand(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "dstk <command> [inputs...]",
		Short: "Command-line client for the Data Science Toolkit",
		Long: `dstk sends its inputs to a Data Science Toolkit server and prints the
results, as CSV for structured answers and as plain text otherwise.

If no inputs are given on the command line, standard input is read.`,
		Example: `  dstk ip2coordinates 67.169.73.113
  dstk -a http://localhost:8080 street2coordinates "2543 Graystone Pl, Simi Valley, CA 93065"
  echo "Cairo, Egypt" | dstk -H text2places
  dstk file2text ~/scans`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q", args[0])
			}
			cmd.SetOut(s.streams.Err)
			_ = cmd.Help()
			return usagef("no command specified")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&s.flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVarP(&s.flags.apiBase, "api-base", "a", "", "DSTK server address, eg http://localhost:8080")
	pf.BoolVarP(&s.flags.showHeaders, "show-headers", "H", false, "print a header row (or a --File-- line per file)")
	pf.BoolVar(&s.flags.noVersionCheck, "no-version-check", false, "skip the /info compatibility check")
	pf.IntVar(&s.flags.concurrency, "concurrency", 0, "parallel uploads for file commands (1-32)")
	pf.StringVar(&s.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
	pf.StringVar(&s.flags.logFormat, "log-format", "", "log format: console or json")

	for _, cmd := range s.commands() {
		root.AddCommand(cmd)
	}
	return root
}

// setup merges configuration layers and builds the logger and styles.
func (s *session) setup(flags *pflag.FlagSet) error {
	overrides := map[string]any{}
	if flags.Changed("api-base") {
		overrides["api_base"] = s.flags.apiBase
	}
	if flags.Changed("show-headers") {
		overrides["show_headers"] = s.flags.showHeaders
	}
	if flags.Changed("no-version-check") {
		overrides["check_version"] = !s.flags.noVersionCheck
	}
	if flags.Changed("concurrency") {
		overrides["concurrency"] = s.flags.concurrency
	}
	if flags.Changed("log-level") {
		overrides["log_level"] = s.flags.logLevel
	}
	if flags.Changed("log-format") {
		overrides["log_format"] = s.flags.logFormat
	}

	cfg, err := config.Load(s.flags.configPath, overrides)
	if err != nil {
		return usageError{err: err}
	}
	logger, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: s.streams.Err,
	})
	if err != nil {
		return usageError{err: err}
	}

	s.cfg = cfg
	s.log = logger
	s.styles = ui.Resolve(cfg.Theme, s.streams.Err).Styles()
	s.log.Debug().
		Str("api_base", cfg.APIBase).
		Bool("check_version", cfg.CheckVersion).
		Int("concurrency", cfg.Concurrency).
		Msg("configuration loaded")
	return nil
}

// client connects to the configured server, running the version gate
// unless it is disabled.
func (s *session) client(ctx context.Context) (dstk.Service, error) {
	c, err := dstk.New(ctx,
		dstk.WithBaseURL(s.cfg.APIBase),
		dstk.WithVersionCheck(s.cfg.CheckVersion),
		dstk.WithLogger(s.log),
		dstk.WithUserAgent("dstk-cli/"+Version),
	)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("base", c.BaseURL()).Msg("connected")
	return c, nil
}

func (s *session) reportError(err error) {
	prefix := s.styles.DangerText.Render("dstk:")
	_, _ = fmt.Fprintf(s.streams.Err, "%s %v\n", prefix, err)
}

func (s *session) warnf(format string, args ...any) {
	prefix := s.styles.WarningText.Render("warning:")
	_, _ = fmt.Fprintf(s.streams.Err, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
