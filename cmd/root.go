package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/benoctopus/track/internal/clock"
	"github.com/benoctopus/track/internal/config"
	"github.com/benoctopus/track/internal/display"
	"github.com/benoctopus/track/internal/logging"
	"github.com/benoctopus/track/internal/timespec"
	"github.com/benoctopus/track/internal/track"
	"github.com/benoctopus/track/internal/tracker"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// Exit statuses
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInvalid     = 3
	exitOverlap     = 4
	exitOngoing     = 5
	exitUnavailable = 6
)

var (
	verbose bool

	// clk is the clock handed to the tracker service; tests pin it
	clk clock.Clock = clock.System{}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "track",
	Short: "Track the time you spend on activities",
	Long: `track records sessions of time spent on named activities and reports
statistics about them.

Create an activity, then start and end sessions of it. Sessions never
overlap and at most one session is ongoing at a time.

Examples:
  track new reading            # Create and select an activity
  track start                  # Start a session of the selected activity
  track end -n "chapter 3"     # End it with notes
  track add -s 09:00 -e 10:30  # Record a finished session
  track list past -d 7         # Sessions of the last week
  track stats on 05/03/24      # Statistics for one day

Time specifiers are ` + timespec.Usage + `.

Shell Completion:
  track completion bash        # Generate bash completion
  track completion zsh         # Generate zsh completion
  track completion fish        # Generate fish completion`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		display.NewStderr().Errorf("%s", eris.ToString(err, verbose))
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs and error traces")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
}

// usageError marks a malformed command line
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usage wraps err as a usage error
func usage(err error) error {
	return &usageError{err: err}
}

// usagef creates a usage error
func usagef(format string, a ...any) error {
	return &usageError{err: fmt.Errorf(format, a...)}
}

// validArgs wraps a cobra argument validator so its failures are usage errors
func validArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := validate(cmd, a); err != nil {
			return usage(err)
		}
		return nil
	}
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var ue *usageError
	if eris.As(err, &ue) ||
		eris.Is(err, timespec.ErrInvalidSpec) ||
		eris.Is(err, timespec.ErrInvalidDate) ||
		eris.Is(err, timespec.ErrInvalidOffset) ||
		strings.HasPrefix(err.Error(), "unknown command") {
		return exitUsage
	}

	switch track.KindOf(err) {
	case track.KindInvalidInterval, track.KindInvalidEnd, track.KindInvalidRange:
		return exitInvalid
	case track.KindOverlap:
		return exitOverlap
	case track.KindOngoingConflict, track.KindNoOngoing:
		return exitOngoing
	case track.KindNotFound, track.KindUnknownActivity, track.KindActivity:
		return exitUnavailable
	}
	return exitFailure
}

// newService loads the configuration and builds the tracker service
func newService() (*tracker.Service, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load configuration")
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create logger")
	}

	return tracker.New(cfg, logger, tracker.WithClock(clk)), nil
}

// printer returns a Printer on the command's output
func printer(cmd *cobra.Command) display.Printer {
	return display.New(cmd.OutOrStdout())
}
