package cmd

import (
	"github.com/benoctopus/track/internal/fuzzy"
	"github.com/benoctopus/track/internal/track"
	"github.com/benoctopus/track/internal/tracker"
	"github.com/benoctopus/track/internal/tty"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Select the activity used by default",
	Long: `Select the activity that start, add and past use when no activity is named.

Without a name, pick one interactively with fzf or peco (configurable via
fuzzy_finder), or from a numbered list when neither is installed.

Examples:
  track set reading
  track set`,
	Args:              validArgs(cobra.MaximumNArgs(1)),
	ValidArgsFunction: completeActivityArg,
	RunE:              runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		if name, err = pickActivity(cmd, svc); err != nil {
			return err
		}
	}

	out := printer(cmd)
	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		if err := j.Registry.Select(name); err != nil {
			return err
		}
		out.Successf("%s is now selected", out.Activity(name))
		return nil
	})
}

// pickActivity lets the user choose an activity interactively. The journal
// lock is not held while waiting for the choice.
func pickActivity(cmd *cobra.Command, svc *tracker.Service) (string, error) {
	if !tty.IsInteractive() {
		return "", usagef("activity name required when not running interactively")
	}

	var names []string
	if err := svc.View(cmd.Context(), func(j *track.Journal) error {
		names = j.Registry.Names()
		return nil
	}); err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", eris.Wrap(track.ErrUnknownActivity, "no activities exist yet; create one with: track new <name>")
	}

	name, err := fuzzy.Select(names, "Activity", svc.FuzzyFinder())
	if err != nil {
		return "", eris.Wrap(err, "failed to select activity")
	}
	return name, nil
}
