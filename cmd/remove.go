package cmd

import (
	"github.com/benoctopus/track/internal/models"
	"github.com/benoctopus/track/internal/track"
	"github.com/benoctopus/track/internal/tty"
	"github.com/spf13/cobra"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:     "remove <id|last>",
	Aliases: []string{"rm"},
	Short:   "Remove a recorded session",
	Long: `Remove a session after confirmation. Removing the ongoing session cancels it.

Examples:
  track remove last
  track remove 12 --force`,
	Args: validArgs(cobra.ExactArgs(1)),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation prompt")
}

func runRemove(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args[0])
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	out := printer(cmd)

	var target models.Session
	if err := svc.View(cmd.Context(), func(j *track.Journal) error {
		target, err = pos.resolve(j.Store)
		return err
	}); err != nil {
		return err
	}

	if !removeForce {
		out.Println(sessionLine(out, target, svc.Now(), svc.Location()))
		ok, err := tty.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to remove this session?")
		if err != nil {
			return err
		}
		if !ok {
			out.Printf("Did not remove session %s\n", pos)
			return nil
		}
	}

	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		removed, err := j.Store.Remove(target.ID)
		if err != nil {
			return err
		}
		out.Successf("Removed session %d of %s", removed.ID, out.Activity(removed.Activity))
		return nil
	})
}
