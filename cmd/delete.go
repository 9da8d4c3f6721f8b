package cmd

import (
	"fmt"

	"github.com/benoctopus/track/internal/track"
	"github.com/benoctopus/track/internal/tty"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an activity",
	Long: `Delete an activity after confirmation.

What happens to the activity's sessions depends on delete_policy:
  reject   refuse while the activity has sessions (default)
  cascade  delete its sessions too
  orphan   keep its sessions under the old name

Examples:
  track delete reading
  track delete reading --force   # Skip confirmation`,
	Args:              validArgs(cobra.ExactArgs(1)),
	ValidArgsFunction: completeActivityArg,
	RunE:              runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	name := args[0]
	out := printer(cmd)

	if !deleteForce {
		var question string
		if err := svc.View(cmd.Context(), func(j *track.Journal) error {
			if !j.Registry.Exists(name) {
				return eris.Wrapf(track.ErrUnknownActivity, "activity %q", name)
			}
			question = fmt.Sprintf("Are you sure you want to delete activity %s?", out.Activity(name))
			if count := j.Store.CountActivity(name); count > 0 {
				question = fmt.Sprintf("Activity %s has %d sessions (delete policy: %s). Delete it?", out.Activity(name), count, j.Policy)
			}
			return nil
		}); err != nil {
			return err
		}

		ok, err := tty.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question)
		if err != nil {
			return err
		}
		if !ok {
			out.Printf("Did not delete activity %s\n", out.Activity(name))
			return nil
		}
	}

	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		removed, err := j.DeleteActivity(name)
		if err != nil {
			return err
		}
		out.Successf("Deleted activity %s", out.Activity(name))
		if len(removed) > 0 {
			out.Infof("Deleted %d sessions", len(removed))
		}
		return nil
	})
}
