package cmd

import (
	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:               "rename <old> <new>",
	Short:             "Rename an activity",
	Long:              `Rename an activity. Its sessions and selection follow the new name.`,
	Args:              validArgs(cobra.ExactArgs(2)),
	ValidArgsFunction: completeActivityArg,
	RunE:              runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		moved, err := j.RenameActivity(args[0], args[1])
		if err != nil {
			return err
		}
		to, _ := track.NormalizeName(args[1])
		out.Successf("Renamed activity %s to %s", out.Activity(args[0]), out.Activity(to))
		if moved > 0 {
			out.Infof("%d sessions moved", moved)
		}
		return nil
	})
}
