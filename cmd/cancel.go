package cmd

import (
	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Discard the ongoing session",
	Args:  validArgs(cobra.NoArgs),
	RunE:  runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		session, err := j.Store.Cancel()
		if err != nil {
			return err
		}
		out.Successf("Cancelled ongoing session of %s", out.Activity(session.Activity))
		return nil
	})
}
