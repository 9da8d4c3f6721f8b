package cmd

import (
	"github.com/benoctopus/track/internal/display"
	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var ongoingCmd = &cobra.Command{
	Use:   "ongoing",
	Short: "Show the ongoing session",
	Args:  validArgs(cobra.NoArgs),
	RunE:  runOngoing,
}

func init() {
	rootCmd.AddCommand(ongoingCmd)
}

func runOngoing(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.View(cmd.Context(), func(j *track.Journal) error {
		session, ok := j.Store.Ongoing()
		if !ok {
			out.Println("There is no ongoing session")
			return nil
		}

		now, loc := svc.Now(), svc.Location()
		out.Printf("There is an ongoing session of %s that started on %s at %s (%s)\n",
			out.Activity(session.Activity),
			display.FormatDate(session.Start, loc),
			display.FormatClock(session.Start, loc),
			display.FormatAge(session.Start, now),
		)
		out.Printf("Current duration: %s\n", display.FormatDuration(session.Duration(now)))
		return nil
	})
}
