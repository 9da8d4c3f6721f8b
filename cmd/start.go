package cmd

import (
	"github.com/benoctopus/track/internal/display"
	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var (
	startActivity string
	startAt       string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new session",
	Long: `Start a new ongoing session of the selected activity, or of the one named
with --activity. Fails while another session is ongoing.

Examples:
  track start
  track start -a gym
  track start --at 08:45`,
	Args: validArgs(cobra.NoArgs),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringVarP(&startActivity, "activity", "a", "", "Activity to track (default: selected)")
	startCmd.Flags().StringVar(&startAt, "at", "", "Start time instead of now")
	_ = startCmd.RegisterFlagCompletionFunc("activity", completeActivities)
}

func runStart(cmd *cobra.Command, args []string) error {
	at, err := parseSpec("at", startAt)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		activity, err := j.Registry.Resolve(startActivity)
		if err != nil {
			return err
		}

		now, loc := svc.Now(), svc.Location()
		start := now
		if at != nil {
			start = at.Start(now, loc)
		}

		session, err := j.Store.Start(activity, start)
		if err != nil {
			return err
		}
		out.Successf("Started new session of %s on %s at %s",
			out.Activity(activity),
			display.FormatDate(session.Start, loc),
			display.FormatClock(session.Start, loc),
		)
		return nil
	})
}
