package cmd

import (
	"strings"

	"github.com/benoctopus/track/internal/timespec"
	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var (
	pastActivity string
	pastNotes    string
)

var pastCmd = &cobra.Command{
	Use:   "past <duration>",
	Short: "Record a session that just finished",
	Long: `Record a session that ran for the given duration and ended now.

Durations combine units: s, m, h, d and w.

Examples:
  track past 45m
  track past 1h30m -a gym -n "legs"`,
	Args: validArgs(cobra.ExactArgs(1)),
	RunE: runPast,
}

func init() {
	rootCmd.AddCommand(pastCmd)
	pastCmd.Flags().StringVarP(&pastActivity, "activity", "a", "", "Activity to record (default: selected)")
	pastCmd.Flags().StringVarP(&pastNotes, "notes", "n", "", "Notes about the session")
	_ = pastCmd.RegisterFlagCompletionFunc("activity", completeActivities)
}

func runPast(cmd *cobra.Command, args []string) error {
	offset, err := timespec.ParseOffset(args[0])
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		activity, err := j.Registry.Resolve(pastActivity)
		if err != nil {
			return err
		}

		now, loc := svc.Now(), svc.Location()
		session, err := j.Store.Past(activity, now.Add(-offset), strings.TrimSpace(pastNotes))
		if err != nil {
			return err
		}
		out.Successf("Added a new session of %s:", out.Activity(activity))
		out.Println(sessionLine(out, session, now, loc))
		return nil
	})
}
