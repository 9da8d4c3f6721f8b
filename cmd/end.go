package cmd

import (
	"strings"

	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var (
	endAt    string
	endNotes string
)

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End the ongoing session",
	Long: `End the ongoing session, optionally at an earlier time and with notes.

Examples:
  track end
  track end -n "finished chapter 3"
  track end --at 17:30`,
	Args: validArgs(cobra.NoArgs),
	RunE: runEnd,
}

func init() {
	rootCmd.AddCommand(endCmd)
	endCmd.Flags().StringVar(&endAt, "at", "", "End time instead of now")
	endCmd.Flags().StringVarP(&endNotes, "notes", "n", "", "Notes about the session")
}

func runEnd(cmd *cobra.Command, args []string) error {
	at, err := parseSpec("at", endAt)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		ongoing, ok := j.Store.Ongoing()
		if !ok {
			return track.ErrNoOngoing
		}

		now, loc := svc.Now(), svc.Location()
		end := now
		if at != nil {
			end = at.End(ongoing.Start, loc)
			if err := notFuture(end, now); err != nil {
				return err
			}
		}

		session, err := j.Store.End(end, strings.TrimSpace(endNotes))
		if err != nil {
			return err
		}
		out.Successf("Ended session of %s", out.Activity(session.Activity))
		out.Println(sessionLine(out, session, now, loc))
		return nil
	})
}
