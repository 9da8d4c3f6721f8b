package cmd

import (
	"strings"

	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var (
	addStart    string
	addEnd      string
	addActivity string
	addNotes    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a finished session",
	Long: `Record a session that already ended. It must not overlap any other session
and must not end in the future.

An end given as a bare date means midnight at the end of that day; an end
given as a bare time lies on the start's date.

Examples:
  track add -s 09:00 -e 10:30
  track add -s "04/03/24 22:00" -e "05/03/24 01:00" -a reading
  track add -s 04/03/24 -e 04/03/24 -a holiday`,
	Args: validArgs(cobra.NoArgs),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addStart, "start", "s", "", "Session start (required)")
	addCmd.Flags().StringVarP(&addEnd, "end", "e", "", "Session end (required)")
	addCmd.Flags().StringVarP(&addActivity, "activity", "a", "", "Activity to record (default: selected)")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "Notes about the session")
	_ = addCmd.RegisterFlagCompletionFunc("activity", completeActivities)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if addStart == "" || addEnd == "" {
		return usagef("both --start and --end are required")
	}
	startSpec, err := parseSpec("start", addStart)
	if err != nil {
		return err
	}
	endSpec, err := parseSpec("end", addEnd)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		activity, err := j.Registry.Resolve(addActivity)
		if err != nil {
			return err
		}

		now, loc := svc.Now(), svc.Location()
		start := startSpec.Start(now, loc)
		end := endSpec.End(start, loc)

		session, err := j.Store.Add(activity, start, end, strings.TrimSpace(addNotes))
		if err != nil {
			return err
		}
		out.Successf("Added a new session of %s:", out.Activity(activity))
		out.Println(sessionLine(out, session, now, loc))
		return nil
	})
}
