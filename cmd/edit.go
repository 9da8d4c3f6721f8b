package cmd

import (
	"strings"

	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var (
	editStart    string
	editEnd      string
	editActivity string
	editNotes    string
)

var editCmd = &cobra.Command{
	Use:   "edit <id|last>",
	Short: "Change a recorded session",
	Long: `Change the start, end, activity or notes of a session. The session keeps its
id. The result must not overlap any other session.

An end given as a bare time lies on the (new) start's date.

Examples:
  track edit last -n "forgot the notes"
  track edit 12 -s 09:15 -e 11:00
  track edit 12 -a writing
  track edit 12 -n ""                 # Clear notes`,
	Args: validArgs(cobra.ExactArgs(1)),
	RunE: runEditSession,
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editStart, "start", "s", "", "New start")
	editCmd.Flags().StringVarP(&editEnd, "end", "e", "", "New end")
	editCmd.Flags().StringVarP(&editActivity, "activity", "a", "", "New activity")
	editCmd.Flags().StringVarP(&editNotes, "notes", "n", "", "New notes")
	_ = editCmd.RegisterFlagCompletionFunc("activity", completeActivities)
}

func runEditSession(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	startSpec, err := parseSpec("start", editStart)
	if err != nil {
		return err
	}
	endSpec, err := parseSpec("end", editEnd)
	if err != nil {
		return err
	}
	notesChanged := cmd.Flags().Changed("notes")
	if startSpec == nil && endSpec == nil && editActivity == "" && !notesChanged {
		return usagef("no edits specified")
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		current, err := pos.resolve(j.Store)
		if err != nil {
			return err
		}

		now, loc := svc.Now(), svc.Location()
		var edit track.Edit
		start := current.Start
		if startSpec != nil {
			start = startSpec.Start(now, loc)
			edit.Start = &start
		}
		if endSpec != nil {
			end := endSpec.End(start, loc)
			edit.End = &end
		}
		if editActivity != "" {
			activity := strings.TrimSpace(editActivity)
			edit.Activity = &activity
		}
		if notesChanged {
			notes := strings.TrimSpace(editNotes)
			edit.Notes = &notes
		}

		updated, err := j.Store.Edit(current.ID, edit)
		if err != nil {
			return err
		}
		out.Successf("Edited session %d from:", updated.ID)
		out.Println(sessionLine(out, current, now, loc))
		out.Println("to:")
		out.Println(sessionLine(out, updated, now, loc))
		return nil
	})
}
