package cmd

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/benoctopus/track/internal/display"
	"github.com/benoctopus/track/internal/models"
	"github.com/benoctopus/track/internal/track"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	listActivity string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded sessions",
	Long: `List recorded sessions in chronological order, optionally restricted to a
period and an activity. A session is listed when any part of it falls
inside the period.

Examples:
  track list                        # Every session
  track list past -d 7              # The last week
  track list since 09:00 -a gym     # Today's gym sessions
  track list range -s 01/03/24 -e 07/03/24
  track list on 05/03/24 --json`,
	Args: validArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, allBounds)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.PersistentFlags().StringVarP(&listActivity, "activity", "a", "", "Only list sessions of this activity")
	listCmd.PersistentFlags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	_ = listCmd.RegisterFlagCompletionFunc("activity", completeActivities)
	listCmd.AddCommand(rangeCommands(runList)...)
}

func runList(cmd *cobra.Command, bounds boundsFunc) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	activity := strings.TrimSpace(listActivity)

	out := printer(cmd)
	return svc.View(cmd.Context(), func(j *track.Journal) error {
		if err := checkFilter(j, activity); err != nil {
			return err
		}

		now, loc := svc.Now(), svc.Location()
		r, err := bounds(now, loc, j)
		if err != nil {
			return err
		}

		var sessions []models.Session
		for _, s := range j.Store.Query(r) {
			if activity == "" || s.Activity == activity {
				sessions = append(sessions, s)
			}
		}

		if listJSON {
			if sessions == nil {
				sessions = []models.Session{}
			}
			data, err := json.MarshalIndent(sessions, "", "  ")
			if err != nil {
				return eris.Wrap(err, "failed to marshal sessions to JSON")
			}
			out.Println(string(data))
			return nil
		}

		text := describeRange(r, loc) + describeFilter(out, activity)
		if len(sessions) == 0 {
			out.Printf("There are no recorded sessions%s\n", text)
			return nil
		}

		out.Printf("The recorded sessions%s are:\n", text)
		rows := make([][]string, 0, len(sessions))
		for _, s := range sessions {
			when := s.Start.In(loc).Format(display.DateTimeLayout) + " to now"
			if !s.IsOngoing() {
				when = display.FormatRange(s.Start, *s.End, loc)
			}
			rows = append(rows, []string{
				strconv.FormatInt(s.ID, 10),
				s.Activity,
				when,
				display.FormatDuration(s.Duration(now)),
				s.Notes,
			})
		}
		out.Table([]string{"ID", "Activity", "When", "Duration", "Notes"}, rows)
		return nil
	})
}
