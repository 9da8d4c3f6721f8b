package cmd

import (
	"encoding/json"
	"strconv"

	"github.com/benoctopus/track/internal/display"
	"github.com/benoctopus/track/internal/track"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var activitiesJSON bool

var activitiesCmd = &cobra.Command{
	Use:     "activities",
	Aliases: []string{"all"},
	Short:   "List all activities",
	Long: `List every activity with its number of sessions. The selected activity
is marked with an asterisk.

Examples:
  track activities
  track all --json`,
	Args: validArgs(cobra.NoArgs),
	RunE: runActivities,
}

func init() {
	rootCmd.AddCommand(activitiesCmd)
	activitiesCmd.Flags().BoolVar(&activitiesJSON, "json", false, "Output in JSON format")
}

// activityInfo is the JSON shape of one activity
type activityInfo struct {
	Name     string `json:"name"`
	Sessions int    `json:"sessions"`
	Selected bool   `json:"selected"`
	Created  string `json:"created_at"`
}

func runActivities(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.View(cmd.Context(), func(j *track.Journal) error {
		activities := j.Registry.Activities()
		selected, _ := j.Registry.Selected()

		if activitiesJSON {
			infos := make([]activityInfo, 0, len(activities))
			for _, a := range activities {
				infos = append(infos, activityInfo{
					Name:     a.Name,
					Sessions: j.Store.CountActivity(a.Name),
					Selected: a.Name == selected,
					Created:  a.CreatedAt.In(svc.Location()).Format(display.DateTimeLayout),
				})
			}
			data, err := json.MarshalIndent(infos, "", "  ")
			if err != nil {
				return eris.Wrap(err, "failed to marshal activities to JSON")
			}
			out.Println(string(data))
			return nil
		}

		if len(activities) == 0 {
			out.Println("There are currently no recorded activities")
			out.Println("Create one with: track new <name>")
			return nil
		}

		rows := make([][]string, 0, len(activities))
		for _, a := range activities {
			mark := ""
			if a.Name == selected {
				mark = "*"
			}
			rows = append(rows, []string{
				mark,
				a.Name,
				strconv.Itoa(j.Store.CountActivity(a.Name)),
				display.FormatDate(a.CreatedAt, svc.Location()),
			})
		}
		out.Table([]string{"", "Activity", "Sessions", "Created"}, rows)
		return nil
	})
}
