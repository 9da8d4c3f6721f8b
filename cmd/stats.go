package cmd

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/benoctopus/track/internal/display"
	"github.com/benoctopus/track/internal/models"
	"github.com/benoctopus/track/internal/track"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	statsActivity string
	statsJSON     bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about recorded sessions",
	Long: `Show how much time was tracked within a period, optionally for a single
activity. Sessions reaching outside the period only count for the part
inside it; an ongoing session counts until now.

Without a period the statistics cover everything from the first session
to the end of the last one.

Examples:
  track stats
  track stats past -w 1
  track stats since 01/03/24 -a reading
  track stats on 05/03/24 --json`,
	Args: validArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd, allBounds)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.PersistentFlags().StringVarP(&statsActivity, "activity", "a", "", "Only count sessions of this activity")
	statsCmd.PersistentFlags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
	_ = statsCmd.RegisterFlagCompletionFunc("activity", completeActivities)
	statsCmd.AddCommand(rangeCommands(runStats)...)
}

// activityStat is the JSON shape of one activity's share
type activityStat struct {
	Name     string  `json:"name"`
	Sessions int     `json:"sessions"`
	Seconds  int64   `json:"seconds"`
	Share    float64 `json:"share"`
}

// statsReport is the JSON shape of a summary
type statsReport struct {
	From                  time.Time       `json:"from"`
	To                    time.Time       `json:"to"`
	WindowSeconds         int64           `json:"window_seconds"`
	Sessions              int             `json:"sessions"`
	TotalSeconds          int64           `json:"total_seconds"`
	AveragePerDaySeconds  int64           `json:"average_per_day_seconds"`
	AverageSessionSeconds int64           `json:"average_session_seconds"`
	Proportion            float64         `json:"proportion"`
	Activities            []activityStat  `json:"activities"`
	Longest               *models.Session `json:"longest,omitempty"`
	LongestSeconds        int64           `json:"longest_seconds,omitempty"`
	BusiestDay            string          `json:"busiest_day,omitempty"`
	BusiestDaySeconds     int64           `json:"busiest_day_seconds,omitempty"`
}

func runStats(cmd *cobra.Command, bounds boundsFunc) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	activity := strings.TrimSpace(statsActivity)

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

		summary := track.Summarize(j.Store.Query(r), r, track.SummaryOptions{
			Activity: activity,
			Location: loc,
			Now:      now,
		})

		if statsJSON {
			data, err := json.MarshalIndent(newStatsReport(summary, loc), "", "  ")
			if err != nil {
				return eris.Wrap(err, "failed to marshal statistics to JSON")
			}
			out.Println(string(data))
			return nil
		}

		if summary.Count == 0 {
			out.Printf("There are no recorded sessions%s%s\n", describeRange(r, loc), describeFilter(out, activity))
			return nil
		}
		printSummary(out, summary, activity, now, loc)
		return nil
	})
}

func printSummary(out display.Printer, s track.Summary, activity string, now time.Time, loc *time.Location) {
	out.Printf("The session statistics from %s (%s)%s are:\n",
		display.FormatRange(s.From, s.To, loc),
		display.FormatStat(s.Window),
		describeFilter(out, activity),
	)
	out.Printf("Number of sessions: %d\n", s.Count)
	out.Printf("Total time: %s\n", display.FormatStat(s.Total))
	out.Printf("Average time per day: %s\n", display.FormatStat(s.AveragePerDay()))
	out.Printf("Average session length: %s\n", display.FormatStat(s.AverageSession()))
	out.Printf("Proportion of time spent on activity: %s\n", display.FormatProportion(s.Proportion()))
	if s.Longest != nil {
		out.Printf("Longest session: %s (%s counted)\n",
			sessionLine(out, s.Longest.Session, now, loc),
			display.FormatStat(s.Longest.Duration),
		)
	}
	if s.BusiestDay != nil {
		out.Printf("Busiest day: %s (%s)\n",
			display.FormatDate(s.BusiestDay.Date, loc),
			display.FormatStat(s.BusiestDay.Duration),
		)
	}

	if activity != "" || len(s.PerActivity) < 2 {
		return
	}
	rows := make([][]string, 0, len(s.PerActivity))
	for _, name := range s.Activities() {
		total := s.PerActivity[name]
		rows = append(rows, []string{
			name,
			strconv.Itoa(total.Count),
			display.FormatStat(total.Duration),
			display.FormatProportion(share(total.Duration, s.Total)),
		})
	}
	out.Println()
	out.Table([]string{"Activity", "Sessions", "Time", "Share"}, rows)
}

func newStatsReport(s track.Summary, loc *time.Location) statsReport {
	report := statsReport{
		From:                  s.From,
		To:                    s.To,
		WindowSeconds:         int64(s.Window / time.Second),
		Sessions:              s.Count,
		TotalSeconds:          int64(s.Total / time.Second),
		AveragePerDaySeconds:  int64(s.AveragePerDay() / time.Second),
		AverageSessionSeconds: int64(s.AverageSession() / time.Second),
		Proportion:            s.Proportion(),
		Activities:            []activityStat{},
	}
	for _, name := range s.Activities() {
		total := s.PerActivity[name]
		report.Activities = append(report.Activities, activityStat{
			Name:     name,
			Sessions: total.Count,
			Seconds:  int64(total.Duration / time.Second),
			Share:    share(total.Duration, s.Total),
		})
	}
	if s.Longest != nil {
		longest := s.Longest.Session
		report.Longest = &longest
		report.LongestSeconds = int64(s.Longest.Duration / time.Second)
	}
	if s.BusiestDay != nil {
		report.BusiestDay = display.FormatDate(s.BusiestDay.Date, loc)
		report.BusiestDaySeconds = int64(s.BusiestDay.Duration / time.Second)
	}
	return report
}

// share is part's fraction of total
func share(part, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total)
}
