package track

import (
	"sort"
	"time"

	"github.com/benoctopus/track/internal/models"
)

// ActivityTotal is the time spent on one activity within a summary
type ActivityTotal struct {
	Duration time.Duration `json:"duration"`
	Count    int           `json:"count"`
}

// SessionTotal pairs a session with the part of it inside the summary range
type SessionTotal struct {
	Session  models.Session `json:"session"`
	Duration time.Duration  `json:"duration"`
}

// DayTotal is the time tracked on one calendar day
type DayTotal struct {
	Date     time.Time     `json:"date"` // Midnight in the summary location
	Duration time.Duration `json:"duration"`
}

// Summary describes how much time was spent, and on what, within a range
type Summary struct {
	From        time.Time                `json:"from"`
	To          time.Time                `json:"to"`
	Window      time.Duration            `json:"window"`
	Total       time.Duration            `json:"total"`
	Count       int                      `json:"count"`
	PerActivity map[string]ActivityTotal `json:"per_activity"`
	Longest     *SessionTotal            `json:"longest,omitempty"`
	BusiestDay  *DayTotal                `json:"busiest_day,omitempty"`
	Days        []DayTotal               `json:"days"`
}

// SummaryOptions tunes Summarize
type SummaryOptions struct {
	Activity string         // Only count this activity when set
	Location *time.Location // Calendar used to split days; defaults to time.Local
	Now      time.Time      // Effective end of an ongoing session
}

// Summarize aggregates sessions over a range. Each session contributes only
// the part that lies inside the range. Durations are summed exactly; rounding
// is left to display code.
func Summarize(sessions []models.Session, r Range, opts SummaryOptions) Summary {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now

	var included []models.Session
	for _, s := range sessions {
		if opts.Activity != "" && s.Activity != opts.Activity {
			continue
		}
		if !r.Intersects(s, now) {
			continue
		}
		included = append(included, s)
	}

	summary := Summary{PerActivity: make(map[string]ActivityTotal)}
	if from, to, ok := r.Resolve(included, now); ok {
		summary.From, summary.To = from, to
		if to.After(from) {
			summary.Window = to.Sub(from)
		}
	}

	days := make(map[time.Time]time.Duration)
	for _, s := range included {
		start, end := r.ClipInterval(s, now)
		d := end.Sub(start)

		summary.Total += d
		summary.Count++
		total := summary.PerActivity[s.Activity]
		total.Duration += d
		total.Count++
		summary.PerActivity[s.Activity] = total

		if summary.Longest == nil || d > summary.Longest.Duration {
			summary.Longest = &SessionTotal{Session: s.Clone(), Duration: d}
		}

		splitDays(start, end, loc, days)
	}

	for date, d := range days {
		summary.Days = append(summary.Days, DayTotal{Date: date, Duration: d})
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date.Before(summary.Days[j].Date)
	})
	for i, day := range summary.Days {
		if summary.BusiestDay == nil || day.Duration > summary.BusiestDay.Duration {
			summary.BusiestDay = &summary.Days[i]
		}
	}

	return summary
}

// Activities returns the activity names of the summary, most time first
func (s Summary) Activities() []string {
	names := make([]string, 0, len(s.PerActivity))
	for name := range s.PerActivity {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s.PerActivity[names[i]], s.PerActivity[names[j]]
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		return names[i] < names[j]
	})
	return names
}

// Proportion is the share of the window spent on tracked sessions
func (s Summary) Proportion() float64 {
	if s.Window <= 0 {
		return 0
	}
	return float64(s.Total) / float64(s.Window)
}

// AveragePerDay scales the tracked share of the window to one day
func (s Summary) AveragePerDay() time.Duration {
	window := int64(s.Window / time.Second)
	if window <= 0 {
		return 0
	}
	perDay := int64(s.Total/time.Second) * int64(24*time.Hour/time.Second) / window
	return time.Duration(perDay) * time.Second
}

// AverageSession is the mean clipped session length
func (s Summary) AverageSession() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return (s.Total / time.Duration(s.Count)).Truncate(time.Second)
}

// splitDays spreads [start, end) over the calendar days it covers
func splitDays(start, end time.Time, loc *time.Location, days map[time.Time]time.Duration) {
	for start.Before(end) {
		local := start.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		next := day.AddDate(0, 0, 1)
		segment := end
		if next.Before(end) {
			segment = next
		}
		days[day] += segment.Sub(start)
		start = segment
	}
}
