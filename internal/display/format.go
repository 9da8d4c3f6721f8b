package display

import (
	"fmt"
	"time"

	"github.com/benoctopus/track/internal/models"
	"github.com/dustin/go-humanize"
)

// Layouts used for printed times
const (
	DateLayout     = "02/01/06"
	ClockLayout    = "15:04"
	DateTimeLayout = DateLayout + " " + ClockLayout
)

// FormatDuration renders a session length as "Xh Ym". Leftover seconds round
// up to the next minute so a running session never shows as "0h 0m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	mins := (total % 3600) / 60
	if total%60 > 0 {
		mins++
	}
	if mins == 60 {
		hours++
		mins = 0
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatStat renders an exact duration for statistics, omitting zero parts:
// "42s", "5m", "2h", "2h 5m" or "2h 5m 42s".
func FormatStat(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60

	if hours == 0 && mins == 0 {
		return fmt.Sprintf("%ds", secs)
	}

	var hm string
	switch {
	case hours == 0:
		hm = fmt.Sprintf("%dm", mins)
	case mins == 0:
		hm = fmt.Sprintf("%dh", hours)
	default:
		hm = fmt.Sprintf("%dh %dm", hours, mins)
	}
	if secs == 0 {
		return hm
	}
	return fmt.Sprintf("%s %ds", hm, secs)
}

// FormatRange renders "dd/mm/yy HH:MM to HH:MM", repeating the date on the
// end only when it falls on another day
func FormatRange(from, to time.Time, loc *time.Location) string {
	from, to = from.In(loc), to.In(loc)
	layout := ClockLayout
	if !sameDay(from, to) {
		layout = DateTimeLayout
	}
	return fmt.Sprintf("%s to %s", from.Format(DateTimeLayout), to.Format(layout))
}

// FormatSession renders one session line without its id. An ongoing session
// runs "to now".
func FormatSession(s models.Session, now time.Time, loc *time.Location) string {
	var text string
	if s.IsOngoing() {
		text = fmt.Sprintf("%s to now (%s)", s.Start.In(loc).Format(DateTimeLayout), FormatDuration(s.Duration(now)))
	} else {
		text = fmt.Sprintf("%s (%s)", FormatRange(s.Start, *s.End, loc), FormatDuration(s.Duration(now)))
	}
	if s.Notes != "" {
		text += " - " + s.Notes
	}
	return text
}

// FormatDate renders the calendar date of t
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// FormatClock renders the time of day of t
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}

// FormatAge renders how long ago t was, e.g. "2 hours ago"
func FormatAge(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatProportion renders a share as a percentage with one decimal
func FormatProportion(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
