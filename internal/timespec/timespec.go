package timespec

import (
	"strings"
	"time"

	"github.com/benoctopus/track/internal/track"
	"github.com/rotisserie/eris"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Accepted layouts, tried in order
const (
	LayoutDateTime = "2/1/06 15:04"
	LayoutDate     = "2/1/06"
	LayoutTime     = "15:04"
)

// Usage describes the accepted forms for help text and errors
const Usage = "[dd/mm/yy HH:MM], [dd/mm/yy] or [HH:MM]"

var (
	// ErrInvalidSpec is returned for input matching none of the layouts
	ErrInvalidSpec = eris.New("time must be in the form " + Usage)
	// ErrInvalidDate is returned for input that is not a dd/mm/yy date
	ErrInvalidDate = eris.New("date must be in the form [dd/mm/yy]")
	// ErrInvalidOffset is returned for a missing or negative duration
	ErrInvalidOffset = eris.New("duration must be positive, e.g. 45m, 1h30m or 2d")
)

// Kind tells which parts of a specifier the user wrote
type Kind int

const (
	// DateTime is a full "dd/mm/yy HH:MM"
	DateTime Kind = iota
	// Date is a bare "dd/mm/yy"
	Date
	// Time is a bare "HH:MM"
	Time
)

// Spec is a parsed time specifier. Its wall-clock fields are resolved into an
// instant only once a location and a reference date are known.
type Spec struct {
	Kind  Kind
	naive time.Time // wall-clock fields, UTC
}

// Parse reads a time specifier
func Parse(s string) (Spec, error) {
	s = strings.Join(strings.Fields(s), " ")
	if t, err := time.Parse(LayoutDateTime, s); err == nil {
		return Spec{Kind: DateTime, naive: t}, nil
	}
	if t, err := time.Parse(LayoutDate, s); err == nil {
		return Spec{Kind: Date, naive: t}, nil
	}
	if t, err := time.Parse(LayoutTime, s); err == nil {
		return Spec{Kind: Time, naive: t}, nil
	}
	return Spec{}, eris.Wrapf(ErrInvalidSpec, "%q", s)
}

// ParseDate reads a bare dd/mm/yy date
func ParseDate(s string) (Spec, error) {
	t, err := time.Parse(LayoutDate, strings.TrimSpace(s))
	if err != nil {
		return Spec{}, eris.Wrapf(ErrInvalidDate, "%q", s)
	}
	return Spec{Kind: Date, naive: t}, nil
}

// ParseOffset reads a positive duration such as "45m", "1h30m" or "2d"
func ParseOffset(s string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, eris.Wrapf(ErrInvalidOffset, "%q", s)
	}
	if d <= 0 {
		return 0, eris.Wrapf(ErrInvalidOffset, "%q", s)
	}
	return d, nil
}

// Start resolves the spec as the beginning of an interval. A date means
// midnight at its start; a bare time means that time today.
func (s Spec) Start(now time.Time, loc *time.Location) time.Time {
	switch s.Kind {
	case Date:
		return s.at(s.naive, 0, 0, loc)
	case Time:
		return s.at(now.In(loc), s.naive.Hour(), s.naive.Minute(), loc)
	default:
		return s.at(s.naive, s.naive.Hour(), s.naive.Minute(), loc)
	}
}

// End resolves the spec as the end of an interval starting at start. A date
// means midnight at the end of that day; a bare time lies on start's date.
func (s Spec) End(start time.Time, loc *time.Location) time.Time {
	switch s.Kind {
	case Date:
		return s.at(s.naive.AddDate(0, 0, 1), 0, 0, loc)
	case Time:
		return s.at(start.In(loc), s.naive.Hour(), s.naive.Minute(), loc)
	default:
		return s.at(s.naive, s.naive.Hour(), s.naive.Minute(), loc)
	}
}

// at builds hour:minute on the calendar date of day, interpreted in loc
func (Spec) at(day time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
}

// Past is the range from offset before now until now. A zero offset reaches
// back to the first session.
func Past(now time.Time, offset time.Duration) (track.Range, error) {
	if offset <= 0 {
		return track.Until(now), nil
	}
	return track.Between(now.Add(-offset), now)
}

// PastUnits builds the offset for Past from separate unit counts
func PastUnits(weeks, days, hours, minutes int) (time.Duration, error) {
	if weeks < 0 || days < 0 || hours < 0 || minutes < 0 {
		return 0, eris.Wrap(ErrInvalidOffset, "counts must not be negative")
	}
	total := time.Duration(weeks)*7*24*time.Hour +
		time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute
	return total, nil
}

// Since is the range from start until now. Without a start it reaches back
// to the first session.
func Since(start *Spec, now time.Time, loc *time.Location) (track.Range, error) {
	if start == nil {
		return track.Until(now), nil
	}
	return track.Between(start.Start(now, loc), now)
}

// Between is the range between two optional specs. A missing start reaches
// back to the first session, which is also the reference date for an end
// given as a bare time; anchor carries that first start. A missing end is
// unbounded.
func Between(start, end *Spec, now, anchor time.Time, loc *time.Location) (track.Range, error) {
	var r track.Range
	from := anchor
	if start != nil {
		from = start.Start(now, loc)
		r.From = &from
	}
	if end != nil {
		to := end.End(from, loc)
		r.To = &to
	}
	if err := r.Validate(); err != nil {
		return track.Range{}, err
	}
	return r, nil
}

// On is the range covering one calendar day
func On(date Spec, loc *time.Location) (track.Range, error) {
	day := Spec{Kind: Date, naive: date.naive}
	from := day.Start(time.Time{}, loc)
	return track.Between(from, day.End(from, loc))
}
