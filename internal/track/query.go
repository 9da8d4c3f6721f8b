package track

import (
	"sort"
	"time"

	"github.com/benoctopus/track/internal/models"
	"github.com/rotisserie/eris"
)

// Range is a half-open time interval [From, To). A nil bound is unbounded.
type Range struct {
	From *time.Time
	To   *time.Time
}

// All returns the unbounded range
func All() Range {
	return Range{}
}

// Since returns the range starting at from with no upper bound
func Since(from time.Time) Range {
	return Range{From: &from}
}

// Until returns the range ending at to with no lower bound
func Until(to time.Time) Range {
	return Range{To: &to}
}

// Between returns the closed-open range [from, to)
func Between(from, to time.Time) (Range, error) {
	if !from.Before(to) {
		return Range{}, eris.Wrapf(ErrInvalidRange, "%s is not before %s", from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return Range{From: &from, To: &to}, nil
}

// IsUnbounded reports whether neither bound is set
func (r Range) IsUnbounded() bool {
	return r.From == nil && r.To == nil
}

// Validate checks that a doubly bounded range is not empty
func (r Range) Validate() error {
	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return eris.Wrapf(ErrInvalidRange, "%s is not before %s", r.From.Format(time.RFC3339), r.To.Format(time.RFC3339))
	}
	return nil
}

// Intersects is the single boundary rule shared by queries and statistics.
// A session [start, end) intersects the range when it starts before To and
// ends after From; an ongoing session ends at now. Sessions that merely touch
// a bound do not intersect.
func (r Range) Intersects(s models.Session, now time.Time) bool {
	if r.To != nil && !s.Start.Before(*r.To) {
		return false
	}
	if r.From != nil && !s.EffectiveEnd(now).After(*r.From) {
		return false
	}
	return true
}

// ClipInterval returns the part of the session that lies inside the range
func (r Range) ClipInterval(s models.Session, now time.Time) (time.Time, time.Time) {
	start, end := s.Start, s.EffectiveEnd(now)
	if r.From != nil && start.Before(*r.From) {
		start = *r.From
	}
	if r.To != nil && end.After(*r.To) {
		end = *r.To
	}
	if end.Before(start) {
		end = start
	}
	return start, end
}

// Clip returns how much of the session's duration falls inside the range
func (r Range) Clip(s models.Session, now time.Time) time.Duration {
	if !r.Intersects(s, now) {
		return 0
	}
	start, end := r.ClipInterval(s, now)
	return end.Sub(start)
}

// Resolve replaces unbounded ends with the first start and last end of the
// given chronologically ordered sessions. It reports false when a bound is
// missing and there is nothing to derive it from.
func (r Range) Resolve(sessions []models.Session, now time.Time) (time.Time, time.Time, bool) {
	var from, to time.Time
	if r.From != nil {
		from = *r.From
	} else if len(sessions) > 0 {
		from = sessions[0].Start
	} else {
		return time.Time{}, time.Time{}, false
	}

	if r.To != nil {
		to = *r.To
	} else if len(sessions) > 0 {
		to = sessions[len(sessions)-1].EffectiveEnd(now)
	} else {
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}

// Query returns the sessions intersecting the range, in ascending start
// order. Sessions crossing a bound are returned whole. Both ends are located
// by binary search; sessions never overlap, so ends are ordered like starts.
func (s *Store) Query(r Range) []models.Session {
	now := s.Now()
	n := len(s.sessions)

	lo := 0
	if r.From != nil {
		lo = sort.Search(n, func(i int) bool {
			return s.sessions[i].EffectiveEnd(now).After(*r.From)
		})
	}
	hi := n
	if r.To != nil {
		hi = sort.Search(n, func(i int) bool {
			return !s.sessions[i].Start.Before(*r.To)
		})
	}
	if hi <= lo {
		return nil
	}
	return cloneAll(s.sessions[lo:hi])
}
