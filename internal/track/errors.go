package track

import "github.com/rotisserie/eris"

// Failure kinds reported by the session store. Every failed operation returns
// exactly one of these, possibly wrapped with context; match with eris.Is.
var (
	ErrInvalidInterval = eris.New("session must end after it starts")
	ErrOverlap         = eris.New("session overlaps an existing session")
	ErrOngoingConflict = eris.New("a session is already ongoing")
	ErrNoOngoing       = eris.New("there is no ongoing session")
	ErrInvalidEnd      = eris.New("ongoing session must end after it starts")
	ErrNotFound        = eris.New("not found")
	ErrUnknownActivity = eris.New("unknown activity")
)

// Activity registry and range failures.
var (
	ErrInvalidName    = eris.New("activity name must not be empty")
	ErrActivityExists = eris.New("an activity with this name already exists")
	ErrActivityInUse  = eris.New("activity still has recorded sessions")
	ErrNoSelection    = eris.New("no activity selected")
	ErrInvalidRange   = eris.New("start of range must be before its end")
)

// Kind classifies an error for callers that translate failures into output
// and exit statuses.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInterval
	KindOverlap
	KindOngoingConflict
	KindNoOngoing
	KindInvalidEnd
	KindNotFound
	KindUnknownActivity
	KindActivity
	KindInvalidRange
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidInterval, KindInvalidInterval},
	{ErrOverlap, KindOverlap},
	{ErrOngoingConflict, KindOngoingConflict},
	{ErrNoOngoing, KindNoOngoing},
	{ErrInvalidEnd, KindInvalidEnd},
	{ErrNotFound, KindNotFound},
	{ErrUnknownActivity, KindUnknownActivity},
	{ErrInvalidName, KindActivity},
	{ErrActivityExists, KindActivity},
	{ErrActivityInUse, KindActivity},
	{ErrNoSelection, KindActivity},
	{ErrInvalidRange, KindInvalidRange},
}

// KindOf returns the failure kind carried by err, or KindUnknown
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		if eris.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
