package models

import "time"

// Activity represents a named category of tracked work
type Activity struct {
	Name      string    `json:"name"`       // Unique, non-empty identifier
	CreatedAt time.Time `json:"created_at"` // When the activity was created
}

// Session represents one continuous span of tracked time
type Session struct {
	ID       int64      `json:"id"`            // Store-assigned identifier
	Activity string     `json:"activity"`      // Name of the Activity the session belongs to
	Start    time.Time  `json:"start"`         // When the session started
	End      *time.Time `json:"end,omitempty"` // nil while the session is ongoing
	Notes    string     `json:"notes,omitempty"`
}

// IsOngoing reports whether the session has not been terminated yet
func (s Session) IsOngoing() bool {
	return s.End == nil
}

// EffectiveEnd returns the end used for duration computations.
// An ongoing session ends "now", but never before it started.
func (s Session) EffectiveEnd(now time.Time) time.Time {
	if s.End != nil {
		return *s.End
	}
	if now.Before(s.Start) {
		return s.Start
	}
	return now
}

// Duration returns the length of the session, measuring ongoing sessions up to now
func (s Session) Duration(now time.Time) time.Duration {
	return s.EffectiveEnd(now).Sub(s.Start)
}

// Clone returns a deep copy of the session
func (s Session) Clone() Session {
	if s.End != nil {
		end := *s.End
		s.End = &end
	}
	return s
}

// Snapshot is the persisted state exchanged with the storage layer
type Snapshot struct {
	Activities []Activity `json:"activities"`
	Selected   string     `json:"selected,omitempty"` // Activity used when none is named
	Sessions   []Session  `json:"sessions"`           // Ascending start order
}

// TimePtr returns a pointer to t
func TimePtr(t time.Time) *time.Time {
	return &t
}
