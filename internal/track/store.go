package track

import (
	"sort"
	"time"

	"github.com/benoctopus/track/internal/clock"
	"github.com/benoctopus/track/internal/models"
	"github.com/rotisserie/eris"
)

// State is the store-wide tracking state
type State int

const (
	// Idle means no session is ongoing
	Idle State = iota
	// Tracking means exactly one session is ongoing
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

// ActivitySet answers whether an activity name is known
type ActivitySet interface {
	Exists(name string) bool
}

// Edit describes changes to apply to a session. Nil fields are left unchanged.
type Edit struct {
	Activity *string
	Start    *time.Time
	End      *time.Time
	Notes    *string
}

// IsEmpty reports whether the edit changes nothing
func (e Edit) IsEmpty() bool {
	return e.Activity == nil && e.Start == nil && e.End == nil && e.Notes == nil
}

// Store holds all sessions in ascending start order and guarantees that no
// two sessions overlap and that at most one session, the last one, is ongoing.
type Store struct {
	sessions   []models.Session
	ongoing    int64 // ID of the ongoing session, 0 while idle
	nextID     int64
	activities ActivitySet
	clock      clock.Clock
}

// NewStore loads sessions into a store, sorting them once by start time.
// A snapshot that violates the store invariants is rejected.
func NewStore(sessions []models.Session, activities ActivitySet, clk clock.Clock) (*Store, error) {
	if clk == nil {
		clk = clock.System{}
	}
	s := &Store{
		sessions:   make([]models.Session, 0, len(sessions)),
		activities: activities,
		clock:      clk,
		nextID:     1,
	}

	seen := make(map[int64]bool, len(sessions))
	for _, session := range sessions {
		session = session.Clone()
		session.Start = truncate(session.Start)
		if session.End != nil {
			end := truncate(*session.End)
			session.End = &end
		}
		if session.ID > 0 {
			if seen[session.ID] {
				return nil, eris.Errorf("corrupt store: duplicate session id %d", session.ID)
			}
			seen[session.ID] = true
			if session.ID >= s.nextID {
				s.nextID = session.ID + 1
			}
		}
		s.sessions = append(s.sessions, session)
	}
	for i := range s.sessions {
		if s.sessions[i].ID <= 0 {
			s.sessions[i].ID = s.allocateID()
		}
	}

	sort.SliceStable(s.sessions, func(i, j int) bool {
		return s.sessions[i].Start.Before(s.sessions[j].Start)
	})

	for i, session := range s.sessions {
		if session.End != nil && !session.End.After(session.Start) {
			return nil, eris.Wrapf(ErrInvalidInterval, "corrupt store: session %d", session.ID)
		}
		if session.IsOngoing() {
			if s.ongoing != 0 {
				return nil, eris.Wrapf(ErrOngoingConflict, "corrupt store: sessions %d and %d are both ongoing", s.ongoing, session.ID)
			}
			s.ongoing = session.ID
		}
		if i > 0 {
			prev := s.sessions[i-1]
			if prev.End == nil || prev.End.After(session.Start) {
				return nil, eris.Wrapf(ErrOverlap, "corrupt store: sessions %d and %d overlap", prev.ID, session.ID)
			}
		}
	}

	return s, nil
}

// State reports whether a session is currently ongoing
func (s *Store) State() State {
	if s.ongoing != 0 {
		return Tracking
	}
	return Idle
}

// Now returns the store clock's current time
func (s *Store) Now() time.Time {
	return truncate(s.clock.Now())
}

// Len returns the number of sessions in the store
func (s *Store) Len() int {
	return len(s.sessions)
}

// Sessions returns a copy of every session in ascending start order
func (s *Store) Sessions() []models.Session {
	return cloneAll(s.sessions)
}

// Get returns the session with the given id
func (s *Store) Get(id int64) (models.Session, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Session{}, eris.Wrapf(ErrNotFound, "session %d", id)
	}
	return s.sessions[i].Clone(), nil
}

// Last returns the latest-starting session
func (s *Store) Last() (models.Session, bool) {
	if len(s.sessions) == 0 {
		return models.Session{}, false
	}
	return s.sessions[len(s.sessions)-1].Clone(), true
}

// Ongoing returns the ongoing session, if any
func (s *Store) Ongoing() (models.Session, bool) {
	if s.ongoing == 0 {
		return models.Session{}, false
	}
	session, err := s.Get(s.ongoing)
	return session, err == nil
}

// Start opens a new ongoing session at the given time
func (s *Store) Start(activity string, at time.Time) (models.Session, error) {
	if err := s.checkActivity(activity); err != nil {
		return models.Session{}, err
	}
	if s.ongoing != 0 {
		return models.Session{}, eris.Wrapf(ErrOngoingConflict, "session %d is ongoing", s.ongoing)
	}

	at = truncate(at)
	if other, ok := s.conflict(at, nil, -1); ok {
		return models.Session{}, eris.Wrapf(ErrOverlap, "start conflicts with session %d", other.ID)
	}

	session := models.Session{ID: s.allocateID(), Activity: activity, Start: at}
	s.insert(session)
	s.ongoing = session.ID
	return session.Clone(), nil
}

// End closes the ongoing session at the given time
func (s *Store) End(at time.Time, notes string) (models.Session, error) {
	if s.ongoing == 0 {
		return models.Session{}, ErrNoOngoing
	}
	i := s.indexOf(s.ongoing)

	at = truncate(at)
	if !at.After(s.sessions[i].Start) {
		return models.Session{}, eris.Wrapf(ErrInvalidEnd, "session %d started at %s", s.ongoing, s.sessions[i].Start.Format(time.RFC3339))
	}

	s.sessions[i].End = &at
	if notes != "" {
		s.sessions[i].Notes = notes
	}
	s.ongoing = 0
	return s.sessions[i].Clone(), nil
}

// Cancel discards the ongoing session
func (s *Store) Cancel() (models.Session, error) {
	if s.ongoing == 0 {
		return models.Session{}, ErrNoOngoing
	}
	return s.Remove(s.ongoing)
}

// Add inserts a closed session at its chronological position
func (s *Store) Add(activity string, start, end time.Time, notes string) (models.Session, error) {
	if err := s.checkActivity(activity); err != nil {
		return models.Session{}, err
	}

	start, end = truncate(start), truncate(end)
	if err := s.checkClosed(start, end); err != nil {
		return models.Session{}, err
	}
	if other, ok := s.conflict(start, &end, -1); ok {
		return models.Session{}, eris.Wrapf(ErrOverlap, "session conflicts with session %d", other.ID)
	}

	session := models.Session{ID: s.allocateID(), Activity: activity, Start: start, End: &end, Notes: notes}
	s.insert(session)
	return session.Clone(), nil
}

// Past records a closed session running from start until now
func (s *Store) Past(activity string, start time.Time, notes string) (models.Session, error) {
	return s.Add(activity, start, s.Now(), notes)
}

// Edit applies changes to a session. The changes are validated against every
// other session before anything is written, so a failed edit leaves the store
// untouched.
func (s *Store) Edit(id int64, edit Edit) (models.Session, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Session{}, eris.Wrapf(ErrNotFound, "session %d", id)
	}
	current := s.sessions[i]
	next := current.Clone()

	if edit.Activity != nil {
		if err := s.checkActivity(*edit.Activity); err != nil {
			return models.Session{}, err
		}
		next.Activity = *edit.Activity
	}
	if edit.Start != nil {
		next.Start = truncate(*edit.Start)
	}
	if edit.End != nil {
		if current.IsOngoing() {
			return models.Session{}, eris.Wrapf(ErrInvalidEnd, "session %d is ongoing; end or cancel it instead", id)
		}
		end := truncate(*edit.End)
		next.End = &end
	}
	if edit.Notes != nil {
		next.Notes = *edit.Notes
	}

	if next.End != nil {
		if !next.End.After(next.Start) {
			return models.Session{}, eris.Wrapf(ErrInvalidInterval, "session %d", id)
		}
		if (edit.Start != nil || edit.End != nil) && next.End.After(s.Now()) {
			return models.Session{}, eris.Wrapf(ErrInvalidInterval, "session %d cannot end in the future", id)
		}
	}
	if other, ok := s.conflict(next.Start, next.End, i); ok {
		return models.Session{}, eris.Wrapf(ErrOverlap, "session %d would overlap session %d", id, other.ID)
	}

	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	s.insert(next)
	return next.Clone(), nil
}

// Remove deletes a session. Removing the ongoing session cancels it.
func (s *Store) Remove(id int64) (models.Session, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Session{}, eris.Wrapf(ErrNotFound, "session %d", id)
	}
	removed := s.sessions[i]
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	if removed.ID == s.ongoing {
		s.ongoing = 0
	}
	return removed, nil
}

// CountActivity returns how many sessions reference an activity
func (s *Store) CountActivity(name string) int {
	count := 0
	for _, session := range s.sessions {
		if session.Activity == name {
			count++
		}
	}
	return count
}

// RenameActivity points every session of one activity at a new name
func (s *Store) RenameActivity(from, to string) int {
	count := 0
	for i := range s.sessions {
		if s.sessions[i].Activity == from {
			s.sessions[i].Activity = to
			count++
		}
	}
	return count
}

// RemoveActivity deletes every session of an activity and returns them
func (s *Store) RemoveActivity(name string) []models.Session {
	var removed []models.Session
	kept := s.sessions[:0]
	for _, session := range s.sessions {
		if session.Activity == name {
			removed = append(removed, session)
			if session.ID == s.ongoing {
				s.ongoing = 0
			}
			continue
		}
		kept = append(kept, session)
	}
	s.sessions = kept
	return removed
}

// conflict locates where a session spanning [start, end) would sit and
// compares it with its immediate neighbours only. A nil end means the
// candidate is open ended. The session at index skip is ignored.
func (s *Store) conflict(start time.Time, end *time.Time, skip int) (models.Session, bool) {
	i := s.position(start)

	prev := i - 1
	if prev == skip {
		prev--
	}
	if prev >= 0 {
		p := s.sessions[prev]
		if p.End == nil || p.End.After(start) {
			return p, true
		}
	}

	next := i
	if next == skip {
		next++
	}
	if next < len(s.sessions) {
		n := s.sessions[next]
		if end == nil || n.Start.Before(*end) {
			return n, true
		}
	}

	return models.Session{}, false
}

// position returns the index of the first session starting at or after t
func (s *Store) position(t time.Time) int {
	return sort.Search(len(s.sessions), func(i int) bool {
		return !s.sessions[i].Start.Before(t)
	})
}

func (s *Store) insert(session models.Session) {
	i := s.position(session.Start)
	s.sessions = append(s.sessions, models.Session{})
	copy(s.sessions[i+1:], s.sessions[i:])
	s.sessions[i] = session
}

func (s *Store) indexOf(id int64) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) allocateID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) checkActivity(name string) error {
	if s.activities != nil && !s.activities.Exists(name) {
		return eris.Wrapf(ErrUnknownActivity, "activity %q", name)
	}
	return nil
}

func (s *Store) checkClosed(start, end time.Time) error {
	if !end.After(start) {
		return eris.Wrapf(ErrInvalidInterval, "start %s, end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if end.After(s.Now()) {
		return eris.Wrap(ErrInvalidInterval, "session cannot end in the future")
	}
	return nil
}

func truncate(t time.Time) time.Time {
	return t.Truncate(time.Second)
}

func cloneAll(sessions []models.Session) []models.Session {
	out := make([]models.Session, len(sessions))
	for i, session := range sessions {
		out[i] = session.Clone()
	}
	return out
}
