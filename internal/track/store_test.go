package track

import (
	"math/rand"
	"testing"
	"time"

	"github.com/benoctopus/track/internal/clock"
	"github.com/benoctopus/track/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/rotisserie/eris"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// at returns epoch plus the given number of seconds
func at(sec int) time.Time {
	return epoch.Add(time.Duration(sec) * time.Second)
}

func ptr[T any](v T) *T {
	return &v
}

type activityNames map[string]bool

func (n activityNames) Exists(name string) bool { return n[name] }

// setupStore creates an empty store whose clock reads now
func setupStore(t *testing.T, now int) *Store {
	t.Helper()

	activities := activityNames{"reading": true, "writing": true, "gym": true, "call": true, "email": true, "a": true, "b": true}
	store, err := NewStore(nil, activities, clock.Fixed(at(now)))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return store
}

func mustAdd(t *testing.T, s *Store, activity string, start, end int) models.Session {
	t.Helper()

	session, err := s.Add(activity, at(start), at(end), "")
	if err != nil {
		t.Fatalf("Add(%q, %d, %d) failed: %v", activity, start, end, err)
	}
	return session
}

func TestStartTwiceIsOngoingConflict(t *testing.T) {
	s := setupStore(t, 1000)

	if _, err := s.Start("reading", at(0)); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	_, err := s.Start("reading", at(5))
	if !eris.Is(err, ErrOngoingConflict) {
		t.Fatalf("second Start() error = %v, want ErrOngoingConflict", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStartBeforePreviousEndOverlaps(t *testing.T) {
	s := setupStore(t, 1000)
	mustAdd(t, s, "gym", 10, 20)

	_, err := s.Start("reading", at(15))
	if !eris.Is(err, ErrOverlap) {
		t.Fatalf("Start() inside closed session error = %v, want ErrOverlap", err)
	}

	_, err = s.Start("reading", at(5))
	if !eris.Is(err, ErrOverlap) {
		t.Fatalf("Start() before a later session error = %v, want ErrOverlap", err)
	}

	if _, err := s.Start("reading", at(20)); err != nil {
		t.Fatalf("Start() at previous end failed: %v", err)
	}
	if s.State() != Tracking {
		t.Errorf("State() = %v, want %v", s.State(), Tracking)
	}
}

func TestStartUnknownActivity(t *testing.T) {
	s := setupStore(t, 1000)

	_, err := s.Start("knitting", at(0))
	if !eris.Is(err, ErrUnknownActivity) {
		t.Fatalf("Start() error = %v, want ErrUnknownActivity", err)
	}
	if s.State() != Idle {
		t.Errorf("State() = %v, want %v", s.State(), Idle)
	}
}

func TestStartEndThenCancel(t *testing.T) {
	s := setupStore(t, 1000)

	started, err := s.Start("writing", at(0))
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	ended, err := s.End(at(100), "chapter one")
	if err != nil {
		t.Fatalf("End() failed: %v", err)
	}
	if ended.ID != started.ID {
		t.Errorf("End() closed session %d, want %d", ended.ID, started.ID)
	}
	if !ended.Start.Equal(at(0)) || ended.End == nil || !ended.End.Equal(at(100)) {
		t.Errorf("End() session = [%v, %v), want [%v, %v)", ended.Start, ended.End, at(0), at(100))
	}
	if ended.Notes != "chapter one" {
		t.Errorf("Notes = %q, want %q", ended.Notes, "chapter one")
	}
	if s.State() != Idle {
		t.Errorf("State() = %v, want %v", s.State(), Idle)
	}

	if _, err := s.Cancel(); !eris.Is(err, ErrNoOngoing) {
		t.Errorf("Cancel() error = %v, want ErrNoOngoing", err)
	}
}

func TestEndValidation(t *testing.T) {
	s := setupStore(t, 1000)

	if _, err := s.End(at(10), ""); !eris.Is(err, ErrNoOngoing) {
		t.Fatalf("End() without ongoing error = %v, want ErrNoOngoing", err)
	}

	if _, err := s.Start("reading", at(50)); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	for _, end := range []int{50, 40} {
		if _, err := s.End(at(end), ""); !eris.Is(err, ErrInvalidEnd) {
			t.Errorf("End(%d) error = %v, want ErrInvalidEnd", end, err)
		}
	}
	if s.State() != Tracking {
		t.Errorf("failed End() changed state to %v", s.State())
	}
}

func TestCancelRemovesOngoing(t *testing.T) {
	s := setupStore(t, 1000)
	mustAdd(t, s, "gym", 0, 10)

	if _, err := s.Start("reading", at(10)); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	cancelled, err := s.Cancel()
	if err != nil {
		t.Fatalf("Cancel() failed: %v", err)
	}
	if cancelled.Activity != "reading" {
		t.Errorf("Cancel() removed %q, want %q", cancelled.Activity, "reading")
	}
	if s.Len() != 1 || s.State() != Idle {
		t.Errorf("after Cancel() Len() = %d, State() = %v; want 1, idle", s.Len(), s.State())
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		wantErr    error
	}{
		{name: "before everything", start: 0, end: 10},
		{name: "between sessions", start: 30, end: 40},
		{name: "touching both neighbours", start: 20, end: 50},
		{name: "after everything", start: 70, end: 80},
		{name: "zero length", start: 25, end: 25, wantErr: ErrInvalidInterval},
		{name: "negative length", start: 30, end: 25, wantErr: ErrInvalidInterval},
		{name: "overlaps predecessor end", start: 15, end: 25, wantErr: ErrOverlap},
		{name: "overlaps successor start", start: 45, end: 55, wantErr: ErrOverlap},
		{name: "contains a session", start: 5, end: 65, wantErr: ErrOverlap},
		{name: "inside a session", start: 52, end: 58, wantErr: ErrOverlap},
		{name: "same start", start: 10, end: 12, wantErr: ErrOverlap},
		{name: "ends in the future", start: 90, end: 2000, wantErr: ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupStore(t, 1000)
			mustAdd(t, s, "a", 10, 20)
			mustAdd(t, s, "b", 50, 60)
			before := s.Sessions()

			_, err := s.Add("gym", at(tt.start), at(tt.end), "")
			if tt.wantErr != nil {
				if !eris.Is(err, tt.wantErr) {
					t.Fatalf("Add() error = %v, want %v", err, tt.wantErr)
				}
				if diff := cmp.Diff(before, s.Sessions()); diff != "" {
					t.Errorf("failed Add() changed the store (-before +after):\n%s", diff)
				}
				return
			}
			if err != nil {
				t.Fatalf("Add() failed: %v", err)
			}
			assertSorted(t, s)
		})
	}
}

func TestAddAgainstOngoing(t *testing.T) {
	s := setupStore(t, 1000)
	if _, err := s.Start("reading", at(100)); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if _, err := s.Add("gym", at(150), at(200), ""); !eris.Is(err, ErrOverlap) {
		t.Errorf("Add() after ongoing start error = %v, want ErrOverlap", err)
	}
	if _, err := s.Add("gym", at(50), at(100), ""); err != nil {
		t.Errorf("Add() ending at ongoing start failed: %v", err)
	}
}

func TestPastThenStartAtSameInstant(t *testing.T) {
	now := 500
	s := setupStore(t, now)

	past, err := s.Past("call", at(now-30), "")
	if err != nil {
		t.Fatalf("Past() failed: %v", err)
	}
	if !past.End.Equal(at(now)) {
		t.Errorf("Past() end = %v, want %v", past.End, at(now))
	}

	if _, err := s.Start("email", at(now)); err != nil {
		t.Fatalf("Start() adjacent to past session failed: %v", err)
	}
}

func TestEditOverlapLeavesSessionUnchanged(t *testing.T) {
	s := setupStore(t, 1000)
	gym := mustAdd(t, s, "gym", 10, 20)
	mustAdd(t, s, "a", 25, 30)

	_, err := s.Edit(gym.ID, Edit{End: ptr(at(28))})
	if !eris.Is(err, ErrOverlap) {
		t.Fatalf("Edit() error = %v, want ErrOverlap", err)
	}

	got, err := s.Get(gym.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if diff := cmp.Diff(gym, got); diff != "" {
		t.Errorf("failed Edit() changed the session (-want +got):\n%s", diff)
	}
}

func TestEditStartIntoOccupiedInterval(t *testing.T) {
	s := setupStore(t, 1000)
	other := mustAdd(t, s, "a", 0, 10)
	gym := mustAdd(t, s, "gym", 10, 20)
	before := s.Sessions()

	if _, err := s.Edit(gym.ID, Edit{Start: ptr(at(5))}); !eris.Is(err, ErrOverlap) {
		t.Fatalf("Edit() error = %v, want ErrOverlap", err)
	}
	if diff := cmp.Diff(before, s.Sessions()); diff != "" {
		t.Errorf("failed Edit() changed the store (-before +after):\n%s", diff)
	}

	edited, err := s.Edit(other.ID, Edit{Start: ptr(at(2)), Activity: ptr("b")})
	if err != nil {
		t.Fatalf("Edit() failed: %v", err)
	}
	if edited.Activity != "b" || !edited.Start.Equal(at(2)) {
		t.Errorf("Edit() = %+v, want activity b starting at %v", edited, at(2))
	}
}

func TestEditMovesSessionPosition(t *testing.T) {
	s := setupStore(t, 1000)
	first := mustAdd(t, s, "a", 0, 10)
	mustAdd(t, s, "b", 20, 30)

	if _, err := s.Edit(first.ID, Edit{Start: ptr(at(40)), End: ptr(at(50))}); err != nil {
		t.Fatalf("Edit() failed: %v", err)
	}
	assertSorted(t, s)

	last, ok := s.Last()
	if !ok || last.ID != first.ID {
		t.Errorf("Last() = %d, want %d", last.ID, first.ID)
	}
}

func TestEditSelfExclusion(t *testing.T) {
	s := setupStore(t, 1000)
	session := mustAdd(t, s, "a", 10, 20)

	// Shrinking and growing within its own old span must not conflict with itself.
	if _, err := s.Edit(session.ID, Edit{Start: ptr(at(12)), End: ptr(at(25))}); err != nil {
		t.Fatalf("Edit() failed: %v", err)
	}
}

func TestEditValidation(t *testing.T) {
	s := setupStore(t, 1000)
	closed := mustAdd(t, s, "a", 10, 20)
	ongoing, err := s.Start("b", at(30))
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	tests := []struct {
		name    string
		id      int64
		edit    Edit
		wantErr error
	}{
		{name: "missing session", id: 99, edit: Edit{Notes: ptr("x")}, wantErr: ErrNotFound},
		{name: "end before start", id: closed.ID, edit: Edit{End: ptr(at(5))}, wantErr: ErrInvalidInterval},
		{name: "unknown activity", id: closed.ID, edit: Edit{Activity: ptr("nope")}, wantErr: ErrUnknownActivity},
		{name: "end in the future", id: closed.ID, edit: Edit{End: ptr(at(5000))}, wantErr: ErrInvalidInterval},
		{name: "end of ongoing", id: ongoing.ID, edit: Edit{End: ptr(at(40))}, wantErr: ErrInvalidEnd},
		{name: "ongoing start before closed end", id: ongoing.ID, edit: Edit{Start: ptr(at(15))}, wantErr: ErrOverlap},
		{name: "closed moved after ongoing", id: closed.ID, edit: Edit{Start: ptr(at(40)), End: ptr(at(50))}, wantErr: ErrOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Sessions()
			_, err := s.Edit(tt.id, tt.edit)
			if !eris.Is(err, tt.wantErr) {
				t.Fatalf("Edit() error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(before, s.Sessions()); diff != "" {
				t.Errorf("failed Edit() changed the store (-before +after):\n%s", diff)
			}
		})
	}

	if _, err := s.Edit(ongoing.ID, Edit{Start: ptr(at(25))}); err != nil {
		t.Errorf("Edit() of ongoing start failed: %v", err)
	}
	if s.State() != Tracking {
		t.Errorf("State() = %v, want %v", s.State(), Tracking)
	}
}

func TestRemove(t *testing.T) {
	s := setupStore(t, 1000)
	closed := mustAdd(t, s, "a", 10, 20)
	ongoing, err := s.Start("b", at(30))
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if _, err := s.Remove(42); !eris.Is(err, ErrNotFound) {
		t.Errorf("Remove() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Remove(closed.ID); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, err := s.Remove(ongoing.ID); err != nil {
		t.Fatalf("Remove() of ongoing failed: %v", err)
	}
	if s.State() != Idle || s.Len() != 0 {
		t.Errorf("after Remove() State() = %v, Len() = %d; want idle, 0", s.State(), s.Len())
	}
	if _, err := s.Start("a", at(40)); err != nil {
		t.Errorf("Start() after removing ongoing failed: %v", err)
	}
}

func TestNewStoreSortsAndValidates(t *testing.T) {
	loaded, err := NewStore([]models.Session{
		{ID: 7, Activity: "b", Start: at(30)},
		{ID: 3, Activity: "a", Start: at(0), End: ptr(at(10))},
		{Activity: "a", Start: at(10), End: ptr(at(20))},
	}, nil, clock.Fixed(at(100)))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	assertSorted(t, loaded)

	ongoing, ok := loaded.Ongoing()
	if !ok || ongoing.ID != 7 {
		t.Errorf("Ongoing() = %d, %v; want 7, true", ongoing.ID, ok)
	}
	sessions := loaded.Sessions()
	if sessions[1].ID != 8 {
		t.Errorf("missing id assigned %d, want 8", sessions[1].ID)
	}

	corrupt := []struct {
		name     string
		sessions []models.Session
		wantErr  error
	}{
		{
			name: "overlap",
			sessions: []models.Session{
				{ID: 1, Start: at(0), End: ptr(at(10))},
				{ID: 2, Start: at(5), End: ptr(at(15))},
			},
			wantErr: ErrOverlap,
		},
		{
			name: "ongoing not last",
			sessions: []models.Session{
				{ID: 1, Start: at(0)},
				{ID: 2, Start: at(5), End: ptr(at(15))},
			},
			wantErr: ErrOverlap,
		},
		{
			name:     "empty interval",
			sessions: []models.Session{{ID: 1, Start: at(5), End: ptr(at(5))}},
			wantErr:  ErrInvalidInterval,
		},
	}
	for _, tt := range corrupt {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStore(tt.sessions, nil, clock.Fixed(at(100))); !eris.Is(err, tt.wantErr) {
				t.Errorf("NewStore() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestActivityBookkeeping(t *testing.T) {
	s := setupStore(t, 1000)
	mustAdd(t, s, "a", 0, 10)
	mustAdd(t, s, "b", 10, 20)
	if _, err := s.Start("a", at(30)); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if got := s.CountActivity("a"); got != 2 {
		t.Errorf("CountActivity() = %d, want 2", got)
	}
	if got := s.RenameActivity("b", "c"); got != 1 {
		t.Errorf("RenameActivity() = %d, want 1", got)
	}
	removed := s.RemoveActivity("a")
	if len(removed) != 2 {
		t.Errorf("RemoveActivity() removed %d sessions, want 2", len(removed))
	}
	if s.State() != Idle {
		t.Errorf("State() = %v after removing the ongoing activity, want idle", s.State())
	}
}

// TestRandomMutationsKeepInvariants drives the store with random operations
// and checks after every step that sessions are sorted, disjoint, and that
// at most one (the last) is ongoing.
func TestRandomMutationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := setupStore(t, 10_000)
	activities := []string{"a", "b", "gym"}

	for step := 0; step < 2000; step++ {
		activity := activities[rng.Intn(len(activities))]
		start := rng.Intn(9000)
		length := rng.Intn(200) - 10
		before := s.Sessions()

		var err error
		switch rng.Intn(6) {
		case 0:
			_, err = s.Start(activity, at(start))
		case 1:
			_, err = s.End(at(start), "")
		case 2:
			_, err = s.Cancel()
		case 3:
			_, err = s.Add(activity, at(start), at(start+length), "")
		case 4:
			if len(before) > 0 {
				target := before[rng.Intn(len(before))]
				edit := Edit{Start: ptr(at(start))}
				if !target.IsOngoing() {
					edit.End = ptr(at(start + length))
				}
				_, err = s.Edit(target.ID, edit)
			}
		case 5:
			if len(before) > 0 && rng.Intn(4) == 0 {
				_, err = s.Remove(before[rng.Intn(len(before))].ID)
			}
		}

		if err != nil {
			if diff := cmp.Diff(before, s.Sessions()); diff != "" {
				t.Fatalf("step %d: failed operation changed the store: %v\n%s", step, err, diff)
			}
		}
		assertInvariants(t, s)
	}
}

func assertSorted(t *testing.T, s *Store) {
	t.Helper()

	sessions := s.Sessions()
	for i := 1; i < len(sessions); i++ {
		if !sessions[i-1].Start.Before(sessions[i].Start) {
			t.Fatalf("sessions out of order at %d: %v then %v", i, sessions[i-1].Start, sessions[i].Start)
		}
	}
}

func assertInvariants(t *testing.T, s *Store) {
	t.Helper()

	assertSorted(t, s)
	sessions := s.Sessions()
	open := 0
	for i, session := range sessions {
		if session.IsOngoing() {
			open++
			if i != len(sessions)-1 {
				t.Fatalf("ongoing session %d is not the last session", session.ID)
			}
		} else if !session.End.After(session.Start) {
			t.Fatalf("session %d has non-positive length", session.ID)
		}
		if i > 0 && sessions[i-1].End.After(session.Start) {
			t.Fatalf("sessions %d and %d overlap", sessions[i-1].ID, session.ID)
		}
	}
	if open > 1 {
		t.Fatalf("%d sessions are ongoing", open)
	}
	if (open == 1) != (s.State() == Tracking) {
		t.Fatalf("State() = %v with %d ongoing sessions", s.State(), open)
	}
}
