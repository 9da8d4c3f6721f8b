package track

import (
	"github.com/benoctopus/track/internal/clock"
	"github.com/benoctopus/track/internal/models"
	"github.com/rotisserie/eris"
)

// DeletionPolicy decides what happens to sessions of a deleted activity
type DeletionPolicy string

const (
	// DeleteReject refuses to delete an activity that still has sessions
	DeleteReject DeletionPolicy = "reject"
	// DeleteCascade deletes the activity's sessions along with it
	DeleteCascade DeletionPolicy = "cascade"
	// DeleteOrphan keeps the sessions, leaving them with a dangling name
	DeleteOrphan DeletionPolicy = "orphan"
)

// ParseDeletionPolicy validates a policy name. Empty means DeleteReject.
func ParseDeletionPolicy(s string) (DeletionPolicy, error) {
	switch DeletionPolicy(s) {
	case "", DeleteReject:
		return DeleteReject, nil
	case DeleteCascade, DeleteOrphan:
		return DeletionPolicy(s), nil
	}
	return "", eris.Errorf("invalid delete policy: %s (must be one of: reject, cascade, orphan)", s)
}

// Journal ties the activity registry to the session store so activity
// renames and deletions stay consistent with the sessions referencing them.
type Journal struct {
	Registry *Registry
	Store    *Store
	Policy   DeletionPolicy
}

// Open materializes a journal from a persisted snapshot
func Open(snapshot models.Snapshot, clk clock.Clock, policy DeletionPolicy) (*Journal, error) {
	if clk == nil {
		clk = clock.System{}
	}
	registry := NewRegistry(snapshot.Activities, snapshot.Selected)
	store, err := NewStore(snapshot.Sessions, registry, clk)
	if err != nil {
		return nil, eris.Wrap(err, "failed to load sessions")
	}
	if policy == "" {
		policy = DeleteReject
	}
	return &Journal{Registry: registry, Store: store, Policy: policy}, nil
}

// Snapshot returns the state to persist, with sessions in start order
func (j *Journal) Snapshot() models.Snapshot {
	selected, _ := j.Registry.Selected()
	return models.Snapshot{
		Activities: j.Registry.Activities(),
		Selected:   selected,
		Sessions:   j.Store.Sessions(),
	}
}

// CreateActivity registers and selects a new activity
func (j *Journal) CreateActivity(name string) (models.Activity, error) {
	return j.Registry.Create(name, j.Store.Now())
}

// RenameActivity renames an activity and every session referencing it.
// It returns the number of sessions that moved.
func (j *Journal) RenameActivity(from, to string) (int, error) {
	to, err := NormalizeName(to)
	if err != nil {
		return 0, err
	}
	if err := j.Registry.Rename(from, to); err != nil {
		return 0, err
	}
	return j.Store.RenameActivity(from, to), nil
}

// CanDelete reports whether the activity can be deleted under the policy
func (j *Journal) CanDelete(name string) bool {
	if !j.Registry.Exists(name) {
		return false
	}
	return j.Policy != DeleteReject || j.Store.CountActivity(name) == 0
}

// DeleteActivity removes an activity according to the deletion policy and
// returns any sessions deleted with it.
func (j *Journal) DeleteActivity(name string) ([]models.Session, error) {
	if !j.Registry.Exists(name) {
		return nil, eris.Wrapf(ErrUnknownActivity, "activity %q", name)
	}

	var removed []models.Session
	switch j.Policy {
	case DeleteCascade:
		removed = j.Store.RemoveActivity(name)
	case DeleteOrphan:
	default:
		if count := j.Store.CountActivity(name); count > 0 {
			return nil, eris.Wrapf(ErrActivityInUse, "activity %q has %d sessions", name, count)
		}
	}

	if err := j.Registry.Delete(name); err != nil {
		return nil, err
	}
	return removed, nil
}
