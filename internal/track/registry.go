package track

import (
	"strings"
	"time"

	"github.com/benoctopus/track/internal/models"
	"github.com/rotisserie/eris"
)

// Registry keeps the set of known activity names and the selected activity
type Registry struct {
	activities []models.Activity
	selected   string
}

// NewRegistry builds a registry from persisted activities. A selection that
// names an unknown activity is dropped.
func NewRegistry(activities []models.Activity, selected string) *Registry {
	r := &Registry{activities: make([]models.Activity, 0, len(activities))}
	for _, a := range activities {
		if a.Name == "" || r.Exists(a.Name) {
			continue
		}
		r.activities = append(r.activities, a)
	}
	if r.Exists(selected) {
		r.selected = selected
	}
	return r
}

// NormalizeName trims surrounding whitespace from an activity name
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// Exists reports whether an activity with the given name is registered
func (r *Registry) Exists(name string) bool {
	return r.index(name) >= 0
}

// Create registers a new activity and selects it
func (r *Registry) Create(name string, at time.Time) (models.Activity, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return models.Activity{}, err
	}
	if r.Exists(name) {
		return models.Activity{}, eris.Wrapf(ErrActivityExists, "activity %q", name)
	}

	activity := models.Activity{Name: name, CreatedAt: at}
	r.activities = append(r.activities, activity)
	r.selected = name
	return activity, nil
}

// Rename changes an activity's name, keeping the selection in step
func (r *Registry) Rename(from, to string) error {
	to, err := NormalizeName(to)
	if err != nil {
		return err
	}
	i := r.index(from)
	if i < 0 {
		return eris.Wrapf(ErrUnknownActivity, "activity %q", from)
	}
	if from == to {
		return nil
	}
	if r.Exists(to) {
		return eris.Wrapf(ErrActivityExists, "activity %q", to)
	}

	r.activities[i].Name = to
	if r.selected == from {
		r.selected = to
	}
	return nil
}

// Delete unregisters an activity, clearing the selection if it pointed at it
func (r *Registry) Delete(name string) error {
	i := r.index(name)
	if i < 0 {
		return eris.Wrapf(ErrUnknownActivity, "activity %q", name)
	}
	r.activities = append(r.activities[:i], r.activities[i+1:]...)
	if r.selected == name {
		r.selected = ""
	}
	return nil
}

// Select marks an activity as the default for commands that omit one
func (r *Registry) Select(name string) error {
	if !r.Exists(name) {
		return eris.Wrapf(ErrUnknownActivity, "activity %q", name)
	}
	r.selected = name
	return nil
}

// Selected returns the selected activity name, if any
func (r *Registry) Selected() (string, bool) {
	return r.selected, r.selected != ""
}

// Resolve returns name when given, otherwise the selected activity
func (r *Registry) Resolve(name string) (string, error) {
	if name = strings.TrimSpace(name); name != "" {
		if !r.Exists(name) {
			return "", eris.Wrapf(ErrUnknownActivity, "activity %q", name)
		}
		return name, nil
	}
	if r.selected == "" {
		return "", ErrNoSelection
	}
	return r.selected, nil
}

// Names returns activity names in creation order
func (r *Registry) Names() []string {
	names := make([]string, len(r.activities))
	for i, a := range r.activities {
		names[i] = a.Name
	}
	return names
}

// Activities returns a copy of the registered activities
func (r *Registry) Activities() []models.Activity {
	return append([]models.Activity(nil), r.activities...)
}

func (r *Registry) index(name string) int {
	for i, a := range r.activities {
		if a.Name == name {
			return i
		}
	}
	return -1
}
