package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/benoctopus/track/internal/display"
	"github.com/benoctopus/track/internal/models"
	"github.com/benoctopus/track/internal/timespec"
	"github.com/benoctopus/track/internal/track"
	"github.com/rotisserie/eris"
)

// position refers to a session on the command line: an id, or the latest
// session when id is zero
type position struct {
	id int64
}

// parsePosition reads "last" or a positive session id
func parsePosition(arg string) (position, error) {
	if strings.EqualFold(arg, "last") {
		return position{}, nil
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return position{}, usagef("session must be \"last\" or a positive id, got %q", arg)
	}
	return position{id: id}, nil
}

// resolve finds the referenced session
func (p position) resolve(store *track.Store) (models.Session, error) {
	if p.id != 0 {
		return store.Get(p.id)
	}
	session, ok := store.Last()
	if !ok {
		return models.Session{}, eris.Wrap(track.ErrNotFound, "no sessions recorded")
	}
	return session, nil
}

func (p position) String() string {
	if p.id == 0 {
		return "last"
	}
	return strconv.FormatInt(p.id, 10)
}

// parseSpec parses an optional time specifier flag
func parseSpec(flag, value string) (*timespec.Spec, error) {
	if value == "" {
		return nil, nil
	}
	spec, err := timespec.Parse(value)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid --%s", flag)
	}
	return &spec, nil
}

// notFuture rejects a session end later than now
func notFuture(end, now time.Time) error {
	if end.After(now) {
		return eris.Wrap(track.ErrInvalidInterval, "session cannot end in the future")
	}
	return nil
}

// sessionLine renders a session with its id and activity
func sessionLine(out display.Printer, s models.Session, now time.Time, loc *time.Location) string {
	return fmt.Sprintf("%3d. %s %s", s.ID, out.Activity(s.Activity), display.FormatSession(s, now, loc))
}
