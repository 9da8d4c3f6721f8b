package tracker

import (
	"context"
	"database/sql"
	"time"

	"github.com/benoctopus/track/internal/clock"
	"github.com/benoctopus/track/internal/config"
	"github.com/benoctopus/track/internal/db"
	"github.com/benoctopus/track/internal/lock"
	"github.com/benoctopus/track/internal/track"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Service runs commands against the persisted journal. Every mutation loads
// the snapshot, applies the change in memory and writes the result back while
// holding the data directory lock, so concurrent invocations never interleave.
type Service struct {
	config      *config.Config
	logger      *zap.Logger
	clock       clock.Clock
	lockTimeout time.Duration
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the wall clock
func WithClock(clk clock.Clock) Option {
	return func(s *Service) { s.clock = clk }
}

// WithLockTimeout changes how long Update waits for the lock
func WithLockTimeout(d time.Duration) Option {
	return func(s *Service) { s.lockTimeout = d }
}

// New creates a service for the given configuration
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		config:      cfg,
		logger:      logger,
		clock:       clock.System{},
		lockTimeout: lock.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the timezone used to read and print times
func (s *Service) Location() *time.Location {
	return s.config.Location()
}

// FuzzyFinder returns the configured interactive finder
func (s *Service) FuzzyFinder() string {
	return s.config.FuzzyFinder
}

// Now returns the service clock's current time in the configured timezone
func (s *Service) Now() time.Time {
	return s.clock.Now().Truncate(time.Second).In(s.Location())
}

// View loads the journal and passes it to fn. Changes made by fn are discarded.
func (s *Service) View(ctx context.Context, fn func(*track.Journal) error) error {
	return s.run(ctx, false, fn)
}

// Update loads the journal, passes it to fn and persists the result when fn
// succeeds. A failing fn leaves the stored state untouched.
func (s *Service) Update(ctx context.Context, fn func(*track.Journal) error) error {
	return s.run(ctx, true, fn)
}

func (s *Service) run(ctx context.Context, write bool, fn func(*track.Journal) error) error {
	if err := s.config.EnsureDataDir(); err != nil {
		return err
	}

	l, err := lock.Acquire(ctx, s.config.GetLockPath(), s.lockTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			s.logger.Warn("failed to release lock", zap.String("path", l.Path()), zap.Error(err))
		}
	}()
	s.logger.Debug("lock acquired", zap.String("path", l.Path()))

	database, err := db.InitDB(ctx, s.config.GetDBPath())
	if err != nil {
		return err
	}
	defer database.Close()

	journal, err := s.load(ctx, database)
	if err != nil {
		return err
	}

	if err := fn(journal); err != nil {
		s.logger.Debug("command rejected", zap.Error(err))
		return err
	}
	if !write {
		return nil
	}

	snapshot := journal.Snapshot()
	if err := db.SaveSnapshot(ctx, database, snapshot); err != nil {
		return eris.Wrap(err, "failed to save journal")
	}
	s.logger.Debug("journal saved",
		zap.Int("activities", len(snapshot.Activities)),
		zap.Int("sessions", len(snapshot.Sessions)),
	)
	return nil
}

func (s *Service) load(ctx context.Context, database *sql.DB) (*track.Journal, error) {
	snapshot, err := db.LoadSnapshot(ctx, database)
	if err != nil {
		return nil, eris.Wrap(err, "failed to load journal")
	}
	s.logger.Debug("journal loaded",
		zap.String("db", s.config.GetDBPath()),
		zap.Int("activities", len(snapshot.Activities)),
		zap.Int("sessions", len(snapshot.Sessions)),
	)

	journal, err := track.Open(snapshot, s.clock, s.config.DeletePolicy)
	if err != nil {
		return nil, eris.Wrapf(err, "journal %s is inconsistent", s.config.GetDBPath())
	}
	return journal, nil
}
