//go:build integration
// +build integration

// Package integration contains end-to-end tests of the track journal: config
// resolution, locking, SQLite persistence and the session store together.
// These tests create isolated environments and do not touch the user's
// configuration or data.
//
// Run integration tests with:
//
//	go test -tags=integration -v ./integration/...
package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/benoctopus/track/internal/clock"
	"github.com/benoctopus/track/internal/config"
	"github.com/benoctopus/track/internal/logging"
	"github.com/benoctopus/track/internal/models"
	"github.com/benoctopus/track/internal/track"
	"github.com/benoctopus/track/internal/tracker"
)

// TestEnvironment holds the isolated test environment configuration
type TestEnvironment struct {
	// ConfigDir is the isolated config directory for this test
	ConfigDir string
	// DataDir is the isolated data directory holding the database and lock
	DataDir string
	// Now is the pinned wall clock handed to every service
	Now time.Time

	t *testing.T
}

// SetupTestEnvironment creates an isolated test environment that doesn't
// affect the global track configuration. Environment variables are restored
// when the test ends.
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	if runtime.GOOS != "linux" {
		t.Skip("config directory isolation relies on XDG variables")
	}

	tempDir := t.TempDir()
	env := &TestEnvironment{
		ConfigDir: filepath.Join(tempDir, "config", "track"),
		DataDir:   filepath.Join(tempDir, "data"),
		Now:       time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		t:         t,
	}

	if err := os.MkdirAll(env.ConfigDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Dir(env.ConfigDir))
	t.Setenv(config.EnvDataDir, env.DataDir)
	t.Setenv(config.EnvTimezone, "UTC")
	t.Setenv(config.EnvDeletePolicy, "")
	t.Setenv(config.EnvFuzzyFinder, "")
	t.Setenv(config.EnvLogLevel, "")

	return env
}

// WriteConfig writes config.yaml for the test environment
func (env *TestEnvironment) WriteConfig(content string) {
	env.t.Helper()
	path := filepath.Join(env.ConfigDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		env.t.Fatalf("failed to write config: %v", err)
	}
}

// LoadConfig loads configuration for the test environment
func (env *TestEnvironment) LoadConfig() *config.Config {
	env.t.Helper()
	cfg, err := config.LoadConfig()
	if err != nil {
		env.t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Service builds a fresh tracker service, as a new invocation would
func (env *TestEnvironment) Service(opts ...tracker.Option) *tracker.Service {
	env.t.Helper()
	cfg := env.LoadConfig()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		env.t.Fatalf("failed to create logger: %v", err)
	}
	opts = append([]tracker.Option{tracker.WithClock(clock.Fixed(env.Now))}, opts...)
	return tracker.New(cfg, logger, opts...)
}

// Update runs fn as a committed mutation
func (env *TestEnvironment) Update(fn func(*track.Journal) error) {
	env.t.Helper()
	if err := env.Service().Update(context.Background(), fn); err != nil {
		env.t.Fatalf("update failed: %v", err)
	}
}

// Snapshot returns the persisted state
func (env *TestEnvironment) Snapshot() models.Snapshot {
	env.t.Helper()
	var snapshot models.Snapshot
	err := env.Service().View(context.Background(), func(j *track.Journal) error {
		snapshot = j.Snapshot()
		return nil
	})
	if err != nil {
		env.t.Fatalf("view failed: %v", err)
	}
	return snapshot
}

// At returns the pinned day at hour:minute
func (env *TestEnvironment) At(hour, minute int) time.Time {
	y, m, d := env.Now.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}
