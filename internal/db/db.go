package db

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/benoctopus/track/internal/models"
	"github.com/rotisserie/eris"
)

const selectedKey = "selected_activity"

// InitDB opens the database and brings its schema up to date
func InitDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open database: %s", dbPath)
	}

	// One connection keeps the pragma below in effect for every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to set busy timeout")
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to ping database")
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to run migrations")
	}

	return db, nil
}

// ==================== Snapshot ====================

// LoadSnapshot reads every activity, the selected activity and every session.
// Sessions come back in ascending start order.
func LoadSnapshot(ctx context.Context, db *sql.DB) (models.Snapshot, error) {
	var snapshot models.Snapshot

	activities, err := GetAllActivities(ctx, db)
	if err != nil {
		return snapshot, err
	}
	snapshot.Activities = activities

	selected, err := GetSetting(ctx, db, selectedKey)
	if err != nil {
		return snapshot, err
	}
	snapshot.Selected = selected

	sessions, err := GetAllSessions(ctx, db)
	if err != nil {
		return snapshot, err
	}
	snapshot.Sessions = sessions

	return snapshot, nil
}

// SaveSnapshot replaces the stored state with the snapshot in one transaction.
// Either everything is written or nothing is.
func SaveSnapshot(ctx context.Context, db *sql.DB, snapshot models.Snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "failed to begin snapshot transaction")
	}

	if err := writeSnapshot(ctx, tx, snapshot); err != nil {
		//nolint:errcheck // Rollback in error path
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "failed to commit snapshot")
	}
	return nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, snapshot models.Snapshot) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions"); err != nil {
		return eris.Wrap(err, "failed to clear sessions")
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM activities"); err != nil {
		return eris.Wrap(err, "failed to clear activities")
	}

	for i, activity := range snapshot.Activities {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO activities (name, position, created_at) VALUES (?, ?, ?)",
			activity.Name, i, activity.CreatedAt.Unix(),
		)
		if err != nil {
			return eris.Wrapf(err, "failed to insert activity: %s", activity.Name)
		}
	}

	for _, session := range snapshot.Sessions {
		var end sql.NullInt64
		if session.End != nil {
			end = sql.NullInt64{Int64: session.End.Unix(), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO sessions (id, activity, start_at, end_at, notes) VALUES (?, ?, ?, ?, ?)",
			session.ID, session.Activity, session.Start.Unix(), end, session.Notes,
		)
		if err != nil {
			return eris.Wrapf(err, "failed to insert session with id: %d", session.ID)
		}
	}

	if err := setSetting(ctx, tx, selectedKey, snapshot.Selected); err != nil {
		return err
	}
	return nil
}

// ==================== Activities ====================

// GetAllActivities retrieves all activities in creation order
func GetAllActivities(ctx context.Context, db *sql.DB) ([]models.Activity, error) {
	rows, err := db.QueryContext(ctx, "SELECT name, created_at FROM activities ORDER BY position")
	if err != nil {
		return nil, eris.Wrap(err, "failed to query all activities")
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var activity models.Activity
		var createdAt int64
		if err := rows.Scan(&activity.Name, &createdAt); err != nil {
			return nil, eris.Wrap(err, "failed to scan activity row")
		}
		activity.CreatedAt = time.Unix(createdAt, 0)
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating activity rows")
	}

	return activities, nil
}

// ==================== Sessions ====================

// GetAllSessions retrieves all sessions ordered by start time
func GetAllSessions(ctx context.Context, db *sql.DB) ([]models.Session, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, activity, start_at, end_at, notes FROM sessions ORDER BY start_at, id",
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query all sessions")
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		var start int64
		var end sql.NullInt64
		if err := rows.Scan(&session.ID, &session.Activity, &start, &end, &session.Notes); err != nil {
			return nil, eris.Wrap(err, "failed to scan session row")
		}
		session.Start = time.Unix(start, 0)
		if end.Valid {
			session.End = models.TimePtr(time.Unix(end.Int64, 0))
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating session rows")
	}

	return sessions, nil
}

// ==================== Settings ====================

// GetSetting returns a setting's value, or "" when it is unset
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "failed to query setting: %s", key)
	}
	return value, nil
}

// setSetting stores a setting; an empty value deletes it
func setSetting(ctx context.Context, tx *sql.Tx, key, value string) error {
	if value == "" {
		if _, err := tx.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key); err != nil {
			return eris.Wrapf(err, "failed to clear setting: %s", key)
		}
		return nil
	}

	_, err := tx.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return eris.Wrapf(err, "failed to store setting: %s", key)
	}
	return nil
}
