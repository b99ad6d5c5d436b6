package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: override ledger and compliance results",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS override_events (
					id TEXT PRIMARY KEY,
					coi_id TEXT NOT NULL,
					deficiency_key TEXT NOT NULL,
					kind TEXT NOT NULL,
					actor TEXT NOT NULL,
					reason TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					seq INTEGER
				)`,
				`CREATE INDEX idx_override_events_coi ON override_events(coi_id)`,
				`CREATE INDEX idx_override_events_key ON override_events(coi_id, deficiency_key)`,

				`CREATE TABLE IF NOT EXISTS compliance_results (
					id TEXT PRIMARY KEY,
					coi_id TEXT NOT NULL,
					project_id TEXT,
					compliant INTEGER NOT NULL,
					overall_status TEXT,
					result_json TEXT NOT NULL,
					validated_at DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_compliance_results_coi ON compliance_results(coi_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Order override events by insertion sequence",
		Up: func(tx *sql.Tx) error {
			// created_at has second granularity; two admins acting in
			// the same second need a total order for visibility folds.
			queries := []string{
				`CREATE TABLE IF NOT EXISTS override_events_new (
					seq INTEGER PRIMARY KEY AUTOINCREMENT,
					id TEXT UNIQUE NOT NULL,
					coi_id TEXT NOT NULL,
					deficiency_key TEXT NOT NULL,
					kind TEXT NOT NULL,
					actor TEXT NOT NULL,
					reason TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`INSERT INTO override_events_new (id, coi_id, deficiency_key, kind, actor, reason, created_at)
					SELECT id, coi_id, deficiency_key, kind, actor, reason, created_at
					FROM override_events ORDER BY created_at, id`,
				`DROP TABLE override_events`,
				`ALTER TABLE override_events_new RENAME TO override_events`,
				`CREATE INDEX idx_override_events_coi ON override_events(coi_id)`,
				`CREATE INDEX idx_override_events_key ON override_events(coi_id, deficiency_key)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
