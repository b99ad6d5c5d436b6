package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/certwise/coiguard/internal/common"
	"github.com/certwise/coiguard/internal/model"
)

// AppendOverrideEvent inserts a ledger event. The table is append-only:
// events are never updated or deleted, and each call is a single atomic
// INSERT so concurrent admin actions on the same certificate all survive.
func (s *SQLiteStorage) AppendOverrideEvent(ctx context.Context, event model.OverrideRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOverrideEvent(&event); err != nil {
		return err
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO override_events (id, coi_id, deficiency_key, kind, actor, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.COIID, event.DeficiencyKey, string(event.Kind), event.Actor, event.Reason, createdAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: override event %s", common.ErrDuplicateEntry, event.ID)
		}
		return fmt.Errorf("failed to append override event: %w", err)
	}
	return nil
}

// GetOverrideEvents returns all ledger events for a certificate, oldest
// first in insertion order.
func (s *SQLiteStorage) GetOverrideEvents(ctx context.Context, coiID string) ([]model.OverrideRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(coiID, "coiID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, coi_id, deficiency_key, kind, actor, reason, created_at
		FROM override_events
		WHERE coi_id = ?
		ORDER BY seq`,
		coiID)
	if err != nil {
		return nil, fmt.Errorf("failed to query override events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.OverrideRecord
	for rows.Next() {
		var ev model.OverrideRecord
		var kind string
		var reason sql.NullString
		if err := rows.Scan(&ev.ID, &ev.COIID, &ev.DeficiencyKey, &kind, &ev.Actor, &reason, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan override event: %w", err)
		}
		ev.Kind = model.OverrideKind(kind)
		ev.Reason = reason.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate override events: %w", err)
	}
	return events, nil
}
