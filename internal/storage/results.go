package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/certwise/coiguard/internal/common"
	"github.com/certwise/coiguard/internal/model"
)

// SaveResult persists a compliance result snapshot for a certificate.
// Prior snapshots are superseded, not deleted, so old verdicts remain
// addressable for audit.
func (s *SQLiteStorage) SaveResult(ctx context.Context, result *model.ComplianceResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateResult(result); err != nil {
		return err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal compliance result: %w", err)
	}

	compliant := 0
	if result.Compliant {
		compliant = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compliance_results (id, coi_id, project_id, compliant, overall_status, result_json, validated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), result.COIID, result.ProjectID, compliant, string(result.OverallStatus), string(payload), result.ValidatedAt)
	if err != nil {
		return fmt.Errorf("failed to save compliance result: %w", err)
	}
	return nil
}

// GetLatestResult returns the most recent persisted result for a
// certificate, or common.ErrNotFound when none exists.
func (s *SQLiteStorage) GetLatestResult(ctx context.Context, coiID string) (*model.ComplianceResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(coiID, "coiID"); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT result_json FROM compliance_results
		WHERE coi_id = ?
		ORDER BY validated_at DESC, created_at DESC
		LIMIT 1`,
		coiID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: compliance result for %s", common.ErrNotFound, coiID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance result: %w", err)
	}

	var result model.ComplianceResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal compliance result: %w", err)
	}
	return &result, nil
}

// GetResultHistory returns every persisted result for a certificate,
// newest first.
func (s *SQLiteStorage) GetResultHistory(ctx context.Context, coiID string) ([]model.ComplianceResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(coiID, "coiID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT result_json FROM compliance_results
		WHERE coi_id = ?
		ORDER BY validated_at DESC, created_at DESC`,
		coiID)
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.ComplianceResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan compliance result: %w", err)
		}
		var result model.ComplianceResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal compliance result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate compliance results: %w", err)
	}
	return results, nil
}
