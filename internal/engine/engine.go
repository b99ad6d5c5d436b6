// Package engine implements the deterministic compliance validation engine
// for certificates of insurance.
package engine

import (
	"log/slog"
	"time"

	"github.com/certwise/coiguard/internal/catalog"
	"github.com/certwise/coiguard/internal/model"
)

// Engine validates certificates against the requirement catalog and the
// trade classification table. Validation is a pure function over immutable
// snapshots; the engine holds no mutable state.
type Engine struct {
	catalog *catalog.Catalog
	trades  *catalog.TradeTable
	clock   func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source, used by tests for deterministic
// date checks.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New creates a validation engine.
func New(cat *catalog.Catalog, trades *catalog.TradeTable, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		trades:  trades,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate runs a full validation of one certificate against one project
// and returns the aggregated compliance result. Identical inputs always
// produce an identical, order-stable result.
func (e *Engine) Validate(rec model.CoverageRecord, project model.ProjectContext) model.ComplianceResult {
	rec = rec.Normalize()

	reqs := ResolveRequirements(e.catalog.Records(), project.ProgramID, rec.Trades)

	slog.Debug("Resolved requirement records",
		"coi_id", rec.COIID,
		"program", project.ProgramID,
		"trades", rec.Trades,
		"matched", len(reqs))

	limitFindings, limitWarnings, tierCompliant := CheckLimits(rec, reqs, e.clock())
	exclusions := CheckExclusions(rec, project, reqs, e.trades)

	result := Aggregate(rec, project, limitFindings, limitWarnings, exclusions, e.clock())

	slog.Info("Validation run complete",
		"coi_id", rec.COIID,
		"project_id", project.ProjectID,
		"compliant", result.Compliant,
		"tier_compliant", tierCompliant,
		"issues", len(result.Issues),
		"excluded_trades", len(result.ExcludedTrades),
		"warnings", len(result.Warnings))

	return result
}
