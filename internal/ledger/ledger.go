// Package ledger implements the override ledger: an append-only record of
// admin decisions to suppress individual findings. The ledger never
// mutates a finding; it only changes which findings are active, and the
// recompute from raw findings plus events is a pure function.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/certwise/coiguard/internal/common"
	"github.com/certwise/coiguard/internal/model"
)

// Store is the persistence the ledger appends to. Appends must be atomic;
// concurrent events on the same key must all survive.
type Store interface {
	AppendOverrideEvent(ctx context.Context, event model.OverrideRecord) error
	GetOverrideEvents(ctx context.Context, coiID string) ([]model.OverrideRecord, error)
}

// Ledger records and reads override events for certificates.
type Ledger struct {
	store Store
	clock func() time.Time
}

// New creates a ledger over the given store.
func New(store Store) *Ledger {
	return &Ledger{store: store, clock: time.Now}
}

// WithClock overrides the time source for tests.
func (l *Ledger) WithClock(clock func() time.Time) *Ledger {
	l.clock = clock
	return l
}

// Override appends an override event for a deficiency key. The
// justification is mandatory; an empty reason is rejected and nothing is
// written.
func (l *Ledger) Override(ctx context.Context, coiID, deficiencyKey, actor, reason string) (model.OverrideRecord, error) {
	if strings.TrimSpace(reason) == "" {
		return model.OverrideRecord{}, common.ErrEmptyJustification
	}

	event := model.OverrideRecord{
		ID:            uuid.NewString(),
		COIID:         coiID,
		DeficiencyKey: deficiencyKey,
		Actor:         actor,
		Reason:        reason,
		Kind:          model.OverrideApplied,
		CreatedAt:     l.clock(),
	}
	if err := l.store.AppendOverrideEvent(ctx, event); err != nil {
		return model.OverrideRecord{}, err
	}
	return event, nil
}

// Revoke appends a revocation event for a deficiency key. Revocation is
// itself a new ledger event; the original override stays in history.
func (l *Ledger) Revoke(ctx context.Context, coiID, deficiencyKey, actor string) (model.OverrideRecord, error) {
	event := model.OverrideRecord{
		ID:            uuid.NewString(),
		COIID:         coiID,
		DeficiencyKey: deficiencyKey,
		Actor:         actor,
		Kind:          model.OverrideRevoked,
		CreatedAt:     l.clock(),
	}
	if err := l.store.AppendOverrideEvent(ctx, event); err != nil {
		return model.OverrideRecord{}, err
	}
	return event, nil
}

// ActiveFindings returns the findings that are not currently overridden
// for the certificate.
func (l *Ledger) ActiveFindings(ctx context.Context, coiID string, findings []model.Deficiency) ([]model.Deficiency, error) {
	events, err := l.store.GetOverrideEvents(ctx, coiID)
	if err != nil {
		return nil, err
	}
	return ActiveFindings(findings, events), nil
}

// OverriddenCount returns the number of deficiency keys with a currently
// effective override for the certificate.
func (l *Ledger) OverriddenCount(ctx context.Context, coiID string) (int, error) {
	events, err := l.store.GetOverrideEvents(ctx, coiID)
	if err != nil {
		return 0, err
	}
	return len(OverriddenKeys(events)), nil
}

// History returns all ledger events for the certificate, oldest first.
func (l *Ledger) History(ctx context.Context, coiID string) ([]model.OverrideRecord, error) {
	return l.store.GetOverrideEvents(ctx, coiID)
}

// OverriddenKeys folds an event sequence into the set of keys whose most
// recent event is a non-revoked override. Events must be ordered oldest
// first.
func OverriddenKeys(events []model.OverrideRecord) map[string]struct{} {
	state := make(map[string]bool)
	for _, ev := range events {
		switch ev.Kind {
		case model.OverrideApplied:
			state[ev.DeficiencyKey] = true
		case model.OverrideRevoked:
			state[ev.DeficiencyKey] = false
		}
	}

	keys := make(map[string]struct{})
	for key, overridden := range state {
		if overridden {
			keys[key] = struct{}{}
		}
	}
	return keys
}

// ActiveFindings filters findings to those without an effective override.
// It is a pure function: findings are recomputed fresh by the engine and
// never mutated here.
func ActiveFindings(findings []model.Deficiency, events []model.OverrideRecord) []model.Deficiency {
	overridden := OverriddenKeys(events)

	active := make([]model.Deficiency, 0, len(findings))
	for _, f := range findings {
		if _, ok := overridden[f.Key()]; ok {
			continue
		}
		active = append(active, f)
	}
	return active
}
