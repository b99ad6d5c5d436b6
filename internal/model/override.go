package model

import "time"

// OverrideKind distinguishes ledger events.
type OverrideKind string

// Override event kinds.
const (
	OverrideApplied OverrideKind = "override"
	OverrideRevoked OverrideKind = "revoke"
)

// OverrideRecord is one append-only ledger event: an admin suppressing a
// finding, or retracting a prior suppression. Events are never updated or
// deleted; visibility is recomputed from the full sequence on read.
type OverrideRecord struct {
	CreatedAt     time.Time    `json:"created_at"`
	ID            string       `json:"id"`
	COIID         string       `json:"coi_id"`
	DeficiencyKey string       `json:"deficiency_key"`
	Actor         string       `json:"actor"`
	Reason        string       `json:"reason"`
	Kind          OverrideKind `json:"kind"`
}
