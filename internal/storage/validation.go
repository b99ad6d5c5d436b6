package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/certwise/coiguard/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidEvent  = errors.New("invalid override event")
	ErrInvalidResult = errors.New("invalid compliance result")
	ErrInvalidKind   = errors.New("invalid override event kind")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateOverrideEvent validates a ledger event before insertion.
func validateOverrideEvent(event *model.OverrideRecord) error {
	if event == nil {
		return fmt.Errorf("%w: event", ErrNilParameter)
	}
	if err := validateString(event.ID, "event.ID"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := validateString(event.COIID, "event.COIID"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := validateString(event.DeficiencyKey, "event.DeficiencyKey"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := validateString(event.Actor, "event.Actor"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	switch event.Kind {
	case model.OverrideApplied, model.OverrideRevoked:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, event.Kind)
	}
	return nil
}

// validateResult validates a compliance result before persisting.
func validateResult(result *model.ComplianceResult) error {
	if result == nil {
		return fmt.Errorf("%w: result", ErrNilParameter)
	}
	if err := validateString(result.COIID, "result.COIID"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	return nil
}
