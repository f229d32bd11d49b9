package models

import (
	"errors"
	"fmt"
)

// ValidationKind classifies structurally invalid client input.
type ValidationKind string

const (
	MissingFingerprint ValidationKind = "missing_fingerprint"
	InvalidItemID      ValidationKind = "invalid_item_id"
	InvalidDwellTime   ValidationKind = "invalid_dwell_time"
	InvalidVoteKind    ValidationKind = "invalid_vote_kind"
)

// ValidationError means the request never reached the store.
// Always a client error; no mutation was attempted.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Kind, e.Message)
}

func NewValidationError(kind ValidationKind, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StoreKind classifies backend failures.
type StoreKind string

const (
	StoreUnavailable StoreKind = "unavailable"
	StoreCorrupt     StoreKind = "corrupt"
)

// StoreError means the backend could not serve the operation. Callers must
// surface it rather than default counts to zero: a zero count always means
// "genuinely zero events", never "store unreachable".
type StoreError struct {
	Kind StoreKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(kind StoreKind, op string, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

// ComputeError aborts a trending recomputation run without touching the
// last-known-good backup. The next scheduled trigger retries the run.
type ComputeError struct {
	Stage string
	Err   error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("trending compute: %s: %v", e.Stage, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }

func NewComputeError(stage string, err error) *ComputeError {
	return &ComputeError{Stage: stage, Err: err}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
