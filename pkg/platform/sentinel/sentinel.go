package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: no event history or view exists for the identifier
// - ErrConflict: a store-level uniqueness constraint refused a write
//
// For validation errors (bad input, violated field rules), use pkg/domain-errors directly.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
