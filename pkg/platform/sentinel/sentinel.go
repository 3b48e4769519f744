package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: donation or profile does not exist in store
// - ErrConflict: record changed underneath the caller (e.g. duplicate insert)
// - ErrUnavailable: store or lock temporarily unreachable (timeout, connection)
//
// For validation and transition errors, use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
