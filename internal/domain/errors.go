package domain

import "errors"

// Sentinel errors for the request pipeline. Per-provider failures are
// absorbed inside the synthesizer; only the aggregate surfaces.
var (
	// ErrNoProviderAvailable means every selected provider failed for one
	// request. The caller decides the user-facing message.
	ErrNoProviderAvailable = errors.New("no provider available")

	// ErrProviderTimeout marks a single provider call that exceeded its
	// per-provider timeout.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrProviderUnavailable covers auth, network and quota failures of a
	// single provider call.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrAmbiguousIntent means the classifier confidence was below any
	// usable threshold.
	ErrAmbiguousIntent = errors.New("ambiguous intent")

	// ErrExecutionFailed wraps a failure reported by the system controller.
	// It always surfaces to the user-facing layer and is recorded as an
	// assistant turn.
	ErrExecutionFailed = errors.New("execution failed")
)
