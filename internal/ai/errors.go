package ai

import "errors"

var (
	// ErrNotConfigured means the provider endpoint or credential is unset.
	// Callers surface this as service-unavailable, distinct from a runtime
	// failure, so operators can tell misconfiguration from transient faults.
	ErrNotConfigured = errors.New("generation provider not configured")

	// ErrUpstream covers transport failures and non-success provider status.
	ErrUpstream = errors.New("generation provider request failed")

	// ErrBadOutput means the provider answered but the output could not be
	// parsed or validated into the required shape.
	ErrBadOutput = errors.New("generation provider returned unusable output")
)
