package contracts

import "errors"

// Error taxonomy for the decision core. Callers branch on these with
// errors.Is; the concrete message carries the rule or input that fired.
var (
	// ErrInputRejected marks malformed input: bad thresholds, scores out
	// of range, unknown regimes. 입력 거부는 재시도해도 소용없음.
	ErrInputRejected = errors.New("input rejected")

	// ErrComplianceBlock marks a deterministic, non-retryable compliance
	// rule firing. The message always names the exact rule.
	ErrComplianceBlock = errors.New("compliance block")

	// ErrCollaboratorUnavailable marks an AI classification timeout or
	// failure. Recovered locally via the deterministic fallback path and
	// never surfaced as a user-facing failure.
	ErrCollaboratorUnavailable = errors.New("external collaborator unavailable")

	// ErrConcurrencyConflict means two merges raced for the same ticker.
	// The losing caller must retry with a freshly read thesis.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrNotFound marks a missing thesis, price lines or regime row.
	ErrNotFound = errors.New("not found")
)
