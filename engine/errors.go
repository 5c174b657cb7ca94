/*
errors.go - Centralized error types for the engine

PURPOSE:
  All sentinel errors in one place. The api package maps them to HTTP
  status codes; domain code wraps them with context via fmt.Errorf %w.

NOTE:
  Authority returning false is NOT an error. A negative authority result
  only hides an action; these errors cover genuine rule violations.
*/
package engine

import "errors"

var (
	// ErrInvalidInterval is returned at submission time when end < start or
	// the interval counts to zero chargeable days (holidays/Sundays only).
	ErrInvalidInterval = errors.New("leave interval contains no chargeable days")

	// ErrRequestNotFound is returned when a referenced request doesn't exist.
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrSyntheticRequest is returned when a status transition targets a
	// synthetic request. Synthetic records change only through the
	// SyncCoordinator, never through the approval workflow.
	ErrSyntheticRequest = errors.New("synthetic request is managed by attendance edits")

	// ErrOverlappingApproval is returned when approving a request would
	// leave an employee with two approved intervals covering the same day.
	ErrOverlappingApproval = errors.New("another approved request already covers this interval")

	// ErrInvalidRestore is returned when a restore payload fails validation.
	// Restore is all-or-nothing: nothing is applied on this error.
	ErrInvalidRestore = errors.New("restore payload failed validation")
)

// IsClientError reports whether the error is due to invalid client input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrSyntheticRequest) ||
		errors.Is(err, ErrOverlappingApproval) ||
		errors.Is(err, ErrInvalidRestore)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound) || errors.Is(err, ErrEmployeeNotFound)
}
