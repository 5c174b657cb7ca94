/*
store.go - Persistence interface for the application state

PURPOSE:
  The engine reads the durable store once at startup and writes the
  touched collections after each mutation. Transport and format belong
  to the implementation; this interface only fixes the atomicity
  contract the reconciliation invariant needs.

ATOMICITY:
  SaveReconciled persists requests and manual entries as one unit.
  A crash between the two halves of a manual edit must not be
  observable after restart: either both collections reflect the edit
  or neither does.

LOAD FALLBACK:
  A missing or malformed collection loads as empty. That is a
  recoverable condition the caller logs, never a startup failure.

IMPLEMENTATIONS:
  - store/sqlite:       durable SQLite store
  - engine/store:       in-memory store for tests and dev
*/
package engine

import "context"

type Store interface {
	// Load reads the full state. Missing or corrupt collections come back
	// empty; Load fails only when the store itself is unusable.
	Load(ctx context.Context) (*State, error)

	// SaveEmployees persists the employee collection and the ordered
	// department list together (the list orders the sheet's blocks).
	SaveEmployees(ctx context.Context, employees []Employee, departments []string) error

	// SaveRequests persists the leave-request collection alone. Use
	// SaveReconciled when manual entries changed in the same operation.
	SaveRequests(ctx context.Context, requests []LeaveRequest) error

	// SaveReconciled persists requests and manual entries atomically.
	SaveReconciled(ctx context.Context, requests []LeaveRequest, entries []ManualEntry) error

	SaveHolidays(ctx context.Context, holidays []PublicHoliday) error

	SaveCompany(ctx context.Context, info CompanyInfo) error

	// SaveAll replaces every collection atomically. Used by restore.
	SaveAll(ctx context.Context, st *State) error

	Close() error
}
