/*
Package engine implements the leave governance and attendance
reconciliation core.

PURPOSE:
  This package contains the domain model and the four core components
  that carry the system's real invariants:
  - CountLeaveDays:    calendar-aware fractional leave-day counting
  - Authority:         who may approve/reject/delete a leave request
  - ResolveCell:       per-day attendance code derivation with fixed precedence
  - SyncCoordinator:   manual attendance edits <-> synthetic leave requests

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee:        directory record with a coarse system role
  - LeaveRequest:    a dated leave interval with a resettable status
  - PublicHoliday:   global holiday overriding weekday semantics
  - ManualEntry:     a human-entered attendance override for one (employee, date)

DESIGN PRINCIPLES:
  1. Purity: Authority and ResolveCell are side-effect free and recomputed
     per call over the current State.
  2. Precision: day counts use decimal.Decimal in 0.5 increments,
     never floats.
  3. Explicit links: a synthetic request carries GeneratedFrom, a real
     reference to the manual entry that produced it, not a naming convention.

SEE ALSO:
  - state.go: the application-state object the components operate on
  - sync.go:  the reconciliation invariant between entries and requests
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEE - Directory record (owned by the surrounding application)
// =============================================================================

// Role is the coarse system role used for authority fallback rules.
type Role string

const (
	// RoleTopAuthority may act on any request and is exempt from
	// intra-department restrictions.
	RoleTopAuthority Role = "top_authority"
	// RoleMidAuthority covers heads/deputies; their actual authority is
	// derived from the job title, not from this value.
	RoleMidAuthority Role = "mid_authority"
	RoleBase         Role = "base"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTopAuthority, RoleMidAuthority, RoleBase:
		return true
	}
	return false
}

// Employee is immutable from the engine's viewpoint.
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	JobTitle   string `json:"jobTitle"`
	Role       Role   `json:"role"`
}

// =============================================================================
// LEAVE REQUEST
// =============================================================================

type LeaveKind string

const (
	KindVacation LeaveKind = "vacation"
	KindPersonal LeaveKind = "personal"
	KindSick     LeaveKind = "sick"
	KindUnpaid   LeaveKind = "unpaid"
)

func (k LeaveKind) Valid() bool {
	switch k {
	case KindVacation, KindPersonal, KindSick, KindUnpaid:
		return true
	}
	return false
}

type LeaveStatus string

const (
	StatusPending  LeaveStatus = "pending"
	StatusApproved LeaveStatus = "approved"
	StatusRejected LeaveStatus = "rejected"
)

func (s LeaveStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LeaveRequest is an inclusive [Start, End] leave interval.
//
// Invariant: ApproverName is non-nil exactly when Status == StatusApproved.
//
// A request with GeneratedFrom set is synthetic: it was created by the
// SyncCoordinator from a manual attendance edit, always spans exactly one
// day, and is managed only by the coordinator.
type LeaveRequest struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Start      Date            `json:"startDate"`
	End        Date            `json:"endDate"`
	Kind       LeaveKind       `json:"kind"`
	Reason     string          `json:"reason"`
	Status     LeaveStatus     `json:"status"`
	DayCount   decimal.Decimal `json:"dayCount"`
	CreatedAt  time.Time       `json:"createdAt"`

	ApproverName  *string   `json:"approverName,omitempty"`
	GeneratedFrom *EntryKey `json:"generatedFrom,omitempty"`
}

// Covers reports whether d falls inside the request's inclusive interval.
func (r *LeaveRequest) Covers(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

func (r *LeaveRequest) IsSynthetic() bool { return r.GeneratedFrom != nil }

// Overlaps reports whether two inclusive intervals share at least one day.
func (r *LeaveRequest) Overlaps(start, end Date) bool {
	return !r.End.Before(start) && !r.Start.After(end)
}

// =============================================================================
// PUBLIC HOLIDAY
// =============================================================================

// PublicHoliday is global: it overrides weekday semantics for every employee.
type PublicHoliday struct {
	ID   string `json:"id"`
	Date Date   `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// MANUAL ATTENDANCE ENTRY
// =============================================================================

// EntryCode is the code a human editor assigns to one attendance cell.
type EntryCode string

const (
	EntryWork       EntryCode = "work"
	EntryHalfWork   EntryCode = "half_work"
	EntryLeave      EntryCode = "leave"
	EntrySick       EntryCode = "sick"
	EntryUnpaid     EntryCode = "unpaid_leave"
	// EntryClear removes the override and any synthetic request it produced.
	EntryClear EntryCode = "clear"
)

func (c EntryCode) Valid() bool {
	switch c {
	case EntryWork, EntryHalfWork, EntryLeave, EntrySick, EntryUnpaid, EntryClear:
		return true
	}
	return false
}

// ProducesLeave reports whether the code implies an approved leave record.
func (c EntryCode) ProducesLeave() bool {
	return c == EntryLeave || c == EntrySick || c == EntryUnpaid
}

// LeaveKind maps a leave-producing code to the kind of the synthetic request.
// Panics on non-leave codes: callers must check ProducesLeave first.
func (c EntryCode) LeaveKind() LeaveKind {
	switch c {
	case EntryLeave:
		return KindVacation
	case EntrySick:
		return KindSick
	case EntryUnpaid:
		return KindUnpaid
	}
	panic("engine: entry code " + string(c) + " does not produce leave")
}

// DayValue is the work-day value the code contributes to monthly totals.
func (c EntryCode) DayValue() decimal.Decimal {
	switch c {
	case EntryWork:
		return decimal.NewFromInt(1)
	case EntryHalfWork:
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.Zero
	}
}

// EntryKey uniquely identifies a manual entry: one per (employee, date).
type EntryKey struct {
	EmployeeID string `json:"employeeId"`
	Date       Date   `json:"date"`
}

func (k EntryKey) String() string { return k.EmployeeID + "@" + k.Date.String() }

// ManualEntry is an explicit attendance override. Clear is never stored;
// it is an instruction to the SyncCoordinator, not a persistable state.
type ManualEntry struct {
	EmployeeID string          `json:"employeeId"`
	Date       Date            `json:"date"`
	Code       EntryCode       `json:"code"`
	Value      decimal.Decimal `json:"value"`
}

func (e ManualEntry) Key() EntryKey { return EntryKey{EmployeeID: e.EmployeeID, Date: e.Date} }

// =============================================================================
// COMPANY INFO - Branding settings persisted with the rest of the state
// =============================================================================

type CompanyInfo struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}
