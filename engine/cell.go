/*
cell.go - Per-day attendance cell derivation

PURPOSE:
  Computes the single rendered code for one (employee, date) cell of the
  monthly attendance sheet. Pure; recomputed for every render because
  holidays, requests, and overrides all change independently.

PRECEDENCE (strict, first applicable rule wins):
  1. Manual override            -> stored code/value verbatim
  2. Public holiday             -> Holiday, 0
  3. Approved leave covers date -> code mapped from the leave kind, 0
  4. Sunday                     -> Rest, 0
  5. Saturday                   -> HalfWork, 0.5
  6. Otherwise                  -> Work, 1

  Rule 2 before rules 4/5: a holiday on a Saturday renders Holiday with
  value 0, never HalfWork.

SYMBOLS:
  Each code carries the timesheet symbol the original paper form uses
  (H, H/2, P, O, L, KL); the report package renders them.
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// CELL CODES
// =============================================================================

type CellCode string

const (
	CellWork     CellCode = "work"
	CellHalfWork CellCode = "half_work"
	CellLeave    CellCode = "leave"
	CellSick     CellCode = "sick_leave"
	CellUnpaid   CellCode = "unpaid_leave"
	CellHoliday  CellCode = "holiday"
	CellRest     CellCode = "rest"
)

// Symbol returns the printed timesheet symbol for the code.
func (c CellCode) Symbol() string {
	switch c {
	case CellWork:
		return "H"
	case CellHalfWork:
		return "H/2"
	case CellLeave:
		return "P"
	case CellSick:
		return "O"
	case CellUnpaid:
		return "KL"
	case CellHoliday:
		return "L"
	case CellRest:
		return ""
	}
	panic("engine: unknown cell code " + string(c))
}

// Cell is one resolved attendance cell.
type Cell struct {
	Code   CellCode        `json:"code"`
	Value  decimal.Decimal `json:"value"`
	Manual bool            `json:"manual"`
}

// cellCodeForEntry maps a stored override code to its rendered cell code.
// Clear is never stored, so it is a contract violation here.
func cellCodeForEntry(code EntryCode) CellCode {
	switch code {
	case EntryWork:
		return CellWork
	case EntryHalfWork:
		return CellHalfWork
	case EntryLeave:
		return CellLeave
	case EntrySick:
		return CellSick
	case EntryUnpaid:
		return CellUnpaid
	}
	panic("engine: entry code " + string(code) + " cannot be rendered")
}

// cellCodeForKind maps an approved leave kind to its rendered cell code.
func cellCodeForKind(kind LeaveKind) CellCode {
	switch kind {
	case KindVacation, KindPersonal:
		return CellLeave
	case KindSick:
		return CellSick
	case KindUnpaid:
		return CellUnpaid
	}
	panic("engine: unknown leave kind " + string(kind))
}

// =============================================================================
// RESOLUTION
// =============================================================================

// EntrySet indexes manual entries by key for O(1) cell lookups.
type EntrySet map[EntryKey]ManualEntry

func NewEntrySet(entries []ManualEntry) EntrySet {
	set := make(EntrySet, len(entries))
	for _, e := range entries {
		set[e.Key()] = e
	}
	return set
}

// ResolveCell computes the attendance cell for one (employee, date) pair.
// requests may contain requests of other employees and non-approved
// statuses; only approved requests of employeeID covering date apply.
func ResolveCell(employeeID string, date Date, holidays HolidaySet, requests []LeaveRequest, entries EntrySet) Cell {
	// 1. Manual override wins over everything, verbatim.
	if entry, ok := entries[EntryKey{EmployeeID: employeeID, Date: date}]; ok {
		return Cell{Code: cellCodeForEntry(entry.Code), Value: entry.Value, Manual: true}
	}

	// 2. Public holiday.
	if holidays.Contains(date) {
		return Cell{Code: CellHoliday, Value: decimal.Zero}
	}

	// 3. Approved leave covering the date.
	for i := range requests {
		req := &requests[i]
		if req.EmployeeID == employeeID && req.Status == StatusApproved && req.Covers(date) {
			return Cell{Code: cellCodeForKind(req.Kind), Value: decimal.Zero}
		}
	}

	// 4-6. Weekday defaults.
	switch {
	case date.IsSunday():
		return Cell{Code: CellRest, Value: decimal.Zero}
	case date.IsSaturday():
		return Cell{Code: CellHalfWork, Value: halfDay}
	default:
		return Cell{Code: CellWork, Value: fullDay}
	}
}
