/*
state.go - Explicit application state

PURPOSE:
  State gathers the four collections every resolver call reads (plus the
  ordered department list and company settings) into one object passed by
  reference. Nothing in this package keeps ambient globals; the hosting
  application owns exactly one State, loads it from the Store at startup,
  and persists the touched collections after each mutation.

CONCURRENCY:
  State itself is plain data with no locking. There is a single logical
  writer per process; the api layer serializes access. Two independent
  processes against the same durable store are last-writer-wins - an
  accepted limitation, not handled here.

VALIDATION:
  Validate is the all-or-nothing gate for restore/import payloads: the
  full payload is checked before any of it replaces the live state.
*/
package engine

import (
	"fmt"
)

type State struct {
	Employees   []Employee      `json:"employees"`
	Departments []string        `json:"departments"`
	Requests    []LeaveRequest  `json:"requests"`
	Holidays    []PublicHoliday `json:"holidays"`
	Entries     []ManualEntry   `json:"manualEntries"`
	Company     CompanyInfo     `json:"companyInfo"`
}

func NewState() *State {
	return &State{Company: CompanyInfo{Name: "Attendance Engine"}}
}

// Directory builds a fresh directory view over the current employees.
func (s *State) Directory() *Directory { return NewDirectory(s.Employees) }

// HolidaySet builds the holiday membership set for resolver calls.
func (s *State) HolidaySet() HolidaySet { return NewHolidaySet(s.Holidays) }

// EntrySet builds the manual-entry index for resolver calls.
func (s *State) EntrySet() EntrySet { return NewEntrySet(s.Entries) }

// FindEmployee returns the employee with the given ID.
func (s *State) FindEmployee(id string) (Employee, bool) {
	for _, emp := range s.Employees {
		if emp.ID == id {
			return emp, true
		}
	}
	return Employee{}, false
}

// FindRequest returns a pointer into the Requests slice, valid until the
// slice is next mutated.
func (s *State) FindRequest(id string) (*LeaveRequest, bool) {
	for i := range s.Requests {
		if s.Requests[i].ID == id {
			return &s.Requests[i], true
		}
	}
	return nil, false
}

// FindEntry returns the manual entry stored under key.
func (s *State) FindEntry(key EntryKey) (ManualEntry, bool) {
	for _, e := range s.Entries {
		if e.Key() == key {
			return e, true
		}
	}
	return ManualEntry{}, false
}

// approvedCovering returns a request other than excludeID that is approved
// for employeeID and covers d, if any exists.
func (s *State) approvedCovering(employeeID string, d Date, excludeID string) (*LeaveRequest, bool) {
	for i := range s.Requests {
		req := &s.Requests[i]
		if req.ID != excludeID && req.EmployeeID == employeeID && req.Status == StatusApproved && req.Covers(d) {
			return req, true
		}
	}
	return nil, false
}

// =============================================================================
// RESTORE VALIDATION - All-or-nothing
// =============================================================================

// Validate checks the full state for structural soundness. Used before a
// restore payload replaces the live state: a single bad record rejects
// the entire payload and nothing is applied.
func (s *State) Validate() error {
	empIDs := make(map[string]struct{}, len(s.Employees))
	for _, emp := range s.Employees {
		if emp.ID == "" {
			return fmt.Errorf("%w: employee with empty id", ErrInvalidRestore)
		}
		if _, dup := empIDs[emp.ID]; dup {
			return fmt.Errorf("%w: duplicate employee id %q", ErrInvalidRestore, emp.ID)
		}
		if !emp.Role.Valid() {
			return fmt.Errorf("%w: employee %q has unknown role %q", ErrInvalidRestore, emp.ID, emp.Role)
		}
		empIDs[emp.ID] = struct{}{}
	}

	entryKeys := make(map[EntryKey]struct{}, len(s.Entries))
	for _, e := range s.Entries {
		if !e.Code.Valid() || e.Code == EntryClear {
			return fmt.Errorf("%w: manual entry %s has unstorable code %q", ErrInvalidRestore, e.Key(), e.Code)
		}
		if e.Date.IsZero() {
			return fmt.Errorf("%w: manual entry for %q has no date", ErrInvalidRestore, e.EmployeeID)
		}
		if _, dup := entryKeys[e.Key()]; dup {
			return fmt.Errorf("%w: duplicate manual entry %s", ErrInvalidRestore, e.Key())
		}
		if e.Value.IsNegative() {
			return fmt.Errorf("%w: manual entry %s has negative value", ErrInvalidRestore, e.Key())
		}
		entryKeys[e.Key()] = struct{}{}
	}

	reqIDs := make(map[string]struct{}, len(s.Requests))
	for i := range s.Requests {
		req := &s.Requests[i]
		if req.ID == "" {
			return fmt.Errorf("%w: request with empty id", ErrInvalidRestore)
		}
		if _, dup := reqIDs[req.ID]; dup {
			return fmt.Errorf("%w: duplicate request id %q", ErrInvalidRestore, req.ID)
		}
		reqIDs[req.ID] = struct{}{}
		if !req.Kind.Valid() {
			return fmt.Errorf("%w: request %q has unknown kind %q", ErrInvalidRestore, req.ID, req.Kind)
		}
		if !req.Status.Valid() {
			return fmt.Errorf("%w: request %q has unknown status %q", ErrInvalidRestore, req.ID, req.Status)
		}
		if req.End.Before(req.Start) {
			return fmt.Errorf("%w: request %q ends before it starts", ErrInvalidRestore, req.ID)
		}
		if req.DayCount.IsNegative() {
			return fmt.Errorf("%w: request %q has negative day count", ErrInvalidRestore, req.ID)
		}
		// ApproverName set iff approved.
		if (req.Status == StatusApproved) != (req.ApproverName != nil) {
			return fmt.Errorf("%w: request %q violates approver/status invariant", ErrInvalidRestore, req.ID)
		}
		if req.GeneratedFrom != nil {
			if !req.Start.Equal(req.End) {
				return fmt.Errorf("%w: synthetic request %q spans more than one day", ErrInvalidRestore, req.ID)
			}
			if req.GeneratedFrom.EmployeeID != req.EmployeeID || !req.GeneratedFrom.Date.Equal(req.Start) {
				return fmt.Errorf("%w: synthetic request %q link does not match its interval", ErrInvalidRestore, req.ID)
			}
			if _, ok := entryKeys[*req.GeneratedFrom]; !ok {
				return fmt.Errorf("%w: synthetic request %q references missing entry %s", ErrInvalidRestore, req.ID, req.GeneratedFrom)
			}
		}
	}

	holidayIDs := make(map[string]struct{}, len(s.Holidays))
	for _, h := range s.Holidays {
		if h.Date.IsZero() {
			return fmt.Errorf("%w: holiday %q has no date", ErrInvalidRestore, h.Name)
		}
		if h.ID != "" {
			if _, dup := holidayIDs[h.ID]; dup {
				return fmt.Errorf("%w: duplicate holiday id %q", ErrInvalidRestore, h.ID)
			}
			holidayIDs[h.ID] = struct{}{}
		}
	}

	return nil
}
