package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newSyncState() *engine.State {
	st := engine.NewState()
	st.Employees = []engine.Employee{engHead, engStaff}
	st.Departments = []string{"Engineering"}
	return st
}

// deterministic IDs and clock so assertions can name things
func newCoordinator() *engine.SyncCoordinator {
	n := 0
	return &engine.SyncCoordinator{
		NewID: func() string { n++; return fmt.Sprintf("gen-%d", n) },
		Now:   func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) },
	}
}

func entry(code engine.EntryCode, day string) engine.ManualEntry {
	return engine.ManualEntry{
		EmployeeID: engStaff.ID,
		Date:       date(day),
		Code:       code,
		Value:      code.DayValue(),
	}
}

func syntheticRequests(st *engine.State) []engine.LeaveRequest {
	var out []engine.LeaveRequest
	for _, req := range st.Requests {
		if req.IsSynthetic() {
			out = append(out, req)
		}
	}
	return out
}

// =============================================================================
// MANUAL EDIT RECONCILIATION
// =============================================================================

func TestApplyManualEntry_SickCreatesSyntheticRequest(t *testing.T) {
	// GIVEN: An empty day
	// WHEN: A head marks it as sick leave
	// THEN: The override is stored and a matching approved single-day
	//       request appears, credited to the editor

	st := newSyncState()
	newCoordinator().ApplyManualEntry(st, entry(engine.EntrySick, "2025-06-04"), engHead.Name)

	if len(st.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(st.Entries))
	}
	if _, ok := st.FindEntry(engine.EntryKey{EmployeeID: engStaff.ID, Date: date("2025-06-04")}); !ok {
		t.Fatalf("override not stored under its (employee, date) key")
	}
	gen := syntheticRequests(st)
	if len(gen) != 1 {
		t.Fatalf("synthetic requests = %d, want 1", len(gen))
	}
	req := gen[0]
	if req.Kind != engine.KindSick {
		t.Errorf("kind = %s, want %s", req.Kind, engine.KindSick)
	}
	if req.Status != engine.StatusApproved {
		t.Errorf("status = %s, want approved", req.Status)
	}
	if !req.Start.Equal(date("2025-06-04")) || !req.End.Equal(date("2025-06-04")) {
		t.Errorf("interval = %s..%s, want single day 2025-06-04", req.Start, req.End)
	}
	if !req.DayCount.Equal(decimal.NewFromInt(1)) {
		t.Errorf("day count = %s, want 1", req.DayCount)
	}
	if req.ApproverName == nil || *req.ApproverName != engHead.Name {
		t.Errorf("approver = %v, want %q", req.ApproverName, engHead.Name)
	}
}

func TestApplyManualEntry_Idempotent(t *testing.T) {
	// Applying the same edit twice leaves one entry and one request.

	st := newSyncState()
	sc := newCoordinator()
	sc.ApplyManualEntry(st, entry(engine.EntrySick, "2025-06-04"), engHead.Name)
	sc.ApplyManualEntry(st, entry(engine.EntrySick, "2025-06-04"), engHead.Name)

	if len(st.Entries) != 1 {
		t.Errorf("entries = %d, want 1", len(st.Entries))
	}
	if gen := syntheticRequests(st); len(gen) != 1 {
		t.Errorf("synthetic requests = %d, want 1", len(gen))
	}
}

func TestApplyManualEntry_CoveredDayCreatesNothing(t *testing.T) {
	// GIVEN: An approved user-submitted request already covering the day
	// WHEN: The same day is marked leave by hand
	// THEN: No synthetic duplicate appears

	st := newSyncState()
	st.Requests = append(st.Requests, approvedLeave(engStaff.ID, engine.KindVacation, "2025-06-02", "2025-06-06"))

	newCoordinator().ApplyManualEntry(st, entry(engine.EntryLeave, "2025-06-04"), engHead.Name)

	if gen := syntheticRequests(st); len(gen) != 0 {
		t.Errorf("synthetic requests = %d, want 0", len(gen))
	}
	if len(st.Entries) != 1 {
		t.Errorf("entries = %d, want 1 (the override itself is still stored)", len(st.Entries))
	}
}

func TestApplyManualEntry_WorkRemovesSynthetic(t *testing.T) {
	// GIVEN: A sick override with its synthetic request
	// WHEN: The same cell is edited back to a work day
	// THEN: The synthetic request disappears, the override becomes work

	st := newSyncState()
	sc := newCoordinator()
	sc.ApplyManualEntry(st, entry(engine.EntrySick, "2025-06-04"), engHead.Name)
	sc.ApplyManualEntry(st, entry(engine.EntryWork, "2025-06-04"), engHead.Name)

	if gen := syntheticRequests(st); len(gen) != 0 {
		t.Errorf("synthetic requests = %d, want 0", len(gen))
	}
	got, ok := st.FindEntry(engine.EntryKey{EmployeeID: engStaff.ID, Date: date("2025-06-04")})
	if !ok || got.Code != engine.EntryWork {
		t.Errorf("override = %+v (found=%v), want a work override", got, ok)
	}
}

func TestApplyManualEntry_ClearRemovesBoth(t *testing.T) {
	st := newSyncState()
	sc := newCoordinator()
	sc.ApplyManualEntry(st, entry(engine.EntrySick, "2025-06-04"), engHead.Name)
	sc.ApplyManualEntry(st, entry(engine.EntryClear, "2025-06-04"), engHead.Name)

	if len(st.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(st.Entries))
	}
	if len(st.Requests) != 0 {
		t.Errorf("requests = %d, want 0", len(st.Requests))
	}
}

func TestApplyManualEntry_WorkDoesNotTouchUserRequests(t *testing.T) {
	// A multi-day user-submitted approval is never deleted by cell
	// edits; only cell-linked synthetic requests are.

	st := newSyncState()
	st.Requests = append(st.Requests, approvedLeave(engStaff.ID, engine.KindVacation, "2025-06-02", "2025-06-06"))

	newCoordinator().ApplyManualEntry(st, entry(engine.EntryWork, "2025-06-04"), engHead.Name)

	if len(st.Requests) != 1 {
		t.Errorf("requests = %d, want the user request untouched", len(st.Requests))
	}
}

func TestDeleteSyntheticRequest_RemovesOverride(t *testing.T) {
	// Deleting the synthetic request through the request workflow also
	// removes the override that created it.

	st := newSyncState()
	newCoordinator().ApplyManualEntry(st, entry(engine.EntrySick, "2025-06-04"), engHead.Name)
	gen := syntheticRequests(st)
	if len(gen) != 1 {
		t.Fatalf("synthetic requests = %d, want 1", len(gen))
	}

	if err := engine.NewRequestService().Delete(st, gen[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(st.Requests) != 0 {
		t.Errorf("requests = %d, want 0", len(st.Requests))
	}
	if len(st.Entries) != 0 {
		t.Errorf("entries = %d, want 0 (override removed with its request)", len(st.Entries))
	}
}
