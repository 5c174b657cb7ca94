package report_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/report"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================
// June 2025: 30 days, Sundays on 1/8/15/22/29, Saturdays on 7/14/21/28.
// A plain month therefore totals 21 full days + 4 half days = 23.

func sheetState() *engine.State {
	st := engine.NewState()
	st.Company = engine.CompanyInfo{Name: "Acme Industrial"}
	st.Departments = []string{"Engineering", "Accounting"}
	st.Employees = []engine.Employee{
		{ID: "e1", Name: "Alice", Department: "Engineering", JobTitle: "Head of Engineering", Role: engine.RoleMidAuthority},
		{ID: "e2", Name: "Bob", Department: "Engineering", JobTitle: "Engineer", Role: engine.RoleBase},
		{ID: "e3", Name: "Carol", Department: "Accounting", JobTitle: "Accountant", Role: engine.RoleBase},
	}
	return st
}

func findRow(t *testing.T, s *report.Sheet, employeeID string) report.Row {
	t.Helper()
	for _, b := range s.Blocks {
		for _, r := range b.Rows {
			if r.Employee.ID == employeeID {
				return r
			}
		}
	}
	t.Fatalf("employee %s not on sheet", employeeID)
	return report.Row{}
}

// =============================================================================
// SHEET STRUCTURE
// =============================================================================

func TestBuild_BlocksFollowDepartmentOrder(t *testing.T) {
	s := report.Build(sheetState(), 2025, 6, "")

	if s.Days != 30 {
		t.Fatalf("days = %d, want 30", s.Days)
	}
	if len(s.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(s.Blocks))
	}
	if s.Blocks[0].Label != "I. ENGINEERING" {
		t.Errorf("first label = %q", s.Blocks[0].Label)
	}
	if s.Blocks[1].Label != "II. ACCOUNTING" {
		t.Errorf("second label = %q", s.Blocks[1].Label)
	}

	// Row numbering runs across blocks.
	if got := s.Blocks[1].Rows[0].Index; got != 3 {
		t.Errorf("first accounting row index = %d, want 3", got)
	}
	if got := len(s.Blocks[0].Rows[0].Cells); got != 30 {
		t.Errorf("cells per row = %d, want 30", got)
	}
}

func TestBuild_EmptyDepartmentProducesNoBlock(t *testing.T) {
	st := sheetState()
	st.Departments = append(st.Departments, "Facilities")

	s := report.Build(st, 2025, 6, "")
	if len(s.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2 (empty department skipped)", len(s.Blocks))
	}
	// The skipped department still consumes its numeral slot.
	if s.Blocks[1].Label != "II. ACCOUNTING" {
		t.Errorf("second label = %q", s.Blocks[1].Label)
	}
}

func TestBuild_DepartmentFilter(t *testing.T) {
	s := report.Build(sheetState(), 2025, 6, "Accounting")

	if len(s.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(s.Blocks))
	}
	if s.Blocks[0].Label != "I. ACCOUNTING" {
		t.Errorf("label = %q, want numbering restarted at I", s.Blocks[0].Label)
	}
	if s.Department != "Accounting" {
		t.Errorf("department = %q", s.Department)
	}
}

// =============================================================================
// TOTALS
// =============================================================================

func TestBuild_PlainMonthTotals(t *testing.T) {
	s := report.Build(sheetState(), 2025, 6, "")
	row := findRow(t, s, "e2")

	if !row.Totals.Work.Equal(decimal.NewFromInt(23)) {
		t.Errorf("work total = %s, want 23", row.Totals.Work)
	}
	if row.Totals.Holiday+row.Totals.Leave+row.Totals.Unpaid+row.Totals.Sick != 0 {
		t.Errorf("leave totals should be zero, got %+v", row.Totals)
	}
}

func TestBuild_TotalsReflectLeaveAndHolidays(t *testing.T) {
	// GIVEN: A holiday on Wed Jun 4, approved sick leave Jun 9-10 (e2),
	//        and a manual unpaid override on Jun 11 (e2)
	// THEN: e2 loses those days from work and gains the leave counters

	st := sheetState()
	st.Holidays = []engine.PublicHoliday{{ID: "h1", Date: engine.MustDate("2025-06-04"), Name: "Founders Day"}}
	approver := "Dana"
	st.Requests = []engine.LeaveRequest{{
		ID: "r1", EmployeeID: "e2",
		Start: engine.MustDate("2025-06-09"), End: engine.MustDate("2025-06-10"),
		Kind: engine.KindSick, Status: engine.StatusApproved,
		DayCount: decimal.NewFromInt(2), ApproverName: &approver,
	}}
	st.Entries = []engine.ManualEntry{{
		EmployeeID: "e2", Date: engine.MustDate("2025-06-11"),
		Code: engine.EntryUnpaid, Value: decimal.Zero,
	}}

	s := report.Build(st, 2025, 6, "")
	row := findRow(t, s, "e2")

	// 23 - 1 holiday - 2 sick - 1 unpaid = 19
	if !row.Totals.Work.Equal(decimal.NewFromInt(19)) {
		t.Errorf("work total = %s, want 19", row.Totals.Work)
	}
	if row.Totals.Holiday != 1 {
		t.Errorf("holiday total = %d, want 1", row.Totals.Holiday)
	}
	if row.Totals.Sick != 2 {
		t.Errorf("sick total = %d, want 2", row.Totals.Sick)
	}
	if row.Totals.Unpaid != 1 {
		t.Errorf("unpaid total = %d, want 1", row.Totals.Unpaid)
	}

	// The holiday applies to everyone.
	other := findRow(t, s, "e3")
	if other.Totals.Holiday != 1 {
		t.Errorf("other employee holiday total = %d, want 1", other.Totals.Holiday)
	}
	if !other.Totals.Work.Equal(decimal.NewFromInt(22)) {
		t.Errorf("other employee work total = %s, want 22", other.Totals.Work)
	}
}

func TestBuild_ManualHalfDayCountsItsValue(t *testing.T) {
	st := sheetState()
	st.Entries = []engine.ManualEntry{{
		EmployeeID: "e2", Date: engine.MustDate("2025-06-08"), // a Sunday
		Code: engine.EntryHalfWork, Value: decimal.NewFromFloat(0.5),
	}}

	row := findRow(t, report.Build(st, 2025, 6, ""), "e2")
	if !row.Totals.Work.Equal(decimal.NewFromFloat(23.5)) {
		t.Errorf("work total = %s, want 23.5 (Sunday overridden to half day)", row.Totals.Work)
	}
}
