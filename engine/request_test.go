package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/engine"
)

func newRequestState() *engine.State {
	st := engine.NewState()
	st.Employees = []engine.Employee{engHead, engStaff, boss}
	st.Departments = []string{"Engineering", "Executive"}
	return st
}

func newService() *engine.RequestService {
	n := 0
	return &engine.RequestService{
		NewID: func() string { n++; return fmt.Sprintf("req-%d", n) },
		Now:   func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) },
	}
}

func TestSubmit_CreatesPendingRequest(t *testing.T) {
	st := newRequestState()
	svc := newService()

	req, err := svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID,
		Start:      date("2025-06-02"),
		End:        date("2025-06-06"),
		Kind:       engine.KindVacation,
		Reason:     "family trip",
	})
	require.NoError(t, err)

	assert.Equal(t, engine.StatusPending, req.Status)
	assert.True(t, req.DayCount.Equal(decimal.NewFromInt(5)), "Mon..Fri should count 5 days, got %s", req.DayCount)
	assert.Nil(t, req.ApproverName)
	assert.False(t, req.IsSynthetic())
	assert.Len(t, st.Requests, 1)
}

func TestSubmit_DayCountUsesCurrentHolidays(t *testing.T) {
	st := newRequestState()
	st.Holidays = []engine.PublicHoliday{{ID: "h1", Date: date("2025-06-04"), Name: "Founders Day"}}

	req, err := newService().Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID,
		Start:      date("2025-06-02"),
		End:        date("2025-06-06"),
		Kind:       engine.KindVacation,
	})
	require.NoError(t, err)
	assert.True(t, req.DayCount.Equal(decimal.NewFromInt(4)), "holiday should be excluded, got %s", req.DayCount)
}

func TestSubmit_Rejections(t *testing.T) {
	st := newRequestState()
	svc := newService()

	_, err := svc.Submit(st, engine.SubmitInput{
		EmployeeID: "ghost",
		Start:      date("2025-06-02"),
		End:        date("2025-06-02"),
		Kind:       engine.KindVacation,
	})
	assert.ErrorIs(t, err, engine.ErrEmployeeNotFound)

	// Sunday-only interval counts to zero chargeable days.
	_, err = svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID,
		Start:      date("2025-06-08"),
		End:        date("2025-06-08"),
		Kind:       engine.KindVacation,
	})
	assert.ErrorIs(t, err, engine.ErrInvalidInterval)

	_, err = svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID,
		Start:      date("2025-06-06"),
		End:        date("2025-06-02"),
		Kind:       engine.KindVacation,
	})
	assert.ErrorIs(t, err, engine.ErrInvalidInterval, "end before start is an invalid interval")

	_, err = svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID,
		Start:      date("2025-06-02"),
		End:        date("2025-06-02"),
		Kind:       engine.LeaveKind("sabbatical"),
	})
	assert.Error(t, err, "unknown kind should be rejected")

	// Unset dates must not slip through as a year-1 interval.
	_, err = svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID,
		Kind:       engine.KindVacation,
	})
	assert.ErrorIs(t, err, engine.ErrInvalidInterval, "zero dates are an invalid interval")

	_, err = svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID,
		End:        date("2025-06-02"),
		Kind:       engine.KindVacation,
	})
	assert.ErrorIs(t, err, engine.ErrInvalidInterval, "a missing start date is an invalid interval")
	assert.Empty(t, st.Requests, "nothing was stored for the rejected submissions")
}

func TestChangeStatus_ApproverLifecycle(t *testing.T) {
	// GIVEN: A pending request
	// WHEN: Approved, then reopened, then rejected
	// THEN: The approver name is present exactly while approved

	st := newRequestState()
	svc := newService()
	req, err := svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID,
		Start:      date("2025-06-02"),
		End:        date("2025-06-03"),
		Kind:       engine.KindVacation,
	})
	require.NoError(t, err)
	id := req.ID

	require.NoError(t, svc.ChangeStatus(st, id, engine.StatusApproved, engHead.Name))
	got, _ := st.FindRequest(id)
	assert.Equal(t, engine.StatusApproved, got.Status)
	require.NotNil(t, got.ApproverName)
	assert.Equal(t, engHead.Name, *got.ApproverName)

	require.NoError(t, svc.ChangeStatus(st, id, engine.StatusPending, engHead.Name))
	got, _ = st.FindRequest(id)
	assert.Equal(t, engine.StatusPending, got.Status)
	assert.Nil(t, got.ApproverName, "leaving approved must clear the approver")

	require.NoError(t, svc.ChangeStatus(st, id, engine.StatusRejected, engHead.Name))
	got, _ = st.FindRequest(id)
	assert.Equal(t, engine.StatusRejected, got.Status)
	assert.Nil(t, got.ApproverName)
}

func TestChangeStatus_OverlappingApprovalRejected(t *testing.T) {
	// GIVEN: An approved request covering Wed
	// WHEN: Approving a second request of the same employee that also
	//       covers Wed
	// THEN: ErrOverlappingApproval; the overlap is only checked when
	//       entering Approved, so both may sit pending side by side

	st := newRequestState()
	svc := newService()

	first, err := svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID, Start: date("2025-06-02"), End: date("2025-06-04"), Kind: engine.KindVacation,
	})
	require.NoError(t, err)
	second, err := svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID, Start: date("2025-06-04"), End: date("2025-06-06"), Kind: engine.KindSick,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ChangeStatus(st, first.ID, engine.StatusApproved, engHead.Name))
	err = svc.ChangeStatus(st, second.ID, engine.StatusApproved, engHead.Name)
	assert.ErrorIs(t, err, engine.ErrOverlappingApproval)

	// Rejecting the first frees the days.
	require.NoError(t, svc.ChangeStatus(st, first.ID, engine.StatusRejected, engHead.Name))
	assert.NoError(t, svc.ChangeStatus(st, second.ID, engine.StatusApproved, engHead.Name))
}

func TestChangeStatus_DisjointApprovalsAllowed(t *testing.T) {
	st := newRequestState()
	svc := newService()

	first, err := svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID, Start: date("2025-06-02"), End: date("2025-06-03"), Kind: engine.KindVacation,
	})
	require.NoError(t, err)
	second, err := svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID, Start: date("2025-06-05"), End: date("2025-06-06"), Kind: engine.KindVacation,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ChangeStatus(st, first.ID, engine.StatusApproved, engHead.Name))
	assert.NoError(t, svc.ChangeStatus(st, second.ID, engine.StatusApproved, engHead.Name))
}

func TestChangeStatus_SyntheticRequestRefused(t *testing.T) {
	st := newSyncState()
	engine.NewSyncCoordinator().ApplyManualEntry(st,
		engine.ManualEntry{EmployeeID: engStaff.ID, Date: date("2025-06-04"), Code: engine.EntrySick},
		engHead.Name)
	gen := syntheticRequests(st)
	require.Len(t, gen, 1)

	err := newService().ChangeStatus(st, gen[0].ID, engine.StatusRejected, engHead.Name)
	assert.ErrorIs(t, err, engine.ErrSyntheticRequest)
}

func TestChangeStatus_NotFound(t *testing.T) {
	err := newService().ChangeStatus(newRequestState(), "nope", engine.StatusApproved, "x")
	assert.ErrorIs(t, err, engine.ErrRequestNotFound)
}

func TestDelete_RemovesRequest(t *testing.T) {
	st := newRequestState()
	svc := newService()
	req, err := svc.Submit(st, engine.SubmitInput{
		EmployeeID: engStaff.ID, Start: date("2025-06-02"), End: date("2025-06-03"), Kind: engine.KindVacation,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(st, req.ID))
	assert.Empty(t, st.Requests)

	assert.ErrorIs(t, svc.Delete(st, req.ID), engine.ErrRequestNotFound)
}
