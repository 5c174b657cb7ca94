/*
request.go - Leave request submission and status workflow

PURPOSE:
  Submission validates the interval (a zero chargeable-day total is a
  validation failure, not an error in counting) and creates a Pending
  request. The status machine is deliberately resettable: every
  transition between Pending, Approved and Rejected is reachable and
  there is no terminal state - a decision can be reopened.

APPROVER TRACKING:
  Entering Approved records the acting employee's name; leaving Approved
  for any other state clears it. The approver field is set exactly when
  the status is Approved.

SYNTHETIC REQUESTS:
  Requests generated by the SyncCoordinator are excluded from this
  workflow entirely: transitioning one is ErrSyntheticRequest, and
  deleting one also removes the manual override it mirrors, so the
  reconciliation invariant survives direct deletion.
*/
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestService owns the submission and status workflow over a State.
type RequestService struct {
	NewID func() string
	Now   func() time.Time
}

func NewRequestService() *RequestService {
	return &RequestService{NewID: uuid.NewString, Now: time.Now}
}

// SubmitInput carries a self-service leave submission.
type SubmitInput struct {
	EmployeeID string
	Start      Date
	End        Date
	Kind       LeaveKind
	Reason     string
}

// Submit validates the interval against the current holiday calendar and
// appends a Pending request. An interval with a missing endpoint, or one
// that counts to zero chargeable days (end before start, or
// holidays/Sundays only), is rejected.
func (rs *RequestService) Submit(st *State, in SubmitInput) (*LeaveRequest, error) {
	if _, ok := st.FindEmployee(in.EmployeeID); !ok {
		return nil, fmt.Errorf("submit: %w: %s", ErrEmployeeNotFound, in.EmployeeID)
	}
	if !in.Kind.Valid() {
		return nil, fmt.Errorf("submit: unknown leave kind %q", in.Kind)
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return nil, fmt.Errorf("submit: missing start or end date: %w", ErrInvalidInterval)
	}

	days := CountLeaveDays(in.Start, in.End, st.HolidaySet())
	if days.IsZero() {
		return nil, fmt.Errorf("submit %s..%s: %w", in.Start, in.End, ErrInvalidInterval)
	}

	st.Requests = append(st.Requests, LeaveRequest{
		ID:         rs.NewID(),
		EmployeeID: in.EmployeeID,
		Start:      in.Start,
		End:        in.End,
		Kind:       in.Kind,
		Reason:     in.Reason,
		Status:     StatusPending,
		DayCount:   days,
		CreatedAt:  rs.Now(),
	})
	return &st.Requests[len(st.Requests)-1], nil
}

// ChangeStatus moves a request to newStatus. actorName is recorded as the
// approver when the new status is Approved.
//
// Entering Approved additionally enforces that no other approved request
// of the same employee covers any day of the interval.
func (rs *RequestService) ChangeStatus(st *State, requestID string, newStatus LeaveStatus, actorName string) error {
	if !newStatus.Valid() {
		return fmt.Errorf("change status: unknown status %q", newStatus)
	}
	req, ok := st.FindRequest(requestID)
	if !ok {
		return fmt.Errorf("change status: %w: %s", ErrRequestNotFound, requestID)
	}
	if req.IsSynthetic() {
		return fmt.Errorf("change status %s: %w", requestID, ErrSyntheticRequest)
	}

	if newStatus == StatusApproved {
		for i := range st.Requests {
			other := &st.Requests[i]
			if other.ID == req.ID || other.EmployeeID != req.EmployeeID || other.Status != StatusApproved {
				continue
			}
			if other.Overlaps(req.Start, req.End) {
				return fmt.Errorf("approve %s: interval overlaps approved request %s: %w",
					requestID, other.ID, ErrOverlappingApproval)
			}
		}
		req.Status = StatusApproved
		name := actorName
		req.ApproverName = &name
		return nil
	}

	req.Status = newStatus
	req.ApproverName = nil
	return nil
}

// Delete removes a request. Deleting a synthetic request also removes the
// manual override that produced it, keeping override and leave
// bookkeeping consistent in both directions.
func (rs *RequestService) Delete(st *State, requestID string) error {
	for i := range st.Requests {
		req := st.Requests[i]
		if req.ID != requestID {
			continue
		}
		st.Requests = append(st.Requests[:i], st.Requests[i+1:]...)
		if req.GeneratedFrom != nil {
			st.removeEntry(*req.GeneratedFrom)
		}
		return nil
	}
	return fmt.Errorf("delete: %w: %s", ErrRequestNotFound, requestID)
}
