/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VISIBILITY:
  Leave requests are filtered per viewer before serialization:
  top authority sees every request, a mid authority sees their own
  department, everyone sees their own. Each serialized request also
  carries can_act, the viewer's right to change its status, so the
  client never re-implements the authority rules.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/authority.go: The rules behind can_act
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	JobTitle   string `json:"jobTitle"`
	Role       string `json:"role"`
}

// SaveEmployeeRequest creates or updates an employee.
type SaveEmployeeRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	JobTitle   string `json:"jobTitle"`
	Role       string `json:"role"`
}

// RequestDTO represents a leave request in API responses.
type RequestDTO struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Department   string  `json:"department"`
	Start        string  `json:"startDate"`
	End          string  `json:"endDate"`
	Kind         string  `json:"kind"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	DayCount     string  `json:"dayCount"`
	CreatedAt    string  `json:"createdAt"`
	ApproverName *string `json:"approverName,omitempty"`
	Synthetic    bool    `json:"synthetic"`
	CanAct       bool    `json:"canAct"`
}

// SubmitRequestDTO submits a new leave request.
type SubmitRequestDTO struct {
	EmployeeID string      `json:"employeeId"`
	Start      engine.Date `json:"startDate"`
	End        engine.Date `json:"endDate"`
	Kind       string      `json:"kind"`
	Reason     string      `json:"reason"`
}

// HolidayDTO represents a public holiday.
type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// CreateHolidayRequest creates a public holiday.
type CreateHolidayRequest struct {
	Date engine.Date `json:"date"`
	Name string      `json:"name"`
}

// ApplyEntryRequest applies (or clears) a manual attendance override.
// Value is optional; when omitted the code's default day value is used.
type ApplyEntryRequest struct {
	EmployeeID string           `json:"employeeId"`
	Date       engine.Date      `json:"date"`
	Code       string           `json:"code"`
	Value      *decimal.Decimal `json:"value,omitempty"`
}

// CompanyDTO carries the company branding settings.
type CompanyDTO struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// RewriteRequest asks for a polished version of a leave reason.
type RewriteRequest struct {
	Reason string          `json:"reason"`
	Kind   string          `json:"kind"`
	Days   decimal.Decimal `json:"days"`
}

// RewriteResponse returns the polished reason.
type RewriteResponse struct {
	Reason string `json:"reason"`
}

// ImportResultDTO summarizes a roster import.
type ImportResultDTO struct {
	Mode        string `json:"mode"`
	Employees   int    `json:"employees"`
	Departments int    `json:"departments"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(e engine.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:         e.ID,
		Name:       e.Name,
		Department: e.Department,
		JobTitle:   e.JobTitle,
		Role:       string(e.Role),
	}
}

func (h *Handler) toRequestDTO(req engine.LeaveRequest, viewer engine.Employee, dir *engine.Directory) RequestDTO {
	dto := RequestDTO{
		ID:         req.ID,
		EmployeeID: req.EmployeeID,
		Start:      req.Start.String(),
		End:        req.End.String(),
		Kind:       string(req.Kind),
		Reason:     req.Reason,
		Status:     string(req.Status),
		DayCount:   req.DayCount.String(),
		CreatedAt:  req.CreatedAt.UTC().Format(time.RFC3339),
		Synthetic:  req.IsSynthetic(),
	}
	if req.ApproverName != nil {
		name := *req.ApproverName
		dto.ApproverName = &name
	}
	if requester, ok := dir.Find(req.EmployeeID); ok {
		dto.EmployeeName = requester.Name
		dto.Department = requester.Department
		dto.CanAct = !req.IsSynthetic() && h.authority.CanAct(viewer, req, requester, dir)
	} else {
		// Requester left the company; the request stays visible to
		// top authority but nobody can act on it.
		dto.EmployeeName = req.EmployeeID
	}
	return dto
}

// requestVisible reports whether viewer may see a request.
func requestVisible(viewer engine.Employee, req engine.LeaveRequest, dir *engine.Directory) bool {
	if req.EmployeeID == viewer.ID {
		return true
	}
	switch viewer.Role {
	case engine.RoleTopAuthority:
		return true
	case engine.RoleMidAuthority:
		requester, ok := dir.Find(req.EmployeeID)
		return ok && requester.Department == viewer.Department
	default:
		return false
	}
}
