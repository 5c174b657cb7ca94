/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the engine via REST API. Handles HTTP request/response, JSON
  serialization, actor resolution and authority checks, and delegates
  to domain logic.

ENDPOINTS:
  Requests:
    GET    /api/requests               List requests visible to the actor
    POST   /api/requests               Submit a leave request
    POST   /api/requests/{id}/approve  Approve (authority checked)
    POST   /api/requests/{id}/reject   Reject (authority checked)
    POST   /api/requests/{id}/reopen   Back to pending (authority checked)
    DELETE /api/requests/{id}          Delete (owner or authority)

  Attendance:
    GET    /api/report                 Monthly sheet as JSON
    GET    /api/report/export          Monthly sheet as XLSX
    PUT    /api/entries                Apply or clear a manual override

  Directory (top authority only, except listing):
    GET/POST        /api/employees     List / create
    PUT/DELETE      /api/employees/{id}
    GET/POST/DELETE /api/departments
    POST            /api/import        Roster file import

  Admin (top authority only):
    GET/POST/DELETE /api/holidays
    GET/PUT         /api/company
    GET             /api/backup        Full state as JSON
    POST            /api/restore       Replace state from a backup

  Misc:
    POST   /api/rewrite                Polish a leave reason

ACTOR RESOLUTION:
  The acting employee comes from the X-Actor-ID header. There is no
  authentication layer; the engine trusts the deployment in front of
  it to establish identity and only enforces authorization.

CONCURRENCY:
  A single RWMutex guards the in-memory state. Mutations run under the
  write lock: mutate the state, then persist the touched collections.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Missing or unknown actor
  - 403: Authority rules deny the action
  - 404: Resource not found
  - 409: Overlapping approval
  - 500: Persistence errors

SEE ALSO:
  - dto.go: Request/response data structures
  - backup.go: Backup, restore and roster import handlers
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/report"
	"github.com/warp/attendance-engine/rewrite"
	"github.com/warp/attendance-engine/roster"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	store     engine.Store
	requests  *engine.RequestService
	sync      *engine.SyncCoordinator
	authority engine.Authority
	rewriter  rewrite.Rewriter
	logger    *slog.Logger

	// Rules derives system roles during roster import. Defaults to
	// roster.DefaultRules; override before serving.
	Rules roster.Rules

	mu    sync.RWMutex
	state *engine.State
}

// NewHandler creates a handler around a loaded state.
func NewHandler(store engine.Store, state *engine.State, authority engine.Authority,
	rewriter rewrite.Rewriter, logger *slog.Logger) *Handler {
	if rewriter == nil {
		rewriter = rewrite.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:     store,
		state:     state,
		requests:  engine.NewRequestService(),
		sync:      engine.NewSyncCoordinator(),
		authority: authority,
		rewriter:  rewriter,
		logger:    logger,
		Rules:     roster.DefaultRules(),
	}
}

// actor resolves the acting employee from the X-Actor-ID header.
// Callers must hold at least the read lock.
func (h *Handler) actor(r *http.Request) (engine.Employee, bool) {
	id := r.Header.Get("X-Actor-ID")
	if id == "" {
		return engine.Employee{}, false
	}
	return h.state.FindEmployee(id)
}

func (h *Handler) requireActor(w http.ResponseWriter, r *http.Request) (engine.Employee, bool) {
	actor, ok := h.actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unknown or missing actor", nil)
	}
	return actor, ok
}

func (h *Handler) requireTop(w http.ResponseWriter, r *http.Request) (engine.Employee, bool) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return actor, false
	}
	if actor.Role != engine.RoleTopAuthority {
		writeError(w, http.StatusForbidden, "Top authority required", nil)
		return actor, false
	}
	return actor, true
}

// persist logs and reports a storage failure. The in-memory state is
// already mutated at this point; the next successful save catches up.
func (h *Handler) persist(w http.ResponseWriter, err error) bool {
	if err != nil {
		h.logger.Error("persist failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to persist changes", err)
		return false
	}
	return true
}

// =============================================================================
// LEAVE REQUEST HANDLERS
// =============================================================================

// ListRequests returns the requests visible to the actor, newest first.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	dir := h.state.Directory()
	dtos := []RequestDTO{}
	for _, req := range h.state.Requests {
		if requestVisible(actor, req, dir) {
			dtos = append(dtos, h.toRequestDTO(req, actor, dir))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SubmitRequest creates a pending leave request. Employees submit for
// themselves; top authority may submit on anyone's behalf.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	if body.EmployeeID == "" {
		body.EmployeeID = actor.ID
	}
	if body.EmployeeID != actor.ID && actor.Role != engine.RoleTopAuthority {
		writeError(w, http.StatusForbidden, "Cannot submit for another employee", nil)
		return
	}

	req, err := h.requests.Submit(h.state, engine.SubmitInput{
		EmployeeID: body.EmployeeID,
		Start:      body.Start,
		End:        body.End,
		Kind:       engine.LeaveKind(body.Kind),
		Reason:     body.Reason,
	})
	if err != nil {
		writeError(w, statusFor(err), "Failed to submit request", err)
		return
	}
	if !h.persist(w, h.store.SaveRequests(r.Context(), h.state.Requests)) {
		return
	}

	dir := h.state.Directory()
	writeJSON(w, http.StatusCreated, h.toRequestDTO(*req, actor, dir))
}

// ApproveRequest transitions a request to approved.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, engine.StatusApproved)
}

// RejectRequest transitions a request to rejected.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, engine.StatusRejected)
}

// ReopenRequest puts a decided request back to pending.
func (h *Handler) ReopenRequest(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, engine.StatusPending)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, status engine.LeaveStatus) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	req, found := h.state.FindRequest(id)
	if !found {
		writeError(w, http.StatusNotFound, "Request not found", nil)
		return
	}

	dir := h.state.Directory()
	requester, found := dir.Find(req.EmployeeID)
	if !found {
		writeError(w, http.StatusConflict, "Requester no longer exists", nil)
		return
	}
	if !h.authority.CanAct(actor, *req, requester, dir) {
		writeError(w, http.StatusForbidden, "Not authorized to decide this request", nil)
		return
	}

	if err := h.requests.ChangeStatus(h.state, id, status, actor.Name); err != nil {
		writeError(w, statusFor(err), "Failed to change status", err)
		return
	}
	if !h.persist(w, h.store.SaveRequests(r.Context(), h.state.Requests)) {
		return
	}

	updated, _ := h.state.FindRequest(id)
	writeJSON(w, http.StatusOK, h.toRequestDTO(*updated, actor, dir))
}

// DeleteRequest removes a request. The owner may delete their own;
// otherwise the actor needs decision authority over it. Deleting a
// synthetic request also removes the manual override that created it.
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	req, found := h.state.FindRequest(id)
	if !found {
		writeError(w, http.StatusNotFound, "Request not found", nil)
		return
	}

	if req.EmployeeID != actor.ID {
		dir := h.state.Directory()
		requester, found := dir.Find(req.EmployeeID)
		allowed := actor.Role == engine.RoleTopAuthority ||
			(found && h.authority.CanAct(actor, *req, requester, dir))
		if !allowed {
			writeError(w, http.StatusForbidden, "Not authorized to delete this request", nil)
			return
		}
	}

	if err := h.requests.Delete(h.state, id); err != nil {
		writeError(w, statusFor(err), "Failed to delete request", err)
		return
	}
	if !h.persist(w, h.store.SaveReconciled(r.Context(), h.state.Requests, h.state.Entries)) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ApplyEntry applies or clears a manual attendance override and keeps
// the request list in sync with it.
func (h *Handler) ApplyEntry(w http.ResponseWriter, r *http.Request) {
	var body ApplyEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	code := engine.EntryCode(body.Code)
	if !code.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown entry code %q", body.Code), nil)
		return
	}
	if body.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "Date is required", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	target, found := h.state.FindEmployee(body.EmployeeID)
	if !found {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if !h.authority.CanEditCell(actor, target) {
		writeError(w, http.StatusForbidden, "Not authorized to edit this cell", nil)
		return
	}

	value := code.DayValue()
	if body.Value != nil {
		if body.Value.IsNegative() {
			writeError(w, http.StatusBadRequest, "Value cannot be negative", nil)
			return
		}
		value = *body.Value
	}

	h.sync.ApplyManualEntry(h.state, engine.ManualEntry{
		EmployeeID: target.ID,
		Date:       body.Date,
		Code:       code,
		Value:      value,
	}, actor.Name)

	if !h.persist(w, h.store.SaveReconciled(r.Context(), h.state.Requests, h.state.Entries)) {
		return
	}

	cell := engine.ResolveCell(target.ID, body.Date, h.state.HolidaySet(), h.state.Requests, h.state.EntrySet())
	writeJSON(w, http.StatusOK, cell)
}

// GetReport returns the monthly sheet as JSON.
// Query: year, month, department (optional).
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	year, month, department, err := reportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.requireActor(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.Build(h.state, year, month, department))
}

// ExportReport returns the monthly sheet as an XLSX download.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	year, month, department, err := reportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	h.mu.RLock()
	sheet := report.Build(h.state, year, month, department)
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Filename()))
	if err := report.WriteXLSX(w, sheet); err != nil {
		h.logger.Error("xlsx export failed", "error", err)
	}
}

func reportParams(r *http.Request) (int, time.Month, string, error) {
	q := r.URL.Query()
	today := engine.Today()

	year := today.Year()
	if s := q.Get("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, "", fmt.Errorf("bad year %q", s)
		}
		year = v
	}

	month := today.Month()
	if s := q.Get("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, "", fmt.Errorf("bad month %q", s)
		}
		month = time.Month(v)
	}

	// q.Get already returns the decoded value.
	return year, month, q.Get("department"), nil
}

// =============================================================================
// DIRECTORY HANDLERS
// =============================================================================

// ListEmployees returns all employees in directory order.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dtos := make([]EmployeeDTO, len(h.state.Employees))
	for i, e := range h.state.Employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee adds an employee. Top authority only.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var body SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}
	emp, err := employeeFromBody(body, uuid.NewString())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	h.state.Employees = append(h.state.Employees, emp)
	h.ensureDepartment(emp.Department)

	if !h.persist(w, h.store.SaveEmployees(r.Context(), h.state.Employees, h.state.Departments)) {
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// UpdateEmployee rewrites an employee record. Top authority only.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}
	emp, err := employeeFromBody(body, id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	updated := false
	for i := range h.state.Employees {
		if h.state.Employees[i].ID == id {
			h.state.Employees[i] = emp
			updated = true
			break
		}
	}
	if !updated {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	h.ensureDepartment(emp.Department)

	if !h.persist(w, h.store.SaveEmployees(r.Context(), h.state.Employees, h.state.Departments)) {
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// DeleteEmployee removes an employee. Their historical requests and
// overrides remain. Top authority only.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}

	kept := h.state.Employees[:0]
	found := false
	for _, e := range h.state.Employees {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	h.state.Employees = kept

	if !h.persist(w, h.store.SaveEmployees(r.Context(), h.state.Employees, h.state.Departments)) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDepartments returns department names in sheet order.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	writeJSON(w, http.StatusOK, append([]string{}, h.state.Departments...))
}

// CreateDepartment appends a department. Top authority only.
func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "Department name is required", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}
	if !h.ensureDepartment(body.Name) {
		writeError(w, http.StatusConflict, "Department already exists", nil)
		return
	}
	if !h.persist(w, h.store.SaveEmployees(r.Context(), h.state.Employees, h.state.Departments)) {
		return
	}
	writeJSON(w, http.StatusCreated, h.state.Departments)
}

// DeleteDepartment removes an empty department. Top authority only.
func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	name, err := url.QueryUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid department name", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}
	for _, e := range h.state.Employees {
		if e.Department == name {
			writeError(w, http.StatusConflict, "Department still has employees", nil)
			return
		}
	}

	kept := h.state.Departments[:0]
	found := false
	for _, d := range h.state.Departments {
		if d == name {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		writeError(w, http.StatusNotFound, "Department not found", nil)
		return
	}
	h.state.Departments = kept

	if !h.persist(w, h.store.SaveEmployees(r.Context(), h.state.Employees, h.state.Departments)) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ensureDepartment appends name if missing and reports whether it did.
// Callers must hold the write lock.
func (h *Handler) ensureDepartment(name string) bool {
	for _, d := range h.state.Departments {
		if d == name {
			return false
		}
	}
	h.state.Departments = append(h.state.Departments, name)
	return true
}

func employeeFromBody(body SaveEmployeeRequest, id string) (engine.Employee, error) {
	if body.Name == "" {
		return engine.Employee{}, errors.New("name is required")
	}
	if body.Department == "" {
		return engine.Employee{}, errors.New("department is required")
	}
	role := engine.Role(body.Role)
	if body.Role == "" {
		role = engine.RoleBase
	}
	if !role.Valid() {
		return engine.Employee{}, fmt.Errorf("unknown role %q", body.Role)
	}
	return engine.Employee{
		ID:         id,
		Name:       body.Name,
		Department: body.Department,
		JobTitle:   body.JobTitle,
		Role:       role,
	}, nil
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all public holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dtos := make([]HolidayDTO, len(h.state.Holidays))
	for i, hd := range h.state.Holidays {
		dtos[i] = HolidayDTO{ID: hd.ID, Date: hd.Date.String(), Name: hd.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a public holiday. Top authority only.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var body CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.Date.IsZero() || body.Name == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}
	for _, hd := range h.state.Holidays {
		if hd.Date.Equal(body.Date) {
			writeError(w, http.StatusConflict, "Holiday already exists on that date", nil)
			return
		}
	}

	holiday := engine.PublicHoliday{ID: uuid.NewString(), Date: body.Date, Name: body.Name}
	h.state.Holidays = append(h.state.Holidays, holiday)

	if !h.persist(w, h.store.SaveHolidays(r.Context(), h.state.Holidays)) {
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{ID: holiday.ID, Date: holiday.Date.String(), Name: holiday.Name})
}

// DeleteHoliday removes a public holiday. Top authority only.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}

	kept := h.state.Holidays[:0]
	found := false
	for _, hd := range h.state.Holidays {
		if hd.ID == id {
			found = true
			continue
		}
		kept = append(kept, hd)
	}
	if !found {
		writeError(w, http.StatusNotFound, "Holiday not found", nil)
		return
	}
	h.state.Holidays = kept

	if !h.persist(w, h.store.SaveHolidays(r.Context(), h.state.Holidays)) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMPANY AND REWRITE HANDLERS
// =============================================================================

// GetCompany returns the company branding settings.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	writeJSON(w, http.StatusOK, CompanyDTO{Name: h.state.Company.Name, Logo: h.state.Company.Logo})
}

// UpdateCompany replaces the company settings. Top authority only.
func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var body CompanyDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "Company name is required", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}
	h.state.Company = engine.CompanyInfo{Name: body.Name, Logo: body.Logo}

	if !h.persist(w, h.store.SaveCompany(r.Context(), h.state.Company)) {
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// RewriteReason polishes a leave reason. Failures degrade to the
// original text, so this endpoint never errors on AI trouble.
func (h *Handler) RewriteReason(w http.ResponseWriter, r *http.Request) {
	var body RewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind := engine.LeaveKind(body.Kind)
	days := body.Days
	if days.IsZero() {
		days = decimal.NewFromInt(1)
	}

	polished := h.rewriter.Rewrite(r.Context(), body.Reason, kind, days)
	writeJSON(w, http.StatusOK, RewriteResponse{Reason: polished})
}

// =============================================================================
// HELPERS
// =============================================================================

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrOverlappingApproval):
		return http.StatusConflict
	case engine.IsNotFound(err):
		return http.StatusNotFound
	case engine.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
