/*
backup.go - Backup, restore and roster import handlers

PURPOSE:
  The whole application state travels as one JSON document, so a
  backup taken on one machine restores on another with nothing lost.

RESTORE SEMANTICS:
  All-or-nothing. The payload is decoded and validated in full before
  anything is applied; a payload that fails validation changes neither
  the in-memory state nor the store.

IMPORT SEMANTICS:
  Roster import accepts a CSV or XLSX file (multipart form, field
  "file") plus a mode:
    append:  new people are added, existing name+department pairs are
             kept untouched
    replace: the employee and department lists are replaced wholesale;
             requests, overrides and holidays survive

SEE ALSO:
  - engine/state.go: State.Validate, the restore gate
  - roster/roster.go: the file parser
*/
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/roster"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// Backup streams the full state as a JSON download.
func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}

	filename := fmt.Sprintf("attendance_backup_%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h.state); err != nil {
		h.logger.Error("backup encode failed", "error", err)
	}
}

// Restore replaces the full state from a backup document.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}

	restored := engine.NewState()
	if err := json.Unmarshal(body, restored); err != nil {
		writeError(w, http.StatusBadRequest, "Backup is not valid JSON", err)
		return
	}
	if err := restored.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Backup failed validation", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}
	if err := h.store.SaveAll(r.Context(), restored); err != nil {
		// Store refused; the in-memory state is untouched.
		h.logger.Error("restore persist failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to persist restored state", err)
		return
	}
	h.state = restored

	writeJSON(w, http.StatusOK, map[string]any{
		"employees": len(restored.Employees),
		"requests":  len(restored.Requests),
		"holidays":  len(restored.Holidays),
		"entries":   len(restored.Entries),
	})
}

// ImportRoster imports employees from an uploaded roster file.
// Form fields: file (the roster), mode (append|replace, default append).
func (h *Handler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Roster file is required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read roster file", err)
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = "append"
	}
	if mode != "append" && mode != "replace" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown import mode %q", mode), nil)
		return
	}

	parsed, err := roster.Parse(data, header.Filename, h.Rules, uuid.NewString)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse roster", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.requireTop(w, r); !ok {
		return
	}

	if mode == "replace" {
		h.state.Employees = parsed.Employees
		h.state.Departments = parsed.Departments
	} else {
		for _, emp := range parsed.Employees {
			if importDuplicate(h.state.Employees, emp) {
				continue
			}
			h.state.Employees = append(h.state.Employees, emp)
		}
		for _, dept := range parsed.Departments {
			h.ensureDepartment(dept)
		}
	}

	if !h.persist(w, h.store.SaveEmployees(r.Context(), h.state.Employees, h.state.Departments)) {
		return
	}
	writeJSON(w, http.StatusOK, ImportResultDTO{
		Mode:        mode,
		Employees:   len(parsed.Employees),
		Departments: len(parsed.Departments),
	})
}

// importDuplicate matches names case-insensitively so re-importing a
// roster with different capitalization does not duplicate people.
func importDuplicate(existing []engine.Employee, emp engine.Employee) bool {
	for _, e := range existing {
		if strings.EqualFold(e.Name, emp.Name) && e.Department == emp.Department {
			return true
		}
	}
	return false
}
