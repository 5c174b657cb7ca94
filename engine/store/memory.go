// Package store provides an in-memory Store implementation for tests
// and development. Saves deep-copy their input so later in-place state
// mutations don't leak into the "persisted" snapshot.
package store

import (
	"context"
	"sync"

	"github.com/warp/attendance-engine/engine"
)

type Memory struct {
	mu sync.RWMutex
	st engine.State
}

func NewMemory() *Memory {
	return &Memory{st: *engine.NewState()}
}

func (m *Memory) Load(_ context.Context) (*engine.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := engine.State{
		Employees:   append([]engine.Employee(nil), m.st.Employees...),
		Departments: append([]string(nil), m.st.Departments...),
		Requests:    append([]engine.LeaveRequest(nil), m.st.Requests...),
		Holidays:    append([]engine.PublicHoliday(nil), m.st.Holidays...),
		Entries:     append([]engine.ManualEntry(nil), m.st.Entries...),
		Company:     m.st.Company,
	}
	return &st, nil
}

func (m *Memory) SaveEmployees(_ context.Context, employees []engine.Employee, departments []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Employees = append([]engine.Employee(nil), employees...)
	m.st.Departments = append([]string(nil), departments...)
	return nil
}

func (m *Memory) SaveRequests(_ context.Context, requests []engine.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Requests = append([]engine.LeaveRequest(nil), requests...)
	return nil
}

func (m *Memory) SaveReconciled(_ context.Context, requests []engine.LeaveRequest, entries []engine.ManualEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Requests = append([]engine.LeaveRequest(nil), requests...)
	m.st.Entries = append([]engine.ManualEntry(nil), entries...)
	return nil
}

func (m *Memory) SaveHolidays(_ context.Context, holidays []engine.PublicHoliday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Holidays = append([]engine.PublicHoliday(nil), holidays...)
	return nil
}

func (m *Memory) SaveCompany(_ context.Context, info engine.CompanyInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Company = info
	return nil
}

func (m *Memory) SaveAll(_ context.Context, st *engine.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = engine.State{
		Employees:   append([]engine.Employee(nil), st.Employees...),
		Departments: append([]string(nil), st.Departments...),
		Requests:    append([]engine.LeaveRequest(nil), st.Requests...),
		Holidays:    append([]engine.PublicHoliday(nil), st.Holidays...),
		Entries:     append([]engine.ManualEntry(nil), st.Entries...),
		Company:     st.Company,
	}
	return nil
}

func (m *Memory) Close() error { return nil }

var _ engine.Store = (*Memory)(nil)
