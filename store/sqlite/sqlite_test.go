package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "attendance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func fixtureState() *engine.State {
	approver := "Alice Nguyen"
	entryKey := engine.EntryKey{EmployeeID: "eng-1", Date: engine.MustDate("2025-06-11")}
	created := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

	return &engine.State{
		Employees: []engine.Employee{
			{ID: "eng-head", Name: "Alice Nguyen", Department: "Engineering", JobTitle: "Head of Engineering", Role: engine.RoleMidAuthority},
			{ID: "eng-1", Name: "Bob Tran", Department: "Engineering", JobTitle: "Engineer", Role: engine.RoleBase},
		},
		Departments: []string{"Engineering", "Accounting"},
		Requests: []engine.LeaveRequest{
			{
				ID:         "r1",
				EmployeeID: "eng-1",
				Start:      engine.MustDate("2025-06-02"),
				End:        engine.MustDate("2025-06-04"),
				Kind:       engine.KindVacation,
				Reason:     "family trip",
				Status:     engine.StatusPending,
				DayCount:   decimal.NewFromInt(3),
				CreatedAt:  created,
			},
			{
				ID:            "r2",
				EmployeeID:    "eng-1",
				Start:         engine.MustDate("2025-06-11"),
				End:           engine.MustDate("2025-06-11"),
				Kind:          engine.KindSick,
				Status:        engine.StatusApproved,
				DayCount:      decimal.NewFromInt(1),
				CreatedAt:     created.Add(time.Hour),
				ApproverName:  &approver,
				GeneratedFrom: &entryKey,
			},
		},
		Holidays: []engine.PublicHoliday{
			{ID: "h1", Date: engine.MustDate("2025-06-18"), Name: "Founders Day"},
		},
		Entries: []engine.ManualEntry{
			{EmployeeID: "eng-1", Date: engine.MustDate("2025-06-11"), Code: engine.EntrySick, Value: decimal.Zero},
			{EmployeeID: "eng-1", Date: engine.MustDate("2025-06-14"), Code: engine.EntryHalfWork, Value: decimal.NewFromFloat(0.5)},
		},
		Company: engine.CompanyInfo{Name: "Acme Industrial", Logo: "data:image/png;base64,xyz"},
	}
}

func TestSaveAllLoadRoundTrip(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	want := fixtureState()

	require.NoError(t, st.SaveAll(ctx, want))
	got, err := st.Load(ctx)
	require.NoError(t, err)

	require.Len(t, got.Employees, 2)
	assert.Equal(t, want.Employees, got.Employees, "insertion order survives")
	assert.Equal(t, want.Departments, got.Departments)
	assert.Equal(t, want.Company, got.Company)

	// Requests load newest first.
	require.Len(t, got.Requests, 2)
	expected := []engine.LeaveRequest{want.Requests[1], want.Requests[0]}
	for i, req := range got.Requests {
		exp := expected[i]
		assert.Equal(t, exp.ID, req.ID)
		assert.Equal(t, exp.Kind, req.Kind)
		assert.Equal(t, exp.Status, req.Status)
		assert.True(t, req.Start.Equal(exp.Start))
		assert.True(t, req.End.Equal(exp.End))
		assert.True(t, req.DayCount.Equal(exp.DayCount), "day count %s", req.DayCount)
		assert.True(t, req.CreatedAt.Equal(exp.CreatedAt), "created at %s", req.CreatedAt)
	}

	synthetic := got.Requests[0]
	require.NotNil(t, synthetic.ApproverName)
	assert.Equal(t, "Alice Nguyen", *synthetic.ApproverName)
	require.NotNil(t, synthetic.GeneratedFrom)
	assert.Equal(t, "eng-1", synthetic.GeneratedFrom.EmployeeID)
	assert.True(t, synthetic.GeneratedFrom.Date.Equal(engine.MustDate("2025-06-11")))

	require.Len(t, got.Holidays, 1)
	assert.True(t, got.Holidays[0].Date.Equal(engine.MustDate("2025-06-18")))

	require.Len(t, got.Entries, 2)
	assert.Equal(t, engine.EntryHalfWork, got.Entries[1].Code)
	assert.True(t, got.Entries[1].Value.Equal(decimal.NewFromFloat(0.5)))
}

func TestLoadEmptyDatabase(t *testing.T) {
	st := newStore(t)

	got, err := st.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, got.Employees)
	assert.Empty(t, got.Requests)
	assert.Empty(t, got.Holidays)
	assert.Empty(t, got.Entries)
	assert.NotEmpty(t, got.Company.Name, "fresh databases get the default company")
}

func TestSaveReconciledReplacesBothCollections(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	seed := fixtureState()
	require.NoError(t, st.SaveAll(ctx, seed))

	// Clearing the manual edit drops the synthetic request and the entry
	// in one transaction.
	requests := seed.Requests[:1]
	entries := seed.Entries[1:]
	require.NoError(t, st.SaveReconciled(ctx, requests, entries))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Requests, 1)
	assert.Equal(t, "r1", got.Requests[0].ID)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, engine.EntryHalfWork, got.Entries[0].Code)

	// The untouched collections survived.
	assert.Len(t, got.Employees, 2)
	assert.Len(t, got.Holidays, 1)
}

func TestPartialSavesAreIndependent(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	require.NoError(t, st.SaveAll(ctx, fixtureState()))

	require.NoError(t, st.SaveHolidays(ctx, nil))
	require.NoError(t, st.SaveCompany(ctx, engine.CompanyInfo{Name: "Renamed Co"}))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Holidays)
	assert.Equal(t, "Renamed Co", got.Company.Name)
	assert.Len(t, got.Employees, 2)
	assert.Len(t, got.Requests, 2)
}

func TestReopenExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attendance.db")
	ctx := context.Background()

	first, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, first.SaveAll(ctx, fixtureState()))
	require.NoError(t, first.Close())

	second, err := sqlite.New(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Employees, 2)
	assert.Equal(t, "Acme Industrial", got.Company.Name)
}
