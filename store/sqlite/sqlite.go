/*
Package sqlite provides the SQLite-backed implementation of engine.Store.

PURPOSE:
  The durable store behind the engine: everything is read once at
  startup, and the touched collections are written back after each
  mutation. Each Save* replaces its collection inside one transaction,
  so a half-written collection is never observable after a crash.

KEY TABLES:
  employees:       directory records (+ position for stable ordering)
  departments:     ordered department list (orders sheet blocks)
  leave_requests:  submitted and synthetic requests
  holidays:        global public holidays
  manual_entries:  attendance overrides, PK (employee_id, date)
  company:         single-row branding settings

ATOMICITY:
  SaveReconciled writes leave_requests and manual_entries in the same
  transaction. An override and the request it generated must commit or
  fail together.

LOAD FALLBACK:
  A collection that fails to scan (schema drift, hand-edited rows)
  loads as empty and is logged as a warning; Load only fails when the
  database itself is unusable.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better crash
  recovery. A sync.RWMutex serializes writers; there is a single
  logical writer per process anyway.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: Interface definition
  - engine/store/memory.go: In-memory implementation used in tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *slog.Logger
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single connection: one writer by design, and an in-memory database
	// must not be split across pooled connections.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, logger: slog.Default()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// SetLogger overrides the logger used for load-fallback warnings.
func (s *Store) SetLogger(l *slog.Logger) { s.logger = l }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL,
		job_title TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS departments (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		kind TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		day_count TEXT NOT NULL,
		created_at TEXT NOT NULL,
		approver_name TEXT,
		generated_employee_id TEXT,
		generated_date TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_requests_employee_dates
		ON leave_requests(employee_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS manual_entries (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		code TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (employee_id, date)
	);

	CREATE TABLE IF NOT EXISTS company (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL,
		logo TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// withTx executes fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// =============================================================================
// LOAD
// =============================================================================

func (s *Store) Load(ctx context.Context) (*engine.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := engine.NewState()

	employees, departments, err := s.loadEmployees(ctx)
	if err != nil {
		s.logger.Warn("employees collection unreadable, starting empty", "error", err)
	} else {
		st.Employees, st.Departments = employees, departments
	}

	requests, err := s.loadRequests(ctx)
	if err != nil {
		s.logger.Warn("leave requests collection unreadable, starting empty", "error", err)
	} else {
		st.Requests = requests
	}

	holidays, err := s.loadHolidays(ctx)
	if err != nil {
		s.logger.Warn("holidays collection unreadable, starting empty", "error", err)
	} else {
		st.Holidays = holidays
	}

	entries, err := s.loadEntries(ctx)
	if err != nil {
		s.logger.Warn("manual entries collection unreadable, starting empty", "error", err)
	} else {
		st.Entries = entries
	}

	if info, err := s.loadCompany(ctx); err != nil {
		s.logger.Warn("company settings unreadable, using defaults", "error", err)
	} else if info != nil {
		st.Company = *info
	}

	return st, nil
}

func (s *Store) loadEmployees(ctx context.Context) ([]engine.Employee, []string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, department, job_title, role FROM employees ORDER BY position`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var employees []engine.Employee
	for rows.Next() {
		var emp engine.Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Department, &emp.JobTitle, &emp.Role); err != nil {
			return nil, nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	deptRows, err := s.db.QueryContext(ctx, `SELECT name FROM departments ORDER BY position`)
	if err != nil {
		return nil, nil, err
	}
	defer deptRows.Close()

	var departments []string
	for deptRows.Next() {
		var name string
		if err := deptRows.Scan(&name); err != nil {
			return nil, nil, err
		}
		departments = append(departments, name)
	}
	return employees, departments, deptRows.Err()
}

func (s *Store) loadRequests(ctx context.Context) ([]engine.LeaveRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, start_date, end_date, kind, reason, status,
		       day_count, created_at, approver_name, generated_employee_id, generated_date
		FROM leave_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []engine.LeaveRequest
	for rows.Next() {
		var (
			req               engine.LeaveRequest
			startStr, endStr  string
			dayCount, created string
			approver          sql.NullString
			genEmp, genDate   sql.NullString
		)
		if err := rows.Scan(&req.ID, &req.EmployeeID, &startStr, &endStr, &req.Kind,
			&req.Reason, &req.Status, &dayCount, &created, &approver, &genEmp, &genDate); err != nil {
			return nil, err
		}
		if req.Start, err = engine.ParseDate(startStr); err != nil {
			return nil, err
		}
		if req.End, err = engine.ParseDate(endStr); err != nil {
			return nil, err
		}
		if req.DayCount, err = decimal.NewFromString(dayCount); err != nil {
			return nil, fmt.Errorf("request %s: bad day count %q: %w", req.ID, dayCount, err)
		}
		if req.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("request %s: bad created_at %q: %w", req.ID, created, err)
		}
		if approver.Valid {
			name := approver.String
			req.ApproverName = &name
		}
		if genEmp.Valid && genDate.Valid {
			d, err := engine.ParseDate(genDate.String)
			if err != nil {
				return nil, err
			}
			req.GeneratedFrom = &engine.EntryKey{EmployeeID: genEmp.String, Date: d}
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *Store) loadHolidays(ctx context.Context) ([]engine.PublicHoliday, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, name FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []engine.PublicHoliday
	for rows.Next() {
		var (
			h       engine.PublicHoliday
			dateStr string
		)
		if err := rows.Scan(&h.ID, &dateStr, &h.Name); err != nil {
			return nil, err
		}
		if h.Date, err = engine.ParseDate(dateStr); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (s *Store) loadEntries(ctx context.Context) ([]engine.ManualEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, date, code, value FROM manual_entries ORDER BY employee_id, date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []engine.ManualEntry
	for rows.Next() {
		var (
			e              engine.ManualEntry
			dateStr, value string
		)
		if err := rows.Scan(&e.EmployeeID, &dateStr, &e.Code, &value); err != nil {
			return nil, err
		}
		if e.Date, err = engine.ParseDate(dateStr); err != nil {
			return nil, err
		}
		if e.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("entry %s@%s: bad value %q: %w", e.EmployeeID, dateStr, value, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) loadCompany(ctx context.Context) (*engine.CompanyInfo, error) {
	var info engine.CompanyInfo
	err := s.db.QueryRowContext(ctx, `SELECT name, logo FROM company WHERE id = 1`).
		Scan(&info.Name, &info.Logo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// =============================================================================
// SAVE - each call replaces its collection inside one transaction
// =============================================================================

func (s *Store) SaveEmployees(ctx context.Context, employees []engine.Employee, departments []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceEmployees(ctx, tx, employees, departments)
	})
}

func (s *Store) SaveRequests(ctx context.Context, requests []engine.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceRequests(ctx, tx, requests)
	})
}

func (s *Store) SaveReconciled(ctx context.Context, requests []engine.LeaveRequest, entries []engine.ManualEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := replaceRequests(ctx, tx, requests); err != nil {
			return err
		}
		return replaceEntries(ctx, tx, entries)
	})
}

func (s *Store) SaveHolidays(ctx context.Context, holidays []engine.PublicHoliday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceHolidays(ctx, tx, holidays)
	})
}

func (s *Store) SaveCompany(ctx context.Context, info engine.CompanyInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceCompany(ctx, tx, info)
	})
}

func (s *Store) SaveAll(ctx context.Context, st *engine.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := replaceEmployees(ctx, tx, st.Employees, st.Departments); err != nil {
			return err
		}
		if err := replaceRequests(ctx, tx, st.Requests); err != nil {
			return err
		}
		if err := replaceHolidays(ctx, tx, st.Holidays); err != nil {
			return err
		}
		if err := replaceEntries(ctx, tx, st.Entries); err != nil {
			return err
		}
		return replaceCompany(ctx, tx, st.Company)
	})
}

func replaceEmployees(ctx context.Context, tx *sql.Tx, employees []engine.Employee, departments []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM employees`); err != nil {
		return err
	}
	for i, emp := range employees {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO employees (id, name, department, job_title, role, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			emp.ID, emp.Name, emp.Department, emp.JobTitle, string(emp.Role), i)
		if err != nil {
			return fmt.Errorf("insert employee %s: %w", emp.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM departments`); err != nil {
		return err
	}
	for i, name := range departments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO departments (name, position) VALUES (?, ?)`, name, i); err != nil {
			return fmt.Errorf("insert department %s: %w", name, err)
		}
	}
	return nil
}

func replaceRequests(ctx context.Context, tx *sql.Tx, requests []engine.LeaveRequest) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM leave_requests`); err != nil {
		return err
	}
	for i := range requests {
		req := &requests[i]
		var approver, genEmp, genDate any
		if req.ApproverName != nil {
			approver = *req.ApproverName
		}
		if req.GeneratedFrom != nil {
			genEmp = req.GeneratedFrom.EmployeeID
			genDate = req.GeneratedFrom.Date.String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO leave_requests
				(id, employee_id, start_date, end_date, kind, reason, status,
				 day_count, created_at, approver_name, generated_employee_id, generated_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			req.ID, req.EmployeeID, req.Start.String(), req.End.String(),
			string(req.Kind), req.Reason, string(req.Status),
			req.DayCount.String(), req.CreatedAt.UTC().Format(time.RFC3339Nano),
			approver, genEmp, genDate)
		if err != nil {
			return fmt.Errorf("insert request %s: %w", req.ID, err)
		}
	}
	return nil
}

func replaceHolidays(ctx context.Context, tx *sql.Tx, holidays []engine.PublicHoliday) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM holidays`); err != nil {
		return err
	}
	for _, h := range holidays {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO holidays (id, date, name) VALUES (?, ?, ?)`,
			h.ID, h.Date.String(), h.Name); err != nil {
			return fmt.Errorf("insert holiday %s: %w", h.ID, err)
		}
	}
	return nil
}

func replaceEntries(ctx context.Context, tx *sql.Tx, entries []engine.ManualEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM manual_entries`); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO manual_entries (employee_id, date, code, value)
			VALUES (?, ?, ?, ?)`,
			e.EmployeeID, e.Date.String(), string(e.Code), e.Value.String()); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.Key(), err)
		}
	}
	return nil
}

func replaceCompany(ctx context.Context, tx *sql.Tx, info engine.CompanyInfo) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO company (id, name, logo) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, logo = excluded.logo`,
		info.Name, info.Logo)
	return err
}

var _ engine.Store = (*Store)(nil)
