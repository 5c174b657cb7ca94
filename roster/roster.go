/*
Package roster imports employee lists from spreadsheet files.

PURPOSE:
  Companies keep their people in Excel. The importer accepts the
  roster files they already have, CSV or XLSX, and turns them into
  employees plus an ordered department list.

  The parser is tolerant of real-world roster layouts:
  - the header row is located by scanning the first rows for a name
    column, and the other columns are mapped from it
  - department section rows (a Roman numeral in the first column, or
    a row with a department name and no employee name) set the
    department for the rows that follow
  - system roles are derived from the job-title column with keyword
    rules, so a plain roster imports with working approval authority

KEY CONCEPTS:
  Rules:  keyword lists mapping job titles to system roles
  Result: parsed employees and departments in file order

SEE ALSO:
  - engine/directory.go: head/deputy classification of the same titles
*/
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warp/attendance-engine/engine"
)

// ErrNoEmployees means the file parsed but contained no employee rows.
var ErrNoEmployees = errors.New("no employee rows found")

// Rules derives system roles from imported job titles. Matching is
// case-insensitive substring matching. Top wins over manager.
type Rules struct {
	TopKeywords     []string
	ManagerKeywords []string
}

// DefaultRules matches common English executive and manager titles.
func DefaultRules() Rules {
	return Rules{
		TopKeywords:     []string{"general director", "chairman", "board", "president"},
		ManagerKeywords: []string{"head", "deputy", "director", "manager", "chief"},
	}
}

// DeriveRole maps a job title to a system role.
func (r Rules) DeriveRole(title string) engine.Role {
	t := strings.ToLower(title)
	for _, kw := range r.TopKeywords {
		if kw != "" && strings.Contains(t, strings.ToLower(kw)) {
			return engine.RoleTopAuthority
		}
	}
	for _, kw := range r.ManagerKeywords {
		if kw != "" && strings.Contains(t, strings.ToLower(kw)) {
			return engine.RoleMidAuthority
		}
	}
	return engine.RoleBase
}

// Result is a parsed roster.
type Result struct {
	Employees   []engine.Employee
	Departments []string // file order
}

// Parse reads a roster file. The format is picked from the filename
// extension: .xlsx and .xls go through the Excel reader, everything
// else is treated as CSV. newID mints IDs for the imported employees.
func Parse(data []byte, filename string, rules Rules, newID func() string) (*Result, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		rows, err = readExcel(data)
	default:
		rows, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows, rules, newID)
}

func readExcel(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	return file.GetRows(sheetName)
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // roster rows are ragged
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, record)
	}
}

// columnMap locates the roster columns. Defaults match the common
// "No | Department | Full name | Job title" layout.
type columnMap struct {
	no, dept, name, title int
}

var (
	romanRow = regexp.MustCompile(`^(?i)[IVXLCDM]+\.?\s*$`)
	// section prefix like "II.", "3:", "A)" in front of a department name
	sectionPrefix = regexp.MustCompile(`^(?i)([IVX0-9A-Z]+)(\.|:|\))\s*`)
)

// Rows that look like department sections but are really sheet
// furniture (totals, signature lines) are dropped.
var ignoredSections = []string{"total", "signature", "confirmed", "prepared by", "date"}

func findHeader(rows [][]string) (columnMap, int) {
	cols := columnMap{no: 0, dept: 1, name: 2, title: 3}
	limit := len(rows)
	if limit > 30 {
		limit = 30
	}
	for i := 0; i < limit; i++ {
		lower := make([]string, len(rows[i]))
		for j, c := range rows[i] {
			lower[j] = strings.ToLower(strings.TrimSpace(c))
		}
		nameIdx := indexMatch(lower, "full name", "name")
		if nameIdx == -1 {
			continue
		}
		cols.name = nameIdx
		if idx := indexMatch(lower, "department", "dept", "unit"); idx != -1 {
			cols.dept = idx
		}
		if idx := indexMatch(lower, "title", "position", "role"); idx != -1 {
			cols.title = idx
		}
		if idx := indexMatch(lower, "no", "#", "stt"); idx != -1 {
			cols.no = idx
		}
		return cols, i
	}
	return cols, -1
}

func indexMatch(cells []string, keywords ...string) int {
	for i, c := range cells {
		for _, kw := range keywords {
			if c == kw || (len(kw) > 2 && strings.Contains(c, kw)) {
				return i
			}
		}
	}
	return -1
}

func parseRows(rows [][]string, rules Rules, newID func() string) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrNoEmployees
	}

	cols, headerRow := findHeader(rows)

	result := &Result{}
	seenDepts := make(map[string]bool)
	currentDept := ""

	addDepartment := func(name string) string {
		name = strings.TrimSpace(name)
		if name != "" && !seenDepts[name] {
			seenDepts[name] = true
			result.Departments = append(result.Departments, name)
		}
		return name
	}

	for i, row := range rows {
		if headerRow != -1 && i <= headerRow {
			continue
		}

		no := cellAt(row, cols.no)
		dept := cellAt(row, cols.dept)
		name := cellAt(row, cols.name)
		title := cellAt(row, cols.title)

		if no == "" && dept == "" && name == "" && title == "" {
			continue
		}

		// Department section row: Roman numeral in the number column,
		// or department text with no employee name.
		isSection := romanRow.MatchString(no) || ((dept != "" || len(no) > 2) && name == "")
		if isSection {
			sectionName := dept
			if sectionName == "" {
				sectionName = no
			}
			sectionName = strings.TrimSpace(sectionPrefix.ReplaceAllString(sectionName, ""))
			if len(sectionName) > 2 && !isIgnoredSection(sectionName) {
				currentDept = addDepartment(sectionName)
			}
			continue
		}

		if name == "" {
			continue
		}

		finalDept := dept
		if finalDept == "" {
			finalDept = currentDept
		}
		if finalDept == "" {
			finalDept = "Unassigned"
		}
		finalDept = addDepartment(finalDept)

		if hasDuplicate(result.Employees, name, finalDept) {
			continue
		}

		role := rules.DeriveRole(title)
		result.Employees = append(result.Employees, engine.Employee{
			ID:         newID(),
			Name:       name,
			Department: finalDept,
			JobTitle:   title,
			Role:       role,
		})
	}

	if len(result.Employees) == 0 {
		return nil, ErrNoEmployees
	}
	return result, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isIgnoredSection(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range ignoredSections {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Names compare case-insensitively: "alice nguyen" and "Alice Nguyen"
// are the same person.
func hasDuplicate(employees []engine.Employee, name, dept string) bool {
	for _, e := range employees {
		if strings.EqualFold(e.Name, name) && e.Department == dept {
			return true
		}
	}
	return false
}
