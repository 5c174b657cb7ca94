/*
Package report builds the monthly attendance sheet.

PURPOSE:
  Turns the application state into the monthly grid: one row per
  employee, one resolved cell per calendar day, grouped into
  department blocks in directory order, with per-row totals.

KEY CONCEPTS:
  Sheet:  a fully materialized month (blocks, rows, cells, totals)
  Block:  one department's rows, labeled with a Roman numeral
  Totals: worked days plus per-category leave day counts

  Cells come from engine.ResolveCell, so the grid, the JSON report
  and the XLSX export all agree on every symbol.

SEE ALSO:
  - engine/cell.go: cell resolution precedence
  - report/export.go: XLSX rendering of a Sheet
*/
package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

// Totals accumulates one employee's month.
type Totals struct {
	// Work counts worked days: 1 per full day, 0.5 per half day.
	Work decimal.Decimal `json:"work"`
	// Holiday, Leave, Unpaid and Sick count days carrying the
	// L, P, KL and O symbols respectively.
	Holiday int `json:"holiday"`
	Leave   int `json:"leave"`
	Unpaid  int `json:"unpaid"`
	Sick    int `json:"sick"`
}

// Row is one employee's line on the sheet.
type Row struct {
	Index    int             `json:"index"` // running number across the whole sheet
	Employee engine.Employee `json:"employee"`
	Cells    []engine.Cell   `json:"cells"` // one per day, index 0 = day 1
	Totals   Totals          `json:"totals"`
}

// Block is one department's section of the sheet.
type Block struct {
	Department string `json:"department"`
	Label      string `json:"label"` // e.g. "II. ENGINEERING"
	Rows       []Row  `json:"rows"`
}

// Sheet is a fully materialized attendance month.
type Sheet struct {
	Year       int                `json:"year"`
	Month      time.Month         `json:"month"`
	Days       int                `json:"days"`
	Company    engine.CompanyInfo `json:"company"`
	Department string             `json:"department,omitempty"` // empty = all departments
	Blocks     []Block            `json:"blocks"`
}

// Build materializes the sheet for one month. department narrows the
// sheet to a single department; pass "" for the whole company.
// Departments keep their configured order; a department with no
// employees produces no block. Row numbering runs across blocks.
func Build(st *engine.State, year int, month time.Month, department string) *Sheet {
	sheet := &Sheet{
		Year:       year,
		Month:      month,
		Days:       engine.DaysInMonth(year, month),
		Company:    st.Company,
		Department: department,
	}

	holidays := st.HolidaySet()
	entries := st.EntrySet()
	dir := st.Directory()

	departments := st.Departments
	if department != "" {
		departments = []string{department}
	}

	index := 0
	for blockNo, dept := range departments {
		var rows []Row
		for _, emp := range dir.Department(dept) {
			index++
			rows = append(rows, buildRow(index, emp, sheet, holidays, st.Requests, entries))
		}
		if len(rows) == 0 {
			continue
		}
		sheet.Blocks = append(sheet.Blocks, Block{
			Department: dept,
			Label:      roman(blockNo+1) + ". " + strings.ToUpper(dept),
			Rows:       rows,
		})
	}
	return sheet
}

func buildRow(index int, emp engine.Employee, sheet *Sheet, holidays engine.HolidaySet,
	requests []engine.LeaveRequest, entries engine.EntrySet) Row {

	row := Row{Index: index, Employee: emp, Cells: make([]engine.Cell, 0, sheet.Days)}
	d := engine.StartOfMonth(sheet.Year, sheet.Month)
	for day := 1; day <= sheet.Days; day, d = day+1, d.AddDays(1) {
		cell := engine.ResolveCell(emp.ID, d, holidays, requests, entries)
		row.Cells = append(row.Cells, cell)

		switch cell.Code {
		case engine.CellWork, engine.CellHalfWork:
			row.Totals.Work = row.Totals.Work.Add(cell.Value)
		case engine.CellHoliday:
			row.Totals.Holiday++
		case engine.CellLeave:
			row.Totals.Leave++
		case engine.CellUnpaid:
			row.Totals.Unpaid++
		case engine.CellSick:
			row.Totals.Sick++
		}
	}
	return row
}

var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// roman renders n as a Roman numeral. Block labels only, so n is small.
func roman(n int) string {
	var b strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			b.WriteString(rv.symbol)
			n -= rv.value
		}
	}
	return b.String()
}
