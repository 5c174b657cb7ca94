/*
export.go - XLSX rendering of a Sheet

PURPOSE:
  Renders a materialized Sheet as the printable workbook: title block,
  three-row column header, department blocks, per-row totals, a symbol
  legend and the signature area. Layout mirrors the paper timesheet
  the report replaces.

LAYOUT (1-based rows):
  1   company name
  2   unit line (department or ALL DEPARTMENTS)
  3-4 centered title and month, merged across the day columns
  6-8 column header: fixed columns merged vertically, day group and
      totals groups merged horizontally
  9+  department blocks and employee rows
  then legend, signatures and the date line

SEE ALSO:
  - report/sheet.go: the Sheet model this renders
*/
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warp/attendance-engine/engine"
)

const sheetName = "Attendance"

// Filename returns the download name for a month's workbook.
func (s *Sheet) Filename() string {
	return fmt.Sprintf("attendance_%04d-%02d.xlsx", s.Year, int(s.Month))
}

// WriteXLSX renders the sheet as an XLSX workbook onto w.
func WriteXLSX(w io.Writer, s *Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	unit := "ALL DEPARTMENTS"
	if s.Department != "" {
		unit = strings.ToUpper(s.Department)
	}

	setRow(f, 1, []any{strings.ToUpper(s.Company.Name)})
	setRow(f, 2, []any{"UNIT: " + unit})
	setCell(f, 7, 3, "MONTHLY ATTENDANCE SHEET")
	setCell(f, 7, 4, fmt.Sprintf("%s %d", s.Month, s.Year))

	writeHeader(f, s)

	row := 9
	for _, block := range s.Blocks {
		setCell(f, 1, row, block.Label)
		row++
		for _, r := range block.Rows {
			writeEmployeeRow(f, s, row, r)
			row++
		}
	}

	row = writeLegend(f, row+1)
	writeSignatures(f, s, row+1)

	applyMerges(f, s)
	applyWidths(f, s)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, s *Sheet) {
	h1 := []any{"No.", "Full name", "Job title"}
	for i := 0; i < s.Days; i++ {
		h1 = append(h1, "DAYS OF MONTH")
	}
	h1 = append(h1, "WORKING DAYS", "", "PAID LEAVE", "", "", "SICK LEAVE", "OVERTIME", "", "")
	setRow(f, 6, h1)

	h2 := []any{"", "", ""}
	for day := 1; day <= s.Days; day++ {
		h2 = append(h2, fmt.Sprintf("%02d", day))
	}
	h2 = append(h2, "Total", "On holidays",
		engine.CellHoliday.Symbol(), engine.CellLeave.Symbol(), engine.CellUnpaid.Symbol(),
		engine.CellSick.Symbol(), "Weekday", "Weekend", "Holiday")
	setRow(f, 7, h2)

	h3 := []any{"", "", ""}
	for day := 1; day <= s.Days; day++ {
		d := engine.NewDate(s.Year, s.Month, day)
		h3 = append(h3, d.Weekday().String()[:3])
	}
	setRow(f, 8, h3)
}

func writeEmployeeRow(f *excelize.File, s *Sheet, rowNo int, r Row) {
	title := r.Employee.JobTitle
	if title == "" {
		title = string(r.Employee.Role)
	}

	row := []any{r.Index, r.Employee.Name, title}
	for _, cell := range r.Cells {
		row = append(row, cell.Code.Symbol())
	}
	// Holiday-work and overtime columns are kept for the paper form
	// but not tracked, so they export as zero.
	row = append(row,
		r.Totals.Work.InexactFloat64(), 0,
		r.Totals.Holiday, r.Totals.Leave, r.Totals.Unpaid, r.Totals.Sick,
		0, 0, 0)
	setRow(f, rowNo, row)
}

func writeLegend(f *excelize.File, row int) int {
	setRow(f, row, []any{"Notes:"})
	row++
	setRow(f, row, []any{
		"- Regular working day", engine.CellWork.Symbol(), "",
		"- Paid leave", engine.CellLeave.Symbol(), "",
		"- Sick leave", engine.CellSick.Symbol(), "",
		"- Unpaid leave", engine.CellUnpaid.Symbol(),
	})
	row++
	setRow(f, row, []any{
		"- Saturday half day", engine.CellHalfWork.Symbol(), "",
		"- Public holiday", engine.CellHoliday.Symbol(),
	})
	return row + 2
}

func writeSignatures(f *excelize.File, s *Sheet, row int) {
	setCell(f, 1, row, "PREPARED BY")
	setCell(f, 11, row, "DEPARTMENT HEAD")
	setCell(f, 18, row, "UNIT MANAGER")

	last := engine.EndOfMonth(s.Year, s.Month)
	setCell(f, s.Days+9, row+4, fmt.Sprintf("%s %d, %d", s.Month, last.Day(), s.Year))
}

func applyMerges(f *excelize.File, s *Sheet) {
	dayStart := 4             // first day column
	dayEnd := 3 + s.Days      // last day column
	totalsStart := dayEnd + 1 // "Total"

	merge(f, 7, 3, 16, 3)  // title
	merge(f, 7, 4, 16, 4)  // month line
	merge(f, 1, 6, 1, 8)   // No.
	merge(f, 2, 6, 2, 8)   // Full name
	merge(f, 3, 6, 3, 8)   // Job title
	merge(f, dayStart, 6, dayEnd, 6)
	merge(f, totalsStart, 6, totalsStart+1, 6)   // working days group
	merge(f, totalsStart+2, 6, totalsStart+4, 6) // paid leave group
	merge(f, totalsStart+5, 6, totalsStart+5, 8) // sick leave
	merge(f, totalsStart+6, 6, totalsStart+8, 6) // overtime group

	for _, col := range []int{0, 1, 2, 3, 4, 6, 7, 8} {
		merge(f, totalsStart+col, 7, totalsStart+col, 8)
	}
}

func applyWidths(f *excelize.File, s *Sheet) {
	setWidth(f, 1, 1, 5)
	setWidth(f, 2, 2, 25)
	setWidth(f, 3, 3, 20)
	setWidth(f, 4, 3+s.Days, 4)

	widths := []float64{8, 8, 5, 5, 8, 6, 6, 6, 6}
	for i, w := range widths {
		col := 4 + s.Days + i
		setWidth(f, col, col, w)
	}
}

// Thin wrappers so layout code reads as coordinates, not error plumbing.
// excelize only fails here on malformed coordinates, which are fixed
// at compile time above.

func setCell(f *excelize.File, col, row int, value any) {
	name, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheetName, name, value)
}

func setRow(f *excelize.File, row int, values []any) {
	name, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetSheetRow(sheetName, name, &values)
}

func merge(f *excelize.File, c1, r1, c2, r2 int) {
	top, _ := excelize.CoordinatesToCellName(c1, r1)
	bottom, _ := excelize.CoordinatesToCellName(c2, r2)
	_ = f.MergeCell(sheetName, top, bottom)
}

func setWidth(f *excelize.File, from, to int, width float64) {
	start, _ := excelize.ColumnNumberToName(from)
	end, _ := excelize.ColumnNumberToName(to)
	_ = f.SetColWidth(sheetName, start, end, width)
}
