package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/attendance-engine/report"
)

func TestWriteXLSX_Layout(t *testing.T) {
	sheet := report.Build(sheetState(), 2025, 6, "")

	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(&buf, sheet))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	name := f.GetSheetName(0)
	require.Equal(t, "Attendance", name)

	cell := func(ref string) string {
		v, err := f.GetCellValue(name, ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "ACME INDUSTRIAL", cell("A1"))
	assert.Equal(t, "UNIT: ALL DEPARTMENTS", cell("A2"))
	assert.Equal(t, "MONTHLY ATTENDANCE SHEET", cell("G3"))
	assert.Equal(t, "June 2025", cell("G4"))

	// Header: fixed columns, first day, first totals column.
	assert.Equal(t, "No.", cell("A6"))
	assert.Equal(t, "Full name", cell("B6"))
	assert.Equal(t, "01", cell("D7"))
	assert.Equal(t, "Sun", cell("D8")) // June 1st 2025
	assert.Equal(t, "Total", cell("AH7"))

	// First block label, then the first employee row.
	assert.Equal(t, "I. ENGINEERING", cell("A9"))
	assert.Equal(t, "1", cell("A10"))
	assert.Equal(t, "Alice", cell("B10"))
	assert.Equal(t, "Head of Engineering", cell("C10"))

	// June 1st is a Sunday: empty cell. June 2nd a Monday: H.
	assert.Equal(t, "", cell("D10"))
	assert.Equal(t, "H", cell("E10"))
	// Saturday June 7th.
	assert.Equal(t, "H/2", cell("J10"))

	// Work total column (daysInMonth=30 -> column 34 = AH).
	assert.Equal(t, "23", cell("AH10"))
}

func TestWriteXLSX_DepartmentFilterInUnitLine(t *testing.T) {
	sheet := report.Build(sheetState(), 2025, 6, "Accounting")

	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(&buf, sheet))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(f.GetSheetName(0), "A2")
	require.NoError(t, err)
	assert.Equal(t, "UNIT: ACCOUNTING", v)

	assert.Equal(t, "attendance_2025-06.xlsx", sheet.Filename())
}
