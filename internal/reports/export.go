package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// WriteCSV streams t as CSV.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return errors.Wrap(err, "reports: csv header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return errors.Wrap(err, "reports: csv rows")
	}
	return nil
}

// XLSX renders t as a one-sheet workbook. Cells holding whole numbers are
// written as numbers so they can be charted.
func XLSX(title string, t Table) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(title)
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, errors.Wrap(err, "reports: new sheet")
	}
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, errors.Wrap(err, "reports: drop default sheet")
		}
	}
	if idx, err := f.GetSheetIndex(sheet); err == nil {
		f.SetActiveSheet(idx)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range t.Header {
		col := colName(i)
		f.SetCellValue(sheet, cell(col, 1), h)
		f.SetColWidth(sheet, col, col, 18)
	}
	if len(t.Header) > 0 {
		f.SetCellStyle(sheet, "A1", cell(colName(len(t.Header)-1), 1), headerStyle)
	}

	for r, row := range t.Rows {
		for c, v := range row {
			if n, err := strconv.Atoi(v); err == nil && c > 0 {
				f.SetCellValue(sheet, cell(colName(c), r+2), n)
				continue
			}
			f.SetCellValue(sheet, cell(colName(c), r+2), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, errors.Wrap(err, "reports: write xlsx")
	}
	return buf, nil
}

// sheetName trims title to the 31 characters Excel allows.
func sheetName(title string) string {
	if title == "" {
		return "Sheet1"
	}
	r := []rune(title)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
