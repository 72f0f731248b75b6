package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"tanker-ledger/internal/ledger"
)

const (
	sheetSummary = "Summary"
	sheetDaily   = "Daily"
)

// RenderXLSX 输出 Excel 工作簿
//
//   - Sheet "Summary"：与 PDF 相同的标题、合计、各日小节与明细表
//   - Sheet "Daily"：每天一行的概览（日期、合计、出勤、备注）
func RenderXLSX(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if _, err := f.NewSheet(sheetDaily); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	st, err := newSheetStyles(f)
	if err != nil {
		return nil, fmt.Errorf("%w: 创建样式失败: %v", ErrGeneration, err)
	}
	if err := writeSummarySheet(f, r, st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if err := writeDailySheet(f, r, st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("%w: 写入 Excel 失败: %v", ErrGeneration, err)
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	title   int
	heading int
	header  int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var st sheetStyles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return st, err
	}
	if st.heading, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	}); err != nil {
		return st, err
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#3B82F6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return st, err
}

func writeSummarySheet(f *excelize.File, r *Report, st sheetStyles) error {
	sheet := sheetSummary
	lastCol := colName(len(r.Columns) - 1)

	for i, c := range r.Columns {
		col := colName(i)
		if err := f.SetColWidth(sheet, col, col, c.Weight/2+4); err != nil {
			return err
		}
	}

	row := 1
	if err := f.SetCellValue(sheet, cell("A", row), r.Title); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, cell("A", row), cell(lastCol, row)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell("A", row), cell("A", row), st.title); err != nil {
		return err
	}
	row += 2

	for _, line := range r.Summary {
		if err := f.SetCellValue(sheet, cell("A", row), line); err != nil {
			return err
		}
		row++
	}
	if err := f.SetCellValue(sheet, cell("A", row), r.Generated); err != nil {
		return err
	}
	row += 2

	header := make([]interface{}, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c.Title
	}

	for _, s := range r.Sections {
		if err := f.SetCellValue(sheet, cell("A", row), s.Heading); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell("A", row), cell("A", row), st.heading); err != nil {
			return err
		}
		row++

		if err := f.SetSheetRow(sheet, cell("A", row), &header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell("A", row), cell(lastCol, row), st.header); err != nil {
			return err
		}
		row++

		for _, data := range s.Rows {
			values := make([]interface{}, len(data))
			for i, v := range data {
				values[i] = v
			}
			if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return nil
}

func writeDailySheet(f *excelize.File, r *Report, st sheetStyles) error {
	sheet := sheetDaily
	driver := r.Label.IsDriverStatus()

	header := []interface{}{"Date"}
	if driver {
		header = append(header, "Status", "Tankers", "KM", "Cash Taken", "Notes")
	} else {
		header = append(header, "Tankers", "Cash Amount")
	}
	lastCol := colName(len(header) - 1)

	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 14); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", cell(lastCol, 1), st.header); err != nil {
		return err
	}

	row := 2
	for _, s := range r.Sections {
		values := []interface{}{s.Date.Format("2 January, 2006")}
		if driver {
			status := "-"
			switch s.DayStatus() {
			case ledger.StatusPresent:
				status = "Present"
			case ledger.StatusAbsent:
				status = "Absent"
			}
			notes := strings.Join(s.Notes, ", ")
			if notes == "" {
				notes = "-"
			}
			values = append(values, status, s.Totals.TotalTankers,
				s.Totals.TotalKm.InexactFloat64(), s.Totals.TotalCashTaken.InexactFloat64(), notes)
		} else {
			values = append(values, s.Totals.TotalTankers, s.Totals.TotalCash.InexactFloat64())
		}
		if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
			return err
		}
		row++
	}
	return nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
