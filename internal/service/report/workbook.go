package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// sheet is a single worksheet: a bold header row followed by data rows.
type sheet struct {
	name   string
	header []string
	widths []float64
	rows   [][]any
}

func (s *sheet) add(values ...any) {
	s.rows = append(s.rows, values)
}

// render writes the sheets into one workbook in order; the first is active.
func render(sheets ...*sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#0E7490"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for _, sh := range sheets {
		if _, err := f.NewSheet(sh.name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sh.name, err)
		}

		for c, v := range sh.header {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellValue(sh.name, cell, v); err != nil {
				return nil, err
			}
		}
		for r, row := range sh.rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellValue(sh.name, cell, v); err != nil {
					return nil, err
				}
			}
		}

		for c, w := range sh.widths {
			col, _ := excelize.ColumnNumberToName(c + 1)
			_ = f.SetColWidth(sh.name, col, col, w)
		}
		if len(sh.header) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(sh.header), 1)
			_ = f.SetCellStyle(sh.name, "A1", last, headerStyle)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if len(sheets) > 0 {
		if index, err := f.GetSheetIndex(sheets[0].name); err == nil {
			f.SetActiveSheet(index)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
