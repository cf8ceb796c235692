package render

import (
	"github.com/xuri/excelize/v2"
)

// Column describes one spreadsheet column. Key selects the value out of a
// row map so column order and row data stay decoupled.
type Column struct {
	Header string
	Key    string
	Width  float64
}

const headerRowIndex = 4

// Excel builds a workbook with a merged bold title line, two blank spacer
// rows, a bold header row and one bold totals row after the data.
func Excel(sheetName, title string, columns []Column, rows []map[string]any, totals map[string]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, col.Width); err != nil {
			return nil, err
		}
	}

	lastTitleCell, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.MergeCell(sheetName, "A1", lastTitleCell); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastTitleCell, titleStyle); err != nil {
		return nil, err
	}
	if err := f.SetRowHeight(sheetName, 1, 40); err != nil {
		return nil, err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRowIndex)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col.Header); err != nil {
			return nil, err
		}
	}

	lastHeaderCell, err := excelize.CoordinatesToCellName(len(columns), headerRowIndex)
	if err != nil {
		return nil, err
	}
	firstHeaderCell, _ := excelize.CoordinatesToCellName(1, headerRowIndex)
	if err := f.SetCellStyle(sheetName, firstHeaderCell, lastHeaderCell, boldStyle); err != nil {
		return nil, err
	}

	for ri, row := range rows {
		for ci, col := range columns {
			value, ok := row[col.Key]
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, headerRowIndex+1+ri)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	totalRowIndex := headerRowIndex + 1 + len(rows)
	for ci, col := range columns {
		value, ok := totals[col.Key]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(ci+1, totalRowIndex)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return nil, err
		}
	}

	firstTotalCell, _ := excelize.CoordinatesToCellName(1, totalRowIndex)
	lastTotalCell, _ := excelize.CoordinatesToCellName(len(columns), totalRowIndex)
	if err := f.SetCellStyle(sheetName, firstTotalCell, lastTotalCell, boldStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
