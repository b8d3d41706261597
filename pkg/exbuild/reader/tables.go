package reader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// bounds is the 0-based bounding box of the non-empty cells of a sheet.
type bounds struct {
	minRow, maxRow, minCol, maxCol int
}

func (b bounds) empty() bool {
	return b.minRow < 0
}

// rangeRef returns the box as an A1-style range such as "A1:D10".
func (b bounds) rangeRef() string {
	startCell, _ := excelize.CoordinatesToCellName(b.minCol+1, b.minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(b.maxCol+1, b.maxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// detectTables finds table-like regions in raw rows. Blocks separated by fully
// empty rows are checked individually against the density parameters.
func detectTables(rows [][]string, params TableDetectionParams) []string {
	var result []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		block := rows[start:end]
		b := findDataBounds(block)
		if !b.empty() {
			b.minRow += start
			b.maxRow += start
			if isTable(rows, b, params) {
				result = append(result, b.rangeRef())
			}
		}
		start = -1
	}
	for i, row := range rows {
		if rowEmpty(row) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(rows))
	return result
}

func isTable(rows [][]string, b bounds, params TableDetectionParams) bool {
	totalCells := (b.maxRow - b.minRow + 1) * (b.maxCol - b.minCol + 1)
	nonEmptyCells := countNonEmptyCells(rows, b)
	if nonEmptyCells < params.MinNonemptyCells {
		return false
	}
	density := float64(nonEmptyCells) / float64(totalCells)
	return density >= params.DensityMin
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) bounds {
	b := bounds{minRow: -1, maxRow: -1, minCol: -1, maxCol: -1}

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if b.minRow < 0 || rowIdx < b.minRow {
					b.minRow = rowIdx
				}
				if b.maxRow < 0 || rowIdx > b.maxRow {
					b.maxRow = rowIdx
				}
				if b.minCol < 0 || colIdx < b.minCol {
					b.minCol = colIdx
				}
				if b.maxCol < 0 || colIdx > b.maxCol {
					b.maxCol = colIdx
				}
			}
		}
	}

	return b
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, b bounds) int {
	count := 0
	for rowIdx := b.minRow; rowIdx <= b.maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := b.minCol; colIdx <= b.maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
