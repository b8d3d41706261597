package reader

import (
	"strings"

	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/xuri/excelize/v2"
)

// extractPrintAreas extracts print areas from a workbook.
// Returns a map of sheet name to list of print areas.
func extractPrintAreas(f *excelize.File) map[string][]models.PrintArea {
	result := make(map[string][]models.PrintArea)

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName == "" {
			sheetName = dn.Scope
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []models.PrintArea) {
	var areas []models.PrintArea
	var sheetName string

	// Split by comma for multiple print areas
	for _, part := range strings.Split(strings.TrimPrefix(ref, "="), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := unquoteSheet(part[:idx])
		if sheetName == "" {
			sheetName = sheet
		}
		if area := parseRangeToArea(part[idx+1:]); area != nil {
			areas = append(areas, *area)
		}
	}

	return sheetName, areas
}

// unquoteSheet strips the quotes around a sheet name and unescapes doubled
// quotes.
func unquoteSheet(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		s = strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

// parseRangeToArea parses a range string like $A$1:$D$10 to PrintArea.
func parseRangeToArea(rangeStr string) *models.PrintArea {
	parts := strings.Split(strings.ReplaceAll(rangeStr, "$", ""), ":")
	if len(parts) != 2 {
		return nil
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil
	}

	return &models.PrintArea{
		R1: startRow,
		C1: startCol,
		R2: endRow,
		C2: endCol,
	}
}

// PrintAreaView restricts a read sheet to one of its print areas.
func PrintAreaView(bookName string, sheet models.SheetData, area models.PrintArea) models.PrintAreaView {
	view := models.PrintAreaView{
		BookName:  bookName,
		SheetName: sheet.Name,
		Area:      area,
	}
	for _, row := range sheet.Rows {
		if !area.ContainsRow(row.R) {
			continue
		}
		r := models.RowData{R: row.R, Data: row.Data}
		for _, c := range row.Cells {
			if c.Col >= area.C1 && c.Col <= area.C2 {
				r.Cells = append(r.Cells, c)
			}
		}
		view.Rows = append(view.Rows, r)
	}
	return view
}
