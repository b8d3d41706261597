package models

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PrintArea represents cell coordinate bounds for a print area.
type PrintArea struct {
	// R1 is the start row (1-based).
	R1 int `yaml:"r1" json:"r1"`
	// C1 is the start column (1-based).
	C1 int `yaml:"c1" json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `yaml:"r2" json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `yaml:"c2" json:"c2"`
}

// Reference formats the area as an absolute defined-name reference on sheet,
// e.g. 'Sales'!$A$1:$D$10.
func (a PrintArea) Reference(sheet string) (string, error) {
	start, err := excelize.CoordinatesToCellName(a.C1, a.R1, true)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(a.C2, a.R2, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("'%s'!%s:%s", strings.ReplaceAll(sheet, "'", "''"), start, end), nil
}

// ContainsRow reports whether the 1-based row lies inside the area.
func (a PrintArea) ContainsRow(row int) bool {
	return row >= a.R1 && row <= a.R2
}

// PrintAreaView represents a slice of a read sheet restricted to a print area.
type PrintAreaView struct {
	// BookName is the workbook name owning the area.
	BookName string `json:"book_name"`
	// SheetName is the sheet name owning the area.
	SheetName string `json:"sheet_name"`
	// Area is the print area bounds.
	Area PrintArea `json:"area"`
	// Rows contains rows within the area bounds.
	Rows []RowData `json:"rows,omitempty"`
}
