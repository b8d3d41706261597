// Package output serializes read workbooks to JSON.
package output

import (
	"github.com/goccy/go-json"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
)

const indent = "  "

// ToJSON serializes any projected shape.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", indent)
	}
	return json.Marshal(v)
}

// WorkbookToJSON serializes a whole read workbook.
func WorkbookToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return ToJSON(wb, pretty)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return ToJSON(sheet, pretty)
}

// PrintAreaViewToJSON serializes a print area view.
func PrintAreaViewToJSON(view *models.PrintAreaView, pretty bool) ([]byte, error) {
	return ToJSON(view, pretty)
}
