package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
)

func sampleWorkbook() *models.WorkbookData {
	return &models.WorkbookData{
		BookName: "sales.xlsx",
		Sheets: []models.SheetData{{
			Name:      "North",
			Dimension: "A1:B2",
			Rows: []models.RowData{
				{R: 1, Cells: []models.CellData{{Ref: "A1", Col: 1, Value: "Product", Type: models.CellTypeString}}},
				{R: 2, Cells: []models.CellData{{Ref: "A2", Col: 1, Value: int64(3), Type: models.CellTypeNumber}},
					Data: map[string]any{"Product": int64(3)}},
			},
			PrintAreas: []models.PrintArea{{R1: 1, C1: 1, R2: 2, C2: 2}},
		}},
	}
}

func TestWorkbookToJSON(t *testing.T) {
	data, err := WorkbookToJSON(sampleWorkbook(), false)
	if err != nil {
		t.Fatalf("WorkbookToJSON failed: %v", err)
	}
	if bytes.Contains(data, []byte("\n")) {
		t.Error("Compact output must be a single line")
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded["book_name"] != "sales.xlsx" {
		t.Errorf("Expected book_name sales.xlsx, got %v", decoded["book_name"])
	}
	sheets := decoded["sheets"].([]any)
	sheet := sheets[0].(map[string]any)
	if sheet["dimension"] != "A1:B2" {
		t.Errorf("Expected dimension A1:B2, got %v", sheet["dimension"])
	}
	if _, ok := sheet["merges"]; ok {
		t.Error("Empty merges must be omitted")
	}
}

func TestPrettyOutput(t *testing.T) {
	wb := sampleWorkbook()
	data, err := SheetToJSON(&wb.Sheets[0], true)
	if err != nil {
		t.Fatalf("SheetToJSON failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"name\": \"North\"") {
		t.Errorf("Expected indented output, got %s", data)
	}
}

func TestPrintAreaViewToJSON(t *testing.T) {
	view := models.PrintAreaView{
		BookName:  "sales.xlsx",
		SheetName: "North",
		Area:      models.PrintArea{R1: 1, C1: 1, R2: 2, C2: 2},
	}
	data, err := PrintAreaViewToJSON(&view, false)
	if err != nil {
		t.Fatalf("PrintAreaViewToJSON failed: %v", err)
	}
	want := `{"book_name":"sales.xlsx","sheet_name":"North","area":{"r1":1,"c1":1,"r2":2,"c2":2}}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
