package template

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exbuild-go/pkg/exbuild"
	"github.com/xuri/excelize/v2"
)

const salesYAML = `
version: "1"
metadata:
  author: Finance
  title: Quarterly sales
styles:
  money:
    number_format: "#,##0.00"
    font:
      bold: true
sheets:
  - name: Sales
    theme: blue
    config:
      tab_color: "4472C4"
      page_setup:
        orientation: landscape
        freeze_header: true
    tables:
      - headers:
          - key: title
            value: Sales Report
            merge_cell: true
        sub_headers:
          - key: product
            value: Product
          - key: revenue
            value: Revenue
        rows:
          - - key: product
              value: Widget
            - key: revenue
              type: number
              value: 1250.5
              style_ref: money
        footers:
          - key: note
            value: Generated
            merge_cell: true
            merge_to: 2
  - name: Notes
    tables:
      - rows:
          - - value: plain
`

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParse(t *testing.T) {
	tpl, err := LoadString(salesYAML)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	if len(tpl.Sheets) != 2 {
		t.Fatalf("Expected 2 sheets, got %d", len(tpl.Sheets))
	}
	sales := tpl.Sheets[0]
	if sales.Config.PageSetup == nil || !sales.Config.PageSetup.FreezeHeader {
		t.Error("Expected page setup with frozen header")
	}
	cell := sales.Tables[0].Rows[0][1]
	if cell.StyleRef != "money" || cell.Value != 1250.5 {
		t.Errorf("Unexpected cell %+v", cell)
	}
	if !sales.Tables[0].Footers[0].MergeCell || sales.Tables[0].Footers[0].MergeTo != 2 {
		t.Error("Expected merged footer")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    exbuild.ErrorKind
	}{
		{"malformed", "sheets: [", exbuild.KindValidation},
		{"no sheets", "version: \"1\"\n", exbuild.KindValidation},
		{"no tables", "sheets:\n  - name: Empty\n", exbuild.KindValidation},
		{"unknown theme", "sheets:\n  - name: A\n    theme: pink\n    tables:\n      - rows: [[{value: 1}]]\n", exbuild.KindValidation},
		{"unknown style", "sheets:\n  - name: A\n    tables:\n      - rows: [[{value: 1, style_ref: nope}]]\n", exbuild.KindStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadString(tt.content)
			if !exbuild.IsKind(err, tt.kind) {
				t.Errorf("Expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestWorkbookBuild(t *testing.T) {
	tpl, err := LoadString(salesYAML)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	wb, err := tpl.Workbook(exbuild.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Workbook failed: %v", err)
	}
	if wb.Options().Metadata.Author != "Finance" {
		t.Errorf("Expected author Finance, got %q", wb.Options().Metadata.Author)
	}

	data, err := wb.Build(context.Background(), exbuild.BuildOptions{}).Unwrap()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != "Sales" || got[1] != "Notes" {
		t.Errorf("Unexpected sheets %v", got)
	}
	tests := []struct {
		cell string
		want string
	}{
		{"A1", "Sales Report"},
		{"A2", "Product"},
		{"B2", "Revenue"},
		{"A3", "Widget"},
		{"A4", "Generated"},
	}
	for _, tt := range tests {
		if v, _ := f.GetCellValue("Sales", tt.cell); v != tt.want {
			t.Errorf("%s = %q, want %q", tt.cell, v, tt.want)
		}
	}
	if v, _ := f.GetCellValue("Sales", "B3", excelize.Options{RawCellValue: true}); v != "1250.5" {
		t.Errorf("B3 = %q, want 1250.5", v)
	}

	id, err := f.GetCellStyle("Sales", "B3")
	if err != nil {
		t.Fatalf("GetCellStyle failed: %v", err)
	}
	style, err := f.GetStyle(id)
	if err != nil {
		t.Fatalf("GetStyle failed: %v", err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Error("Expected bold font from the referenced style")
	}
	if style.CustomNumFmt == nil && style.NumFmt != 4 {
		t.Errorf("Expected #,##0.00 number format, got %d", style.NumFmt)
	}

	merges, err := f.GetMergeCells("Sales")
	if err != nil {
		t.Fatalf("GetMergeCells failed: %v", err)
	}
	if len(merges) != 2 {
		t.Errorf("Expected title and footer merges, got %d", len(merges))
	}
	if v, _ := f.GetCellValue("Notes", "A1"); v != "plain" {
		t.Errorf("Notes!A1 = %q, want plain", v)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.yaml")
	if err := os.WriteFile(path, []byte(salesYAML), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
