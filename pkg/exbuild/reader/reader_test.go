package reader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exbuild-go/pkg/exbuild"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/xuri/excelize/v2"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// buildSales builds a workbook with one sales sheet per name. Each sheet has
// a title row, a sub-header row and one data row.
func buildSales(t *testing.T, names ...string) []byte {
	t.Helper()
	wb, err := exbuild.New(exbuild.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i, name := range names {
		ws, err := wb.AddWorksheet(name, models.WorksheetConfig{
			PageSetup: &models.PageSetup{PrintArea: &models.PrintArea{R1: 1, C1: 1, R2: 3, C2: 3}},
		})
		if err != nil {
			t.Fatalf("AddWorksheet failed: %v", err)
		}
		ws.AddHeader(models.NewHeaderCell("title", "Sales "+name).WithMerge(0)).
			AddSubHeaders(
				models.NewHeaderCell("product", "Product"),
				models.NewHeaderCell("units", "Units"),
				models.NewHeaderCell("price", "Price"),
			).
			AddRow(
				models.NewDataCell("product", "Widget"),
				models.NewDataCell("units", 10+i),
				models.NewDataCell("price", 2.5),
			)
	}
	data, err := wb.Build(context.Background(), exbuild.BuildOptions{}).Unwrap()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return data
}

// typedWorkbook writes cells of every readable type directly with excelize.
func typedWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "Name")
	f.SetCellValue(sheet, "B1", "Value")
	f.SetCellValue(sheet, "A2", "flag")
	f.SetCellValue(sheet, "B2", true)
	f.SetCellValue(sheet, "A3", "when")
	f.SetCellValue(sheet, "B3", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	f.SetCellValue(sheet, "A4", "rate")
	f.SetCellValue(sheet, "B4", 0.25)
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}
	f.SetCellStyle(sheet, "B4", "B4", pct)
	f.SetCellValue(sheet, "A5", "double")
	f.SetCellValue(sheet, "B5", 200)
	f.SetCellFormula(sheet, "B5", "B4*800")
	f.SetCellValue(sheet, "A6", "site")
	f.SetCellValue(sheet, "B6", "example")
	f.SetCellHyperLink(sheet, "B6", "https://example.com", "External")
	f.AddComment(sheet, excelize.Comment{
		Cell:      "A1",
		Author:    "qa",
		Paragraph: []excelize.RichTextRun{{Text: "primary key"}},
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func findCell(row models.RowData, ref string) (models.CellData, bool) {
	for _, c := range row.Cells {
		if c.Ref == ref {
			return c, true
		}
	}
	return models.CellData{}, false
}

func TestReadNestedRoundTrip(t *testing.T) {
	names := []string{"North", "South", "East"}
	data := buildSales(t, names...)

	res := Read(context.Background(), bytes.NewReader(data), Options{
		UseFirstRowAsHeaders: true,
		HeaderRow:            2,
	})
	if !res.Success {
		t.Fatalf("Read failed: %v", res.Error)
	}
	sheets, ok := res.Data.([]models.SheetData)
	if !ok {
		t.Fatalf("Expected []models.SheetData, got %T", res.Data)
	}
	if len(sheets) != len(names) {
		t.Fatalf("Expected %d sheets, got %d", len(names), len(sheets))
	}

	for i, sheet := range sheets {
		if sheet.Name != names[i] || sheet.Index != i {
			t.Errorf("Sheet %d: got %q at index %d", i, sheet.Name, sheet.Index)
		}
		if sheet.Dimension != "A1:C3" {
			t.Errorf("%s: expected dimension A1:C3, got %q", sheet.Name, sheet.Dimension)
		}
		if len(sheet.Rows) != 3 {
			t.Fatalf("%s: expected 3 rows, got %d", sheet.Name, len(sheet.Rows))
		}
		got := sheet.Rows[2].Data
		want := map[string]any{"Product": "Widget", "Units": int64(10 + i), "Price": 2.5}
		for k, v := range want {
			if got[k] != v {
				t.Errorf("%s: %s = %v (%T), want %v (%T)", sheet.Name, k, got[k], got[k], v, v)
			}
		}
		if sheet.Rows[0].Data != nil || sheet.Rows[1].Data != nil {
			t.Errorf("%s: rows up to the header row must not carry data", sheet.Name)
		}
		if len(sheet.Merges) != 1 || sheet.Merges[0] != "A1:C1" {
			t.Errorf("%s: expected title merge A1:C1, got %v", sheet.Name, sheet.Merges)
		}
		if len(sheet.PrintAreas) != 1 || sheet.PrintAreas[0] != (models.PrintArea{R1: 1, C1: 1, R2: 3, C2: 3}) {
			t.Errorf("%s: unexpected print areas %v", sheet.Name, sheet.PrintAreas)
		}
	}
}

func TestReadRejectsNonZip(t *testing.T) {
	res := Read(context.Background(), strings.NewReader("name,value\nwidget,1\n"), Options{})
	if res.Success {
		t.Fatal("Expected failure for plain text input")
	}
	if res.Error.Kind != exbuild.KindValidation {
		t.Errorf("Expected VALIDATION_ERROR, got %s", res.Error.Kind)
	}
	if !errors.Is(res.Error, exbuild.ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", res.Error)
	}
}

func TestReadRejectsInvalidOptions(t *testing.T) {
	data := buildSales(t, "North")
	res := Read(context.Background(), bytes.NewReader(data), Options{Format: "csv"})
	if res.Success || res.Error.Kind != exbuild.KindValidation {
		t.Errorf("Expected VALIDATION_ERROR for unknown format, got %+v", res)
	}
}

func TestReadSheetsFilter(t *testing.T) {
	data := buildSales(t, "North", "South", "East")

	res := Read(context.Background(), bytes.NewReader(data), Options{Sheets: []string{"East", "North"}})
	sheets, err := res.Unwrap()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	got := sheets.([]models.SheetData)
	if len(got) != 2 || got[0].Name != "North" || got[1].Name != "East" || got[1].Index != 2 {
		t.Errorf("Expected North and East in workbook order, got %+v", got)
	}

	res = Read(context.Background(), bytes.NewReader(data), Options{Sheets: []string{"West"}})
	if res.Success || !errors.Is(res.Error, exbuild.ErrWorksheetNotFound) {
		t.Errorf("Expected ErrWorksheetNotFound, got %+v", res.Error)
	}
}

func TestReadCellTypes(t *testing.T) {
	res := Read(context.Background(), bytes.NewReader(typedWorkbook(t)), Options{})
	data, err := res.Unwrap()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	rows := data.([]models.SheetData)[0].Rows
	if len(rows) != 6 {
		t.Fatalf("Expected 6 rows, got %d", len(rows))
	}

	tests := []struct {
		row   int
		ref   string
		want  any
		ctype models.CellType
	}{
		{1, "B2", true, models.CellTypeBoolean},
		{2, "B3", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), models.CellTypeDate},
		{3, "B4", 0.25, models.CellTypePercentage},
		{4, "B5", int64(200), models.CellTypeFormula},
		{5, "B6", "example", models.CellTypeLink},
	}
	for _, tt := range tests {
		c, ok := findCell(rows[tt.row], tt.ref)
		if !ok {
			t.Errorf("%s: cell not found", tt.ref)
			continue
		}
		if c.Type != tt.ctype {
			t.Errorf("%s: expected type %s, got %s", tt.ref, tt.ctype, c.Type)
		}
		if wantTime, isTime := tt.want.(time.Time); isTime {
			if got, ok := c.Value.(time.Time); !ok || !got.Equal(wantTime) {
				t.Errorf("%s: expected %v, got %v (%T)", tt.ref, wantTime, c.Value, c.Value)
			}
			continue
		}
		if c.Value != tt.want {
			t.Errorf("%s: expected %v (%T), got %v (%T)", tt.ref, tt.want, tt.want, c.Value, c.Value)
		}
	}

	if c, _ := findCell(rows[4], "B5"); c.Formula != "B4*800" {
		t.Errorf("Expected formula B4*800, got %q", c.Formula)
	}
	if c, _ := findCell(rows[5], "B6"); c.Link != "https://example.com" {
		t.Errorf("Expected link https://example.com, got %q", c.Link)
	}
	if c, _ := findCell(rows[0], "A1"); !strings.Contains(c.Comment, "primary key") {
		t.Errorf("Expected comment on A1, got %q", c.Comment)
	}
	if c, _ := findCell(rows[3], "B4"); c.Format != "0.00%" {
		t.Errorf("Expected format 0.00%%, got %q", c.Format)
	}
}

func TestReadExcludesLinksAndFormulas(t *testing.T) {
	off := false
	res := Read(context.Background(), bytes.NewReader(typedWorkbook(t)), Options{
		IncludeLinks:    &off,
		IncludeFormulas: &off,
		IncludeComments: &off,
	})
	data, err := res.Unwrap()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	rows := data.([]models.SheetData)[0].Rows
	if c, _ := findCell(rows[4], "B5"); c.Formula != "" || c.Type != models.CellTypeNumber {
		t.Errorf("Expected plain number for B5, got %+v", c)
	}
	if c, _ := findCell(rows[5], "B6"); c.Link != "" || c.Type != models.CellTypeString {
		t.Errorf("Expected plain string for B6, got %+v", c)
	}
	if c, _ := findCell(rows[0], "A1"); c.Comment != "" {
		t.Errorf("Expected no comment, got %q", c.Comment)
	}
}

func TestReadBuilderFormula(t *testing.T) {
	wb, err := exbuild.New(exbuild.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ws, err := wb.AddWorksheet("Calc", models.WorksheetConfig{})
	if err != nil {
		t.Fatalf("AddWorksheet failed: %v", err)
	}
	ws.AddRow(models.NewDataCell("qty", "Qty"), models.NewDataCell("total", "Total")).
		AddRow(models.NewDataCell("qty", 4), models.NewDataCell("total", nil).WithFormula("A2*3"))
	data, err := wb.Build(context.Background(), exbuild.BuildOptions{}).Unwrap()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	out, err := Read(context.Background(), bytes.NewReader(data), Options{}).Unwrap()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	rows := out.([]models.SheetData)[0].Rows
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	c, ok := findCell(rows[1], "B2")
	if !ok {
		t.Fatalf("Expected B2 in row 2, got %+v", rows[1].Cells)
	}
	if c.Formula != "A2*3" || c.Type != models.CellTypeFormula {
		t.Errorf("Expected formula A2*3, got %+v", c)
	}

	out, err = Read(context.Background(), bytes.NewReader(data), Options{Format: FormatDetailed}).Unwrap()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cells := out.([]models.DetailedCell); len(cells) != 4 || cells[3].Ref != "B2" {
		t.Errorf("Expected B2 as the last detailed cell, got %+v", cells)
	}

	off := false
	out, err = Read(context.Background(), bytes.NewReader(data), Options{IncludeFormulas: &off}).Unwrap()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, ok := findCell(out.([]models.SheetData)[0].Rows[1], "B2"); ok {
		t.Error("Expected uncached formula to be skipped when formulas are excluded")
	}
}

func TestReadDetailed(t *testing.T) {
	data := buildSales(t, "North")
	res := Read(context.Background(), bytes.NewReader(data), Options{Format: FormatDetailed})
	out, err := res.Unwrap()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	cells := out.([]models.DetailedCell)
	// title, three sub-headers, three data cells
	if len(cells) != 7 {
		t.Fatalf("Expected 7 cells, got %d", len(cells))
	}
	last := cells[len(cells)-1]
	if last.Sheet != "North" || last.Row != 3 || last.Col != 3 || last.ColLetter != "C" || last.Ref != "C3" {
		t.Errorf("Unexpected last cell %+v", last)
	}
	if last.Value != 2.5 {
		t.Errorf("Expected 2.5, got %v", last.Value)
	}
}

func TestReadFlat(t *testing.T) {
	data := buildSales(t, "North")

	res := Read(context.Background(), bytes.NewReader(data), Options{Format: FormatFlat})
	out, err := res.Unwrap()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	sheet := out.([]models.FlatSheet)[0]
	if len(sheet.Values) != 3 || len(sheet.Records) != 0 {
		t.Fatalf("Expected 3 value rows, got %+v", sheet)
	}
	if sheet.Values[2][0] != "Widget" || sheet.Values[2][1] != int64(10) {
		t.Errorf("Unexpected data row %v", sheet.Values[2])
	}

	res = Read(context.Background(), bytes.NewReader(data), Options{
		Format:               FormatFlat,
		UseFirstRowAsHeaders: true,
		HeaderRow:            2,
	})
	out, err = res.Unwrap()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	sheet = out.([]models.FlatSheet)[0]
	if len(sheet.Records) != 1 {
		t.Fatalf("Expected 1 record, got %+v", sheet.Records)
	}
	if sheet.Records[0]["Price"] != 2.5 {
		t.Errorf("Expected Price 2.5, got %v", sheet.Records[0]["Price"])
	}
}

func TestReadMapper(t *testing.T) {
	data := buildSales(t, "North", "South")
	res := Read(context.Background(), bytes.NewReader(data), Options{
		Mapper: func(v any) (any, error) {
			var names []string
			for _, s := range v.([]models.SheetData) {
				names = append(names, s.Name)
			}
			return strings.Join(names, ","), nil
		},
	})
	if !res.Success || res.Data != "North,South" {
		t.Errorf("Expected mapped names, got %+v", res)
	}

	res = Read(context.Background(), bytes.NewReader(data), Options{
		Mapper: func(any) (any, error) { return nil, errors.New("boom") },
	})
	if res.Success || res.Error.Kind != exbuild.KindValidation {
		t.Errorf("Expected mapper failure, got %+v", res)
	}
}

func TestReadCancelled(t *testing.T) {
	data := buildSales(t, "North")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Read(ctx, bytes.NewReader(data), Options{})
	if res.Success || !errors.Is(res.Error, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %+v", res.Error)
	}
}

func TestReadWorkbookAndPrintAreaViews(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	if err := os.WriteFile(path, buildSales(t, "North", "South"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	wb, err := ReadWorkbook(context.Background(), path, Options{DetectTables: true})
	if err != nil {
		t.Fatalf("ReadWorkbook failed: %v", err)
	}
	if wb.BookName != "sales.xlsx" || len(wb.Sheets) != 2 {
		t.Fatalf("Unexpected workbook %q with %d sheets", wb.BookName, len(wb.Sheets))
	}
	if got := wb.Sheets[0].TableCandidates; len(got) != 1 || got[0] != "A1:C3" {
		t.Errorf("Expected table candidate A1:C3, got %v", got)
	}

	views := PrintAreaViews(wb)
	if len(views) != 2 {
		t.Fatalf("Expected 2 print area views, got %d", len(views))
	}
	if views[1].SheetName != "South" || views[1].BookName != "sales.xlsx" || len(views[1].Rows) != 3 {
		t.Errorf("Unexpected view %+v", views[1])
	}

	if _, err := ReadWorkbook(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"), Options{}); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"123", int64(123)},
		{"-456", int64(-456)},
		{"123.45", 123.45},
		{"-0.5", -0.5},
		{"hello", "hello"},
		{"", ""},
		{"12abc", "12abc"},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestParsePrintAreaReference(t *testing.T) {
	tests := []struct {
		ref   string
		sheet string
		areas []models.PrintArea
	}{
		{"Sheet1!$A$1:$D$10", "Sheet1", []models.PrintArea{{R1: 1, C1: 1, R2: 10, C2: 4}}},
		{"'My Sheet'!$B$2:$C$3", "My Sheet", []models.PrintArea{{R1: 2, C1: 2, R2: 3, C2: 3}}},
		{"='Bob''s'!$A$1:$A$2,'Bob''s'!$C$1:$D$4", "Bob's", []models.PrintArea{
			{R1: 1, C1: 1, R2: 2, C2: 1},
			{R1: 1, C1: 3, R2: 4, C2: 4},
		}},
		{"Sheet1!$A$1", "Sheet1", nil},
		{"$A$1:$B$2", "", nil},
	}
	for _, tt := range tests {
		sheet, areas := parsePrintAreaReference(tt.ref)
		if sheet != tt.sheet {
			t.Errorf("%q: sheet = %q, want %q", tt.ref, sheet, tt.sheet)
		}
		if len(areas) != len(tt.areas) {
			t.Errorf("%q: got %d areas, want %d", tt.ref, len(areas), len(tt.areas))
			continue
		}
		for i := range areas {
			if areas[i] != tt.areas[i] {
				t.Errorf("%q: area %d = %+v, want %+v", tt.ref, i, areas[i], tt.areas[i])
			}
		}
	}
}

func TestDetectTables(t *testing.T) {
	rows := [][]string{
		{"id", "name"},
		{"1", "a"},
		{},
		{"", "", "x"},
		{},
		{"", "q", "r"},
		{"", "s", "t"},
	}
	got := detectTables(rows, DefaultTableParams())
	want := []string{"A1:B2", "B6:C7"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidate %d = %q, want %q", i, got[i], want[i])
		}
	}

	if b := findDataBounds([][]string{{""}, {}}); !b.empty() {
		t.Errorf("Expected empty bounds, got %+v", b)
	}
}

func TestHeaderNames(t *testing.T) {
	raw := [][]string{{"Name", "", "Name", "Qty"}}
	got := headerNames(raw, 1)
	want := []string{"Name", "B", "Name_2", "Qty"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Header %d = %q, want %q", i, got[i], want[i])
		}
	}
	if headerNames(raw, 3) != nil {
		t.Error("Expected nil headers past the last row")
	}
}
