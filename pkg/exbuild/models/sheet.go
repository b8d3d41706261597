package models

// CellData is one cell of a read sheet.
type CellData struct {
	// Ref is the A1-style reference.
	Ref string `json:"ref"`
	// Col is the column index (1-based).
	Col int `json:"col"`
	// Value is int64, float64, bool, time.Time or string, or nil for a formula
	// without a cached result.
	Value any `json:"value"`
	// Type is the semantic type inferred from the stored value and its format.
	Type CellType `json:"type"`
	// Format is the number format code, if not General.
	Format  string `json:"format,omitempty"`
	Formula string `json:"formula,omitempty"`
	Link    string `json:"link,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// RowData is a single row of a read sheet.
type RowData struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// Cells lists the non-empty cells of the row in column order.
	Cells []CellData `json:"cells"`
	// Data maps header text to cell value when headers are requested.
	Data map[string]any `json:"data,omitempty"`
}

// SheetData represents structured data for a single read sheet.
type SheetData struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Index is the 0-based position of the sheet in the workbook.
	Index int `json:"index"`
	// Dimension is the range covering every non-empty cell (e.g. "A1:D10").
	Dimension string `json:"dimension,omitempty"`
	// Headers lists the header texts when headers are requested.
	Headers []string `json:"headers,omitempty"`
	// Rows contains extracted rows.
	Rows []RowData `json:"rows,omitempty"`
	// Merges lists merged ranges.
	Merges []string `json:"merges,omitempty"`
	// TableCandidates contains cell ranges likely representing tables.
	TableCandidates []string `json:"table_candidates,omitempty"`
	// PrintAreas contains user-defined print areas.
	PrintAreas []PrintArea `json:"print_areas,omitempty"`
}

// DetailedCell is a cell of the flat detailed projection.
type DetailedCell struct {
	Sheet     string   `json:"sheet"`
	Row       int      `json:"row"`
	Col       int      `json:"col"`
	ColLetter string   `json:"col_letter"`
	Ref       string   `json:"ref"`
	Value     any      `json:"value"`
	Type      CellType `json:"type"`
}

// FlatSheet holds plain rows without cell metadata. Records is set when
// headers are requested, Values otherwise.
type FlatSheet struct {
	Name    string           `json:"name"`
	Records []map[string]any `json:"records,omitempty"`
	Values  [][]any          `json:"values,omitempty"`
}
