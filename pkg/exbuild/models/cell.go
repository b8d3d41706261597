// Package models defines data structures for workbook building and reading.
package models

import (
	"github.com/ukaji3/exbuild-go/pkg/exbuild/styles"
)

// CellType is the semantic type of a cell value.
type CellType string

const (
	CellTypeString     CellType = "string"
	CellTypeNumber     CellType = "number"
	CellTypeBoolean    CellType = "boolean"
	CellTypeDate       CellType = "date"
	CellTypePercentage CellType = "percentage"
	CellTypeCurrency   CellType = "currency"
	CellTypeLink       CellType = "link"
	CellTypeFormula    CellType = "formula"
	// CellTypeError only appears in read results.
	CellTypeError CellType = "error"
)

// CellRole records which staging list a cell belongs to.
type CellRole string

const (
	RoleHeader    CellRole = "header"
	RoleSubHeader CellRole = "sub_header"
	RoleData      CellRole = "data"
	RoleFooter    CellRole = "footer"
)

// Comment is a note attached to a cell.
type Comment struct {
	Author string `yaml:"author,omitempty" json:"author,omitempty"`
	Text   string `yaml:"text" json:"text"`
}

// Validation restricts the values a user may enter into a cell.
type Validation struct {
	// Type is one of "list", "whole", "decimal", "date", "time", "textLength".
	Type string `yaml:"type" json:"type"`
	// Operator is one of "between", "notBetween", "equal", "notEqual",
	// "greaterThan", "greaterThanOrEqual", "lessThan", "lessThanOrEqual".
	Operator string `yaml:"operator,omitempty" json:"operator,omitempty"`
	// Options lists the allowed values of a "list" validation.
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
	Min     any      `yaml:"min,omitempty" json:"min,omitempty"`
	Max     any      `yaml:"max,omitempty" json:"max,omitempty"`

	AllowBlank    bool   `yaml:"allow_blank,omitempty" json:"allow_blank,omitempty"`
	ErrorTitle    string `yaml:"error_title,omitempty" json:"error_title,omitempty"`
	ErrorMessage  string `yaml:"error_message,omitempty" json:"error_message,omitempty"`
	PromptTitle   string `yaml:"prompt_title,omitempty" json:"prompt_title,omitempty"`
	PromptMessage string `yaml:"prompt_message,omitempty" json:"prompt_message,omitempty"`
}

// Cell is a header, sub-header, data or footer cell. A cell with children is
// a node in a tree; the children are emitted in order.
type Cell struct {
	// Key identifies the cell within its list. Data cells whose key matches a
	// sub-header key are placed in that sub-header's column.
	Key string `yaml:"key,omitempty" json:"key,omitempty"`
	// Role is set by the constructors and the worksheet staging calls.
	Role CellRole `yaml:"-" json:"role,omitempty"`
	// Type is the semantic type of Value. Empty means CellTypeString.
	Type  CellType `yaml:"type,omitempty" json:"type,omitempty"`
	Value any      `yaml:"value,omitempty" json:"value,omitempty"`

	Style *styles.Descriptor `yaml:"style,omitempty" json:"style,omitempty"`
	// NumberFormat is an explicit format code and wins over Format.
	NumberFormat string              `yaml:"number_format,omitempty" json:"number_format,omitempty"`
	Format       styles.NumberFormat `yaml:"format,omitempty" json:"format,omitempty"`

	// MergeCell merges the cell horizontally. Headers span the sub-header
	// columns; footers span MergeTo columns.
	MergeCell bool `yaml:"merge_cell,omitempty" json:"merge_cell,omitempty"`
	MergeTo   int  `yaml:"merge_to,omitempty" json:"merge_to,omitempty"`

	Children []*Cell `yaml:"children,omitempty" json:"children,omitempty"`

	RowHeight float64 `yaml:"row_height,omitempty" json:"row_height,omitempty"`
	ColWidth  float64 `yaml:"col_width,omitempty" json:"col_width,omitempty"`

	// Link is the hyperlink target; "#Sheet!A1" targets a location in the workbook.
	Link string `yaml:"link,omitempty" json:"link,omitempty"`
	// Mask is the text displayed for a link.
	Mask    string `yaml:"mask,omitempty" json:"mask,omitempty"`
	Formula string `yaml:"formula,omitempty" json:"formula,omitempty"`

	Validation *Validation        `yaml:"validation,omitempty" json:"validation,omitempty"`
	Comment    *Comment           `yaml:"comment,omitempty" json:"comment,omitempty"`
	Protection *styles.Protection `yaml:"protection,omitempty" json:"protection,omitempty"`
}

// NewHeaderCell creates a header or sub-header cell.
func NewHeaderCell(key string, value any) *Cell {
	return &Cell{Key: key, Role: RoleHeader, Type: CellTypeString, Value: value}
}

// NewDataCell creates a body cell.
func NewDataCell(key string, value any) *Cell {
	return &Cell{Key: key, Role: RoleData, Type: inferType(value), Value: value}
}

// NewFooterCell creates a footer cell.
func NewFooterCell(key string, value any) *Cell {
	return &Cell{Key: key, Role: RoleFooter, Type: inferType(value), Value: value}
}

// WithType sets the semantic type.
func (c *Cell) WithType(t CellType) *Cell {
	c.Type = t
	return c
}

// WithStyle sets the style descriptor.
func (c *Cell) WithStyle(style *styles.Descriptor) *Cell {
	c.Style = style
	return c
}

// WithNumberFormat sets an explicit number format code.
func (c *Cell) WithNumberFormat(code string) *Cell {
	c.NumberFormat = code
	return c
}

// WithFormat sets an enumerated number format.
func (c *Cell) WithFormat(format styles.NumberFormat) *Cell {
	c.Format = format
	return c
}

// WithMerge enables merging. span is only used by footers; pass 0 for headers.
func (c *Cell) WithMerge(span int) *Cell {
	c.MergeCell = true
	c.MergeTo = span
	return c
}

// WithChildren appends nested cells.
func (c *Cell) WithChildren(children ...*Cell) *Cell {
	c.Children = append(c.Children, children...)
	return c
}

// WithLink turns the cell into a hyperlink displaying mask.
func (c *Cell) WithLink(target, mask string) *Cell {
	c.Type = CellTypeLink
	c.Link = target
	c.Mask = mask
	return c
}

// WithFormula turns the cell into a formula cell.
func (c *Cell) WithFormula(formula string) *Cell {
	c.Type = CellTypeFormula
	c.Formula = formula
	return c
}

// WithComment attaches a note.
func (c *Cell) WithComment(author, text string) *Cell {
	c.Comment = &Comment{Author: author, Text: text}
	return c
}

// WithValidation attaches a data validation rule.
func (c *Cell) WithValidation(v *Validation) *Cell {
	c.Validation = v
	return c
}

// WithSize sets row height and column width hints. Zero leaves a hint unset.
func (c *Cell) WithSize(rowHeight, colWidth float64) *Cell {
	c.RowHeight = rowHeight
	c.ColWidth = colWidth
	return c
}

// IsLeaf reports whether the cell has no children.
func (c *Cell) IsLeaf() bool {
	return len(c.Children) == 0
}

// LeafCount returns the number of leaves under c, counting c itself when it
// has no children.
func (c *Cell) LeafCount() int {
	if c.IsLeaf() {
		return 1
	}
	n := 0
	for _, child := range c.Children {
		n += child.LeafCount()
	}
	return n
}

// Depth returns the number of levels in the tree rooted at c.
func (c *Cell) Depth() int {
	d := 0
	for _, child := range c.Children {
		if cd := child.Depth(); cd > d {
			d = cd
		}
	}
	return d + 1
}

// NodeCount returns the number of cells in the tree rooted at c.
func (c *Cell) NodeCount() int {
	n := 1
	for _, child := range c.Children {
		n += child.NodeCount()
	}
	return n
}

func inferType(value any) CellType {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return CellTypeNumber
	case bool:
		return CellTypeBoolean
	}
	if _, ok := value.(interface{ Unix() int64 }); ok {
		return CellTypeDate
	}
	return CellTypeString
}
