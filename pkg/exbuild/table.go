package exbuild

import (
	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
)

// Table is one block of a worksheet: headers, sub-headers, body rows and
// footers laid out top to bottom.
type Table struct {
	Name       string
	Headers    []*models.Cell
	SubHeaders []*models.Cell
	// Rows holds one entry per AddRow call. An entry is either a single cell
	// tree or the sibling cells of one row.
	Rows    [][]*models.Cell
	Footers []*models.Cell
}

// IsEmpty reports whether nothing was staged in the table.
func (t *Table) IsEmpty() bool {
	return len(t.Headers) == 0 && len(t.SubHeaders) == 0 && len(t.Rows) == 0 && len(t.Footers) == 0
}

// HasContent reports whether the table has at least one header or body row.
func (t *Table) HasContent() bool {
	return len(t.Headers) > 0 || len(t.Rows) > 0
}

// SubHeaderColumns returns the number of leaf columns under the sub-headers.
func (t *Table) SubHeaderColumns() int {
	n := 0
	for _, c := range t.SubHeaders {
		n += c.LeafCount()
	}
	return n
}

// SubHeaderDepth returns the number of rows the sub-headers occupy.
func (t *Table) SubHeaderDepth() int {
	d := 0
	for _, c := range t.SubHeaders {
		if cd := c.Depth(); cd > d {
			d = cd
		}
	}
	return d
}

// walk calls fn for every staged cell, children included.
func (t *Table) walk(fn func(c *models.Cell)) {
	var visit func(cells []*models.Cell)
	visit = func(cells []*models.Cell) {
		for _, c := range cells {
			if c == nil {
				continue
			}
			fn(c)
			visit(c.Children)
		}
	}
	visit(t.Headers)
	visit(t.SubHeaders)
	for _, row := range t.Rows {
		visit(row)
	}
	visit(t.Footers)
}

// snapshot returns a deep copy so later changes to caller-held cells do not
// leak into a finalized table.
func (t *Table) snapshot() (Table, error) {
	var out Table
	if err := deepcopy.Copy(&out, t); err != nil {
		return Table{}, err
	}
	return out, nil
}
