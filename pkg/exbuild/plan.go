package exbuild

import (
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/xuri/excelize/v2"
)

// placement is one cell positioned on the grid.
type placement struct {
	cell *models.Cell
	row  int
	col  int
	// endRow and endCol are the bottom-right corner of a merge, or zero.
	endRow int
	endCol int
	// stripe marks cells on alternate body rows.
	stripe bool
}

func (p placement) merged() bool {
	return p.endRow > 0 && (p.endRow != p.row || p.endCol != p.col)
}

// plan is the grid layout of a whole sheet.
type plan struct {
	cells []placement
	// rows and cols are the extent of the layout.
	rows int
	cols int
	// firstBodyRow is the first row below the headers of the first table,
	// or zero when it has no headers.
	firstBodyRow int
	positions    map[string]Position
	// occupied holds the (row, col) pairs already claimed by a placement.
	occupied map[[2]int]bool
	// overlaps lists the references of cells claimed by more than one
	// placement, in layout order.
	overlaps []string
}

func newPlan() *plan {
	return &plan{
		positions: make(map[string]Position),
		occupied:  make(map[[2]int]bool),
	}
}

func (p *plan) add(pl placement) {
	p.cells = append(p.cells, pl)
	row, col := pl.row, pl.col
	if pl.endRow > row {
		row = pl.endRow
	}
	if pl.endCol > col {
		col = pl.endCol
	}
	for r := pl.row; r <= row; r++ {
		for c := pl.col; c <= col; c++ {
			if p.occupied[[2]int{r, c}] {
				ref, _ := excelize.CoordinatesToCellName(c, r)
				p.overlaps = append(p.overlaps, ref)
				continue
			}
			p.occupied[[2]int{r, c}] = true
		}
	}
	if row > p.rows {
		p.rows = row
	}
	if col > p.cols {
		p.cols = col
	}
}

// planSheet lays out the tables top to bottom with gap blank rows between
// non-empty tables.
func planSheet(tables []Table, gap int) *plan {
	p := newPlan()
	row := 1
	first := true
	for i := range tables {
		t := &tables[i]
		if t.IsEmpty() {
			continue
		}
		if !first {
			row += gap
		}
		next, bodyRow := planTable(p, t, row)
		if first && bodyRow > 1 {
			p.firstBodyRow = bodyRow
		}
		first = false
		row = next
	}
	return p
}

// planTable places one table starting at row and returns the row after it
// and the first body row.
func planTable(p *plan, t *Table, row int) (int, int) {
	columns := t.SubHeaderColumns()
	for _, h := range t.Headers {
		pl := placement{cell: h, row: row, col: 1}
		if h.MergeCell {
			span := max(1, columns)
			if span > 1 {
				pl.endRow, pl.endCol = row, span
			}
		}
		p.add(pl)
		if h.Key != "" {
			p.positions[h.Key] = Position{Row: row, Col: 1}
		}
		row++
	}

	leafCols := make(map[string]int)
	if len(t.SubHeaders) > 0 {
		depth := t.SubHeaderDepth()
		planSubHeaders(p, t.SubHeaders, row, 1, row+depth-1, leafCols)
		row += depth
	}
	bodyRow := row

	for i, cells := range t.Rows {
		stripe := i%2 == 1
		last := row
		for j, c := range cells {
			col := j + 1
			if c.Key != "" {
				if kc, ok := leafCols[c.Key]; ok {
					col = kc
				}
			}
			if end := planTree(p, c, row, col, stripe); end > last {
				last = end
			}
		}
		row = last + 1
	}

	for _, f := range t.Footers {
		pl := placement{cell: f, row: row, col: 1}
		if f.MergeCell && f.MergeTo > 1 {
			pl.endRow, pl.endCol = row, f.MergeTo
		}
		p.add(pl)
		row++
	}
	return row, bodyRow
}

// planSubHeaders places a level of sub-headers starting at (row, col). A
// parent spans its leaves; a leaf above lastRow extends down to it.
func planSubHeaders(p *plan, cells []*models.Cell, row, col, lastRow int, leafCols map[string]int) int {
	for _, c := range cells {
		if c == nil {
			continue
		}
		pl := placement{cell: c, row: row, col: col}
		span := c.LeafCount()
		if c.IsLeaf() {
			if row < lastRow {
				pl.endRow, pl.endCol = lastRow, col
			}
			if c.Key != "" {
				leafCols[c.Key] = col
			}
		} else if span > 1 {
			pl.endRow, pl.endCol = row, col+span-1
		}
		p.add(pl)
		if c.Key != "" {
			p.positions[c.Key] = Position{Row: row, Col: col}
		}
		if !c.IsLeaf() {
			planSubHeaders(p, c.Children, row+1, col, lastRow, leafCols)
		}
		col += span
	}
	return col
}

// planTree places c at (row, col) and its children one row below each other
// and one column to the right, depth first. It returns the last row used.
// A deep subtree can reach cells of a later sibling tree; the plan records
// those as overlaps.
func planTree(p *plan, c *models.Cell, row, col int, stripe bool) int {
	p.add(placement{cell: c, row: row, col: col, stripe: stripe})
	last := row
	for _, child := range c.Children {
		if child == nil {
			continue
		}
		last = planTree(p, child, last+1, col+1, stripe)
	}
	return last
}
