package exbuild

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/xuri/excelize/v2"
)

// State is the lifecycle state of a worksheet.
type State int

const (
	// StateStaging accepts headers, rows and footers.
	StateStaging State = iota
	// StateBuilt ignores further staging calls.
	StateBuilt
)

func (s State) String() string {
	if s == StateBuilt {
		return "built"
	}
	return "staging"
}

// Position is the 1-based grid coordinate of an emitted cell.
type Position struct {
	Row int
	Col int
}

// Ref returns the A1-style reference of the position.
func (p Position) Ref() string {
	ref, _ := excelize.CoordinatesToCellName(p.Col, p.Row)
	return ref
}

// Worksheet stages the content of one sheet and lays it out on build.
type Worksheet struct {
	mu     sync.Mutex
	config models.WorksheetConfig
	opts   Options
	logger logrus.FieldLogger

	tables []Table
	active *Table

	state    State
	rejected []string

	// Filled by Build.
	positions map[string]Position
	lastRow   int
}

func newWorksheet(name string, cfg models.WorksheetConfig, opts Options, logger logrus.FieldLogger) *Worksheet {
	cfg.Name = name
	return &Worksheet{
		config:    cfg,
		opts:      opts,
		logger:    logger.WithField("worksheet", name),
		active:    &Table{},
		positions: make(map[string]Position),
	}
}

// Name returns the sheet name.
func (w *Worksheet) Name() string {
	return w.config.Name
}

// Config returns the worksheet configuration.
func (w *Worksheet) Config() models.WorksheetConfig {
	return w.config
}

// State returns the lifecycle state.
func (w *Worksheet) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// IsBuilt reports whether the worksheet has been built.
func (w *Worksheet) IsBuilt() bool {
	return w.State() == StateBuilt
}

// stage runs fn against the active table unless the worksheet is built.
func (w *Worksheet) stage(op string, fn func(t *Table)) *Worksheet {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateBuilt {
		w.rejected = append(w.rejected, op)
		w.logger.WithField("op", op).Warn("worksheet already built, staging call ignored")
		return w
	}
	fn(w.active)
	return w
}

// AddHeader appends a header cell.
func (w *Worksheet) AddHeader(cell *models.Cell) *Worksheet {
	return w.stage("AddHeader", func(t *Table) {
		if cell == nil {
			return
		}
		setRole(cell, models.RoleHeader)
		t.Headers = append(t.Headers, cell)
	})
}

// AddSubHeaders appends sub-header cells. Cells with children form
// multi-level headers.
func (w *Worksheet) AddSubHeaders(cells ...*models.Cell) *Worksheet {
	return w.stage("AddSubHeaders", func(t *Table) {
		for _, c := range cells {
			if c == nil {
				continue
			}
			setRole(c, models.RoleSubHeader)
			t.SubHeaders = append(t.SubHeaders, c)
		}
	})
}

// AddRow appends one body row: a single cell tree, or sibling cells that
// fill successive columns.
func (w *Worksheet) AddRow(cells ...*models.Cell) *Worksheet {
	return w.stage("AddRow", func(t *Table) {
		row := make([]*models.Cell, 0, len(cells))
		for _, c := range cells {
			if c == nil {
				continue
			}
			setRole(c, models.RoleData)
			row = append(row, c)
		}
		if len(row) > 0 {
			t.Rows = append(t.Rows, row)
		}
	})
}

// AddFooter appends footer cells, one row each.
func (w *Worksheet) AddFooter(cells ...*models.Cell) *Worksheet {
	return w.stage("AddFooter", func(t *Table) {
		for _, c := range cells {
			if c == nil {
				continue
			}
			setRole(c, models.RoleFooter)
			t.Footers = append(t.Footers, c)
		}
	})
}

// AddTable finalizes the active table and starts a new one named name.
func (w *Worksheet) AddTable(name string) *Worksheet {
	return w.stage("AddTable", func(t *Table) {
		w.finalizeLocked()
		w.active.Name = name
	})
}

// FinalizeTable closes the active table. Later staging calls start a new one.
func (w *Worksheet) FinalizeTable() *Worksheet {
	return w.stage("FinalizeTable", func(t *Table) {
		w.finalizeLocked()
	})
}

func (w *Worksheet) finalizeLocked() {
	if w.active.IsEmpty() {
		return
	}
	snap, err := w.active.snapshot()
	if err != nil {
		w.logger.WithError(err).Debug("table snapshot copy failed, keeping staged cells")
		snap = *w.active
	}
	w.tables = append(w.tables, snap)
	w.active = &Table{}
}

// Tables returns the finalized tables followed by the active one when it
// holds anything.
func (w *Worksheet) Tables() []Table {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tablesLocked()
}

func (w *Worksheet) tablesLocked() []Table {
	out := make([]Table, 0, len(w.tables)+1)
	out = append(out, w.tables...)
	if !w.active.IsEmpty() {
		out = append(out, *w.active)
	}
	return out
}

// HeaderPosition returns where the sub-header or header with key was emitted
// by the last build.
func (w *Worksheet) HeaderPosition(key string) (Position, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.positions[key]
	return p, ok
}

// LastRow returns the last grid row written by the last build.
func (w *Worksheet) LastRow() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRow
}

// Validate checks the staged content.
func (w *Worksheet) Validate() Result[struct{}] {
	w.mu.Lock()
	defer w.mu.Unlock()
	name := w.config.Name

	if len(w.rejected) > 0 {
		return Fail[struct{}](NewError(KindWorksheet, fmt.Errorf("worksheet %q: %w (%s)",
			name, ErrWorksheetBuilt, strings.Join(w.rejected, ", "))))
	}

	tables := w.tablesLocked()
	hasContent := false
	for i := range tables {
		if tables[i].HasContent() {
			hasContent = true
			break
		}
	}
	if !hasContent {
		return Fail[struct{}](Errorf(KindValidation, "worksheet %q has no headers or rows", name))
	}

	var cellErrs []error
	for i := range tables {
		tables[i].walk(func(c *models.Cell) {
			if err := validateCell(c); err != nil {
				cellErrs = append(cellErrs, err)
			}
		})
	}
	if len(cellErrs) > 0 {
		return Fail[struct{}](NewError(KindCell, fmt.Errorf("worksheet %q: %w", name, errors.Join(cellErrs...))))
	}

	p := planSheet(tables, w.config.Gap())
	if len(p.overlaps) > 0 {
		return Fail[struct{}](Errorf(KindCell, "worksheet %q: overlapping cells at %s",
			name, strings.Join(p.overlaps, ", ")))
	}
	if p.rows > w.opts.RowLimit() {
		return Fail[struct{}](Errorf(KindValidation, "worksheet %q uses %d rows, limit is %d", name, p.rows, w.opts.RowLimit()))
	}
	if p.cols > w.opts.ColumnLimit() {
		return Fail[struct{}](Errorf(KindValidation, "worksheet %q uses %d columns, limit is %d", name, p.cols, w.opts.ColumnLimit()))
	}
	return Ok(struct{}{})
}

func validateCell(c *models.Cell) error {
	switch c.Type {
	case models.CellTypeLink:
		if c.Link == "" {
			return fmt.Errorf("link cell %q has no target", c.Key)
		}
	case models.CellTypeFormula:
		if c.Formula == "" {
			if s, ok := c.Value.(string); !ok || !strings.HasPrefix(s, "=") {
				return fmt.Errorf("formula cell %q has no formula", c.Key)
			}
		}
	}
	if c.Validation != nil && c.Validation.Type == "list" && len(c.Validation.Options) == 0 {
		return fmt.Errorf("cell %q has a list validation without options", c.Key)
	}
	return nil
}

// Build lays the staged tables out on the sheet of f named after the
// worksheet, creating the sheet when it does not exist. It may be called
// again with a fresh file to rebuild the same content.
func (w *Worksheet) Build(ctx context.Context, f *excelize.File, stats *Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if stats == nil {
		stats = &Stats{}
	}
	name := w.config.Name

	if idx, err := f.GetSheetIndex(name); err != nil {
		return NewLayoutError(name, "", "config", err)
	} else if idx < 0 {
		if _, err := f.NewSheet(name); err != nil {
			return NewLayoutError(name, "", "config", err)
		}
	}
	if err := applyConfig(f, w.config); err != nil {
		return err
	}

	tables := w.tablesLocked()
	p := planSheet(tables, w.config.Gap())
	if len(p.overlaps) > 0 {
		w.logger.WithField("cells", p.overlaps).Warn("overlapping cells, later cells overwrite earlier ones")
	}
	e := &emitter{f: f, sheet: name, theme: w.config.Theme, stats: stats}
	for _, pl := range p.cells {
		if err := e.emit(pl); err != nil {
			return err
		}
	}
	if err := applyView(f, w.config, p); err != nil {
		return err
	}

	w.positions = p.positions
	w.lastRow = p.rows
	w.state = StateBuilt
	w.logger.WithFields(logrus.Fields{
		"rows":   p.rows,
		"cols":   p.cols,
		"tables": len(tables),
	}).Debug("worksheet built")
	return nil
}

func setRole(c *models.Cell, role models.CellRole) {
	c.Role = role
	for _, child := range c.Children {
		if child != nil {
			setRole(child, role)
		}
	}
}
