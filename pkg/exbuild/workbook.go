package exbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/events"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet every new engine file starts with.
const defaultSheet = "Sheet1"

// Workbook owns named worksheets and builds them into one xlsx file.
type Workbook struct {
	mu     sync.RWMutex
	opts   Options
	logger logrus.FieldLogger
	bus    *events.Bus

	names   []string
	sheets  map[string]*Worksheet
	current string

	stats    Stats
	building atomic.Bool
}

// New creates an empty workbook.
func New(opts ...Option) (*Workbook, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validate.Struct(o); err != nil {
		return nil, NewError(KindValidation, fmt.Errorf("invalid options: %w", err))
	}
	logger := o.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Workbook{
		opts:   o,
		logger: logger,
		bus:    events.NewBus(logger),
		sheets: make(map[string]*Worksheet),
	}, nil
}

// Options returns the workbook options.
func (w *Workbook) Options() Options {
	return w.opts
}

// SetMetadata replaces the document properties.
func (w *Workbook) SetMetadata(m models.Metadata) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opts.Metadata = m
}

// AddWorksheet adds a worksheet and makes it current. Names are unique
// regardless of case.
func (w *Workbook) AddWorksheet(name string, cfg models.WorksheetConfig) (*Worksheet, error) {
	if err := checkSheetName(name); err != nil {
		return nil, err
	}
	w.mu.Lock()
	if w.lookupLocked(name) != nil {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrWorksheetExists, name)
	}
	if w.opts.MaxWorksheets > 0 && len(w.names) >= w.opts.MaxWorksheets {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrWorksheetLimit, w.opts.MaxWorksheets)
	}
	ws := newWorksheet(name, cfg, w.opts, w.logger)
	w.sheets[name] = ws
	w.names = append(w.names, name)
	w.current = name
	w.mu.Unlock()

	w.logger.WithField("worksheet", name).Debug("worksheet added")
	w.emit(context.Background(), events.WorksheetAdded, map[string]any{"name": name})
	return ws, nil
}

func (w *Workbook) lookupLocked(name string) *Worksheet {
	if ws, ok := w.sheets[name]; ok {
		return ws
	}
	for _, n := range w.names {
		if strings.EqualFold(n, name) {
			return w.sheets[n]
		}
	}
	return nil
}

// Worksheet returns the worksheet named name.
func (w *Workbook) Worksheet(name string) (*Worksheet, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ws, ok := w.sheets[name]
	return ws, ok
}

// RemoveWorksheet removes a worksheet and reports whether it existed.
func (w *Workbook) RemoveWorksheet(name string) bool {
	w.mu.Lock()
	if _, ok := w.sheets[name]; !ok {
		w.mu.Unlock()
		return false
	}
	delete(w.sheets, name)
	for i, n := range w.names {
		if n == name {
			w.names = append(w.names[:i:i], w.names[i+1:]...)
			break
		}
	}
	if w.current == name {
		w.current = ""
	}
	w.mu.Unlock()

	w.emit(context.Background(), events.WorksheetRemoved, map[string]any{"name": name})
	return true
}

// SetCurrentWorksheet makes the named worksheet current.
func (w *Workbook) SetCurrentWorksheet(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.sheets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrWorksheetNotFound, name)
	}
	w.current = name
	return nil
}

// CurrentWorksheet returns the current worksheet, or nil.
func (w *Workbook) CurrentWorksheet() *Worksheet {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == "" {
		return nil
	}
	return w.sheets[w.current]
}

// Worksheets returns the worksheets in insertion order.
func (w *Workbook) Worksheets() []*Worksheet {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Worksheet, 0, len(w.names))
	for _, n := range w.names {
		out = append(out, w.sheets[n])
	}
	return out
}

// Clear removes every worksheet.
func (w *Workbook) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sheets = make(map[string]*Worksheet)
	w.names = nil
	w.current = ""
}

// Stats returns the statistics of the last successful build.
func (w *Workbook) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats.clone()
}

// IsBuilding reports whether a build is running.
func (w *Workbook) IsBuilding() bool {
	return w.building.Load()
}

// Validate checks that the workbook has worksheets and that each is valid.
func (w *Workbook) Validate() Result[struct{}] {
	sheets := w.Worksheets()
	if len(sheets) == 0 {
		return Fail[struct{}](Errorf(KindValidation, "workbook has no worksheets"))
	}
	var errs []error
	for _, ws := range sheets {
		if res := ws.Validate(); !res.Success {
			errs = append(errs, res.Error)
		}
	}
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return Fail[struct{}](&Error{
			Kind:    KindValidation,
			Message: strings.Join(msgs, "; "),
			Stack:   string(debug.Stack()),
			Err:     errors.Join(errs...),
		})
	}
	return Ok(struct{}{})
}

// Build lays out every worksheet in insertion order and serializes the
// workbook. A call made while another build runs fails with BUILD_ERROR.
func (w *Workbook) Build(ctx context.Context, opts BuildOptions) Result[[]byte] {
	if !w.building.CompareAndSwap(false, true) {
		return Fail[[]byte](NewError(KindBuild, ErrBuildInProgress))
	}
	defer w.building.Store(false)
	return w.build(ctx, opts)
}

func (w *Workbook) build(ctx context.Context, opts BuildOptions) (res Result[[]byte]) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = w.buildFailed(ctx, &Error{
				Kind:    KindBuild,
				Message: fmt.Sprintf("panic: %v", p),
				Stack:   string(debug.Stack()),
			}, start)
		}
	}()

	if err := validate.Struct(opts); err != nil {
		return Fail[[]byte](NewError(KindValidation, fmt.Errorf("invalid build options: %w", err)))
	}

	sheets := w.Worksheets()
	w.emit(ctx, events.BuildStarted, map[string]any{"worksheets": len(sheets)})
	if w.opts.EnableValidation {
		if v := w.Validate(); !v.Success {
			return w.buildFailed(ctx, v.Error, start)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	w.mu.RLock()
	meta := w.opts.Metadata
	w.mu.RUnlock()
	if err := f.SetDocProps(meta.DocProperties(start)); err != nil {
		return w.buildFailed(ctx, NewError(KindBuild, fmt.Errorf("set document properties: %w", err)), start)
	}
	if app := meta.AppProperties(); app != nil {
		if err := f.SetAppProps(app); err != nil {
			return w.buildFailed(ctx, NewError(KindBuild, fmt.Errorf("set app properties: %w", err)), start)
		}
	}

	stats := Stats{Worksheets: len(sheets)}
	for i, ws := range sheets {
		if err := ctx.Err(); err != nil {
			return w.buildFailed(ctx, NewError(KindBuild, err), start)
		}
		if i == 0 && ws.Name() != defaultSheet {
			if err := f.SetSheetName(defaultSheet, ws.Name()); err != nil {
				return w.buildFailed(ctx, NewError(KindBuild, err), start)
			}
		}
		sheetStart := time.Now()
		if err := ws.Build(ctx, f, &stats); err != nil {
			return w.buildFailed(ctx, NewError(KindBuild, err), start)
		}
		if w.opts.EnablePerformanceMonitoring {
			d := time.Since(sheetStart)
			stats.recordSheet(ws.Name(), d)
			w.logger.WithFields(logrus.Fields{"worksheet": ws.Name(), "duration": d}).Info("worksheet timing")
		}
	}
	if len(sheets) > 0 {
		if idx, err := f.GetSheetIndex(sheets[0].Name()); err == nil && idx >= 0 {
			f.SetActiveSheet(idx)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return w.buildFailed(ctx, NewError(KindBuild, fmt.Errorf("serialize: %w", err)), start)
	}
	data, err := recompress(buf.Bytes(), opts.Level())
	if err != nil {
		return w.buildFailed(ctx, NewError(KindBuild, err), start)
	}
	if w.opts.MemoryLimit > 0 && int64(len(data)) > w.opts.MemoryLimit {
		return w.buildFailed(ctx, Errorf(KindBuild, "workbook size %d exceeds memory limit %d", len(data), w.opts.MemoryLimit), start)
	}

	stats.Duration = time.Since(start)
	stats.Bytes = len(data)
	stats.BuiltAt = start
	w.mu.Lock()
	w.stats = stats
	w.mu.Unlock()

	w.logger.WithFields(logrus.Fields{
		"worksheets": stats.Worksheets,
		"cells":      stats.Cells,
		"duration":   stats.Duration,
		"bytes":      stats.Bytes,
	}).Info("workbook built")
	w.emit(ctx, events.BuildCompleted, map[string]any{
		"duration": stats.Duration,
		"bytes":    stats.Bytes,
		"stats":    stats.clone(),
	})
	return Ok(data)
}

func (w *Workbook) buildFailed(ctx context.Context, err *Error, start time.Time) Result[[]byte] {
	w.logger.WithFields(logrus.Fields{
		"kind":     string(err.Kind),
		"duration": time.Since(start),
	}).WithError(err).Error("workbook build failed")
	w.emit(ctx, events.BuildError, map[string]any{
		"kind":    string(err.Kind),
		"message": err.Message,
		"stack":   err.Stack,
	})
	return Fail[[]byte](err)
}

// On registers a listener and returns its id.
func (w *Workbook) On(t events.Type, l events.Listener, opts events.Options) string {
	return w.bus.On(t, l, opts)
}

// Once registers a listener that runs at most once.
func (w *Workbook) Once(t events.Type, l events.Listener, opts events.Options) string {
	return w.bus.Once(t, l, opts)
}

// Off removes a listener by id.
func (w *Workbook) Off(t events.Type, id string) bool {
	return w.bus.Off(t, id)
}

// RemoveAllListeners removes the listeners of the given types, or all.
func (w *Workbook) RemoveAllListeners(types ...events.Type) {
	w.bus.RemoveAll(types...)
}

func (w *Workbook) emit(ctx context.Context, t events.Type, data map[string]any) {
	if !w.opts.ShouldEmitEvents() {
		return
	}
	w.bus.Emit(ctx, events.New(t, data))
}

// checkSheetName applies the engine's sheet name rules.
func checkSheetName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return excelize.ErrSheetNameBlank
	case utf8.RuneCountInString(name) > excelize.MaxSheetNameLength:
		return excelize.ErrSheetNameLength
	case strings.ContainsAny(name, ":\\/?*[]"):
		return excelize.ErrSheetNameInvalid
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return excelize.ErrSheetNameSingleQuote
	}
	return nil
}
