package exbuild

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/styles"
	"github.com/xuri/excelize/v2"
)

// Default number formats applied by cell type when none is given.
const (
	defaultDateFormat       = styles.FormatDate
	defaultPercentageFormat = styles.FormatPercentDecimal
	defaultCurrencyFormat   = styles.FormatThousandsDecimal
)

// emitter writes placements to one sheet of an engine file.
type emitter struct {
	f     *excelize.File
	sheet string
	theme *styles.Theme
	stats *Stats
}

func (e *emitter) fail(ref, component string, err error) error {
	return NewLayoutError(e.sheet, ref, component, err)
}

func (e *emitter) emit(p placement) error {
	c := p.cell
	ref, err := excelize.CoordinatesToCellName(p.col, p.row)
	if err != nil {
		return e.fail("", string(c.Role), err)
	}
	if err := e.writeValue(ref, c); err != nil {
		return e.fail(ref, string(c.Role), err)
	}
	e.stats.Cells++

	endRef := ref
	if p.merged() {
		if endRef, err = excelize.CoordinatesToCellName(p.endCol, p.endRow); err != nil {
			return e.fail(ref, "merge", err)
		}
		if err := e.f.MergeCell(e.sheet, ref, endRef); err != nil {
			return e.fail(ref, "merge", err)
		}
		e.stats.Merges++
	}

	if d := e.effectiveStyle(c, p.stripe); !d.IsEmpty() {
		id, err := e.f.NewStyle(styles.ToEngine(d))
		if err != nil {
			return e.fail(ref, "style", err)
		}
		if err := e.f.SetCellStyle(e.sheet, ref, endRef, id); err != nil {
			return e.fail(ref, "style", err)
		}
		e.stats.recordStyle(id)
		if err := e.conditional(ref, endRef, d.Conditional); err != nil {
			return e.fail(ref, "style", err)
		}
	}

	if c.RowHeight > 0 {
		if err := e.f.SetRowHeight(e.sheet, p.row, c.RowHeight); err != nil {
			return e.fail(ref, "size", err)
		}
	}
	if c.ColWidth > 0 {
		col, err := excelize.ColumnNumberToName(p.col)
		if err != nil {
			return e.fail(ref, "size", err)
		}
		if err := e.f.SetColWidth(e.sheet, col, col, c.ColWidth); err != nil {
			return e.fail(ref, "size", err)
		}
	}
	if c.Comment != nil && c.Comment.Text != "" {
		if err := e.f.AddComment(e.sheet, excelize.Comment{
			Author: c.Comment.Author,
			Cell:   ref,
			Text:   c.Comment.Text,
		}); err != nil {
			return e.fail(ref, "comment", err)
		}
		e.stats.Comments++
	}
	if c.Validation != nil {
		if err := e.validation(ref, endRef, c.Validation); err != nil {
			return e.fail(ref, "validation", err)
		}
		e.stats.Validations++
	}
	return nil
}

// writeValue writes the value of c according to its type.
func (e *emitter) writeValue(ref string, c *models.Cell) error {
	switch c.Type {
	case models.CellTypeLink:
		display := c.Mask
		if display == "" {
			display = displayText(c.Value, c.Link)
		}
		if err := e.f.SetCellValue(e.sheet, ref, display); err != nil {
			return err
		}
		link, linkType := c.Link, "External"
		if strings.HasPrefix(link, "#") {
			link, linkType = strings.TrimPrefix(link, "#"), "Location"
		}
		if err := e.f.SetCellHyperLink(e.sheet, ref, link, linkType, excelize.HyperlinkOpts{Display: &display}); err != nil {
			return err
		}
		e.stats.Links++
		return nil
	case models.CellTypeFormula:
		formula := c.Formula
		if formula == "" {
			formula, _ = c.Value.(string)
		}
		if err := e.f.SetCellFormula(e.sheet, ref, strings.TrimPrefix(formula, "=")); err != nil {
			return err
		}
		e.stats.Formulas++
		return nil
	}
	if c.Value == nil {
		return nil
	}
	return e.f.SetCellValue(e.sheet, ref, coerce(c.Type, c.Value))
}

// coerce converts value to the Go type the engine stores for t. Values that
// cannot be converted are written unchanged.
func coerce(t models.CellType, value any) any {
	switch t {
	case models.CellTypeNumber, models.CellTypePercentage, models.CellTypeCurrency:
		if f, ok := toFloat(value); ok {
			return f
		}
	case models.CellTypeBoolean:
		switch v := value.(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
		}
	case models.CellTypeDate:
		switch v := value.(type) {
		case time.Time:
			return v
		case string:
			for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
				if ts, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return ts
				}
			}
		}
	}
	return value
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func displayText(value any, fallback string) string {
	if value == nil {
		return fallback
	}
	if s := fmt.Sprint(value); s != "" {
		return s
	}
	return fallback
}

// effectiveStyle resolves the style of c: its own style or the theme's style
// for its role, then the number format, protection and row stripe.
func (e *emitter) effectiveStyle(c *models.Cell, stripe bool) *styles.Descriptor {
	base := c.Style
	if base == nil {
		base = e.themeStyle(c.Role)
	}
	d := base.Clone()
	if d == nil {
		d = &styles.Descriptor{}
	}

	switch {
	case c.NumberFormat != "":
		d.NumberFormat = c.NumberFormat
	case c.Format != "":
		d.NumberFormat = string(c.Format)
	case d.NumberFormat == "":
		d.NumberFormat = defaultFormat(c.Type)
	}
	if c.Protection != nil {
		prot := *c.Protection
		d.Protection = &prot
	}
	if d.Striped && stripe && c.Role == models.RoleData {
		d.Fill = &styles.Fill{Type: "pattern", Pattern: 1, Foreground: e.theme.Stripe()}
	}
	return d
}

func (e *emitter) themeStyle(role models.CellRole) *styles.Descriptor {
	if e.theme == nil {
		return nil
	}
	switch role {
	case models.RoleHeader:
		return e.theme.Header
	case models.RoleSubHeader:
		return e.theme.SubHeader
	case models.RoleData:
		return e.theme.Body
	case models.RoleFooter:
		return e.theme.Footer
	}
	return nil
}

func defaultFormat(t models.CellType) string {
	switch t {
	case models.CellTypeDate:
		return string(defaultDateFormat)
	case models.CellTypePercentage:
		return string(defaultPercentageFormat)
	case models.CellTypeCurrency:
		return string(defaultCurrencyFormat)
	}
	return ""
}

func (e *emitter) conditional(ref, endRef string, rules []styles.ConditionalFormat) error {
	if len(rules) == 0 {
		return nil
	}
	rng := ref
	if endRef != ref {
		rng = ref + ":" + endRef
	}
	opts := make([]excelize.ConditionalFormatOptions, 0, len(rules))
	for _, rule := range rules {
		var format *int
		if rule.Style != nil {
			id, err := e.f.NewConditionalStyle(styles.ToEngine(rule.Style))
			if err != nil {
				return err
			}
			format = &id
		}
		opts = append(opts, styles.ConditionalOptions(rule, format))
	}
	return e.f.SetConditionalFormat(e.sheet, rng, opts)
}

var validationTypes = map[string]excelize.DataValidationType{
	"whole":      excelize.DataValidationTypeWhole,
	"decimal":    excelize.DataValidationTypeDecimal,
	"date":       excelize.DataValidationTypeDate,
	"time":       excelize.DataValidationTypeTime,
	"textLength": excelize.DataValidationTypeTextLength,
	"custom":     excelize.DataValidationTypeCustom,
}

var validationOperators = map[string]excelize.DataValidationOperator{
	"between":            excelize.DataValidationOperatorBetween,
	"notBetween":         excelize.DataValidationOperatorNotBetween,
	"equal":              excelize.DataValidationOperatorEqual,
	"notEqual":           excelize.DataValidationOperatorNotEqual,
	"greaterThan":        excelize.DataValidationOperatorGreaterThan,
	"greaterThanOrEqual": excelize.DataValidationOperatorGreaterThanOrEqual,
	"lessThan":           excelize.DataValidationOperatorLessThan,
	"lessThanOrEqual":    excelize.DataValidationOperatorLessThanOrEqual,
}

func (e *emitter) validation(ref, endRef string, v *models.Validation) error {
	dv := excelize.NewDataValidation(v.AllowBlank)
	if endRef != ref {
		dv.SetSqref(ref + ":" + endRef)
	} else {
		dv.SetSqref(ref)
	}
	if v.Type == "list" {
		if err := dv.SetDropList(v.Options); err != nil {
			return err
		}
	} else {
		t, ok := validationTypes[v.Type]
		if !ok {
			return fmt.Errorf("unknown validation type %q", v.Type)
		}
		op, ok := validationOperators[v.Operator]
		if !ok {
			op = excelize.DataValidationOperatorBetween
		}
		if err := dv.SetRange(rangeBound(v.Min), rangeBound(v.Max), t, op); err != nil {
			return err
		}
	}
	if v.ErrorMessage != "" || v.ErrorTitle != "" {
		dv.SetError(excelize.DataValidationErrorStyleStop, v.ErrorTitle, v.ErrorMessage)
	}
	if v.PromptMessage != "" || v.PromptTitle != "" {
		dv.SetInput(v.PromptTitle, v.PromptMessage)
	}
	return e.f.AddDataValidation(e.sheet, dv)
}

// rangeBound converts a bound to one of the types SetRange accepts.
func rangeBound(v any) any {
	switch b := v.(type) {
	case nil:
		return "0"
	case int, float64, string:
		return b
	case time.Time:
		return strconv.FormatFloat(timeSerial(b), 'f', -1, 64)
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return fmt.Sprint(v)
}

// timeSerial returns the 1900 date system serial of t.
func timeSerial(t time.Time) float64 {
	epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return t.Sub(epoch).Hours() / 24
}

// applyConfig writes sheet properties and page setup.
func applyConfig(f *excelize.File, cfg models.WorksheetConfig) error {
	props := &excelize.SheetPropsOptions{}
	set := false
	if cfg.DefaultRowHeight > 0 {
		h, custom := cfg.DefaultRowHeight, true
		props.DefaultRowHeight, props.CustomHeight = &h, &custom
		set = true
	}
	if cfg.DefaultColWidth > 0 {
		w := cfg.DefaultColWidth
		props.DefaultColWidth = &w
		set = true
	}
	if cfg.TabColor != "" {
		c := "FF" + styles.HexColor(cfg.TabColor)
		if len(c) != 8 {
			c = styles.HexColor(cfg.TabColor)
		}
		props.TabColorRGB = &c
		set = true
	}
	ps := cfg.PageSetup
	if ps != nil && (ps.FitToWidth > 0 || ps.FitToHeight > 0) {
		fit := true
		props.FitToPage = &fit
		set = true
	}
	if set {
		if err := f.SetSheetProps(cfg.Name, props); err != nil {
			return NewLayoutError(cfg.Name, "", "config", err)
		}
	}
	if ps == nil {
		return nil
	}

	layout := &excelize.PageLayoutOptions{}
	if ps.PaperSize > 0 {
		size := ps.PaperSize
		layout.Size = &size
	}
	if ps.Orientation != "" {
		o := strings.ToLower(ps.Orientation)
		layout.Orientation = &o
	}
	if ps.FitToWidth > 0 {
		w := ps.FitToWidth
		layout.FitToWidth = &w
	}
	if ps.FitToHeight > 0 {
		h := ps.FitToHeight
		layout.FitToHeight = &h
	}
	if err := f.SetPageLayout(cfg.Name, layout); err != nil {
		return NewLayoutError(cfg.Name, "", "page_setup", err)
	}

	if m := ps.Margins; m != nil {
		if err := f.SetPageMargins(cfg.Name, &excelize.PageLayoutMarginsOptions{
			Top:    &m.Top,
			Bottom: &m.Bottom,
			Left:   &m.Left,
			Right:  &m.Right,
			Header: &m.Header,
			Footer: &m.Footer,
		}); err != nil {
			return NewLayoutError(cfg.Name, "", "page_setup", err)
		}
	}

	if pa := ps.PrintArea; pa != nil {
		ref, err := pa.Reference(cfg.Name)
		if err != nil {
			return NewLayoutError(cfg.Name, "", "page_setup", err)
		}
		if err := f.SetDefinedName(&excelize.DefinedName{
			Name:     "_xlnm.Print_Area",
			RefersTo: ref,
			Scope:    cfg.Name,
		}); err != nil {
			return NewLayoutError(cfg.Name, "", "page_setup", err)
		}
	}
	return nil
}

// applyView freezes header rows and leading columns.
func applyView(f *excelize.File, cfg models.WorksheetConfig, p *plan) error {
	ps := cfg.PageSetup
	if ps == nil {
		return nil
	}
	ySplit := 0
	if ps.FreezeHeader && p.firstBodyRow > 1 {
		ySplit = p.firstBodyRow - 1
	}
	xSplit := ps.FreezeColumns
	if ySplit == 0 && xSplit == 0 {
		return nil
	}
	topLeft, err := excelize.CoordinatesToCellName(xSplit+1, ySplit+1)
	if err != nil {
		return NewLayoutError(cfg.Name, "", "page_setup", err)
	}
	pane := "bottomLeft"
	switch {
	case xSplit > 0 && ySplit > 0:
		pane = "bottomRight"
	case xSplit > 0:
		pane = "topRight"
	}
	if err := f.SetPanes(cfg.Name, &excelize.Panes{
		Freeze:      true,
		XSplit:      xSplit,
		YSplit:      ySplit,
		TopLeftCell: topLeft,
		ActivePane:  pane,
		Selection:   []excelize.Selection{{SQRef: topLeft, ActiveCell: topLeft, Pane: pane}},
	}); err != nil {
		return NewLayoutError(cfg.Name, "", "page_setup", err)
	}
	return nil
}
