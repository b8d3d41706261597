// Package template loads YAML workbook definitions and turns them into
// workbooks.
package template

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ukaji3/exbuild-go/pkg/exbuild"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/styles"
	"gopkg.in/yaml.v3"
)

// Template is a complete workbook definition.
type Template struct {
	Version  string          `yaml:"version"`
	Metadata models.Metadata `yaml:"metadata,omitempty"`
	// Styles are named descriptors referenced by cells through style_ref.
	Styles map[string]*styles.Descriptor `yaml:"styles,omitempty"`
	Sheets []SheetTemplate               `yaml:"sheets" validate:"required,min=1,dive"`
}

// SheetTemplate defines one worksheet.
type SheetTemplate struct {
	Name string `yaml:"name" validate:"required,max=31"`
	// Theme names a predefined theme ("blue", "green", "dark").
	Theme  string                 `yaml:"theme,omitempty" validate:"omitempty,oneof=blue green dark"`
	Config models.WorksheetConfig `yaml:"config,omitempty"`
	Tables []TableTemplate        `yaml:"tables" validate:"required,min=1,dive"`
}

// TableTemplate defines one table of a worksheet.
type TableTemplate struct {
	Name       string            `yaml:"name,omitempty"`
	Headers    []*CellTemplate   `yaml:"headers,omitempty" validate:"dive,required"`
	SubHeaders []*CellTemplate   `yaml:"sub_headers,omitempty" validate:"dive,required"`
	Rows       [][]*CellTemplate `yaml:"rows,omitempty" validate:"dive,dive,required"`
	Footers    []*CellTemplate   `yaml:"footers,omitempty" validate:"dive,required"`
}

// CellTemplate is a cell with an optional reference to a named style.
type CellTemplate struct {
	models.Cell `yaml:",inline"`
	StyleRef    string `yaml:"style_ref,omitempty"`
}

// Load reads a template from a YAML file.
func Load(path string) (*Template, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening template file: %w", err)
	}
	defer file.Close()

	return LoadReader(file)
}

// LoadReader reads a template from r.
func LoadReader(r io.Reader) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return Parse(data)
}

// LoadString reads a template from a YAML string.
func LoadString(content string) (*Template, error) {
	return LoadReader(strings.NewReader(content))
}

// Parse decodes and validates a YAML template.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, exbuild.NewError(exbuild.KindValidation, fmt.Errorf("parsing YAML template: %w", err))
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the template structure and its style references.
func (t *Template) Validate() error {
	if err := exbuild.Validator().Struct(t); err != nil {
		return exbuild.NewError(exbuild.KindValidation, fmt.Errorf("validating template: %w", err))
	}
	for _, s := range t.Sheets {
		for _, tbl := range s.Tables {
			var missing string
			tbl.each(func(c *CellTemplate) {
				if missing == "" && c.StyleRef != "" {
					if _, ok := t.Styles[c.StyleRef]; !ok {
						missing = c.StyleRef
					}
				}
			})
			if missing != "" {
				return exbuild.Errorf(exbuild.KindStyle, "sheet %q: unknown style %q", s.Name, missing)
			}
		}
	}
	return nil
}

func (tt *TableTemplate) each(fn func(c *CellTemplate)) {
	for _, c := range tt.Headers {
		fn(c)
	}
	for _, c := range tt.SubHeaders {
		fn(c)
	}
	for _, row := range tt.Rows {
		for _, c := range row {
			fn(c)
		}
	}
	for _, c := range tt.Footers {
		fn(c)
	}
}

// Workbook creates a workbook staged with every sheet of the template. The
// template metadata is applied before opts.
func (t *Template) Workbook(opts ...exbuild.Option) (*exbuild.Workbook, error) {
	wb, err := exbuild.New(append([]exbuild.Option{exbuild.WithMetadata(t.Metadata)}, opts...)...)
	if err != nil {
		return nil, err
	}
	for _, s := range t.Sheets {
		if err := t.stage(wb, s); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

func (t *Template) stage(wb *exbuild.Workbook, s SheetTemplate) error {
	cfg := s.Config
	if s.Theme != "" {
		theme, ok := styles.LookupTheme(s.Theme)
		if !ok {
			return exbuild.Errorf(exbuild.KindStyle, "sheet %q: unknown theme %q", s.Name, s.Theme)
		}
		cfg.Theme = theme
	}
	ws, err := wb.AddWorksheet(s.Name, cfg)
	if err != nil {
		return err
	}
	for i, tbl := range s.Tables {
		if i > 0 || tbl.Name != "" {
			ws.AddTable(tbl.Name)
		}
		for _, c := range tbl.Headers {
			ws.AddHeader(t.cell(c))
		}
		if len(tbl.SubHeaders) > 0 {
			ws.AddSubHeaders(t.cells(tbl.SubHeaders)...)
		}
		for _, row := range tbl.Rows {
			ws.AddRow(t.cells(row)...)
		}
		if len(tbl.Footers) > 0 {
			ws.AddFooter(t.cells(tbl.Footers)...)
		}
	}
	ws.FinalizeTable()
	return nil
}

// cell resolves the style reference of c. An inline style is layered over
// the referenced one.
func (t *Template) cell(c *CellTemplate) *models.Cell {
	out := c.Cell
	if c.StyleRef != "" {
		out.Style = t.Styles[c.StyleRef].Merge(c.Style)
	}
	return &out
}

func (t *Template) cells(in []*CellTemplate) []*models.Cell {
	out := make([]*models.Cell, 0, len(in))
	for _, c := range in {
		out = append(out, t.cell(c))
	}
	return out
}
