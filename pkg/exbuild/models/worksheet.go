package models

import (
	"github.com/ukaji3/exbuild-go/pkg/exbuild/styles"
)

// WorksheetConfig configures a worksheet.
type WorksheetConfig struct {
	// Name is the sheet name; it is set from AddWorksheet.
	Name string `yaml:"name" json:"name"`
	// DefaultRowHeight is the default row height in points (0 keeps the engine default).
	DefaultRowHeight float64 `yaml:"default_row_height,omitempty" json:"default_row_height,omitempty"`
	// DefaultColWidth is the default column width in characters.
	DefaultColWidth float64 `yaml:"default_col_width,omitempty" json:"default_col_width,omitempty"`
	// TabColor is the RGB hex color of the sheet tab.
	TabColor string `yaml:"tab_color,omitempty" json:"tab_color,omitempty"`
	// PageSetup holds print settings.
	PageSetup *PageSetup `yaml:"page_setup,omitempty" json:"page_setup,omitempty"`
	// Theme styles cells that carry no style of their own.
	Theme *styles.Theme `yaml:"-" json:"-"`
	// TableGap is the number of blank rows between tables. Nil means 1.
	TableGap *int `yaml:"table_gap,omitempty" json:"table_gap,omitempty"`
}

// Gap returns the number of blank rows between tables.
func (c WorksheetConfig) Gap() int {
	if c.TableGap != nil && *c.TableGap >= 0 {
		return *c.TableGap
	}
	return 1
}

// PageSetup holds print and view settings of a worksheet.
type PageSetup struct {
	// Orientation is "portrait" or "landscape".
	Orientation string `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	// PaperSize is the excelize paper size index (1 = Letter, 9 = A4).
	PaperSize   int      `yaml:"paper_size,omitempty" json:"paper_size,omitempty"`
	FitToWidth  int      `yaml:"fit_to_width,omitempty" json:"fit_to_width,omitempty"`
	FitToHeight int      `yaml:"fit_to_height,omitempty" json:"fit_to_height,omitempty"`
	Margins     *Margins `yaml:"margins,omitempty" json:"margins,omitempty"`
	// PrintArea limits printing to the given bounds.
	PrintArea *PrintArea `yaml:"print_area,omitempty" json:"print_area,omitempty"`
	// FreezeHeader freezes every row above the first body row.
	FreezeHeader bool `yaml:"freeze_header,omitempty" json:"freeze_header,omitempty"`
	// FreezeColumns freezes the given number of leading columns.
	FreezeColumns int `yaml:"freeze_columns,omitempty" json:"freeze_columns,omitempty"`
}

// Margins are page margins in inches.
type Margins struct {
	Top    float64 `yaml:"top,omitempty" json:"top,omitempty"`
	Bottom float64 `yaml:"bottom,omitempty" json:"bottom,omitempty"`
	Left   float64 `yaml:"left,omitempty" json:"left,omitempty"`
	Right  float64 `yaml:"right,omitempty" json:"right,omitempty"`
	Header float64 `yaml:"header,omitempty" json:"header,omitempty"`
	Footer float64 `yaml:"footer,omitempty" json:"footer,omitempty"`
}
