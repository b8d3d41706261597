// Package reader projects xlsx workbooks into nested, detailed or flat shapes.
package reader

import (
	"github.com/sirupsen/logrus"
)

// Format selects the projected shape.
type Format string

const (
	// FormatNested yields []models.SheetData: sheets with rows of typed cells.
	FormatNested Format = "nested"
	// FormatDetailed yields []models.DetailedCell: one entry per cell.
	FormatDetailed Format = "detailed"
	// FormatFlat yields []models.FlatSheet: plain records or value rows.
	FormatFlat Format = "flat"
)

// Mapper post-processes a projected shape before it is returned.
type Mapper func(data any) (any, error)

// Options configures reading.
type Options struct {
	// Format is the projected shape. Empty means FormatNested.
	Format Format `validate:"omitempty,oneof=nested detailed flat"`
	// UseFirstRowAsHeaders keys row data by the texts of the header row.
	UseFirstRowAsHeaders bool
	// HeaderRow is the 1-based header row. 0 means 1.
	HeaderRow int `validate:"gte=0"`
	// Sheets restricts reading to the named sheets, in workbook order.
	Sheets []string
	// IncludeEmpty keeps empty cells inside a row and empty rows inside the
	// used range.
	IncludeEmpty bool
	// IncludeLinks specifies whether to read cell hyperlinks.
	// If nil, defaults to true.
	IncludeLinks *bool
	// IncludeFormulas specifies whether to read cell formulas.
	// If nil, defaults to true.
	IncludeFormulas *bool
	// IncludeComments specifies whether to read cell comments.
	// If nil, defaults to true for the nested format, false otherwise.
	IncludeComments *bool
	// IncludePrintAreas specifies whether to read print areas.
	// If nil, defaults to true for the nested format, false otherwise.
	IncludePrintAreas *bool
	// DetectTables enables table candidate detection.
	DetectTables bool
	// Mapper post-processes the result.
	Mapper Mapper
	// Logger receives warnings about sheets that could not be fully read.
	Logger logrus.FieldLogger
}

// DefaultOptions returns default read options.
func DefaultOptions() Options {
	return Options{
		Format: FormatNested,
	}
}

func (o Options) format() Format {
	if o.Format == "" {
		return FormatNested
	}
	return o.Format
}

func (o Options) headerRow() int {
	if o.HeaderRow > 0 {
		return o.HeaderRow
	}
	return 1
}

// ShouldIncludeLinks returns whether to read cell hyperlinks.
func (o Options) ShouldIncludeLinks() bool {
	if o.IncludeLinks != nil {
		return *o.IncludeLinks
	}
	return true
}

// ShouldIncludeFormulas returns whether to read cell formulas.
func (o Options) ShouldIncludeFormulas() bool {
	if o.IncludeFormulas != nil {
		return *o.IncludeFormulas
	}
	return true
}

// ShouldIncludeComments returns whether to read cell comments.
func (o Options) ShouldIncludeComments() bool {
	if o.IncludeComments != nil {
		return *o.IncludeComments
	}
	return o.format() == FormatNested
}

// ShouldIncludePrintAreas returns whether to read print areas.
func (o Options) ShouldIncludePrintAreas() bool {
	if o.IncludePrintAreas != nil {
		return *o.IncludePrintAreas
	}
	return o.format() == FormatNested
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}
