// Package exbuild provides a fluent workbook builder over excelize.
package exbuild

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/xuri/excelize/v2"
)

// DefaultCompressionLevel is the deflate level used when BuildOptions leaves
// it unset.
const DefaultCompressionLevel = 6

// Options configures a Workbook.
type Options struct {
	// Metadata is written to the document properties of every build.
	Metadata models.Metadata
	// EnableValidation runs Validate before every build and fails the build
	// when it does not pass.
	EnableValidation bool
	// EnableEvents controls event emission. If nil, defaults to true.
	EnableEvents *bool
	// EnablePerformanceMonitoring logs per-worksheet timings at info level.
	EnablePerformanceMonitoring bool
	// MaxWorksheets limits AddWorksheet. 0 means no limit.
	MaxWorksheets int `validate:"gte=0,lte=32767"`
	// MaxRows limits the rows a worksheet may occupy. 0 means the engine limit.
	MaxRows int `validate:"gte=0,lte=1048576"`
	// MaxColumns limits the columns a worksheet may occupy. 0 means the engine limit.
	MaxColumns int `validate:"gte=0,lte=16384"`
	// MemoryLimit caps the size in bytes of a built workbook. 0 means no limit.
	MemoryLimit int64 `validate:"gte=0"`
	// Logger receives build progress. If nil, the logrus standard logger is used.
	Logger logrus.FieldLogger
	// Saver stores downloaded workbooks. If nil, files are written to disk.
	Saver Saver
}

// DefaultOptions returns default workbook options.
func DefaultOptions() Options {
	return Options{
		MaxWorksheets: 255,
	}
}

// ShouldEmitEvents returns whether events are emitted.
func (o Options) ShouldEmitEvents() bool {
	if o.EnableEvents != nil {
		return *o.EnableEvents
	}
	return true
}

// RowLimit returns the effective row ceiling.
func (o Options) RowLimit() int {
	if o.MaxRows > 0 {
		return o.MaxRows
	}
	return excelize.TotalRows
}

// ColumnLimit returns the effective column ceiling.
func (o Options) ColumnLimit() int {
	if o.MaxColumns > 0 {
		return o.MaxColumns
	}
	return excelize.MaxColumns
}

// Option mutates Options.
type Option func(o *Options)

// WithMetadata sets the document properties.
func WithMetadata(m models.Metadata) Option {
	return func(o *Options) { o.Metadata = m }
}

// WithAuthor sets the document author.
func WithAuthor(author string) Option {
	return func(o *Options) { o.Metadata.Author = author }
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(o *Options) { o.Metadata.Title = title }
}

// WithValidation enables validation before every build.
func WithValidation(enabled bool) Option {
	return func(o *Options) { o.EnableValidation = enabled }
}

// WithEvents enables or disables event emission.
func WithEvents(enabled bool) Option {
	return func(o *Options) { o.EnableEvents = &enabled }
}

// WithPerformanceMonitoring enables per-worksheet timing logs.
func WithPerformanceMonitoring(enabled bool) Option {
	return func(o *Options) { o.EnablePerformanceMonitoring = enabled }
}

// WithMaxWorksheets sets the worksheet ceiling.
func WithMaxWorksheets(n int) Option {
	return func(o *Options) { o.MaxWorksheets = n }
}

// WithMaxRows sets the per-worksheet row ceiling.
func WithMaxRows(n int) Option {
	return func(o *Options) { o.MaxRows = n }
}

// WithMaxColumns sets the per-worksheet column ceiling.
func WithMaxColumns(n int) Option {
	return func(o *Options) { o.MaxColumns = n }
}

// WithMemoryLimit caps the size of a built workbook in bytes.
func WithMemoryLimit(n int64) Option {
	return func(o *Options) { o.MemoryLimit = n }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithSaver sets the storage used by GenerateAndDownload.
func WithSaver(s Saver) Option {
	return func(o *Options) { o.Saver = s }
}

// BuildOptions configures a single build.
type BuildOptions struct {
	// CompressionLevel is the deflate level from 0 (store) to 9. If nil,
	// DefaultCompressionLevel is used.
	CompressionLevel *int `validate:"omitempty,gte=0,lte=9"`
	// MIMEType overrides the blob content type.
	MIMEType string
}

// Level returns the effective compression level.
func (o BuildOptions) Level() int {
	if o.CompressionLevel != nil {
		return *o.CompressionLevel
	}
	return DefaultCompressionLevel
}

// ContentType returns the effective blob content type.
func (o BuildOptions) ContentType() string {
	if o.MIMEType != "" {
		return o.MIMEType
	}
	return MIMETypeXLSX
}

// Compression returns BuildOptions using the given level.
func Compression(level int) BuildOptions {
	return BuildOptions{CompressionLevel: &level}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared struct validator.
func Validator() *validator.Validate {
	return validate
}
