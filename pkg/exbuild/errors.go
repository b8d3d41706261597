package exbuild

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrorKind classifies a failed operation.
type ErrorKind string

const (
	// KindValidation marks invalid options, input or staged content.
	KindValidation ErrorKind = "VALIDATION_ERROR"
	// KindBuild marks a failure while generating or saving a workbook.
	KindBuild ErrorKind = "BUILD_ERROR"
	// KindStyle marks a style that cannot be resolved or converted.
	KindStyle ErrorKind = "STYLE_ERROR"
	// KindWorksheet marks a worksheet lifecycle or naming failure.
	KindWorksheet ErrorKind = "WORKSHEET_ERROR"
	// KindCell marks a cell that cannot be placed or written.
	KindCell ErrorKind = "CELL_ERROR"
)

// ErrWorksheetExists indicates a worksheet with the same name was already added.
var ErrWorksheetExists = errors.New("worksheet already exists")

// ErrWorksheetNotFound indicates no worksheet has the requested name.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// ErrWorksheetLimit indicates the workbook holds the maximum number of worksheets.
var ErrWorksheetLimit = errors.New("worksheet limit reached")

// ErrBuildInProgress indicates Build was called while another build was running.
var ErrBuildInProgress = errors.New("build already in progress")

// ErrInvalidFormat indicates the input is not a valid xlsx container.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrWorksheetBuilt indicates content was staged after the worksheet was built.
var ErrWorksheetBuilt = errors.New("worksheet modified after build")

// Error is the failure half of a Result.
type Error struct {
	Kind    ErrorKind
	Message string
	// Stack is the goroutine stack captured when the error was created.
	Stack string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given kind wrapping err.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: err.Error(),
		Stack:   string(debug.Stack()),
		Err:     err,
	}
}

// Errorf creates an Error of the given kind from a format string.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return NewError(kind, fmt.Errorf(format, args...))
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// LayoutError locates an engine failure during worksheet emission.
type LayoutError struct {
	Sheet     string
	Cell      string
	Component string // "config", "header", "sub_header", "row", "footer", "style", "page_setup"
	Err       error
}

func (e *LayoutError) Error() string {
	if e.Cell == "" {
		return fmt.Sprintf("layout error in sheet %q (%s): %v", e.Sheet, e.Component, e.Err)
	}
	return fmt.Sprintf("layout error in sheet %q at %s (%s): %v", e.Sheet, e.Cell, e.Component, e.Err)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// NewLayoutError creates a new LayoutError.
func NewLayoutError(sheet, cell, component string, err error) *LayoutError {
	return &LayoutError{
		Sheet:     sheet,
		Cell:      cell,
		Component: component,
		Err:       err,
	}
}
