package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ukaji3/exbuild-go/pkg/exbuild"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/xuri/excelize/v2"
)

// Read parses an xlsx stream and projects it into the shape selected by
// opts.Format. The Mapper, if any, runs on the projected shape.
func Read(ctx context.Context, r io.Reader, opts Options) exbuild.Result[any] {
	f, err := open(r, opts)
	if err != nil {
		return exbuild.Fail[any](err)
	}
	defer f.Close()
	return project(ctx, f, opts)
}

// ReadFile is Read over the file at path.
func ReadFile(ctx context.Context, path string, opts Options) exbuild.Result[any] {
	file, err := os.Open(path)
	if err != nil {
		return exbuild.Fail[any](exbuild.NewError(exbuild.KindValidation, err))
	}
	defer file.Close()
	return Read(ctx, file, opts)
}

// ReadWorkbook reads the file at path in the nested shape, keeping the file
// name as the book name. The Mapper is not applied.
func ReadWorkbook(ctx context.Context, path string, opts Options) (*models.WorkbookData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, exbuild.NewError(exbuild.KindValidation, err)
	}
	defer file.Close()

	opts.Format = FormatNested
	f, xerr := open(file, opts)
	if xerr != nil {
		return nil, xerr
	}
	defer f.Close()

	sheets, err := Nested(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return &models.WorkbookData{
		BookName: filepath.Base(path),
		Sheets:   sheets,
	}, nil
}

// open validates opts, sniffs the input and parses it.
func open(r io.Reader, opts Options) (*excelize.File, *exbuild.Error) {
	if err := exbuild.Validator().Struct(opts); err != nil {
		return nil, exbuild.NewError(exbuild.KindValidation, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, exbuild.NewError(exbuild.KindValidation, err)
	}
	if !isZip(data) {
		return nil, exbuild.NewError(exbuild.KindValidation,
			fmt.Errorf("%w: detected %s", exbuild.ErrInvalidFormat, mimetype.Detect(data).String()))
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, exbuild.NewError(exbuild.KindValidation, fmt.Errorf("%w: %v", exbuild.ErrInvalidFormat, err))
	}
	return f, nil
}

// isZip reports whether data is a zip container or one of its descendants.
func isZip(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}

func project(ctx context.Context, f *excelize.File, opts Options) exbuild.Result[any] {
	var (
		data any
		err  error
	)
	switch opts.format() {
	case FormatDetailed:
		data, err = Detailed(ctx, f, opts)
	case FormatFlat:
		data, err = Flat(ctx, f, opts)
	default:
		data, err = Nested(ctx, f, opts)
	}
	if err != nil {
		return exbuild.Fail[any](asError(err))
	}
	if opts.Mapper != nil {
		data, err = opts.Mapper(data)
		if err != nil {
			return exbuild.Fail[any](exbuild.NewError(exbuild.KindValidation, fmt.Errorf("mapper: %w", err)))
		}
	}
	return exbuild.Ok(data)
}

func asError(err error) *exbuild.Error {
	var e *exbuild.Error
	if errors.As(err, &e) {
		return e
	}
	return exbuild.NewError(exbuild.KindValidation, err)
}

// selectSheets returns the requested sheet names with their workbook index.
// An empty filter selects every sheet.
func selectSheets(f *excelize.File, filter []string) ([]string, []int, error) {
	all := f.GetSheetList()
	if len(filter) == 0 {
		idx := make([]int, len(all))
		for i := range all {
			idx[i] = i
		}
		return all, idx, nil
	}
	want := make(map[string]bool, len(filter))
	for _, name := range filter {
		want[name] = true
	}
	var names []string
	var idx []int
	for i, name := range all {
		if want[name] {
			names = append(names, name)
			idx = append(idx, i)
			delete(want, name)
		}
	}
	for _, name := range filter {
		if want[name] {
			return nil, nil, exbuild.NewError(exbuild.KindValidation,
				fmt.Errorf("%w: %q", exbuild.ErrWorksheetNotFound, name))
		}
	}
	return names, idx, nil
}

// Nested projects the selected sheets into rows of typed cells.
func Nested(ctx context.Context, f *excelize.File, opts Options) ([]models.SheetData, error) {
	names, idx, err := selectSheets(f, opts.Sheets)
	if err != nil {
		return nil, err
	}
	log := opts.logger()

	var printAreas map[string][]models.PrintArea
	if opts.ShouldIncludePrintAreas() {
		printAreas = extractPrintAreas(f)
	}

	result := make([]models.SheetData, 0, len(names))
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheet := models.SheetData{Name: name, Index: idx[i]}
		sr := newSheetReader(f, name, opts)

		if opts.ShouldIncludeComments() {
			if err := sr.loadComments(); err != nil {
				log.WithField("worksheet", name).Warn(NewExtractionError(name, "comments", err))
			}
		}

		raw, err := sr.rawRows()
		if err != nil {
			return nil, NewExtractionError(name, "cells", err)
		}
		if b := findDataBounds(raw); !b.empty() {
			sheet.Dimension = b.rangeRef()
		}
		sheet.Rows, err = sr.extractRows(raw)
		if err != nil {
			return nil, NewExtractionError(name, "cells", err)
		}
		if opts.UseFirstRowAsHeaders {
			sheet.Headers = headerNames(raw, opts.headerRow())
			applyHeaders(sheet.Rows, sheet.Headers, opts.headerRow())
		}

		if merges, err := f.GetMergeCells(name); err != nil {
			log.WithField("worksheet", name).Warn(NewExtractionError(name, "merges", err))
		} else {
			for _, m := range merges {
				sheet.Merges = append(sheet.Merges, m.GetStartAxis()+":"+m.GetEndAxis())
			}
		}
		if opts.DetectTables {
			sheet.TableCandidates = detectTables(raw, DefaultTableParams())
		}
		sheet.PrintAreas = printAreas[name]

		result = append(result, sheet)
	}
	return result, nil
}

// Detailed projects the selected sheets into one entry per cell.
func Detailed(ctx context.Context, f *excelize.File, opts Options) ([]models.DetailedCell, error) {
	names, _, err := selectSheets(f, opts.Sheets)
	if err != nil {
		return nil, err
	}
	result := []models.DetailedCell{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sr := newSheetReader(f, name, opts)
		raw, err := sr.rawRows()
		if err != nil {
			return nil, NewExtractionError(name, "cells", err)
		}
		rows, err := sr.extractRows(raw)
		if err != nil {
			return nil, NewExtractionError(name, "cells", err)
		}
		for _, row := range rows {
			for _, c := range row.Cells {
				letter, _ := excelize.ColumnNumberToName(c.Col)
				result = append(result, models.DetailedCell{
					Sheet:     name,
					Row:       row.R,
					Col:       c.Col,
					ColLetter: letter,
					Ref:       c.Ref,
					Value:     c.Value,
					Type:      c.Type,
				})
			}
		}
	}
	return result, nil
}

// Flat projects the selected sheets into plain rows. With headers, rows after
// the header row become records keyed by header text; otherwise every row is
// a positional slice of values.
func Flat(ctx context.Context, f *excelize.File, opts Options) ([]models.FlatSheet, error) {
	names, _, err := selectSheets(f, opts.Sheets)
	if err != nil {
		return nil, err
	}
	result := make([]models.FlatSheet, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sr := newSheetReader(f, name, opts)
		raw, err := sr.rawRows()
		if err != nil {
			return nil, NewExtractionError(name, "cells", err)
		}
		rows, err := sr.extractRows(raw)
		if err != nil {
			return nil, NewExtractionError(name, "cells", err)
		}

		sheet := models.FlatSheet{Name: name}
		if opts.UseFirstRowAsHeaders {
			headers := headerNames(raw, opts.headerRow())
			applyHeaders(rows, headers, opts.headerRow())
			for _, row := range rows {
				if row.Data != nil {
					sheet.Records = append(sheet.Records, row.Data)
				}
			}
		} else {
			for _, row := range rows {
				values := make([]any, 0, len(row.Cells))
				for _, c := range row.Cells {
					values = append(values, c.Value)
				}
				sheet.Values = append(sheet.Values, values)
			}
		}
		result = append(result, sheet)
	}
	return result, nil
}

// headerNames returns unique header texts for the 1-based header row. Blank
// headers fall back to the column letter; repeated texts get a numeric suffix.
func headerNames(raw [][]string, headerRow int) []string {
	if headerRow > len(raw) {
		return nil
	}
	row := raw[headerRow-1]
	seen := make(map[string]int, len(row))
	names := make([]string, len(row))
	for i, text := range row {
		if text == "" {
			text, _ = excelize.ColumnNumberToName(i + 1)
		}
		seen[text]++
		if n := seen[text]; n > 1 {
			text = fmt.Sprintf("%s_%d", text, n)
		}
		names[i] = text
	}
	return names
}

// applyHeaders fills Data for the rows below the header row.
func applyHeaders(rows []models.RowData, headers []string, headerRow int) {
	if len(headers) == 0 {
		return
	}
	for i := range rows {
		if rows[i].R <= headerRow {
			continue
		}
		data := make(map[string]any, len(rows[i].Cells))
		for _, c := range rows[i].Cells {
			if c.Col-1 < len(headers) {
				data[headers[c.Col-1]] = c.Value
			}
		}
		if len(data) > 0 {
			rows[i].Data = data
		}
	}
}

// PrintAreaViews returns one view per print area of every sheet.
func PrintAreaViews(wb *models.WorkbookData) []models.PrintAreaView {
	var views []models.PrintAreaView
	for _, sheet := range wb.Sheets {
		for _, area := range sheet.PrintAreas {
			views = append(views, PrintAreaView(wb.BookName, sheet, area))
		}
	}
	return views
}
