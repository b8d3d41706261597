package reader

import (
	"strconv"
	"time"

	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/styles"
	"github.com/xuri/excelize/v2"
)

// sheetReader reads the cells of one sheet, caching number formats by style.
type sheetReader struct {
	f        *excelize.File
	sheet    string
	opts     Options
	formats  map[int]string
	comments map[string]string
}

func newSheetReader(f *excelize.File, sheet string, opts Options) *sheetReader {
	return &sheetReader{
		f:       f,
		sheet:   sheet,
		opts:    opts,
		formats: make(map[int]string),
	}
}

// loadComments indexes the comments of the sheet by cell reference.
func (s *sheetReader) loadComments() error {
	comments, err := s.f.GetComments(s.sheet)
	if err != nil {
		return err
	}
	s.comments = make(map[string]string, len(comments))
	for _, c := range comments {
		text := c.Text
		if text == "" {
			for _, run := range c.Paragraph {
				text += run.Text
			}
		}
		s.comments[c.Cell] = text
	}
	return nil
}

// rawRows returns the unformatted cell values of the sheet.
func (s *sheetReader) rawRows() ([][]string, error) {
	return s.f.GetRows(s.sheet, excelize.Options{RawCellValue: true})
}

// extractRows converts raw rows to typed rows. Rows without values are
// skipped unless empty cells are requested. A formula without a cached
// result counts as a value when formulas are read.
func (s *sheetReader) extractRows(raw [][]string) ([]models.RowData, error) {
	var result []models.RowData
	for rowIdx, row := range raw {
		rowNum := rowIdx + 1 // 1-based row index
		var cells []models.CellData
		hasData := false

		for colIdx, value := range row {
			present := value != ""
			if !present && s.opts.ShouldIncludeFormulas() {
				ok, err := s.hasFormula(colIdx+1, rowNum)
				if err != nil {
					return nil, err
				}
				present = ok
			}
			if !present && !s.opts.IncludeEmpty {
				continue
			}
			cell, err := s.readCell(colIdx+1, rowNum, value)
			if err != nil {
				return nil, err
			}
			if present {
				hasData = true
			}
			cells = append(cells, cell)
		}

		if hasData || s.opts.IncludeEmpty {
			result = append(result, models.RowData{R: rowNum, Cells: cells})
		}
	}
	return result, nil
}

func (s *sheetReader) hasFormula(col, row int) (bool, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false, err
	}
	formula, err := s.f.GetCellFormula(s.sheet, ref)
	if err != nil {
		return false, err
	}
	return formula != "", nil
}

func (s *sheetReader) readCell(col, row int, raw string) (models.CellData, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.CellData{}, err
	}
	cell := models.CellData{Ref: ref, Col: col}
	if raw == "" {
		cell.Type = models.CellTypeString
	} else {
		ct, err := s.f.GetCellType(s.sheet, ref)
		if err != nil {
			return models.CellData{}, err
		}
		format, err := s.numberFormat(ref)
		if err != nil {
			return models.CellData{}, err
		}
		cell.Format = format
		cell.Value, cell.Type = typedValue(ct, raw, format)
	}

	if s.opts.ShouldIncludeFormulas() {
		if formula, err := s.f.GetCellFormula(s.sheet, ref); err == nil && formula != "" {
			cell.Formula = formula
			cell.Type = models.CellTypeFormula
		}
	}
	if s.opts.ShouldIncludeLinks() && raw != "" {
		if ok, target, err := s.f.GetCellHyperLink(s.sheet, ref); err == nil && ok && target != "" {
			cell.Link = target
			cell.Type = models.CellTypeLink
		}
	}
	if text, ok := s.comments[ref]; ok {
		cell.Comment = text
	}
	return cell, nil
}

// numberFormat returns the format code of the cell, or "" for General.
func (s *sheetReader) numberFormat(ref string) (string, error) {
	id, err := s.f.GetCellStyle(s.sheet, ref)
	if err != nil {
		return "", err
	}
	if code, ok := s.formats[id]; ok {
		return code, nil
	}
	var code string
	if id > 0 {
		st, err := s.f.GetStyle(id)
		if err != nil {
			return "", err
		}
		switch {
		case st.CustomNumFmt != nil:
			code = *st.CustomNumFmt
		case st.NumFmt > 0:
			code, _ = styles.BuiltinCode(st.NumFmt)
		}
	}
	if code == string(styles.FormatGeneral) {
		code = ""
	}
	s.formats[id] = code
	return code, nil
}

// typedValue converts a raw cell value using the stored cell type and its
// number format.
func typedValue(ct excelize.CellType, raw, format string) (any, models.CellType) {
	switch ct {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true", models.CellTypeBoolean
	case excelize.CellTypeError:
		return raw, models.CellTypeError
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, models.CellTypeDate
		}
		return raw, models.CellTypeDate
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw, models.CellTypeString
	}

	value := parseValue(raw)
	if _, ok := value.(string); ok {
		return value, models.CellTypeString
	}
	switch styles.Classify(format) {
	case styles.KindDate:
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t, models.CellTypeDate
			}
		}
	case styles.KindPercent:
		return value, models.CellTypePercentage
	case styles.KindCurrency:
		return value, models.CellTypeCurrency
	}
	return value, models.CellTypeNumber
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
