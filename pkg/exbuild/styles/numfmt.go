package styles

import (
	"strings"

	"github.com/xuri/nfp"
)

// NumberFormat is an enumerated number format code.
type NumberFormat string

const (
	FormatGeneral          NumberFormat = "General"
	FormatInteger          NumberFormat = "0"
	FormatDecimal          NumberFormat = "0.00"
	FormatThousands        NumberFormat = "#,##0"
	FormatThousandsDecimal NumberFormat = "#,##0.00"
	FormatPercent          NumberFormat = "0%"
	FormatPercentDecimal   NumberFormat = "0.00%"
	FormatScientific       NumberFormat = "0.00E+00"
	FormatCurrency         NumberFormat = "\"$\"#,##0.00"
	FormatAccounting       NumberFormat = "_(\"$\"* #,##0.00_);_(\"$\"* \\(#,##0.00\\);_(\"$\"* \"-\"??_);_(@_)"
	FormatDate             NumberFormat = "yyyy-mm-dd"
	FormatDateTime         NumberFormat = "yyyy-mm-dd hh:mm:ss"
	FormatTime             NumberFormat = "hh:mm:ss"
	FormatText             NumberFormat = "@"
)

// builtinCodes holds the built-in number formats shared by every workbook,
// keyed by their fixed id.
var builtinCodes = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "hh:mm",
	21: "hh:mm:ss",
	22: "m/d/yy hh:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[red](#,##0)",
	39: "#,##0.00 ;(#,##0.00)",
	40: "#,##0.00 ;[red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

var builtinIDs = func() map[string]int {
	ids := make(map[string]int, len(builtinCodes))
	for id, code := range builtinCodes {
		ids[code] = id
	}
	return ids
}()

// BuiltinCode returns the format code of a built-in number format id.
func BuiltinCode(id int) (string, bool) {
	code, ok := builtinCodes[id]
	return code, ok
}

// BuiltinID returns the built-in id of a format code, if it has one.
func BuiltinID(code string) (int, bool) {
	id, ok := builtinIDs[code]
	return id, ok
}

// FormatKind is the broad category of a number format.
type FormatKind int

const (
	KindGeneral FormatKind = iota
	KindNumber
	KindPercent
	KindCurrency
	KindDate
	KindText
)

func (k FormatKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindPercent:
		return "percentage"
	case KindCurrency:
		return "currency"
	case KindDate:
		return "date"
	case KindText:
		return "text"
	default:
		return "general"
	}
}

// currencySymbols are literal symbols that mark a format as monetary.
const currencySymbols = "$€£¥₩₹"

// Classify reports the category of a number format code by tokenizing its
// first (positive) section.
func Classify(code string) FormatKind {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "General") {
		return KindGeneral
	}
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(code)
	if len(sections) == 0 {
		return KindGeneral
	}
	kind := KindGeneral
	for _, tok := range sections[0].Items {
		switch tok.TType {
		case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
			return KindDate
		case nfp.TokenTypePercent:
			return KindPercent
		case nfp.TokenTypeCurrencyLanguage:
			return KindCurrency
		case nfp.TokenTypeLiteral:
			if strings.ContainsAny(tok.TValue, currencySymbols) {
				return KindCurrency
			}
		case nfp.TokenTypeTextPlaceHolder:
			if kind == KindGeneral {
				kind = KindText
			}
		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder, nfp.TokenTypeDigitalPlaceHolder,
			nfp.TokenTypeExponential, nfp.TokenTypeFraction:
			kind = KindNumber
		}
	}
	return kind
}

// IsDateFormat reports whether code renders values as dates or times.
func IsDateFormat(code string) bool {
	return Classify(code) == KindDate
}
