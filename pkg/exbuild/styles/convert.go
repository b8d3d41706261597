package styles

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// BorderStyleMap maps named line styles to excelize border style ids.
var BorderStyleMap = map[string]int{
	"none":             0,
	"thin":             1,
	"medium":           2,
	"dashed":           3,
	"dotted":           4,
	"thick":            5,
	"double":           6,
	"hair":             7,
	"mediumDashed":     8,
	"dashDot":          9,
	"mediumDashDot":    10,
	"dashDotDot":       11,
	"mediumDashDotDot": 12,
	"slantDashDot":     13,
}

// ToEngine converts a descriptor to an excelize style. Only the parts present
// on d are set; a nil descriptor yields an empty style.
func ToEngine(d *Descriptor) *excelize.Style {
	s := &excelize.Style{}
	if d == nil {
		return s
	}
	if d.Font != nil {
		s.Font = &excelize.Font{
			Family:    d.Font.Family,
			Size:      d.Font.Size,
			Bold:      d.Font.Bold,
			Italic:    d.Font.Italic,
			Underline: d.Font.Underline,
			Strike:    d.Font.Strike,
			Color:     HexColor(d.Font.Color),
		}
	}
	if d.Fill != nil {
		s.Fill = convertFill(d.Fill)
	}
	if d.Border != nil {
		s.Border = convertBorder(d.Border)
	}
	if d.Alignment != nil {
		s.Alignment = &excelize.Alignment{
			Horizontal:   d.Alignment.Horizontal,
			Vertical:     d.Alignment.Vertical,
			WrapText:     d.Alignment.WrapText,
			Indent:       d.Alignment.Indent,
			TextRotation: d.Alignment.Rotation,
		}
	}
	if d.Protection != nil {
		s.Protection = &excelize.Protection{
			Locked: d.Protection.Locked,
			Hidden: d.Protection.Hidden,
		}
	}
	if d.NumberFormat != "" {
		if id, ok := BuiltinID(d.NumberFormat); ok {
			s.NumFmt = id
		} else {
			code := d.NumberFormat
			s.CustomNumFmt = &code
		}
	}
	return s
}

// ConditionalOptions converts a conditional rule to excelize options. format
// is the id returned by excelize's NewConditionalStyle, or nil.
func ConditionalOptions(rule ConditionalFormat, format *int) excelize.ConditionalFormatOptions {
	return excelize.ConditionalFormatOptions{
		Type:     rule.Type,
		Criteria: rule.Criteria,
		Value:    rule.Value,
		MinValue: rule.MinValue,
		MaxValue: rule.MaxValue,
		MinColor: HexColor(rule.MinColor),
		MaxColor: HexColor(rule.MaxColor),
		Format:   format,
	}
}

// HexColor normalizes a color to the bare hex form excelize expects.
func HexColor(color string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
}

func convertFill(fill *Fill) excelize.Fill {
	out := excelize.Fill{Type: fill.Type, Pattern: fill.Pattern}
	if out.Type == "" {
		out.Type = "pattern"
	}
	if out.Type == "gradient" {
		for _, c := range []string{fill.Foreground, fill.Background} {
			if c != "" {
				out.Color = append(out.Color, HexColor(c))
			}
		}
		return out
	}
	color := fill.Foreground
	if color == "" {
		color = fill.Background
	}
	if color != "" {
		out.Color = []string{HexColor(color)}
		if out.Pattern == 0 {
			out.Pattern = 1
		}
	}
	return out
}

func convertBorder(b *Border) []excelize.Border {
	var out []excelize.Border
	sides := []struct {
		name string
		side *BorderSide
	}{
		{"left", b.Left},
		{"right", b.Right},
		{"top", b.Top},
		{"bottom", b.Bottom},
	}
	for _, s := range sides {
		if s.side == nil {
			continue
		}
		out = append(out, excelize.Border{
			Type:  s.name,
			Color: HexColor(s.side.Color),
			Style: borderStyleID(s.side.Style),
		})
	}
	return out
}

func borderStyleID(name string) int {
	if id, ok := BorderStyleMap[name]; ok {
		return id
	}
	// Unknown names fall back to a thin line rather than no line at all.
	return 1
}
