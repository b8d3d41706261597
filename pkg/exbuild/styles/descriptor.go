// Package styles defines cell style descriptors, a chainable builder, and
// their conversion to excelize styles.
package styles

import (
	"github.com/tiendc/go-deepcopy"
)

// Font describes the font of a cell.
type Font struct {
	// Family is the font name (e.g., "Calibri").
	Family string `yaml:"family,omitempty" json:"family,omitempty"`
	// Size is the font size in points.
	Size float64 `yaml:"size,omitempty" json:"size,omitempty"`
	// Bold enables bold text.
	Bold bool `yaml:"bold,omitempty" json:"bold,omitempty"`
	// Italic enables italic text.
	Italic bool `yaml:"italic,omitempty" json:"italic,omitempty"`
	// Underline is the underline type ("single" or "double").
	Underline string `yaml:"underline,omitempty" json:"underline,omitempty"`
	// Strike enables strikethrough.
	Strike bool `yaml:"strike,omitempty" json:"strike,omitempty"`
	// Color is the RGB hex color, with or without a leading '#'.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Fill describes the background of a cell.
type Fill struct {
	// Type is "pattern" (default) or "gradient".
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Pattern is the excelize pattern id; 1 is solid.
	Pattern int `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	// Foreground is the pattern color.
	Foreground string `yaml:"foreground,omitempty" json:"foreground,omitempty"`
	// Background is the second gradient color, or the pattern color when
	// Foreground is empty.
	Background string `yaml:"background,omitempty" json:"background,omitempty"`
}

// BorderSide is the line style and color of one cell edge.
type BorderSide struct {
	// Style is a named line style such as "thin", "medium", "dashed" or "double".
	Style string `yaml:"style" json:"style"`
	// Color is the RGB hex color.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Border describes the four edges of a cell. Nil sides are left unset.
type Border struct {
	Left   *BorderSide `yaml:"left,omitempty" json:"left,omitempty"`
	Right  *BorderSide `yaml:"right,omitempty" json:"right,omitempty"`
	Top    *BorderSide `yaml:"top,omitempty" json:"top,omitempty"`
	Bottom *BorderSide `yaml:"bottom,omitempty" json:"bottom,omitempty"`
}

// Alignment describes text placement inside a cell.
type Alignment struct {
	Horizontal string `yaml:"horizontal,omitempty" json:"horizontal,omitempty"`
	Vertical   string `yaml:"vertical,omitempty" json:"vertical,omitempty"`
	WrapText   bool   `yaml:"wrap_text,omitempty" json:"wrap_text,omitempty"`
	Indent     int    `yaml:"indent,omitempty" json:"indent,omitempty"`
	Rotation   int    `yaml:"rotation,omitempty" json:"rotation,omitempty"`
}

// Protection holds the cell lock flags honoured when the sheet is protected.
type Protection struct {
	Locked bool `yaml:"locked" json:"locked"`
	Hidden bool `yaml:"hidden,omitempty" json:"hidden,omitempty"`
}

// ConditionalFormat is a conditional formatting rule applied to the cell the
// descriptor is attached to.
type ConditionalFormat struct {
	// Type is the excelize rule type: "cell", "top", "average", "duplicate",
	// "unique", "2_color_scale", "3_color_scale", "data_bar", "formula", ...
	Type string `yaml:"type" json:"type"`
	// Criteria is the comparison operator for "cell" rules (">", "between", ...).
	Criteria string `yaml:"criteria,omitempty" json:"criteria,omitempty"`
	Value    string `yaml:"value,omitempty" json:"value,omitempty"`
	MinValue string `yaml:"min_value,omitempty" json:"min_value,omitempty"`
	MaxValue string `yaml:"max_value,omitempty" json:"max_value,omitempty"`
	MinColor string `yaml:"min_color,omitempty" json:"min_color,omitempty"`
	MaxColor string `yaml:"max_color,omitempty" json:"max_color,omitempty"`
	// Style is applied to matching cells.
	Style *Descriptor `yaml:"style,omitempty" json:"style,omitempty"`
}

// Descriptor is a bundle of optional font, fill, border, alignment and
// number format intents for a cell. Absent parts are left to the engine.
type Descriptor struct {
	Font         *Font               `yaml:"font,omitempty" json:"font,omitempty"`
	Fill         *Fill               `yaml:"fill,omitempty" json:"fill,omitempty"`
	Border       *Border             `yaml:"border,omitempty" json:"border,omitempty"`
	Alignment    *Alignment          `yaml:"alignment,omitempty" json:"alignment,omitempty"`
	Protection   *Protection         `yaml:"protection,omitempty" json:"protection,omitempty"`
	NumberFormat string              `yaml:"number_format,omitempty" json:"number_format,omitempty"`
	Striped      bool                `yaml:"striped,omitempty" json:"striped,omitempty"`
	Conditional  []ConditionalFormat `yaml:"conditional,omitempty" json:"conditional,omitempty"`
}

// Clone returns a deep copy of d. A nil descriptor clones to nil.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	out := &Descriptor{}
	if err := deepcopy.Copy(out, d); err != nil {
		// Fall back to copying the top level; nested parts stay shared.
		*out = *d
	}
	return out
}

// IsEmpty reports whether d carries no style intent at all.
func (d *Descriptor) IsEmpty() bool {
	return d == nil || (d.Font == nil && d.Fill == nil && d.Border == nil && d.Alignment == nil &&
		d.Protection == nil && d.NumberFormat == "" && !d.Striped && len(d.Conditional) == 0)
}

// Merge returns a copy of d with every part present on over replacing the
// matching part of d. Either argument may be nil.
func (d *Descriptor) Merge(over *Descriptor) *Descriptor {
	if d == nil {
		return over.Clone()
	}
	out := d.Clone()
	if over == nil {
		return out
	}
	o := over.Clone()
	if o.Font != nil {
		out.Font = o.Font
	}
	if o.Fill != nil {
		out.Fill = o.Fill
	}
	if o.Border != nil {
		out.Border = o.Border
	}
	if o.Alignment != nil {
		out.Alignment = o.Alignment
	}
	if o.Protection != nil {
		out.Protection = o.Protection
	}
	if o.NumberFormat != "" {
		out.NumberFormat = o.NumberFormat
	}
	if o.Striped {
		out.Striped = true
	}
	if len(o.Conditional) > 0 {
		out.Conditional = append(out.Conditional, o.Conditional...)
	}
	return out
}
