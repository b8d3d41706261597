package styles

// Builder provides a fluent API for building style descriptors.
// Every setter mutates the draft and returns the same builder.
type Builder struct {
	draft *Descriptor
}

// NewBuilder creates an empty style builder.
func NewBuilder() *Builder {
	return &Builder{draft: &Descriptor{}}
}

// From starts a builder from a copy of an existing descriptor.
func From(d *Descriptor) *Builder {
	if d == nil {
		return NewBuilder()
	}
	return &Builder{draft: d.Clone()}
}

func (b *Builder) font() *Font {
	if b.draft.Font == nil {
		b.draft.Font = &Font{}
	}
	return b.draft.Font
}

func (b *Builder) alignment() *Alignment {
	if b.draft.Alignment == nil {
		b.draft.Alignment = &Alignment{}
	}
	return b.draft.Alignment
}

func (b *Builder) border() *Border {
	if b.draft.Border == nil {
		b.draft.Border = &Border{}
	}
	return b.draft.Border
}

// FontName sets the font family.
func (b *Builder) FontName(name string) *Builder {
	b.font().Family = name
	return b
}

// FontSize sets the font size in points.
func (b *Builder) FontSize(size float64) *Builder {
	b.font().Size = size
	return b
}

// Bold sets the font to bold.
func (b *Builder) Bold() *Builder {
	b.font().Bold = true
	return b
}

// Italic sets the font to italic.
func (b *Builder) Italic() *Builder {
	b.font().Italic = true
	return b
}

// Underline sets a single underline.
func (b *Builder) Underline() *Builder {
	b.font().Underline = "single"
	return b
}

// Strike sets strikethrough.
func (b *Builder) Strike() *Builder {
	b.font().Strike = true
	return b
}

// FontColor sets the font color (hex format).
func (b *Builder) FontColor(color string) *Builder {
	b.font().Color = color
	return b
}

// Border sets the same line style and color on all four sides.
func (b *Builder) Border(style, color string) *Builder {
	return b.BorderTop(style, color).BorderRight(style, color).BorderBottom(style, color).BorderLeft(style, color)
}

// BorderTop sets the top edge.
func (b *Builder) BorderTop(style, color string) *Builder {
	b.border().Top = &BorderSide{Style: style, Color: color}
	return b
}

// BorderRight sets the right edge.
func (b *Builder) BorderRight(style, color string) *Builder {
	b.border().Right = &BorderSide{Style: style, Color: color}
	return b
}

// BorderBottom sets the bottom edge.
func (b *Builder) BorderBottom(style, color string) *Builder {
	b.border().Bottom = &BorderSide{Style: style, Color: color}
	return b
}

// BorderLeft sets the left edge.
func (b *Builder) BorderLeft(style, color string) *Builder {
	b.border().Left = &BorderSide{Style: style, Color: color}
	return b
}

// BackgroundColor fills the cell with a solid color.
func (b *Builder) BackgroundColor(color string) *Builder {
	b.draft.Fill = &Fill{Type: "pattern", Pattern: 1, Foreground: color}
	return b
}

// Gradient fills the cell with a two color gradient.
func (b *Builder) Gradient(from, to string) *Builder {
	b.draft.Fill = &Fill{Type: "gradient", Foreground: from, Background: to}
	return b
}

// Align sets the horizontal alignment.
func (b *Builder) Align(horizontal string) *Builder {
	b.alignment().Horizontal = horizontal
	return b
}

// VAlign sets the vertical alignment.
func (b *Builder) VAlign(vertical string) *Builder {
	b.alignment().Vertical = vertical
	return b
}

// Center centers text on both axes.
func (b *Builder) Center() *Builder {
	return b.Align("center").VAlign("center")
}

// WrapText enables text wrapping.
func (b *Builder) WrapText() *Builder {
	b.alignment().WrapText = true
	return b
}

// Indent sets the indentation level.
func (b *Builder) Indent(level int) *Builder {
	b.alignment().Indent = level
	return b
}

// NumberFormat sets an explicit number format code.
func (b *Builder) NumberFormat(code string) *Builder {
	b.draft.NumberFormat = code
	return b
}

// Format sets one of the enumerated number formats.
func (b *Builder) Format(format NumberFormat) *Builder {
	b.draft.NumberFormat = string(format)
	return b
}

// Locked sets the cell locked state.
func (b *Builder) Locked(locked bool) *Builder {
	if b.draft.Protection == nil {
		b.draft.Protection = &Protection{}
	}
	b.draft.Protection.Locked = locked
	return b
}

// Hidden hides the cell formula when the sheet is protected.
func (b *Builder) Hidden() *Builder {
	if b.draft.Protection == nil {
		b.draft.Protection = &Protection{Locked: true}
	}
	b.draft.Protection.Hidden = true
	return b
}

// Striped marks the style for alternating body row fills.
func (b *Builder) Striped() *Builder {
	b.draft.Striped = true
	return b
}

// Conditional appends a conditional formatting rule.
func (b *Builder) Conditional(rule ConditionalFormat) *Builder {
	b.draft.Conditional = append(b.draft.Conditional, rule)
	return b
}

// Clone returns an independent builder holding a deep copy of the draft.
func (b *Builder) Clone() *Builder {
	return &Builder{draft: b.draft.Clone()}
}

// Build returns the built style. Later builder calls do not affect it.
func (b *Builder) Build() *Descriptor {
	return b.draft.Clone()
}
