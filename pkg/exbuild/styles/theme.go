package styles

import "strings"

// DefaultStripeColor is the alternate row fill used by striped styles.
const DefaultStripeColor = "F2F2F2"

// Theme bundles default styles for each part of a worksheet. Cells that carry
// their own style ignore the theme.
type Theme struct {
	Name        string      `yaml:"name" json:"name"`
	Header      *Descriptor `yaml:"header,omitempty" json:"header,omitempty"`
	SubHeader   *Descriptor `yaml:"sub_header,omitempty" json:"sub_header,omitempty"`
	Body        *Descriptor `yaml:"body,omitempty" json:"body,omitempty"`
	Footer      *Descriptor `yaml:"footer,omitempty" json:"footer,omitempty"`
	StripeColor string      `yaml:"stripe_color,omitempty" json:"stripe_color,omitempty"`
}

// Stripe returns the alternate row fill color of the theme.
func (t *Theme) Stripe() string {
	if t == nil || t.StripeColor == "" {
		return DefaultStripeColor
	}
	return t.StripeColor
}

func headerTheme(name, fill string) *Theme {
	border := NewBuilder().Border("thin", "#BFBFBF")
	return &Theme{
		Name:      name,
		Header:    NewBuilder().FontName("Arial").FontSize(14).Bold().Build(),
		SubHeader: border.Clone().FontName("Arial").FontSize(11).Bold().FontColor("#FFFFFF").BackgroundColor(fill).Center().Build(),
		Body:      border.Clone().FontName("Arial").FontSize(10).Striped().Build(),
		Footer:    NewBuilder().FontName("Arial").FontSize(10).Italic().Build(),
	}
}

// Predefined themes.
var (
	ThemeBlue  = headerTheme("blue", "#4472C4")
	ThemeGreen = headerTheme("green", "#70AD47")
	ThemeDark  = headerTheme("dark", "#44546A")
)

// LookupTheme returns a predefined theme by name.
func LookupTheme(name string) (*Theme, bool) {
	switch strings.ToLower(name) {
	case "blue":
		return ThemeBlue, true
	case "green":
		return ThemeGreen, true
	case "dark":
		return ThemeDark, true
	}
	return nil, false
}
