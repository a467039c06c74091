package config

// TypographyConfig mirrors the editor's five typography sliders.
type TypographyConfig struct {
	FontSize         float64 `yaml:"fontSize"`         // px
	ParagraphSpacing float64 `yaml:"paragraphSpacing"` // px
	HeadingSpacing   float64 `yaml:"headingSpacing"`   // px
	LineHeight       float64 `yaml:"lineHeight"`       // unitless
	LetterSpacing    float64 `yaml:"letterSpacing"`    // em
}

// Bound is an inclusive slider range.
type Bound struct {
	Min, Max float64
}

// Slider ranges of the editor.
var (
	FontSizeRange         = Bound{12, 24}
	ParagraphSpacingRange = Bound{0, 60}
	HeadingSpacingRange   = Bound{5, 80}
	LineHeightRange       = Bound{1, 3}
	LetterSpacingRange    = Bound{0, 0.5}
)

// DefaultTypography returns the sliders' initial positions.
func DefaultTypography() TypographyConfig {
	return TypographyConfig{
		FontSize:         16,
		ParagraphSpacing: 24,
		HeadingSpacing:   30,
		LineHeight:       1.75,
		LetterSpacing:    0,
	}
}

// Clamp pulls every value into its slider range.
func (t TypographyConfig) Clamp() TypographyConfig {
	return TypographyConfig{
		FontSize:         FontSizeRange.clamp(t.FontSize),
		ParagraphSpacing: ParagraphSpacingRange.clamp(t.ParagraphSpacing),
		HeadingSpacing:   HeadingSpacingRange.clamp(t.HeadingSpacing),
		LineHeight:       LineHeightRange.clamp(t.LineHeight),
		LetterSpacing:    LetterSpacingRange.clamp(t.LetterSpacing),
	}
}

// clamp maps NaN to the lower bound.
func (b Bound) clamp(v float64) float64 {
	if !(v >= b.Min) {
		return b.Min
	}
	return min(v, b.Max)
}
