package wemark

import (
	"fmt"
	"math"

	"github.com/alnah/go-wemark/internal/pipeline"
)

// Typography defaults, matching the editor's initial slider positions.
const (
	DefaultFontSize         = 16.0 // px
	DefaultParagraphSpacing = 24.0 // px
	DefaultHeadingSpacing   = 30.0 // px
	DefaultLineHeight       = 1.75
	DefaultLetterSpacing    = 0.0 // em
)

// Typography holds the live typography knobs applied on top of a theme.
// Values are used as given; the config layer clamps user input to the
// editor ranges.
type Typography struct {
	FontSize         float64 // body text size, px
	ParagraphSpacing float64 // margin below body blocks, px
	HeadingSpacing   float64 // margin below h1-h3, px
	LineHeight       float64 // unitless multiplier
	LetterSpacing    float64 // em
}

// DefaultTypography returns typography with default values.
func DefaultTypography() *Typography {
	return &Typography{
		FontSize:         DefaultFontSize,
		ParagraphSpacing: DefaultParagraphSpacing,
		HeadingSpacing:   DefaultHeadingSpacing,
		LineHeight:       DefaultLineHeight,
		LetterSpacing:    DefaultLetterSpacing,
	}
}

// Validate rejects negative, NaN and infinite values.
// Returns nil if t is nil (nil means use defaults).
func (t *Typography) Validate() error {
	if t == nil {
		return nil
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"font size", t.FontSize},
		{"paragraph spacing", t.ParagraphSpacing},
		{"heading spacing", t.HeadingSpacing},
		{"line height", t.LineHeight},
		{"letter spacing", t.LetterSpacing},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s %v", ErrInvalidTypography, f.name, f.value)
		}
	}
	return nil
}

func (t *Typography) toPipeline() pipeline.Typography {
	if t == nil {
		t = DefaultTypography()
	}
	return pipeline.Typography{
		FontSize:         t.FontSize,
		ParagraphSpacing: t.ParagraphSpacing,
		HeadingSpacing:   t.HeadingSpacing,
		LineHeight:       t.LineHeight,
		LetterSpacing:    t.LetterSpacing,
	}
}

// Input contains conversion parameters.
type Input struct {
	Markdown       string      // Markdown source (may be empty)
	Theme          string      // Article theme name (unknown or empty = default)
	CodeTheme      string      // Code palette name (unknown or empty = github)
	TerminalWindow bool        // Prepend a three-dot window bar to code blocks
	Typography     *Typography // Typography knobs (nil = defaults)
	SourceDir      string      // Directory for inlining relative images (optional)
}

// Validate checks Input fields. Empty Markdown is valid.
func (in Input) Validate() error {
	return in.Typography.Validate()
}

// ConvertResult is the output of one conversion.
type ConvertResult struct {
	HTML            string // One <section> with inline styles only
	Theme           string // Theme actually applied
	CodeTheme       string // Palette actually applied
	Formulas        int    // Formulas rewritten to images
	Diagrams        int    // Diagrams embedded as images
	DiagramFailures int    // Diagrams left as plain code
	Images          int    // Local images inlined as data URIs
}
