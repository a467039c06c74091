package pipeline

import (
	"strconv"
	"strings"
)

// Declarations is an ordered list of CSS declaration fragments for one
// element. Later fragments win in the browser, so order encodes precedence:
// theme first, typography last.
type Declarations []string

// Add appends fragments in order.
func (d Declarations) Add(fragments ...string) Declarations {
	return append(d, fragments...)
}

// String joins the fragments as "a; b; c;". Empty fragments are dropped and
// stray trailing semicolons normalized.
func (d Declarations) String() string {
	parts := make([]string, 0, len(d))
	for _, f := range d {
		f = strings.TrimSpace(f)
		f = strings.TrimRight(f, "; ")
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}

// Typography holds the five live typography knobs. Values are applied as
// given; range checks belong to the caller.
type Typography struct {
	FontSize         float64 // px
	ParagraphSpacing float64 // px
	HeadingSpacing   float64 // px
	LineHeight       float64 // unitless
	LetterSpacing    float64 // em
}

// Body returns the declarations appended to paragraphs, lists and quotes.
func (t Typography) Body() Declarations {
	return Declarations{
		"font-size: " + formatNumber(t.FontSize) + "px",
		"margin-bottom: " + formatNumber(t.ParagraphSpacing) + "px",
		"line-height: " + formatNumber(t.LineHeight),
		"letter-spacing: " + formatNumber(t.LetterSpacing) + "em",
	}
}

// Heading returns the declarations appended to h1-h3. Font size is left to
// the theme.
func (t Typography) Heading() Declarations {
	return Declarations{
		"margin-bottom: " + formatNumber(t.HeadingSpacing) + "px",
		"line-height: " + formatNumber(t.LineHeight),
		"letter-spacing: " + formatNumber(t.LetterSpacing) + "em",
	}
}

// Block returns the declarations appended to the fragment wrapper.
func (t Typography) Block() Declarations {
	return Declarations{
		"line-height: " + formatNumber(t.LineHeight),
		"letter-spacing: " + formatNumber(t.LetterSpacing) + "em",
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
