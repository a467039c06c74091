// Package theme resolves named article themes and code palettes into the
// declaration strings the styler writes onto elements.
package theme

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Style keys a theme may define.
const (
	KeyBlock      = "block"
	KeyParagraph  = "p"
	KeyH1         = "h1"
	KeyH2         = "h2"
	KeyH3         = "h3"
	KeyList       = "ul"
	KeyOrdered    = "ol"
	KeyListItem   = "li"
	KeyBlockquote = "blockquote"
	KeyLink       = "link"
	KeyStrong     = "strong"
	KeyEm         = "em"
	KeyRule       = "hr"
	KeyPre        = "pre"
	KeyCodeInline = "code_inline"
	KeyImage      = "img"
	KeyFigcaption = "figcaption"
	KeyTable      = "table"
	KeyTableHead  = "th"
	KeyTableCell  = "td"
	KeyMathInline = "math-inline"
	KeyMathBlock  = "math-block"
)

var styleKeys = map[string]bool{
	KeyBlock: true, KeyParagraph: true, KeyH1: true, KeyH2: true, KeyH3: true,
	KeyList: true, KeyOrdered: true, KeyListItem: true, KeyBlockquote: true,
	KeyLink: true, KeyStrong: true, KeyEm: true, KeyRule: true, KeyPre: true,
	KeyCodeInline: true, KeyImage: true, KeyFigcaption: true, KeyTable: true,
	KeyTableHead: true, KeyTableCell: true, KeyMathInline: true, KeyMathBlock: true,
}

// Token categories a palette may color.
var tokenCategories = map[string]bool{
	"comment": true, "quote": true, "keyword": true, "selector-tag": true,
	"string": true, "title": true, "section": true, "variable": true,
	"template-variable": true, "name": true, "attr": true, "number": true,
	"literal": true, "type": true, "params": true, "built_in": true,
	"function": true,
}

// Sentinel errors for theme definitions.
var (
	ErrUnknownStyleKey     = errors.New("unknown style key")
	ErrUnknownCategory     = errors.New("unknown token category")
	ErrIncompletePalette   = errors.New("palette missing background or color")
	ErrMissingDefault      = errors.New("default theme or palette missing")
	ErrInvalidWindowChrome = errors.New("window chrome needs three dots")
)

// Theme maps style keys to CSS declaration strings. Keys the theme file
// omits are inherited from the shared base.
type Theme struct {
	Name   string
	styles map[string]string
}

// New builds a Theme from a style map. Unknown keys are rejected.
func New(name string, styles map[string]string) (*Theme, error) {
	for key := range styles {
		if !styleKeys[key] {
			return nil, fmt.Errorf("%w: %q in theme %q", ErrUnknownStyleKey, key, name)
		}
	}
	return &Theme{Name: name, styles: maps.Clone(styles)}, nil
}

// Style returns the declarations for key, or "" when the theme has none.
func (t *Theme) Style(key string) string {
	return t.styles[key]
}

// Keys returns the style keys the theme resolves, sorted.
func (t *Theme) Keys() []string {
	return slices.Sorted(maps.Keys(t.styles))
}

// Palette colors code blocks.
type Palette struct {
	Name       string            `yaml:"name"`
	Background string            `yaml:"background"`
	Color      string            `yaml:"color"`
	Tokens     map[string]string `yaml:"tokens"`
}

// TokenColor returns the color declared for a token category.
func (p *Palette) TokenColor(category string) (string, bool) {
	c, ok := p.Tokens[category]
	return c, ok && c != ""
}

// Window is the terminal chrome prepended to code blocks.
type Window struct {
	Header string   `yaml:"header"`
	Dots   []string `yaml:"dots"`
}
