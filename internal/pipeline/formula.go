package pipeline

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultFormulaEndpoint renders LaTeX passed as the query string into a PNG.
const DefaultFormulaEndpoint = "https://latex.codecogs.com/png.image"

// Marker classes carried by formula images. The styler keys on them.
const (
	ClassMathBlock  = "math-block"
	ClassMathInline = "math-inline"
)

// LaTeX prefixes for the two formula forms.
const (
	blockDirective  = `\dpi{300} \displaystyle `
	inlineDirective = `\dpi{150} `
)

var (
	blockFormulaPattern = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)

	// Bodies that look like a price are prose, not math.
	currencyPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// FormulaRewriter turns $$...$$ and $...$ delimiters into image markup that
// points at a remote LaTeX rendering endpoint. It performs no I/O.
type FormulaRewriter struct {
	endpoint string
}

// NewFormulaRewriter creates a FormulaRewriter. An empty endpoint selects
// DefaultFormulaEndpoint.
func NewFormulaRewriter(endpoint string) *FormulaRewriter {
	if endpoint == "" {
		endpoint = DefaultFormulaEndpoint
	}
	return &FormulaRewriter{endpoint: strings.TrimRight(endpoint, "?")}
}

// Rewrite replaces block formulas first, then inline formulas in the text
// that lies outside the generated block images. It returns the rewritten text
// and the number of formulas replaced.
func (f *FormulaRewriter) Rewrite(text string) (string, int) {
	if !strings.Contains(text, "$") {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))
	count := 0
	last := 0

	for _, m := range blockFormulaPattern.FindAllStringSubmatchIndex(text, -1) {
		body := strings.ReplaceAll(strings.TrimSpace(text[m[2]:m[3]]), "\n", " ")
		if body == "" {
			continue
		}
		out, n := f.rewriteInline(text[last:m[0]])
		b.WriteString(out)
		count += n
		b.WriteString(f.image(ClassMathBlock, blockDirective+body, body))
		count++
		last = m[1]
	}

	out, n := f.rewriteInline(text[last:])
	b.WriteString(out)
	return b.String(), count + n
}

// rewriteInline scans for single-dollar formulas. An opening $ must not be
// escaped and must be followed by a non-space; the body may not contain $ or
// a newline; the closing $ must not be escaped and must follow a non-space.
func (f *FormulaRewriter) rewriteInline(text string) (string, int) {
	if !strings.Contains(text, "$") {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))
	count := 0
	last := 0

	for i := 0; i < len(text); i++ {
		if text[i] != '$' || (i > 0 && text[i-1] == '\\') {
			continue
		}
		end, ok := inlineFormulaEnd(text, i)
		if !ok {
			continue
		}
		body := text[i+1 : end]
		if !currencyPattern.MatchString(body) {
			b.WriteString(text[last:i])
			b.WriteString(f.image(ClassMathInline, inlineDirective+body, body))
			last = end + 1
			count++
		}
		i = end
	}
	b.WriteString(text[last:])
	return b.String(), count
}

// inlineFormulaEnd returns the index of the closing $ for an opening $ at
// start. Since the body cannot hold a $, the first one after start is the
// only candidate.
func inlineFormulaEnd(text string, start int) (int, bool) {
	rest := text[start+1:]
	first, _ := utf8.DecodeRuneInString(rest)
	if rest == "" || unicode.IsSpace(first) {
		return 0, false
	}

	rel := strings.IndexAny(rest, "$\n")
	if rel <= 0 || rest[rel] != '$' {
		return 0, false
	}

	body := rest[:rel]
	lastRune, _ := utf8.DecodeLastRuneInString(body)
	if unicode.IsSpace(lastRune) || lastRune == '\\' {
		return 0, false
	}
	return start + 1 + rel, true
}

func (f *FormulaRewriter) image(class, latex, alt string) string {
	return fmt.Sprintf(`<img class="%s" src="%s?%s" alt="%s" />`,
		class, f.endpoint, encodeURIComponent(latex), html.EscapeString(alt))
}

// encodeURIComponent percent-encodes s for use as a query payload. Spaces
// become %20 rather than +, which the rendering endpoint would keep literally.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
