package pipeline

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-wemark/internal/theme"
)

// codeBlockFont is the fixed typography of <code> inside <pre>. Only the
// foreground color comes from the palette.
const codeBlockFont = "font-family: 'JetBrains Mono', monospace; font-size: 14px; line-height: 1.6; display: block; overflow-x: auto; padding: 15px"

// StyleOptions selects what the Styler writes.
type StyleOptions struct {
	Theme          *theme.Theme
	Palette        *theme.Palette
	Window         theme.Window
	TerminalWindow bool
	Typography     Typography
}

type typographyKind int

const (
	typographyNone typographyKind = iota
	typographyBody
	typographyHeading
)

// elementRules run in order; each one replaces the style attribute of every
// match, so later rules win for elements matched twice (formula images).
var elementRules = []struct {
	selector   string
	key        string
	typography typographyKind
}{
	{"h1", theme.KeyH1, typographyHeading},
	{"h2", theme.KeyH2, typographyHeading},
	{"h3", theme.KeyH3, typographyHeading},
	{"p", theme.KeyParagraph, typographyBody},
	{"li", theme.KeyListItem, typographyBody},
	{"ul", theme.KeyList, typographyBody},
	{"ol", theme.KeyOrdered, typographyBody},
	{"blockquote", theme.KeyBlockquote, typographyBody},
	{"a", theme.KeyLink, typographyNone},
	{"strong", theme.KeyStrong, typographyNone},
	{"em", theme.KeyEm, typographyNone},
	{"hr", theme.KeyRule, typographyNone},
	{"img", theme.KeyImage, typographyNone},
	{"figcaption", theme.KeyFigcaption, typographyNone},
	{"table", theme.KeyTable, typographyNone},
	{"th", theme.KeyTableHead, typographyNone},
	{"td", theme.KeyTableCell, typographyNone},
	{"." + ClassMathInline, theme.KeyMathInline, typographyNone},
	{"." + ClassMathBlock, theme.KeyMathBlock, typographyNone},
}

// Styler writes resolved inline styles onto a parsed document.
type Styler struct{}

// NewStyler creates a Styler.
func NewStyler() *Styler {
	return &Styler{}
}

// Apply styles every themed element, then code blocks, then inline code.
// Styles are written as the sole style attribute; nothing the parser emitted
// survives unless re-derived here.
func (s *Styler) Apply(doc *goquery.Document, opts StyleOptions) {
	s.styleElements(doc, opts)
	s.styleCodeBlocks(doc, opts)
	s.styleInlineCode(doc, opts)
}

func (s *Styler) styleElements(doc *goquery.Document, opts StyleOptions) {
	body := opts.Typography.Body()
	heading := opts.Typography.Heading()

	for _, rule := range elementRules {
		base := opts.Theme.Style(rule.key)
		if base == "" {
			continue
		}
		decls := Declarations{base}
		switch rule.typography {
		case typographyBody:
			decls = decls.Add(body...)
		case typographyHeading:
			decls = decls.Add(heading...)
		}
		doc.Find(rule.selector).SetAttr("style", decls.String())
	}
}

func (s *Styler) styleCodeBlocks(doc *goquery.Document, opts StyleOptions) {
	preStyle := Declarations{opts.Theme.Style(theme.KeyPre), "background: " + opts.Palette.Background}.String()
	codeStyle := Declarations{codeBlockFont, "color: " + opts.Palette.Color, "white-space: pre"}.String()

	doc.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		if opts.TerminalWindow {
			pre.PrependNodes(windowHeader(opts.Window))
		}

		code := pre.Find("code").First()
		if code.Length() > 0 {
			code.Find("span").Each(func(_ int, span *goquery.Selection) {
				class, _ := span.Attr("class")
				if category, ok := tokenCategory(class); ok {
					if color, ok := opts.Palette.TokenColor(category); ok {
						span.SetAttr("style", "color: "+color)
					}
				}
				span.RemoveAttr("class")
			})
			code.SetAttr("style", codeStyle)
			code.RemoveAttr("class")
		}

		pre.RemoveAttr("class")
		pre.SetAttr("style", preStyle)
	})
}

func (s *Styler) styleInlineCode(doc *goquery.Document, opts StyleOptions) {
	style := opts.Theme.Style(theme.KeyCodeInline)
	if style == "" {
		return
	}
	doc.Find("code").Each(func(_ int, code *goquery.Selection) {
		if code.Parent().Is("pre") {
			return
		}
		code.SetAttr("style", style)
	})
}

// windowHeader builds the three-dot title bar of a terminal window.
func windowHeader(w theme.Window) *html.Node {
	header := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "style", Val: w.Header}},
	}
	for _, dot := range w.Dots {
		header.AppendChild(&html.Node{
			Type:     html.ElementNode,
			Data:     "div",
			DataAtom: atom.Div,
			Attr:     []html.Attribute{{Key: "style", Val: dot}},
		})
	}
	return header
}
