package pipeline

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-wemark/internal/theme"
)

// Assembler wraps a styled document in its root container.
type Assembler struct{}

// NewAssembler creates an Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble moves every top-level node into one <section> carrying the
// theme's block style plus line height and letter spacing, and returns the
// section's markup.
func (a *Assembler) Assemble(doc *goquery.Document, th *theme.Theme, typo Typography) (string, error) {
	style := Declarations{th.Style(theme.KeyBlock)}.Add(typo.Block()...).String()
	section := &html.Node{
		Type:     html.ElementNode,
		Data:     "section",
		DataAtom: atom.Section,
		Attr:     []html.Attribute{{Key: "style", Val: style}},
	}

	for _, root := range doc.Nodes {
		for child := root.FirstChild; child != nil; {
			next := child.NextSibling
			root.RemoveChild(child)
			section.AppendChild(child)
			child = next
		}
	}

	var b strings.Builder
	if err := html.Render(&b, section); err != nil {
		return "", fmt.Errorf("rendering fragment: %w", err)
	}
	return b.String(), nil
}
