package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DiagramLanguage is the fence language handed to the diagram engine.
const DiagramLanguage = "mermaid"

// plainFenceLanguages are rendered verbatim, without syntax highlighting.
var plainFenceLanguages = map[string]bool{
	DiagramLanguage: true,
	"latex":         true,
	"math":          true,
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, footnotes,
// hard line breaks and class-based syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			newFenceExtension(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Treat newlines as <br>
			html.WithXHTML(),     // Self-closing tags
			html.WithUnsafe(),    // Formula images and author HTML pass through
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHTMLConversion, r)}
			}
		}()
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// fenceRenderer owns fenced code blocks. Plain languages are written
// verbatim; everything else goes through the chroma highlighter, which emits
// class-tagged token spans inside <pre><code class="language-x">.
type fenceRenderer struct {
	highlight renderer.NodeRendererFunc
	writer    html.Writer
}

func newFenceExtension() *fenceRenderer {
	hl := highlighting.NewHTMLRenderer().(*highlighting.HTMLRenderer)
	hl.FormatOptions = []chromahtml.Option{
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	}
	hl.WrapperRenderer = wrapFence

	capture := &funcCapture{}
	hl.RegisterFuncs(capture)

	return &fenceRenderer{highlight: capture.fn, writer: html.DefaultWriter}
}

// Extend implements goldmark.Extender. Priority 100 places this renderer
// ahead of goldmark's default code block renderer.
func (r *fenceRenderer) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(r, 100),
	))
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *fenceRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *fenceRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	lang := strings.ToLower(string(n.Language(source)))
	if !plainFenceLanguages[lang] {
		return r.highlight(w, source, node, entering)
	}
	if !entering {
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<pre><code class="language-`)
	r.writer.Write(w, []byte(lang))
	_, _ = w.WriteString(`">`)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.writer.RawWrite(w, line.Value(source))
	}
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkContinue, nil
}

// wrapFence writes the <pre><code> pair around highlighted output so every
// fence keeps its language-x class.
func wrapFence(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return
	}
	_, _ = w.WriteString("<pre><code")
	if lang, ok := c.Language(); ok && len(bytes.TrimSpace(lang)) > 0 {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML(lang))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")
}

// funcCapture records the fenced code block func a NodeRenderer registers.
type funcCapture struct {
	fn renderer.NodeRendererFunc
}

func (c *funcCapture) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	if kind == ast.KindFencedCodeBlock {
		c.fn = fn
	}
}
