package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Diagram image markers.
const (
	ClassDiagram   = "mermaid-diagram"
	DiagramAltText = "Mermaid Diagram"
)

const (
	diagramClass  = "language-" + DiagramLanguage
	fallbackClass = "language-plaintext"
	diagramStyle  = "max-width: 100%; height: auto; display: block; margin: 20px auto;"
)

// ErrNoDiagramEngine is reported for every diagram when no engine is set.
var ErrNoDiagramEngine = errors.New("no diagram engine configured")

// DiagramEngine lays out diagram source on a shared staging surface and
// returns SVG markup. Calls are never concurrent.
type DiagramEngine interface {
	Render(ctx context.Context, id, source string) (string, error)
	// Clear empties the staging surface so the next run starts clean.
	Clear(ctx context.Context) error
}

// DiagramStats counts what one pass did.
type DiagramStats struct {
	Rendered int
	Failed   int
}

// DiagramRenderer replaces diagram fences with bitmap images.
type DiagramRenderer struct {
	engine DiagramEngine
	raster Rasterizer
	scale  float64
	logger *zap.Logger
	newID  func() string
}

// NewDiagramRenderer creates a DiagramRenderer. A nil engine makes every
// diagram fall back to plain code.
func NewDiagramRenderer(engine DiagramEngine, raster Rasterizer, scale float64, logger *zap.Logger) *DiagramRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if raster == nil {
		raster = NewVectorRasterizer()
	}
	return &DiagramRenderer{
		engine: engine,
		raster: raster,
		scale:  scale,
		logger: logger,
		newID:  func() string { return "mermaid-" + uuid.NewString() },
	}
}

// Render processes every diagram fence in document order, one at a time.
// A failing diagram is logged and demoted to plain code; the pass goes on.
// Only context cancellation aborts the pass.
func (r *DiagramRenderer) Render(ctx context.Context, doc *goquery.Document) (DiagramStats, error) {
	var stats DiagramStats

	codes := doc.Find("code." + diagramClass)
	if codes.Length() == 0 {
		return stats, nil
	}

	if r.engine != nil {
		r.clear(ctx)
		defer r.clear(context.WithoutCancel(ctx))
	}

	for i, node := range codes.Nodes {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		code := goquery.NewDocumentFromNode(node).Selection

		uri, err := r.renderOne(ctx, code.Text())
		if err != nil {
			r.logger.Warn("diagram render failed, keeping source as code",
				zap.Int("diagram", i),
				zap.Error(err))
			code.RemoveClass(diagramClass).AddClass(fallbackClass)
			stats.Failed++
			continue
		}

		target := code
		if parent := code.Parent(); parent.Is("pre") {
			target = parent
		}
		target.ReplaceWithNodes(diagramImage(uri))
		stats.Rendered++
	}

	r.logger.Debug("diagrams processed",
		zap.Int("rendered", stats.Rendered),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

func (r *DiagramRenderer) renderOne(ctx context.Context, source string) (string, error) {
	if r.engine == nil {
		return "", ErrNoDiagramEngine
	}

	svg, err := r.engine.Render(ctx, r.newID(), source)
	if err != nil {
		return "", fmt.Errorf("engine: %w", err)
	}

	sized, width, height, err := NormalizeSVGSize(svg)
	if err != nil {
		return "", err
	}

	uri, err := r.raster.Rasterize(ctx, sized, width, height, r.scale)
	if err != nil {
		return "", err
	}
	if !IsPNGDataURI(uri) {
		return "", fmt.Errorf("%w: empty image", ErrRasterize)
	}
	return uri, nil
}

func (r *DiagramRenderer) clear(ctx context.Context) {
	if err := r.engine.Clear(ctx); err != nil {
		r.logger.Warn("clearing diagram staging surface", zap.Error(err))
	}
}

func diagramImage(uri string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "img",
		DataAtom: atom.Img,
		Attr: []html.Attribute{
			{Key: "src", Val: uri},
			{Key: "alt", Val: DiagramAltText},
			{Key: "class", Val: ClassDiagram},
			{Key: "style", Val: diagramStyle},
		},
	}
}
