package wemark

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DiagramEngine lays out diagram source and returns SVG markup. The engine
// owns one staging surface; Render is never called concurrently.
type DiagramEngine interface {
	Render(ctx context.Context, id, source string) (string, error)
	Clear(ctx context.Context) error
}

// Rasterizer turns a sized SVG into a PNG data URI.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg string, width, height, scale float64) (string, error)
}

// Diagram stage defaults.
const (
	DefaultStageWidth   = 375
	DefaultDiagramScale = 2.0
	DefaultMermaidURL   = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"
)

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout         time.Duration
	assetPath       string
	stageWidth      int
	diagramScale    float64
	mermaidScript   string
	formulaEndpoint string
	browser         string
	noBrowser       bool
	logger          *zap.Logger
}

func defaultConverterConfig() converterConfig {
	return converterConfig{
		timeout:       defaultTimeout,
		stageWidth:    DefaultStageWidth,
		diagramScale:  DefaultDiagramScale,
		mermaidScript: DefaultMermaidURL,
		logger:        zap.NewNop(),
	}
}

// WithTimeout bounds one conversion.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("wemark: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithAssetPath overrides built-in themes and palettes with files under
// path/themes and path/palettes. Missing names fall back to the built-ins.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithStageWidth sets the CSS pixel width of the diagram staging surface.
// Panics if px <= 0.
func WithStageWidth(px int) Option {
	if px <= 0 {
		panic("wemark: WithStageWidth must be positive")
	}
	return func(c *Converter) {
		c.cfg.stageWidth = px
	}
}

// WithDiagramScale sets the bitmap scale factor for diagrams.
// Panics if scale <= 0.
func WithDiagramScale(scale float64) Option {
	if scale <= 0 {
		panic("wemark: WithDiagramScale must be positive")
	}
	return func(c *Converter) {
		c.cfg.diagramScale = scale
	}
}

// WithMermaidScript sets where the diagram library is loaded from: an
// http(s) URL or a local JavaScript file.
func WithMermaidScript(src string) Option {
	return func(c *Converter) {
		if src != "" {
			c.cfg.mermaidScript = src
		}
	}
}

// WithFormulaEndpoint sets the LaTeX image endpoint formula images point to.
func WithFormulaEndpoint(endpoint string) Option {
	return func(c *Converter) {
		c.cfg.formulaEndpoint = endpoint
	}
}

// WithBrowser sets the Chrome binary the stage launches.
func WithBrowser(bin string) Option {
	return func(c *Converter) {
		c.cfg.browser = bin
	}
}

// WithDiagramEngine replaces the browser diagram engine.
func WithDiagramEngine(e DiagramEngine) Option {
	return func(c *Converter) {
		c.engine = e
	}
}

// WithRasterizer replaces the diagram rasterizer.
func WithRasterizer(r Rasterizer) Option {
	return func(c *Converter) {
		c.raster = r
	}
}

// WithoutBrowser disables the headless browser. Diagrams stay as plain code
// unless WithDiagramEngine supplies another engine, and rasterization uses
// the pure-Go vector rasterizer.
func WithoutBrowser() Option {
	return func(c *Converter) {
		c.cfg.noBrowser = true
	}
}
