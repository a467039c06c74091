package wemark

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/alnah/go-wemark/internal/assets"
	"github.com/alnah/go-wemark/internal/pipeline"
	"github.com/alnah/go-wemark/internal/theme"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.DiagramEngine = DiagramEngine(nil)
	_ pipeline.Rasterizer    = Rasterizer(nil)
)

// Converter orchestrates the Markdown-to-fragment pipeline.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
// Convert calls are serialized: the diagram staging surface is shared.
type Converter struct {
	cfg     converterConfig
	engine  DiagramEngine
	raster  Rasterizer
	stage   *Stage
	catalog *theme.Catalog

	htmlConverter pipeline.HTMLConverter
	formulas      *pipeline.FormulaRewriter
	diagrams      *pipeline.DiagramRenderer
	styler        *pipeline.Styler
	assembler     *pipeline.Assembler
	exporter      exporter

	mu     sync.Mutex
	closed bool
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithAssetPath, WithoutBrowser).
// Returns error if the theme catalog cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           defaultConverterConfig(),
		htmlConverter: pipeline.NewGoldmarkConverter(),
		styler:        pipeline.NewStyler(),
		assembler:     pipeline.NewAssembler(),
	}

	for _, opt := range opts {
		opt(c)
	}

	catalog, err := loadCatalog(c.cfg.assetPath)
	if err != nil {
		return nil, err
	}
	c.catalog = catalog

	// The browser stage backs whatever the caller did not replace.
	if !c.cfg.noBrowser && (c.engine == nil || c.raster == nil) {
		c.stage = NewStage(StageConfig{
			Width:   c.cfg.stageWidth,
			Scale:   c.cfg.diagramScale,
			Script:  c.cfg.mermaidScript,
			Timeout: c.cfg.timeout,
			Browser: c.cfg.browser,
			Logger:  c.cfg.logger,
		})
		if c.engine == nil {
			c.engine = c.stage
		}
		if c.raster == nil {
			c.raster = c.stage
		}
		c.exporter = c.stage
	}

	c.formulas = pipeline.NewFormulaRewriter(c.cfg.formulaEndpoint)
	c.diagrams = pipeline.NewDiagramRenderer(c.engine, c.raster, c.cfg.diagramScale, c.cfg.logger)

	return c, nil
}

// loadCatalog reads embedded themes, overridden by files under assetPath.
func loadCatalog(assetPath string) (*theme.Catalog, error) {
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	catalog, err := theme.Load(resolver)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThemeCatalog, err)
	}
	return catalog, nil
}

// Convert runs the full pipeline and returns one inline-styled <section>.
// The context is used for cancellation and timeout; the converter timeout
// applies when ctx has no earlier deadline.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConverterClosed
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	res := &ConvertResult{}

	// Protect code, rewrite formulas, restore code
	source := pipeline.NormalizeLineEndings(input.Markdown)
	protected, vault := pipeline.Protect(source)
	rewritten, formulas := c.formulas.Rewrite(protected)
	source = vault.Restore(rewritten)
	res.Formulas = formulas
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Convert to HTML
	htmlContent, err := c.htmlConverter.ToHTML(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	doc, err := pipeline.ParseFragment(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	// Render diagrams (failures degrade to plain code)
	stats, err := c.diagrams.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("rendering diagrams: %w", err)
	}
	res.Diagrams = stats.Rendered
	res.DiagramFailures = stats.Failed

	// Inline local images (if source directory provided)
	if input.SourceDir != "" {
		embedded, skipped, err := pipeline.EmbedLocalImages(doc, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("embedding local images: %w", err)
		}
		for _, src := range skipped {
			c.cfg.logger.Debug("local image left as is", zap.String("src", src))
		}
		res.Images = embedded
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Apply styles
	th := c.catalog.Theme(input.Theme)
	palette := c.catalog.Palette(input.CodeTheme)
	typo := input.Typography.toPipeline()
	c.styler.Apply(doc, pipeline.StyleOptions{
		Theme:          th,
		Palette:        palette,
		Window:         c.catalog.Window(),
		TerminalWindow: input.TerminalWindow,
		Typography:     typo,
	})
	res.Theme = th.Name
	res.CodeTheme = palette.Name

	if input.Theme != "" && input.Theme != th.Name {
		c.cfg.logger.Debug("unknown theme, using default", zap.String("theme", input.Theme))
	}
	if input.CodeTheme != "" && input.CodeTheme != palette.Name {
		c.cfg.logger.Debug("unknown code theme, using default", zap.String("codeTheme", input.CodeTheme))
	}

	// Wrap in the root section
	res.HTML, err = c.assembler.Assemble(doc, th, typo)
	if err != nil {
		return nil, fmt.Errorf("assembling fragment: %w", err)
	}

	c.cfg.logger.Debug("converted",
		zap.Int("formulas", res.Formulas),
		zap.Int("diagrams", res.Diagrams),
		zap.Int("diagramFailures", res.DiagramFailures),
		zap.Int("bytes", len(res.HTML)))

	return res, nil
}

// Export snapshots an assembled fragment as PNG or PDF in the converter's
// browser. Returns ErrNoBrowser when the browser is disabled.
func (c *Converter) Export(ctx context.Context, fragment string, format ExportFormat) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConverterClosed
	}
	if c.exporter == nil {
		return nil, ErrNoBrowser
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	return c.exporter.Export(ctx, fragment, format)
}

// Themes returns the known article theme names, sorted.
func (c *Converter) Themes() []string {
	return c.catalog.ThemeNames()
}

// CodeThemes returns the known code palette names, sorted.
func (c *Converter) CodeThemes() []string {
	return c.catalog.PaletteNames()
}

// Close releases resources (headless Chrome browser).
// Calling Close more than once is safe.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.stage != nil {
		return c.stage.Close()
	}
	return nil
}
