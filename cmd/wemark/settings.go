package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	wemark "github.com/alnah/go-wemark"
	"github.com/alnah/go-wemark/internal/config"
)

// Sentinel errors for option resolution.
var (
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// settings is the resolved configuration of one command run.
type settings struct {
	cfg     *config.Config
	timeout time.Duration // 0 = library default
	workers int           // 0 = auto
	logger  *zap.Logger

	themeOnce   sync.Once
	paletteOnce sync.Once
}

// loadSettings resolves config file, environment and flags, in increasing
// priority, into validated settings.
func loadSettings(f *renderFlags, env *Environment) (*settings, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg := config.DefaultConfig()
	name := f.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Typography = cfg.Typography.Clamp()

	timeout, err := resolveTimeout(f.timeout, envCfg.Timeout)
	if err != nil {
		return nil, err
	}

	workers := f.workers
	if !f.changed("workers") {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return nil, err
	}

	return &settings{
		cfg:     cfg,
		timeout: timeout,
		workers: workers,
		logger:  cfg.Logging.NewLogger(env.Stderr),
	}, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *renderFlags, cfg *config.Config) {
	// Theme flags
	if f.style.theme != "" {
		cfg.Theme = f.style.theme
	}
	if f.style.codeTheme != "" {
		cfg.CodeTheme = f.style.codeTheme
	}
	if f.changed("terminal") {
		cfg.Terminal = f.style.terminal
	}

	// Typography flags; zero is a valid spacing, so only set flags count
	if f.changed("font-size") {
		cfg.Typography.FontSize = f.style.fontSize
	}
	if f.changed("paragraph-spacing") {
		cfg.Typography.ParagraphSpacing = f.style.paragraphSpacing
	}
	if f.changed("heading-spacing") {
		cfg.Typography.HeadingSpacing = f.style.headingSpacing
	}
	if f.changed("line-height") {
		cfg.Typography.LineHeight = f.style.lineHeight
	}
	if f.changed("letter-spacing") {
		cfg.Typography.LetterSpacing = f.style.letterSpacing
	}

	// Diagram flags
	if f.diagram.noBrowser {
		cfg.Diagram.Disabled = true
	}
	if f.changed("stage-width") {
		cfg.Diagram.StageWidth = f.diagram.stageWidth
	}
	if f.changed("scale") {
		cfg.Diagram.Scale = f.diagram.scale
	}
	if f.diagram.mermaidScript != "" {
		cfg.Diagram.MermaidScript = f.diagram.mermaidScript
	}
	if f.diagram.browser != "" {
		cfg.Diagram.Browser = f.diagram.browser
	}

	// Asset and formula flags
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.formulaEndpoint != "" {
		cfg.Formula.Endpoint = f.formulaEndpoint
	}

	// Logging flags
	switch {
	case f.common.verbose:
		cfg.Logging.Level = config.LogDebug
	case f.common.quiet:
		cfg.Logging.Level = config.LogNone
	}
}

// resolveTimeout picks the flag value, then the environment value.
// Returns 0 when neither is set.
func resolveTimeout(flagValue string, envTimeout time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envTimeout, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > wemark.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, wemark.MaxPoolSize)
	}
	return nil
}

// converterOptions maps settings to converter options.
func (s *settings) converterOptions() []wemark.Option {
	cfg := s.cfg
	opts := []wemark.Option{
		wemark.WithLogger(s.logger),
		wemark.WithMermaidScript(cfg.Diagram.MermaidScript),
	}
	if s.timeout > 0 {
		opts = append(opts, wemark.WithTimeout(s.timeout))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, wemark.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Diagram.StageWidth > 0 {
		opts = append(opts, wemark.WithStageWidth(cfg.Diagram.StageWidth))
	}
	if cfg.Diagram.Scale > 0 {
		opts = append(opts, wemark.WithDiagramScale(cfg.Diagram.Scale))
	}
	if cfg.Diagram.Browser != "" {
		opts = append(opts, wemark.WithBrowser(cfg.Diagram.Browser))
	}
	if cfg.Formula.Endpoint != "" {
		opts = append(opts, wemark.WithFormulaEndpoint(cfg.Formula.Endpoint))
	}
	if cfg.Diagram.Disabled {
		opts = append(opts, wemark.WithoutBrowser())
	}
	return opts
}

// input builds the conversion input for one document.
func (s *settings) input(markdown, sourceDir string) wemark.Input {
	t := s.cfg.Typography
	return wemark.Input{
		Markdown:       markdown,
		Theme:          s.cfg.Theme,
		CodeTheme:      s.cfg.CodeTheme,
		TerminalWindow: s.cfg.Terminal,
		SourceDir:      sourceDir,
		Typography: &wemark.Typography{
			FontSize:         t.FontSize,
			ParagraphSpacing: t.ParagraphSpacing,
			HeadingSpacing:   t.HeadingSpacing,
			LineHeight:       t.LineHeight,
			LetterSpacing:    t.LetterSpacing,
		},
	}
}
