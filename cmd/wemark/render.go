package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	wemark "github.com/alnah/go-wemark"
	"github.com/alnah/go-wemark/internal/hints"
)

// htmlExt is the extension of rendered fragments.
const htmlExt = ".html"

// runRender converts markdown files into styled HTML fragments.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	s, err := loadSettings(flags, env)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, s.cfg.Output.DefaultDir)

	files, err := discoverFiles(inputPath, outputDir, htmlExt)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	pool := newPool(s, len(files))
	defer func() {
		if err := pool.Close(); err != nil {
			s.logger.Warn("closing converters", zap.Error(err))
		}
	}()

	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, renderJob(s, env))

	return batchError(printResults(results, flags.common.quiet, flags.common.verbose, env), results)
}

// renderJob converts one file and writes its fragment.
func renderJob(s *settings, env *Environment) fileJob {
	return func(ctx context.Context, conv Converter, f FileToConvert) (result ConversionResult) {
		start := env.Now()
		result.InputPath = f.InputPath
		defer func() { result.Duration = env.Now().Sub(start) }()

		res, err := convertFile(ctx, conv, s, f.InputPath)
		if err != nil {
			result.Err = err
			return result
		}
		result.Stats = res

		if err := writeOutput(f.OutputPath, []byte(res.HTML), env.Stdout); err != nil {
			result.Err = err
			return result
		}
		result.Outputs = []string{f.OutputPath}
		return result
	}
}

// convertFile reads one markdown file and converts it. Relative images
// resolve against the file's directory.
func convertFile(ctx context.Context, conv Converter, s *settings, path string) (*wemark.ConvertResult, error) {
	markdown, err := readMarkdown(path)
	if err != nil {
		return nil, err
	}
	res, err := conv.Convert(ctx, s.input(markdown, filepath.Dir(path)))
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}
	s.logger.Debug("converted",
		zap.String("file", path),
		zap.Int("formulas", res.Formulas),
		zap.Int("diagrams", res.Diagrams),
		zap.Int("diagramFailures", res.DiagramFailures))
	warnFallback(conv, s, res)
	return res, nil
}

// warnFallback logs once per run when a requested theme or palette was
// unknown and the default was applied instead.
func warnFallback(conv Converter, s *settings, res *wemark.ConvertResult) {
	if s.cfg.Theme != "" && !strings.EqualFold(res.Theme, s.cfg.Theme) {
		s.themeOnce.Do(func() {
			s.logger.Warn("unknown theme, using "+res.Theme+hints.ForThemeNotFound(conv.Themes()),
				zap.String("theme", s.cfg.Theme))
		})
	}
	if s.cfg.CodeTheme != "" && !strings.EqualFold(res.CodeTheme, s.cfg.CodeTheme) {
		s.paletteOnce.Do(func() {
			s.logger.Warn("unknown code theme, using "+res.CodeTheme+hints.ForThemeNotFound(conv.CodeThemes()),
				zap.String("codeTheme", s.cfg.CodeTheme))
		})
	}
}
