package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	wemark "github.com/alnah/go-wemark"
)

// ErrNoFormat is returned when export is given neither --png nor --pdf.
var ErrNoFormat = errors.New("no export format selected (use --png and/or --pdf)")

// runExport renders markdown files and snapshots the fragments as PNG
// and/or PDF through the browser.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	formats := selectedFormats(flags)
	if len(formats) == 0 {
		return ErrNoFormat
	}
	if flags.output == stdoutPath && len(formats) > 1 {
		return fmt.Errorf("%w: stdout takes a single format", ErrUsage)
	}

	s, err := loadSettings(&flags.renderFlags, env)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()
	if s.cfg.Diagram.Disabled {
		return wemark.ErrNoBrowser
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, s.cfg.Output.DefaultDir)

	// A single format lets -o name the output file; otherwise paths get
	// the extension per format.
	ext := ""
	if len(formats) == 1 {
		ext = "." + string(formats[0])
	}
	files, err := discoverFiles(inputPath, outputDir, ext)
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

	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, exportJob(s, env, formats))
	return batchError(printResults(results, flags.common.quiet, flags.common.verbose, env), results)
}

// selectedFormats lists the formats requested by flags, PNG first.
func selectedFormats(f *exportFlags) []wemark.ExportFormat {
	var formats []wemark.ExportFormat
	if f.png {
		formats = append(formats, wemark.FormatPNG)
	}
	if f.pdf {
		formats = append(formats, wemark.FormatPDF)
	}
	return formats
}

// exportJob converts one file, then writes one snapshot per format.
func exportJob(s *settings, env *Environment, formats []wemark.ExportFormat) fileJob {
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

		for _, format := range formats {
			data, err := conv.Export(ctx, res.HTML, format)
			if err != nil {
				result.Err = fmt.Errorf("exporting %s: %w", format, err)
				return result
			}
			out := exportPath(f.OutputPath, format)
			if err := writeOutput(out, data, env.Stdout); err != nil {
				result.Err = err
				return result
			}
			result.Outputs = append(result.Outputs, out)
		}
		return result
	}
}

// exportPath appends the format extension unless path already has it.
func exportPath(path string, format wemark.ExportFormat) string {
	ext := "." + string(format)
	if path == stdoutPath || strings.HasSuffix(path, ext) {
		return path
	}
	return path + ext
}
