package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	wemark "github.com/alnah/go-wemark"
)

// defaultWatchDebounce is the quiet period between a save and a render.
const defaultWatchDebounce = wemark.DefaultDebounce

// runWatch re-renders one markdown file on every change until ctx is done.
// A failed render keeps the previous fragment on disk.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if flags.debounce < 0 {
		return fmt.Errorf("%w: --debounce must not be negative", ErrUsage)
	}

	s, err := loadSettings(&flags.renderFlags, env)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}
	if inputPath, err = filepath.Abs(inputPath); err != nil {
		return err
	}
	if _, err := os.Stat(inputPath); err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, s.cfg.Output.DefaultDir)
	outputPath := resolveOutputPath(inputPath, outputDir, "", htmlExt)

	conv, err := wemark.NewConverter(s.converterOptions()...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often save by renaming a temp file over the original, which
	// drops a watch on the file itself. Watching the directory survives it.
	if err := watcher.Add(filepath.Dir(inputPath)); err != nil {
		return fmt.Errorf("watching %s: %w", inputPath, err)
	}

	deliver := func(res *wemark.ConvertResult) {
		if err := writeOutput(outputPath, []byte(res.HTML), env.Stdout); err != nil {
			s.logger.Error("writing fragment", zap.Error(err))
			return
		}
		s.logger.Info("fragment updated",
			zap.String("output", outputPath),
			zap.Int("diagrams", res.Diagrams),
			zap.Int("diagramFailures", res.DiagramFailures))
	}
	session := wemark.NewSession(conv, deliver,
		wemark.WithDebounce(flags.debounce),
		wemark.WithErrorHandler(func(err error) {
			s.logger.Warn("render failed, previous output kept", zap.Error(err))
		}),
	)
	defer session.Close()

	update := func() error {
		markdown, err := readMarkdown(inputPath)
		if err != nil {
			return err
		}
		return session.Update(s.input(markdown, filepath.Dir(inputPath)))
	}

	// First render runs without waiting for a change.
	if err := update(); err != nil {
		return err
	}
	_ = session.Flush()

	s.logger.Info("watching", zap.String("file", inputPath), zap.String("output", outputPath))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != inputPath || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.logger.Debug("change detected", zap.Stringer("op", ev.Op))
			if err := update(); err != nil {
				s.logger.Warn("reading markdown", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher", zap.Error(err))
		}
	}
}
