package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	wemark "github.com/alnah/go-wemark"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrPoolAcquire  = errors.New("failed to acquire converter")
	ErrUsage        = errors.New("invalid usage")
)

// ConversionResult holds the outcome of a single file.
type ConversionResult struct {
	InputPath string
	Outputs   []string
	Stats     *wemark.ConvertResult
	Err       error
	Duration  time.Duration
}

// fileJob processes one file with a converter from the pool.
type fileJob func(ctx context.Context, conv Converter, f FileToConvert) ConversionResult

// convertBatch processes files concurrently using the converter pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, job fileJob) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire(ctx)
			if err != nil {
				// Converter unavailable, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %w", ErrPoolAcquire, err),
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = job(ctx, conv, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// readMarkdown reads one input file.
func readMarkdown(path string) (string, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return string(content), nil
}

// writeOutput writes data to path, or to stdout when path is "-".
// Files are replaced atomically so watchers never see partial output.
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == stdoutPath {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %w", ErrWriteOutput, err)
	}

	tmp, err := os.CreateTemp(dir, ".wemark-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmpName, filePermissions)
	}
	if werr == nil {
		werr = os.Rename(tmpName, path)
	}
	if werr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrWriteOutput, werr)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed files.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs results and returns the failure count.
// Progress lines go to stderr when the fragment itself goes to stdout.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		for _, out := range r.Outputs {
			if out == stdoutPath {
				continue
			}
			if verbose {
				fmt.Fprintf(env.Stderr, "%s -> %s (%v)%s\n", r.InputPath, out, r.Duration.Round(time.Millisecond), statsSuffix(r.Stats))
			} else {
				fmt.Fprintf(env.Stderr, "Created %s\n", out)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stderr, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// batchError summarizes failures, wrapping the first one so the exit code
// reflects its cause.
func batchError(failed int, results []ConversionResult) error {
	if failed == 0 {
		return nil
	}
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%d conversion(s) failed: %w", failed, r.Err)
		}
	}
	return fmt.Errorf("%d conversion(s) failed", failed)
}

// statsSuffix describes what a conversion embedded.
func statsSuffix(s *wemark.ConvertResult) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf(" [theme %s/%s, %d formulas, %d diagrams, %d kept as code, %d images]",
		s.Theme, s.CodeTheme, s.Formulas, s.Diagrams, s.DiagramFailures, s.Images)
}
