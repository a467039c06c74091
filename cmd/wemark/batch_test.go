package main

// Notes:
// - writeOutput failure on rename is not forced; directory creation failure
//   covers the ErrWriteOutput wrapping.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	wemark "github.com/alnah/go-wemark"
)

// ---------------------------------------------------------------------------
// TestConvertBatch - Concurrent processing
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	files := []FileToConvert{
		{InputPath: "a.md"}, {InputPath: "b.md"}, {InputPath: "c.md"},
	}
	echo := func(_ context.Context, _ Converter, f FileToConvert) ConversionResult {
		return ConversionResult{InputPath: f.InputPath, Outputs: []string{f.InputPath + ".html"}}
	}

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		pool := &mockPool{conv: &mockConverter{}, size: 2}
		results := convertBatch(context.Background(), pool, files, echo)

		if len(results) != len(files) {
			t.Fatalf("got %d results, want %d", len(results), len(files))
		}
		for i, r := range results {
			if r.InputPath != files[i].InputPath || r.Err != nil {
				t.Errorf("results[%d] = %+v", i, r)
			}
		}
		if pool.acquired != pool.released {
			t.Errorf("acquired %d, released %d", pool.acquired, pool.released)
		}
	})

	t.Run("acquire failure marks every file", func(t *testing.T) {
		t.Parallel()

		pool := &mockPool{size: 2, acquireErr: errors.New("no chrome")}
		results := convertBatch(context.Background(), pool, files, echo)

		for i, r := range results {
			if !errors.Is(r.Err, ErrPoolAcquire) {
				t.Errorf("results[%d].Err = %v, want ErrPoolAcquire", i, r.Err)
			}
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pool := &mockPool{conv: &mockConverter{}, size: 1}
		results := convertBatch(ctx, pool, files, echo)

		for i, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
			}
		}
	})

	t.Run("no files", func(t *testing.T) {
		t.Parallel()

		if got := convertBatch(context.Background(), &mockPool{size: 1}, nil, echo); got != nil {
			t.Errorf("convertBatch(nil) = %v, want nil", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestReadMarkdown / TestWriteOutput - File I/O
// ---------------------------------------------------------------------------

func TestReadMarkdown(t *testing.T) {
	t.Parallel()

	_, err := readMarkdown(filepath.Join(t.TempDir(), "absent.md"))
	if !errors.Is(err, ErrReadMarkdown) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrReadMarkdown wrapping os.ErrNotExist", err)
	}
}

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("creates directories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "post.html")
		if err := writeOutput(path, []byte("<section></section>"), nil); err != nil {
			t.Fatalf("writeOutput() error = %v", err)
		}
		if got := readFile(t, path); got != "<section></section>" {
			t.Errorf("content = %q", got)
		}

		entries, err := os.ReadDir(filepath.Dir(path))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("directory has %d entries, temp file left behind", len(entries))
		}
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "post.html")
		writeFile(t, path, "old")
		if err := writeOutput(path, []byte("new"), nil); err != nil {
			t.Fatal(err)
		}
		if got := readFile(t, path); got != "new" {
			t.Errorf("content = %q, want new", got)
		}
	})

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeOutput("-", []byte("<section/>"), &buf); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "<section/>" {
			t.Errorf("stdout = %q", buf.String())
		}
	})

	t.Run("parent is a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		writeFile(t, blocker, "x")

		err := writeOutput(filepath.Join(blocker, "post.html"), []byte("x"), nil)
		if !errors.Is(err, ErrWriteOutput) {
			t.Errorf("error = %v, want ErrWriteOutput", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintResults / TestBatchError - Reporting
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.md", Outputs: []string{"a.html"}, Duration: 12 * time.Millisecond,
			Stats: &wemark.ConvertResult{Theme: "lapis", CodeTheme: "github", Diagrams: 2}},
		{InputPath: "b.md", Err: errors.New("boom")},
		{InputPath: "c.md", Outputs: []string{"-"}},
	}

	tests := []struct {
		name         string
		quiet        bool
		verbose      bool
		wantContains []string
		wantAbsent   []string
	}{
		{
			name:         "normal",
			wantContains: []string{"Created a.html", "FAILED b.md: boom", "2 succeeded, 1 failed"},
			wantAbsent:   []string{"Created -"},
		},
		{
			name:         "verbose",
			verbose:      true,
			wantContains: []string{"a.md -> a.html (12ms)", "theme lapis/github", "2 diagrams"},
		},
		{
			name:         "quiet",
			quiet:        true,
			wantContains: []string{"FAILED b.md"},
			wantAbsent:   []string{"Created", "succeeded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			failed := printResults(results, tt.quiet, tt.verbose, env)

			if failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, progress belongs on stderr", stdout.String())
			}
			out := stderr.String()
			for _, s := range tt.wantContains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.wantAbsent {
				if strings.Contains(out, s) {
					t.Errorf("output contains %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestBatchError(t *testing.T) {
	t.Parallel()

	if err := batchError(0, nil); err != nil {
		t.Errorf("batchError(0) = %v, want nil", err)
	}

	cause := fmt.Errorf("wrapped: %w", ErrReadMarkdown)
	err := batchError(1, []ConversionResult{{InputPath: "a.md"}, {InputPath: "b.md", Err: cause}})
	if !errors.Is(err, ErrReadMarkdown) {
		t.Errorf("error = %v, want first cause wrapped", err)
	}
	if !strings.Contains(err.Error(), "1 conversion(s) failed") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestStatsSuffix(t *testing.T) {
	t.Parallel()

	if got := statsSuffix(nil); got != "" {
		t.Errorf("statsSuffix(nil) = %q", got)
	}
	got := statsSuffix(&wemark.ConvertResult{Theme: "default", CodeTheme: "github", Formulas: 3, Images: 1})
	if !strings.Contains(got, "3 formulas") || !strings.Contains(got, "1 images") {
		t.Errorf("statsSuffix() = %q", got)
	}
}
