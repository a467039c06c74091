package main

// Notes:
// - This file contains test doubles and helpers shared across command tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	wemark "github.com/alnah/go-wemark"
)

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// mockConverter is a test double for the Converter interface.
type mockConverter struct {
	mu         sync.Mutex
	inputs     []wemark.Input
	exports    []wemark.ExportFormat
	convertErr error
	exportErr  error
	theme      string // Theme reported back (empty = default)
}

func (m *mockConverter) Convert(_ context.Context, input wemark.Input) (*wemark.ConvertResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	if m.convertErr != nil {
		return nil, m.convertErr
	}
	theme := m.theme
	if theme == "" {
		theme = "default"
	}
	return &wemark.ConvertResult{
		HTML:      "<section>" + input.Markdown + "</section>",
		Theme:     theme,
		CodeTheme: "github",
	}, nil
}

func (m *mockConverter) Export(_ context.Context, fragment string, format wemark.ExportFormat) ([]byte, error) {
	m.mu.Lock()
	m.exports = append(m.exports, format)
	m.mu.Unlock()

	if m.exportErr != nil {
		return nil, m.exportErr
	}
	return []byte(string(format) + ":" + fragment), nil
}

func (m *mockConverter) Themes() []string     { return []string{"default", "lapis"} }
func (m *mockConverter) CodeThemes() []string { return []string{"dracula", "github"} }

func (m *mockConverter) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

// mockPool hands out one shared mock converter.
type mockPool struct {
	conv       Converter
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

func (p *mockPool) Acquire(_ context.Context) (Converter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.conv, nil
}

func (p *mockPool) Release(Converter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int { return p.size }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// testEnv returns an environment writing to buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{Now: time.Now, Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

// testSettings returns default settings with a silent logger.
func testSettings(t *testing.T) *settings {
	t.Helper()
	f, _, err := parseRenderFlags([]string{"--no-browser", "--quiet"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	env, _, _ := testEnv()
	s, err := loadSettings(f, env)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// writeFile creates path with content, including parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
