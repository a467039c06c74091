package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-wemark/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath    string        // WEMARK_CONFIG: config file path
	Theme         string        // WEMARK_THEME: article theme
	CodeTheme     string        // WEMARK_CODE_THEME: code palette
	Timeout       time.Duration // WEMARK_TIMEOUT: per-document timeout
	OutputDir     string        // WEMARK_OUTPUT_DIR: default output directory
	Workers       int           // WEMARK_WORKERS: parallel workers
	MermaidScript string        // WEMARK_MERMAID_SCRIPT: diagram library URL or file
	LogLevel      string        // WEMARK_LOG_LEVEL: none, normal, debug
}

// knownEnvVars lists valid WEMARK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"WEMARK_CONFIG":         true,
	"WEMARK_THEME":          true,
	"WEMARK_CODE_THEME":     true,
	"WEMARK_TIMEOUT":        true,
	"WEMARK_OUTPUT_DIR":     true,
	"WEMARK_WORKERS":        true,
	"WEMARK_MERMAID_SCRIPT": true,
	"WEMARK_LOG_LEVEL":      true,
	"WEMARK_CONTAINER":      true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:    os.Getenv("WEMARK_CONFIG"),
		Theme:         os.Getenv("WEMARK_THEME"),
		CodeTheme:     os.Getenv("WEMARK_CODE_THEME"),
		OutputDir:     os.Getenv("WEMARK_OUTPUT_DIR"),
		MermaidScript: os.Getenv("WEMARK_MERMAID_SCRIPT"),
		LogLevel:      os.Getenv("WEMARK_LOG_LEVEL"),
	}

	if timeout := os.Getenv("WEMARK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("WEMARK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes warnings for unrecognized WEMARK_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "WEMARK_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment values the config file left empty.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" && cfg.Theme == "" {
		cfg.Theme = env.Theme
	}
	if env.CodeTheme != "" && cfg.CodeTheme == "" {
		cfg.CodeTheme = env.CodeTheme
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.MermaidScript != "" && cfg.Diagram.MermaidScript == "" {
		cfg.Diagram.MermaidScript = env.MermaidScript
	}
	if env.LogLevel != "" && (cfg.Logging.Level == "" || cfg.Logging.Level == config.LogNormal) {
		cfg.Logging.Level = env.LogLevel
	}
}
