package main

import (
	"errors"
	"os"

	wemark "github.com/alnah/go-wemark"
	"github.com/alnah/go-wemark/internal/config"
)

// Exit codes for the wemark CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, wemark.ErrBrowserConnect) ||
		errors.Is(err, wemark.ErrPageCreate) ||
		errors.Is(err, wemark.ErrPageLoad) ||
		errors.Is(err, wemark.ErrStageSetup) ||
		errors.Is(err, wemark.ErrScreenshot) ||
		errors.Is(err, wemark.ErrPDFGeneration) ||
		errors.Is(err, wemark.ErrNoBrowser) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, wemark.ErrInvalidTypography) ||
		errors.Is(err, wemark.ErrInvalidAssetPath) ||
		errors.Is(err, wemark.ErrThemeCatalog) ||
		errors.Is(err, wemark.ErrUnsupportedFormat) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrNoFormat) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
