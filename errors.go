package wemark

import (
	"errors"

	"github.com/alnah/go-wemark/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrStageSetup     = errors.New("failed to prepare diagram stage")
	ErrDiagramRender  = errors.New("diagram rendering failed")
	ErrRasterize      = pipeline.ErrRasterize
	ErrScreenshot     = errors.New("screenshot failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Export errors.
	ErrNoBrowser         = errors.New("browser disabled")
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Typography validation errors.
	ErrInvalidTypography = errors.New("invalid typography")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrThemeCatalog     = errors.New("theme catalog failed to load")

	// Lifecycle errors.
	ErrConverterClosed = errors.New("converter is closed")
	ErrSessionClosed   = errors.New("session is closed")
)
