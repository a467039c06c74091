package wemark

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-wemark/internal/fileutil"
)

// ExportFormat selects the snapshot format of an exported fragment.
type ExportFormat string

// Supported export formats.
const (
	FormatPNG ExportFormat = "png"
	FormatPDF ExportFormat = "pdf"
)

// Valid reports whether f is a supported format.
func (f ExportFormat) Valid() bool {
	return f == FormatPNG || f == FormatPDF
}

// PDF page dimensions in inches (A4 format).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.3937 // 10 mm
)

// exportViewportHeight is the initial viewport height. Full-page screenshots
// extend it to the content height.
const exportViewportHeight = 640

// exporter abstracts fragment snapshots to enable testing without a browser.
type exporter interface {
	Export(ctx context.Context, fragment string, format ExportFormat) ([]byte, error)
}

// Compile-time interface check
var _ exporter = (*Stage)(nil)

// Export loads fragment into a page as wide as the staging surface and
// returns a PNG screenshot or an A4 PDF of it.
func (s *Stage) Export(ctx context.Context, fragment string, format ExportFormat) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(exportDocument(fragment, s.cfg.Width), "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: fileURL(tmpPath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout, err := s.timeout(ctx)
	if err != nil {
		return nil, err
	}
	p := page.Context(ctx).Timeout(timeout)

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.Width,
		Height:            exportViewportHeight,
		DeviceScaleFactor: s.cfg.Scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.cfg.Logger.Debug("exporting fragment", zap.String("format", string(format)), zap.Int("bytes", len(fragment)))

	if format == FormatPNG {
		img, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
		}
		return img, nil
	}

	reader, err := p.PDF(pdfOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// pdfOptions builds A4 print settings with 10 mm margins and backgrounds.
func pdfOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

// exportDocument wraps a fragment in a minimal page of the given width.
// The fragment carries all of its styling inline.
func exportDocument(fragment string, width int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=%d"></head>
<body style="margin: 0; width: %dpx; background: #fff;">
%s
</body>
</html>`, width, width, fragment)
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
