package pipeline

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Fallback size when neither explicit attributes nor a viewBox give one.
const (
	fallbackSVGWidth  = 800
	fallbackSVGHeight = 600
)

// ErrInvalidSVG indicates diagram output that is not an SVG document.
var ErrInvalidSVG = errors.New("invalid SVG")

// NormalizeSVGSize gives an SVG explicit pixel width and height so a raster
// target never ends up zero-sized. Explicit attributes are used when both
// parse to a non-zero number; otherwise the viewBox supplies them; otherwise
// 800x600.
func NormalizeSVGSize(svg string) (string, float64, float64, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.AutoClose = xml.HTMLAutoClose
	if err := doc.ReadFromString(svg); err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", ErrInvalidSVG, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return "", 0, 0, fmt.Errorf("%w: missing <svg> root", ErrInvalidSVG)
	}

	width := leadingFloat(root.SelectAttrValue("width", ""))
	height := leadingFloat(root.SelectAttrValue("height", ""))

	if width == 0 || height == 0 {
		if w, h, ok := viewBoxSize(root.SelectAttrValue("viewBox", "")); ok {
			width, height = w, h
		}
	}
	if width == 0 {
		width = fallbackSVGWidth
	}
	if height == 0 {
		height = fallbackSVGHeight
	}

	root.CreateAttr("width", formatNumber(width)+"px")
	root.CreateAttr("height", formatNumber(height)+"px")

	out, err := doc.WriteToString()
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", ErrInvalidSVG, err)
	}
	return out, width, height, nil
}

// viewBoxSize returns the width and height of a "minX minY width height"
// viewBox. Separators may be whitespace or commas.
func viewBoxSize(viewBox string) (float64, float64, bool) {
	parts := strings.FieldsFunc(viewBox, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(parts) != 4 {
		return 0, 0, false
	}
	return leadingFloat(parts[2]), leadingFloat(parts[3]), true
}

// leadingFloat parses the longest numeric prefix of s, so "100%" is 100 and
// "12.5px" is 12.5. Unparseable or negative input yields 0.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case (c == '+' || c == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			i = len(s)
			continue
		}
		end = i + 1
	}
	for end > 0 {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return max(v, 0)
		}
		end--
	}
	return 0
}
