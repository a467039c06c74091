package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ErrRasterize indicates an SVG could not be turned into a bitmap.
var ErrRasterize = errors.New("rasterization failed")

// maxRasterDim caps either side of a bitmap so a huge viewBox cannot
// exhaust memory.
const maxRasterDim = 8192

const pngDataURIPrefix = "data:image/png;base64,"

// Rasterizer turns a sized SVG into a PNG data URI at width*scale by
// height*scale pixels.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg string, width, height, scale float64) (string, error)
}

// VectorRasterizer rasterizes in pure Go. It does not run scripts or lay out
// HTML labels, so diagrams that rely on foreignObject lose their text.
type VectorRasterizer struct{}

// NewVectorRasterizer creates a VectorRasterizer.
func NewVectorRasterizer() *VectorRasterizer {
	return &VectorRasterizer{}
}

// Rasterize implements Rasterizer.
func (v *VectorRasterizer) Rasterize(ctx context.Context, svg string, width, height, scale float64) (uri string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if width <= 0 || height <= 0 || scale <= 0 {
		return "", fmt.Errorf("%w: non-positive size %gx%g@%g", ErrRasterize, width, height, scale)
	}

	defer func() {
		if r := recover(); r != nil {
			uri, err = "", fmt.Errorf("%w: panic: %v", ErrRasterize, r)
		}
	}()

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRasterize, err)
	}

	w, h := rasterSize(width*scale, height*scale)
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", fmt.Errorf("%w: encoding PNG: %v", ErrRasterize, err)
	}
	return PNGDataURI(buf.Bytes()), nil
}

// rasterSize rounds a pixel size up and clamps it to maxRasterDim while
// keeping the aspect ratio.
func rasterSize(w, h float64) (int, int) {
	if w > maxRasterDim || h > maxRasterDim {
		s := math.Min(maxRasterDim/w, maxRasterDim/h)
		w, h = w*s, h*s
	}
	return max(int(math.Ceil(w)), 1), max(int(math.Ceil(h)), 1)
}

// PNGDataURI encodes PNG bytes as a data URI.
func PNGDataURI(data []byte) string {
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(data)
}

// IsPNGDataURI reports whether uri is a non-empty PNG data URI.
func IsPNGDataURI(uri string) bool {
	return strings.HasPrefix(uri, pngDataURIPrefix) && len(uri) > len(pngDataURIPrefix)
}

// Compile-time interface check.
var _ Rasterizer = (*VectorRasterizer)(nil)
