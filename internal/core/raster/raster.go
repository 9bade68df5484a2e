package raster

import (
	"math"

	"github.com/agenthands/parity/internal/core/model"
)

// DefaultSensitivity is the per-pixel RGB distance under which two
// pixels count as the same. Anti-aliasing along text and curved edges
// moves channels by a few units; treating those as regressions buries
// real changes in noise.
const DefaultSensitivity = 25.0

// Pad fill channels for canvas normalization. Both images get the same
// fill, so padded-only regions can never register as differences.
const (
	padR = 0xff
	padG = 0xff
	padB = 0xff
	padA = 0xff
)

// Differ computes the pixel-level diff of two page rasters.
type Differ struct {
	Sensitivity float64
}

func NewDiffer() *Differ {
	return &Differ{Sensitivity: DefaultSensitivity}
}

// Diff normalizes both rasters onto a (max width, max height) canvas,
// padding the smaller one on the right/bottom, then compares pixel by
// pixel. The returned overlay is a same-sized RGBA image: unchanged
// pixels are a faded copy of the live capture, changed pixels solid
// red. Degenerate inputs (zero-sized or truncated pixel data) yield a
// zero-dimension, zero-count diff rather than an error.
func (d *Differ) Diff(live, stage model.Raster) model.RasterDiff {
	if !live.Valid() || !stage.Valid() {
		return model.RasterDiff{}
	}

	width := max(live.Width, stage.Width)
	height := max(live.Height, stage.Height)

	a := normalize(live, width, height)
	b := normalize(stage, width, height)

	overlay := make([]byte, width*height*4)
	count := 0

	for i := 0; i < width*height*4; i += 4 {
		if pixelDistance(a[i:i+4], b[i:i+4]) > d.Sensitivity {
			overlay[i] = 0xff
			overlay[i+1] = 0
			overlay[i+2] = 0
			overlay[i+3] = 0xff
			count++
			continue
		}
		// Faded source pixel, so the overlay stays readable on its own.
		overlay[i] = fade(a[i])
		overlay[i+1] = fade(a[i+1])
		overlay[i+2] = fade(a[i+2])
		overlay[i+3] = 0xff
	}

	return model.RasterDiff{
		Width:          width,
		Height:         height,
		DiffImage:      overlay,
		DiffPixelCount: count,
	}
}

// normalize copies the raster onto a width x height canvas, top-left
// aligned, filling the uncovered right/bottom strips with the pad
// color. Images are never cropped; the canvas is always the max extent.
func normalize(r model.Raster, width, height int) []byte {
	if r.Width == width && r.Height == height {
		return r.Pixels
	}

	out := make([]byte, width*height*4)
	for i := 0; i < len(out); i += 4 {
		out[i] = padR
		out[i+1] = padG
		out[i+2] = padB
		out[i+3] = padA
	}

	for y := 0; y < r.Height; y++ {
		src := y * r.Width * 4
		dst := y * width * 4
		copy(out[dst:dst+r.Width*4], r.Pixels[src:src+r.Width*4])
	}

	return out
}

func pixelDistance(a, b []byte) float64 {
	dr := float64(a[0]) - float64(b[0])
	dg := float64(a[1]) - float64(b[1])
	db := float64(a[2]) - float64(b[2])
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func fade(c byte) byte {
	return byte(192 + int(c)/4)
}
