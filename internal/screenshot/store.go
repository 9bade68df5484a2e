package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/agenthands/parity/internal/core/model"
)

// Store persists page screenshots as PNG files under one directory,
// keyed by capture id. The comparator itself never touches disk; only
// the HTTP layer goes through here.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot dir '%s': %w", dir, err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.Dir, id+".png")
}

// Save encodes the raster to a PNG file.
func (s *Store) Save(id string, raster model.Raster) error {
	if !raster.Valid() {
		return fmt.Errorf("refusing to save invalid raster for '%s'", id)
	}
	data, err := EncodePNG(raster)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(id), data, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot '%s': %w", id, err)
	}
	return nil
}

// Load reads a stored screenshot back into a raster.
func (s *Store) Load(id string) (model.Raster, error) {
	f, err := os.Open(s.path(id))
	if err != nil {
		return model.Raster{}, fmt.Errorf("failed to open screenshot '%s': %w", id, err)
	}
	defer f.Close()
	return DecodePNG(f)
}

// DecodePNG converts a PNG stream into the raw RGBA raster the
// comparator consumes.
func DecodePNG(r io.Reader) (model.Raster, error) {
	img, err := png.Decode(r)
	if err != nil {
		return model.Raster{}, fmt.Errorf("failed to decode PNG: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}

	return model.Raster{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}, nil
}

// EncodePNG converts a raster (or a diff overlay) back to PNG bytes.
func EncodePNG(raster model.Raster) ([]byte, error) {
	if !raster.Valid() {
		return nil, fmt.Errorf("cannot encode invalid raster")
	}

	img := &image.RGBA{
		Pix:    raster.Pixels,
		Stride: raster.Width * 4,
		Rect:   image.Rect(0, 0, raster.Width, raster.Height),
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
