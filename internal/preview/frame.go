package preview

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/jmikh/recordio-sub002/internal/geom"
)

// LoadFrame decodes a captured frame (PNG or JPEG).
func LoadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

// FrameSize reads only the header of a frame.
func FrameSize(path string) (geom.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return geom.Size{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return geom.Size{}, fmt.Errorf("decode frame header %s: %w", path, err)
	}
	return geom.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}, nil
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
