// Package sample turns image files into the RGBA color buffers a puzzle is
// built from.
//
// Images are center-cropped to a square and scaled to D×D samples, one per
// finest puzzle cell. PNG, JPEG and GIF are decoded by the standard library;
// WebP and BMP by golang.org/x/image.
package sample

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/mosaic/pkg/errors"
)

// Filter selects the scaling kernel.
type Filter string

const (
	FilterNearest    Filter = "nearest"
	FilterBilinear   Filter = "bilinear"
	FilterCatmullRom Filter = "catmullrom"
)

// DefaultFilter is used when no filter is given.
const DefaultFilter = FilterBilinear

func (f Filter) scaler() (xdraw.Scaler, error) {
	switch f {
	case FilterNearest:
		return xdraw.NearestNeighbor, nil
	case FilterBilinear, "":
		return xdraw.ApproxBiLinear, nil
	case FilterCatmullRom:
		return xdraw.CatmullRom, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown filter %q (want nearest, bilinear or catmullrom)", string(f))
	}
}

// ReadFile reads an image file, returning its raw bytes and decoded image.
func ReadFile(path string) ([]byte, image.Image, error) {
	if err := errors.ValidateImagePath(path); err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, errors.New(errors.ErrCodeFileNotFound, "image %s not found", path)
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return data, img, nil
}

// Decode decodes any registered image format.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupportedImage, err, "decode image")
	}
	return img, nil
}

// Square returns the largest centered square inside r.
func Square(r image.Rectangle) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	side := min(w, h)
	x0 := r.Min.X + (w-side)/2
	y0 := r.Min.Y + (h-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}

// Fit crops img to its centered square and scales it to size×size.
func Fit(img image.Image, size int, f Filter) (*image.RGBA, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimension, "sample size must be positive, got %d", size)
	}
	src := Square(img.Bounds())
	if src.Empty() {
		return nil, errors.New(errors.ErrCodeUnsupportedImage, "image is empty")
	}
	s, err := f.scaler()
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	s.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
	return dst, nil
}

// Buffer returns the dim×dim RGBA buffer for img: exactly dim*dim*4 bytes,
// row-major.
func Buffer(img image.Image, dim int, f Filter) ([]byte, error) {
	dst, err := Fit(img, dim, f)
	if err != nil {
		return nil, err
	}
	return dst.Pix, nil
}
