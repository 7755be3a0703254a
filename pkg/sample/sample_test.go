package sample

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/observability"
)

func uniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return b.Bytes()
}

func TestSquare(t *testing.T) {
	tests := []struct {
		in, want image.Rectangle
	}{
		{image.Rect(0, 0, 10, 10), image.Rect(0, 0, 10, 10)},
		{image.Rect(0, 0, 20, 10), image.Rect(5, 0, 15, 10)},
		{image.Rect(0, 0, 10, 21), image.Rect(0, 5, 10, 15)},
		{image.Rect(3, 4, 13, 8), image.Rect(6, 4, 10, 8)},
	}
	for _, tt := range tests {
		if got := Square(tt.in); got != tt.want {
			t.Errorf("Square(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBufferUniform(t *testing.T) {
	c := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	for _, f := range []Filter{FilterNearest, FilterBilinear, FilterCatmullRom} {
		t.Run(string(f), func(t *testing.T) {
			buf, err := Buffer(uniform(40, 30, c), 4, f)
			if err != nil {
				t.Fatalf("Buffer: %v", err)
			}
			if len(buf) != 4*4*4 {
				t.Fatalf("len = %d, want 64", len(buf))
			}
			for i := 0; i < len(buf); i += 4 {
				if buf[i] != 10 || buf[i+1] != 20 || buf[i+2] != 30 {
					t.Fatalf("sample %d = %v, want [10 20 30]", i/4, buf[i:i+3])
				}
			}
		})
	}
}

func TestBufferErrors(t *testing.T) {
	img := uniform(4, 4, color.RGBA{A: 255})
	if _, err := Buffer(img, 0, FilterNearest); !errors.Is(err, errors.ErrCodeInvalidDimension) {
		t.Errorf("dim 0: err = %v", err)
	}
	if _, err := Buffer(img, 2, Filter("lanczos")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad filter: err = %v", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "pic.png")
	if err := os.WriteFile(good, encodePNG(t, uniform(8, 8, color.RGBA{R: 1, A: 255})), 0644); err != nil {
		t.Fatal(err)
	}
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, img, err := ReadFile(good); err != nil || img.Bounds().Dx() != 8 {
		t.Errorf("ReadFile(good) = %v, %v", img, err)
	}

	tests := []struct {
		path string
		code errors.Code
	}{
		{filepath.Join(dir, "missing.png"), errors.ErrCodeFileNotFound},
		{junk, errors.ErrCodeUnsupportedImage},
		{filepath.Join(dir, "notes.txt"), errors.ErrCodeUnsupportedImage},
		{"", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		if _, _, err := ReadFile(tt.path); !errors.Is(err, tt.code) {
			t.Errorf("ReadFile(%q) err = %v, want %s", tt.path, err, tt.code)
		}
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestSamplerCaches(t *testing.T) {
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	img := uniform(16, 16, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	data := encodePNG(t, img)
	s := NewSampler(fc, nil)
	ctx := context.Background()

	first, err := s.Sample(ctx, "pic.png", data, img, 4)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	second, err := s.Sample(ctx, "pic.png", data, img, 4)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached buffer differs from computed one")
	}
	if hooks.misses != 1 || hooks.sets != 1 || hooks.hits != 1 {
		t.Errorf("hits/misses/sets = %d/%d/%d, want 1/1/1", hooks.hits, hooks.misses, hooks.sets)
	}

	if _, err := s.Sample(ctx, "pic.png", data, img, 8); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if hooks.misses != 2 {
		t.Errorf("new dim should miss, misses = %d", hooks.misses)
	}
}

func TestSamplerWithoutCache(t *testing.T) {
	img := uniform(8, 8, color.RGBA{A: 255})
	buf, err := NewSampler(nil, nil).Sample(context.Background(), "x", nil, img, 2)
	if err != nil || len(buf) != 16 {
		t.Errorf("Sample = %d bytes, %v", len(buf), err)
	}
}
