// Package raster paints a puzzle onto an image.
//
// A [Surface] tracks visible nodes like the memory surface and, on demand,
// paints them over the picture they hide. Replays use it to write PNG
// snapshots of a puzzle's state.
package raster

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/pyramid"
	"github.com/matzehuels/mosaic/pkg/surface/memory"
)

// GhostOpacity is the alpha of a node caught between its two transition phases.
const GhostOpacity = 0.7

const (
	captionSize    = 12.0
	captionPadding = 6.0
)

// Background fills the area under the nodes when no picture is set.
var Background = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}

// Surface paints nodes over a picture.
type Surface struct {
	*memory.Surface

	picture image.Image
	extent  int
}

// New creates a surface for a puzzle of the given extent. picture is drawn
// under the nodes at its own size, normally extent×extent; it may be nil.
func New(picture image.Image, extent int) *Surface {
	return &Surface{Surface: memory.New(), picture: picture, extent: extent}
}

// Render paints the current state. A non-empty caption adds a text band
// under the puzzle.
func (s *Surface) Render(caption string) (image.Image, error) {
	height := s.extent
	var face font.Face
	if caption != "" {
		f, err := captionFace()
		if err != nil {
			return nil, err
		}
		face = f
		height += int(captionSize + 2*captionPadding)
	}

	dc := gg.NewContext(s.extent, height)
	dc.SetColor(Background)
	dc.Clear()
	if s.picture != nil {
		dc.DrawImage(s.picture, 0, 0)
	}

	for _, n := range s.Nodes() {
		c := n.Color.ToRGBA()
		alpha := 1.0
		if n.Ghost {
			alpha = GhostOpacity
		}
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(alpha*255))
		dc.DrawRectangle(float64(n.X), float64(n.Y), float64(n.Size), float64(n.Size))
		dc.Fill()
	}

	if face != nil {
		dc.SetFontFace(face)
		dc.SetColor(color.White)
		dc.DrawStringAnchored(caption, captionPadding, float64(s.extent)+captionPadding+captionSize/2, 0, 0.5)
	}
	return dc.Image(), nil
}

// SavePNG renders the current state to a PNG file.
func (s *Surface) SavePNG(path, caption string) error {
	img, err := s.Render(caption)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

func captionFace() (font.Face, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse caption font")
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    captionSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

var _ pyramid.Surface = (*Surface)(nil)
