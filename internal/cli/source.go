package cli

import (
	"context"
	"image"
	"path/filepath"

	"github.com/matzehuels/mosaic/pkg/puzzle"
	"github.com/matzehuels/mosaic/pkg/sample"
)

// source is an image prepared for one puzzle geometry.
type source struct {
	name   string
	buf    []byte      // dim×dim RGBA color buffer
	img    image.Image // original, decoded
	dim    int
	cached bool
}

// loadSource reads path and samples it down to the color buffer opts needs.
func (c *CLI) loadSource(ctx context.Context, path string, opts puzzle.Options) (*source, error) {
	data, img, err := sample.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sampler, err := c.newSampler()
	if err != nil {
		return nil, err
	}
	defer sampler.Cache.Close()

	name := filepath.Base(path)
	dim := opts.Dim()
	hits := c.hooks.hits.Load()
	buf, err := sampler.Sample(ctx, name, data, img, dim)
	if err != nil {
		return nil, err
	}
	return &source{
		name:   name,
		buf:    buf,
		img:    img,
		dim:    dim,
		cached: c.hooks.hits.Load() > hits,
	}, nil
}

// picture returns the image scaled to cover an extent×extent board.
func (s *source) picture(extent int, f sample.Filter) (image.Image, error) {
	return sample.Fit(s.img, extent, f)
}
