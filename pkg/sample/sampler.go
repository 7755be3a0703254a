package sample

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// keyType labels sampled buffers in cache hooks.
const keyType = "sample"

// Sampler produces color buffers, caching them by source content.
type Sampler struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Filter Filter
	// TTL bounds the life of cached buffers. Zero keeps them forever.
	TTL    time.Duration
	Logger *log.Logger
}

// NewSampler creates a sampler backed by c. A nil c disables caching.
func NewSampler(c cache.Cache, logger *log.Logger) *Sampler {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Sampler{
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Filter: DefaultFilter,
		Logger: logger,
	}
}

// Sample returns the dim×dim buffer for img, whose encoded form is data.
// name only labels hooks and log lines.
func (s *Sampler) Sample(ctx context.Context, name string, data []byte, img image.Image, dim int) (buf []byte, err error) {
	start := time.Now()
	observability.Sample().OnSampleStart(ctx, name, dim)
	defer func() {
		observability.Sample().OnSampleComplete(ctx, name, dim, time.Since(start), err)
	}()

	key := s.Keyer.SampleKey(cache.Hash(data), cache.SampleKeyOpts{Dim: dim, Filter: string(s.Filter)})
	want := dim * dim * 4

	cached, hit, cerr := s.Cache.Get(ctx, key)
	switch {
	case cerr != nil:
		s.Logger.Warn("cache read failed", "key", key, "err", cerr)
	case hit && len(cached) == want:
		observability.Cache().OnCacheHit(ctx, keyType)
		s.Logger.Debug("sample cache hit", "source", name, "dim", dim)
		return cached, nil
	case hit:
		s.Logger.Warn("discarding cached sample", "source", name, "bytes", len(cached), "want", want)
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	buf, err = Buffer(img, dim, s.Filter)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, key, buf, s.TTL); err != nil {
		s.Logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyType, len(buf))
	}
	return buf, nil
}
