package cli

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stepTimer logs how long a step took.
type stepTimer struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing a step.
func newProgress(l *log.Logger) *stepTimer {
	return &stepTimer{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Sampled cat.png (12ms)".
func (p *stepTimer) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports library events at debug level and counts cache hits so
// commands can tell whether a sample came from the cache.
type logHooks struct {
	logger *log.Logger
	hits   atomic.Int64
}

var (
	_ observability.PuzzleHooks = (*logHooks)(nil)
	_ observability.SampleHooks = (*logHooks)(nil)
	_ observability.CacheHooks  = (*logHooks)(nil)
)

func (h *logHooks) OnBuild(_ context.Context, session string, layers, units int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("pyramid build failed", "session", session, "err", err)
		return
	}
	h.logger.Debug("pyramid built", "session", session, "layers", layers, "units", units, "took", d)
}

func (h *logHooks) OnSplit(_ context.Context, _ string, size int) {
	h.logger.Debug("split", "size", size)
}

func (h *logHooks) OnReveal(_ context.Context, _ string, units, percent int) {
	h.logger.Debug("reveal", "units", units, "coverage", percent)
}

func (h *logHooks) OnComplete(_ context.Context, session string, revealed, total int, elapsed time.Duration) {
	h.logger.Debug("solved", "session", session, "revealed", revealed, "total", total, "elapsed", elapsed.Round(time.Millisecond))
}

func (h *logHooks) OnSampleStart(_ context.Context, source string, dim int) {
	h.logger.Debug("sampling", "source", source, "dim", dim)
}

func (h *logHooks) OnSampleComplete(_ context.Context, source string, dim int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("sampling failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("sampled", "source", source, "dim", dim, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.hits.Add(1)
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
