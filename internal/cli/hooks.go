package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flamekit/pkg/observability"
)

// debugHooks reports pipeline and HTTP events as debug log lines, so
// --verbose shows cache behaviour and stage timings.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnRenderStart(_ context.Context, flame string, samples uint64) {
	h.logger.Debug("render start", "flame", flame, "samples", samples)
}

func (h debugHooks) OnRenderComplete(_ context.Context, flame string, hits uint64, d time.Duration, err error) {
	h.logger.Debug("render done", "flame", flame, "hits", hits, "duration", d, "error", err)
}

func (h debugHooks) OnEncode(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("encoded", "format", format, "bytes", size, "duration", d, "error", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h debugHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registerHooks installs debugHooks when the logger is at debug level.
func (c *CLI) registerHooks() {
	if c.Logger.GetLevel() > log.DebugLevel {
		return
	}
	h := debugHooks{logger: c.Logger.WithPrefix("hooks")}
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

var (
	_ observability.RenderHooks = debugHooks{}
	_ observability.CacheHooks  = debugHooks{}
	_ observability.HTTPHooks   = debugHooks{}
)
