package intent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/hrygo/homebox/ai/cache"
	"github.com/hrygo/homebox/ai/core/llm"
	"github.com/hrygo/homebox/ai/metrics"
	"github.com/hrygo/homebox/store"
)

const (
	defaultRemoteTimeout = 20 * time.Second
	remoteCacheCapacity  = 256
	remoteCacheTTL       = 5 * time.Minute
	remoteCacheType      = "remote_parse"
)

// RemoteParser asks a hosted model to turn a sentence into actions.
// Parse never fails: transport errors, timeouts, exhausted budget and undecodable
// output all yield an empty list so the caller can fall back uniformly.
type RemoteParser struct {
	llm     llm.Service
	limiter *rate.Limiter
	cache   *cache.LRUCache[string, Actions]
	timeout time.Duration
	metrics *metrics.PrometheusExporter
}

// RemoteOption configures a RemoteParser.
type RemoteOption func(*RemoteParser)

// WithRateLimit caps remote parses per second. rps <= 0 disables limiting.
func WithRateLimit(rps float64) RemoteOption {
	return func(p *RemoteParser) {
		if rps <= 0 {
			p.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout bounds a single remote parse.
func WithTimeout(d time.Duration) RemoteOption {
	return func(p *RemoteParser) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMetrics records parse and cache metrics.
func WithMetrics(m *metrics.PrometheusExporter) RemoteOption {
	return func(p *RemoteParser) { p.metrics = m }
}

// WithoutCache disables memoisation of remote results.
func WithoutCache() RemoteOption {
	return func(p *RemoteParser) { p.cache = nil }
}

// NewRemoteParser creates a remote parser over svc. A nil svc yields a parser that always returns nothing.
func NewRemoteParser(svc llm.Service, opts ...RemoteOption) *RemoteParser {
	p := &RemoteParser{
		llm:     svc,
		cache:   cache.NewLRUCache[string, Actions](remoteCacheCapacity, remoteCacheTTL),
		timeout: defaultRemoteTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enabled reports whether the parser has a model to call.
func (p *RemoteParser) Enabled() bool {
	return p != nil && p.llm != nil
}

// Parse sends text with the location hierarchy to the model and decodes its answer.
func (p *RemoteParser) Parse(ctx context.Context, text string, locations []*store.Location) (actions Actions) {
	if !p.Enabled() {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("intent: remote parse panicked", "panic", r)
			actions = nil
		}
	}()

	systemPrompt := BuildIntentPrompt(locations)
	key := cacheKey(systemPrompt, text)
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			p.metrics.RecordCacheHit(remoteCacheType)
			return slices.Clone(cached)
		}
		p.metrics.RecordCacheMiss(remoteCacheType)
	}

	if p.limiter != nil && !p.limiter.Allow() {
		slog.Warn("intent: remote parse budget exhausted, skipping model")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	raw, stats, err := p.llm.Chat(ctx, []llm.Message{
		llm.SystemPrompt(systemPrompt),
		llm.UserMessage(text),
	})
	p.metrics.RecordLLMRequest("intent", time.Since(start), err == nil)
	if err != nil {
		slog.Warn("intent: remote parse failed", "error", err.Error(), "duration_ms", time.Since(start).Milliseconds())
		return nil
	}
	if stats != nil {
		p.metrics.RecordLLMTokens("intent", "prompt", stats.PromptTokens)
		p.metrics.RecordLLMTokens("intent", "completion", stats.CompletionTokens)
	}
	slog.Debug("intent: remote raw output", "raw", raw)

	actions, err = DecodeActions(raw)
	if err != nil {
		slog.Warn("intent: remote output not decodable", "error", err.Error())
		return nil
	}
	slog.Debug("intent: remote parsed", "count", len(actions))

	if p.cache != nil && len(actions) > 0 {
		p.cache.Set(key, slices.Clone(actions), 0)
	}
	return actions
}

func cacheKey(systemPrompt, text string) string {
	h := sha256.New()
	h.Write([]byte(systemPrompt))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
