// Package reply generates the assistant's chat answer once a batch was executed or dismissed.
package reply

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hrygo/homebox/ai/core/llm"
	"github.com/hrygo/homebox/ai/intent"
	"github.com/hrygo/homebox/ai/metrics"
	"github.com/hrygo/homebox/store"
)

// FallbackDone is shown when actions succeeded but no reply could be generated.
const FallbackDone = "操作已完成！(回复生成失败)"

// ErrDisabled is returned when no model is configured.
var ErrDisabled = errors.New("AI 未配置")

// Request is everything a reply depends on.
type Request struct {
	Text     string          // the user's sentence
	History  []llm.Message   // earlier turns, oldest first
	Snapshot *store.Snapshot // state after execution
	Success  intent.Actions  // actions that were applied, empty when nothing was
}

// Generator streams replies from the chat model.
type Generator struct {
	llm     llm.Service
	metrics *metrics.PrometheusExporter
}

// NewGenerator creates a generator. svc may be nil; every reply then falls back.
func NewGenerator(svc llm.Service, m *metrics.PrometheusExporter) *Generator {
	return &Generator{llm: svc, metrics: m}
}

// Messages builds the chat request: system prompt, history, then the user sentence.
func Messages(req *Request) []llm.Message {
	return llm.FormatMessages(BuildSystemPrompt(req.Snapshot, req.Success), req.Text, req.History)
}

// Generate streams a reply. onChunk, when set, receives the accumulated text after every delta.
// The returned text is always displayable: on error it is the fallback text and err says why.
func (g *Generator) Generate(ctx context.Context, req *Request, onChunk func(string)) (string, error) {
	if g == nil || g.llm == nil {
		return Fallback(req.Success, ErrDisabled), ErrDisabled
	}

	start := time.Now()
	contentChan, statsChan, errChan := g.llm.ChatStream(ctx, Messages(req))

	var sb strings.Builder
	var stats *llm.LLMCallStats
	var streamErr error
	for contentChan != nil || statsChan != nil || errChan != nil {
		select {
		case delta, ok := <-contentChan:
			if !ok {
				contentChan = nil
				continue
			}
			sb.WriteString(delta)
			if onChunk != nil {
				onChunk(sb.String())
			}
		case s, ok := <-statsChan:
			if !ok {
				statsChan = nil
				continue
			}
			stats = s
		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if err != nil {
				streamErr = err
			}
		case <-ctx.Done():
			streamErr = ctx.Err()
			contentChan, statsChan, errChan = nil, nil, nil
		}
	}

	g.metrics.RecordLLMRequest("reply", time.Since(start), streamErr == nil)
	if stats != nil {
		g.metrics.RecordLLMTokens("reply", "prompt", stats.PromptTokens)
		g.metrics.RecordLLMTokens("reply", "completion", stats.CompletionTokens)
	}

	text := strings.TrimSpace(sb.String())
	if streamErr == nil && text == "" {
		streamErr = errors.New("empty reply")
	}
	if streamErr != nil {
		slog.Warn("reply: generation failed", "error", streamErr.Error(), "executed", len(req.Success))
		return Fallback(req.Success, streamErr), streamErr
	}

	slog.Debug("reply: generated", "length", len(text), "duration_ms", time.Since(start).Milliseconds())
	return text, nil
}

// Fallback is the reply shown when generation fails.
func Fallback(success intent.Actions, err error) string {
	if len(success) > 0 {
		return FallbackDone
	}
	if err == nil {
		return "❌ 请求失败"
	}
	return "❌ " + err.Error()
}
