package ai

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/hrygo/homebox/ai/core/llm"
	"github.com/hrygo/homebox/ai/intent"
	"github.com/hrygo/homebox/ai/metrics"
	"github.com/hrygo/homebox/ai/reply"
)

// Assistant runs one conversational turn: parse, then after confirmation execute and reply.
type Assistant struct {
	inv      intent.Inventory
	pipeline *intent.Pipeline
	executor *intent.Executor
	replier  *reply.Generator
}

// Outcome is the result of a confirmed (or dismissed) batch.
type Outcome struct {
	*intent.Result
	Reply string `json:"reply"`
}

// NewAssistant wires the pipeline over inv. svcs may hold nil services, in which case
// only the local parser runs and replies fall back to fixed text.
func NewAssistant(cfg *Config, svcs *Services, inv intent.Inventory, m *metrics.PrometheusExporter) *Assistant {
	if svcs == nil {
		svcs = &Services{}
	}
	var opts []intent.RemoteOption
	opts = append(opts, intent.WithMetrics(m))
	if cfg != nil {
		opts = append(opts, intent.WithRateLimit(cfg.RPS), intent.WithTimeout(cfg.Intent.Timeout))
	}

	var remote *intent.RemoteParser
	if svcs.Intent != nil {
		remote = intent.NewRemoteParser(svcs.Intent, opts...)
	}
	return &Assistant{
		inv:      inv,
		pipeline: intent.NewPipeline(remote, m),
		executor: intent.NewExecutor(inv, intent.WithExecutorMetrics(m)),
		replier:  reply.NewGenerator(svcs.Reply, m),
	}
}

// Parse proposes actions for text against the current inventory. Nothing is written.
func (a *Assistant) Parse(ctx context.Context, text string) (*intent.Parsed, error) {
	snapshot, err := a.inv.Snapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inventory")
	}
	return a.pipeline.Parse(ctx, text, snapshot.Locations), nil
}

// Submit applies the confirmed actions and generates the reply. An empty list means the
// user dismissed the proposal; the reply then must not claim anything was done.
func (a *Assistant) Submit(ctx context.Context, text string, actions intent.Actions, history []llm.Message, onChunk func(string)) (*Outcome, error) {
	result, err := a.executor.Execute(ctx, actions)
	if err != nil {
		return nil, err
	}

	snapshot, err := a.inv.Snapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inventory")
	}

	text = intent.ToSimplified(text)
	replyText, err := a.replier.Generate(ctx, &reply.Request{
		Text:     text,
		History:  history,
		Snapshot: snapshot,
		Success:  result.Success,
	}, onChunk)
	if err != nil {
		slog.Warn("assistant: reply fell back", "error", err.Error())
	}

	slog.Info("assistant: submitted",
		"success", len(result.Success),
		"failed", len(result.Failed),
	)
	return &Outcome{Result: result, Reply: replyText}, nil
}
