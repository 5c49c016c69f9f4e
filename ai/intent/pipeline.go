// Package intent turns free-form Chinese household instructions into validated inventory actions.
package intent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hrygo/homebox/ai/metrics"
	"github.com/hrygo/homebox/store"
)

// Source tells which parser produced a result.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceNone   Source = "none"
)

// Parsed is the outcome of parsing one sentence. Nothing has been executed yet.
type Parsed struct {
	Text    string  `json:"text"` // simplified text the actions were parsed from
	Actions Actions `json:"actions"`
	Source  Source  `json:"source"`
}

// Pipeline runs normalize, remote parse, local fallback and validation.
type Pipeline struct {
	remote  *RemoteParser
	metrics *metrics.PrometheusExporter
}

// NewPipeline creates a pipeline. remote may be nil, in which case only the local parser runs.
func NewPipeline(remote *RemoteParser, m *metrics.PrometheusExporter) *Pipeline {
	return &Pipeline{remote: remote, metrics: m}
}

// Parse resolves text against the location snapshot. It never mutates the snapshot and
// never fails; an empty action list means no actionable intent was found.
func (p *Pipeline) Parse(ctx context.Context, text string, locations []*store.Location) *Parsed {
	start := time.Now()
	normalized := ToSimplified(strings.TrimSpace(text))
	parsed := &Parsed{Text: normalized, Actions: Actions{}, Source: SourceNone}
	if normalized == "" {
		return parsed
	}

	actions := p.remote.Parse(ctx, normalized, locations)
	source := SourceRemote
	if len(actions) == 0 {
		actions = ParseLocal(normalized, locations)
		source = SourceLocal
	}

	validated, rewrites := validate(normalized, actions, locations)
	p.metrics.RecordRewrites(rewrites)
	if len(validated) > 0 {
		parsed.Actions = validated
		parsed.Source = source
	}
	p.metrics.RecordParse(string(parsed.Source), time.Since(start))

	slog.Info("intent: parsed",
		"source", parsed.Source,
		"actions", len(parsed.Actions),
		"rewrites", rewrites,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return parsed
}
