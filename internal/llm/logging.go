package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/store"
)

// LoggingProvider records every call in the llm_request_events table and
// the process log.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	log      *slog.Logger
}

// WithLogging wraps p. events may be nil to log only.
func WithLogging(p Provider, provider string, events store.EventRepo, log *slog.Logger) Provider {
	return &LoggingProvider{inner: p, provider: provider, events: events, log: logging.Tagged(log, "llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", "purpose", data.Purpose, "model", data.Model, "err", err)
	} else {
		l.log.Info("llm request", "purpose", data.Purpose, "model", data.Model,
			"in", data.InputTokens, "out", data.OutputTokens, "ms", data.LatencyMs)
	}

	if l.events != nil {
		// The request context may already be done; the record should still land.
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if logErr := l.events.AppendLLMRequest(recCtx, data); logErr != nil {
			l.log.Warn("record llm request", "err", logErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
