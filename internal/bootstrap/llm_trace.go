package bootstrap

import (
	"context"
	"time"

	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/pkg/llm"
)

// tracedProvider logs every LLM round trip to an isolated file so
// prompt debugging never floods the application log.
type tracedProvider struct {
	inner llm.LLMProvider
	log   logger.ILogger
}

func newTracedProvider(inner llm.LLMProvider, log logger.ILogger) llm.LLMProvider {
	return &tracedProvider{inner: inner, log: log}
}

func (p *tracedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	start := time.Now()
	response, err := p.inner.Chat(ctx, history, options...)
	details := map[string]interface{}{
		"messages":    len(history),
		"durationMs":  time.Since(start).Milliseconds(),
		"responseLen": len(response),
	}
	if len(history) > 0 {
		details["lastMessage"] = history[len(history)-1].Content
	}
	if err != nil {
		details["error"] = err.Error()
		p.log.Error("llm", "chat call failed", details)
		return response, err
	}
	p.log.Debug("llm", "chat call", details)
	return response, nil
}

func (p *tracedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	start := time.Now()
	response, err := p.inner.Generate(ctx, prompt, options...)
	details := map[string]interface{}{
		"promptLen":   len(prompt),
		"durationMs":  time.Since(start).Milliseconds(),
		"responseLen": len(response),
	}
	if err != nil {
		details["error"] = err.Error()
		p.log.Error("llm", "generate call failed", details)
		return response, err
	}
	p.log.Debug("llm", "generate call", details)
	return response, nil
}
