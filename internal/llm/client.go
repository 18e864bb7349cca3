// Package llm defines the minimal chat-completion contract the Semantic
// Translator (C5) and the Intent Router (C8) use to
// reach the external LLM endpoint. The endpoint's transport is an
// external collaborator and out of scope for this module; this package
// only narrows the teacher's LLMProvider interface down to the
// non-streaming, low-temperature shape those two call sites need, and
// reuses the teacher's provider error classification for retry and
// graceful degradation.
package llm

import (
	"context"
	"time"

	"github.com/haasonsaas/agrisense/internal/agent/providers"
)

// Request is a single non-streaming chat-completion request. Temperature
// must stay at or below 0.2 per the deterministic-sampling contract;
// callers are responsible for honoring that bound.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client is the chat-completion contract consumed by this domain. Any
// OpenAI-compatible or Anthropic-compatible provider can satisfy it.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// WithRetry wraps client so failures classified as retryable by
// providers.ClassifyError (rate limit, timeout, server error) are retried
// with linear backoff before giving up.
func WithRetry(client Client, maxRetries int, retryDelay time.Duration) Client {
	return &retryingClient{
		client: client,
		base:   providers.NewBaseProvider(client.Name(), maxRetries, retryDelay),
	}
}

type retryingClient struct {
	client Client
	base   providers.BaseProvider
}

func (r *retryingClient) Name() string { return r.client.Name() }

func (r *retryingClient) Complete(ctx context.Context, req Request) (string, error) {
	var out string
	err := r.base.Retry(ctx, providers.IsRetryable, func() error {
		text, err := r.client.Complete(ctx, req)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	return out, err
}

// Unavailable is a Client that always fails, standing in for the endpoint
// when no API key/endpoint is configured. Callers must degrade to their
// deterministic rule-based fallback rather than treat this as fatal.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Name() string { return "unavailable" }

func (u Unavailable) Complete(ctx context.Context, req Request) (string, error) {
	reason := u.Reason
	if reason == "" {
		reason = "no LLM endpoint configured"
	}
	return "", providers.NewProviderError("unavailable", "", errUnavailable{reason})
}

type errUnavailable struct{ reason string }

func (e errUnavailable) Error() string { return e.reason }
