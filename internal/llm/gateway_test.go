package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gittranslate/gittranslate/internal/config"
)

// flakyProvider fails the first failures calls, then succeeds.
type flakyProvider struct {
	name     string
	failures int
	calls    int
}

func (p *flakyProvider) Name() string { return p.name }

func (p *flakyProvider) Complete(_ context.Context, req Request) (*Response, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("rate limited")
	}
	return &Response{Provider: p.name, Model: req.Model, Content: "ok from " + p.name}, nil
}

func TestGatewayRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	primary := &flakyProvider{name: "anthropic", failures: 1}
	g := &gateway{
		providers:       map[string]Provider{"anthropic": primary},
		defaultProvider: "anthropic",
		maxRetries:      2,
	}

	resp, err := g.Complete(context.Background(), Request{Model: "m", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok from anthropic", resp.Content)
	assert.Equal(t, 2, primary.calls)
}

func TestGatewayFallsBack(t *testing.T) {
	t.Parallel()

	primary := &flakyProvider{name: "anthropic", failures: 100}
	fallback := &flakyProvider{name: "openai"}
	g := &gateway{
		providers: map[string]Provider{
			"anthropic": primary,
			"openai":    fallback,
		},
		defaultProvider:  "anthropic",
		fallbackProvider: "openai",
		maxRetries:       0,
	}

	resp, err := g.Complete(context.Background(), Request{Model: "m", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "openai", resp.Provider)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestGatewayExplicitProviderWins(t *testing.T) {
	t.Parallel()

	g := &gateway{
		providers: map[string]Provider{
			"anthropic": &flakyProvider{name: "anthropic"},
			"openai":    &flakyProvider{name: "openai"},
		},
		defaultProvider: "anthropic",
	}

	resp, err := g.Complete(context.Background(), Request{Provider: "openai", Model: "m", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "openai", resp.Provider)
}

func TestGatewayUnknownProvider(t *testing.T) {
	t.Parallel()

	g := &gateway{providers: map[string]Provider{}, defaultProvider: "anthropic"}
	_, err := g.Complete(context.Background(), Request{Model: "m", Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestNewGatewayRegistersConfiguredProviders(t *testing.T) {
	t.Parallel()

	g := NewGateway(config.LLMConfig{
		AnthropicKey:    "test-anthropic",
		DefaultProvider: "anthropic",
	})

	_, err := g.Provider("anthropic")
	require.NoError(t, err)

	_, err = g.Provider("openai")
	require.Error(t, err)
}
