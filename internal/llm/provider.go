package llm

import "context"

// Provider abstracts a text-to-text LLM backend (Anthropic, OpenAI).
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Name() string
}

// Gateway routes completions to a configured provider with retry and
// fallback.
type Gateway interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Provider(name string) (Provider, error)
}

// Request is the input for a single completion.
type Request struct {
	Provider    string  `json:"provider,omitempty"`
	Model       string  `json:"model"`
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// Response is the output of a single completion.
type Response struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	LatencyMs    int64  `json:"latency_ms"`
}
