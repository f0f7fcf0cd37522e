package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Synthesizer is the interface for speech synthesis backends. One call
// converts one (text, voice) pair into encoded audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
	Format() string
}

// LMNTConfig holds configuration for the LMNT speech API backend.
type LMNTConfig struct {
	APIKey      string
	BaseURL     string  // default: "https://api.lmnt.com"
	Model       string  // default: "blizzard"
	Language    string  // default: "auto"
	Format      string  // default: "mp3"
	SampleRate  int     // default: 24000
	Seed        int     // default: 123, held constant for reproducible output
	TopP        float64 // default: 0.8
	Temperature float64 // default: 1
	Timeout     time.Duration
}

// LMNTClient synthesizes speech using LMNT's bytes endpoint.
type LMNTClient struct {
	cfg        LMNTConfig
	httpClient *http.Client
}

// NewLMNTClient creates an LMNTClient with sensible defaults applied.
func NewLMNTClient(cfg LMNTConfig) *LMNTClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.lmnt.com"
	}
	if cfg.Model == "" {
		cfg.Model = "blizzard"
	}
	if cfg.Language == "" {
		cfg.Language = "auto"
	}
	if cfg.Format == "" {
		cfg.Format = "mp3"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	if cfg.Seed == 0 {
		cfg.Seed = 123
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.8
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &LMNTClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Format returns the audio encoding requested from LMNT.
func (c *LMNTClient) Format() string { return c.cfg.Format }

// Synthesize converts text to encoded audio bytes for the given voice.
func (c *LMNTClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	body := map[string]any{
		"voice":       voice,
		"text":        text,
		"model":       c.cfg.Model,
		"language":    c.cfg.Language,
		"format":      c.cfg.Format,
		"sample_rate": c.cfg.SampleRate,
		"seed":        c.cfg.Seed,
		"top_p":       c.cfg.TopP,
		"temperature": c.cfg.Temperature,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/v1/ai/speech/bytes", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech synthesis failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return audio, nil
}
