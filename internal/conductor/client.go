package conductor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gittranslate/gittranslate/internal/config"
)

// Workflow statuses reported by Conductor.
const (
	StatusRunning    = "RUNNING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusTerminated = "TERMINATED"
	StatusPaused     = "PAUSED"
)

// WorkflowStatus is the summarized state of one workflow execution.
type WorkflowStatus struct {
	WorkflowID string         `json:"workflowId"`
	Status     string         `json:"status"`
	Output     map[string]any `json:"output"`
}

// Done reports whether the workflow reached a terminal state.
func (w *WorkflowStatus) Done() bool {
	return w.Status == StatusCompleted || w.Status == StatusFailed || w.Status == StatusTerminated
}

// Client is a thin proxy for the Orkes Conductor REST API: token exchange,
// workflow trigger, and status polling. All orchestration semantics live on
// the Conductor side.
type Client struct {
	cfg        config.ConductorConfig
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg config.ConductorConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// getToken exchanges the key pair for an auth token, reusing a cached token
// until shortly before it expires.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"keyId":     c.cfg.KeyID,
		"keySecret": c.cfg.KeySecret,
	})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/api/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var tokenResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.Token == "" {
		return "", fmt.Errorf("token response missing token")
	}

	c.token = tokenResp.Token
	c.tokenExpiry = time.Now().Add(30 * time.Minute)
	return c.token, nil
}

// StartWorkflow triggers the configured workflow and returns its execution
// ID. Conductor returns the ID as a plain-text response body.
func (c *Client) StartWorkflow(ctx context.Context, input map[string]any) (string, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]any{
		"name":    c.cfg.WorkflowName,
		"version": c.cfg.WorkflowVersion,
		"input":   input,
	})
	if err != nil {
		return "", fmt.Errorf("marshal workflow request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/api/workflow", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("start workflow: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("start workflow failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	workflowID := strings.TrimSpace(string(respBody))
	if workflowID == "" {
		return "", fmt.Errorf("start workflow: empty workflow id in response")
	}
	return workflowID, nil
}

// GetWorkflow fetches the summarized status and output of a workflow run.
func (c *Client) GetWorkflow(ctx context.Context, workflowID string) (*WorkflowStatus, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/workflow/%s?summarize=true", c.cfg.BaseURL, workflowID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get workflow %s: %w", workflowID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get workflow %s failed (status %d): %s", workflowID, resp.StatusCode, string(respBody))
	}

	var status WorkflowStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode workflow status: %w", err)
	}
	if status.WorkflowID == "" {
		status.WorkflowID = workflowID
	}
	return &status, nil
}
