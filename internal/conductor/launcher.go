package conductor

import (
	"context"
	"fmt"
	"time"

	"github.com/gittranslate/gittranslate/internal/cache"
	"github.com/gittranslate/gittranslate/internal/models"
)

// statusCacheTTL bounds how stale a polled workflow status may be. Frontend
// polling is far more frequent than workflow state changes.
const statusCacheTTL = 5 * time.Second

// Launcher runs podcast generation by delegating the whole pipeline to a
// hosted Conductor workflow. The gateway only triggers and polls.
type Launcher struct {
	client *Client
	cache  *cache.Cache
}

// NewLauncher wraps a Conductor client. The cache is optional; when nil,
// every poll hits Conductor directly.
func NewLauncher(client *Client, c *cache.Cache) *Launcher {
	return &Launcher{client: client, cache: c}
}

func (l *Launcher) Start(ctx context.Context, repoURL, language string) (string, error) {
	return l.client.StartWorkflow(ctx, map[string]any{
		"github_url": repoURL,
		"lang":       language,
	})
}

func (l *Launcher) Status(ctx context.Context, id string) (*models.JobStatus, error) {
	cacheKey := "workflow:" + id

	if l.cache != nil {
		var cached models.JobStatus
		if err := l.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	wf, err := l.client.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}

	status := &models.JobStatus{ID: id, Status: mapStatus(wf.Status)}
	switch wf.Status {
	case StatusCompleted:
		status.AudioURL = outputAudioURL(wf.Output)
		if status.AudioURL == "" {
			return nil, fmt.Errorf("workflow %s completed without an audio URL", id)
		}
	case StatusFailed, StatusTerminated:
		if reason, ok := wf.Output["reason"].(string); ok {
			status.Error = reason
		}
	}

	if l.cache != nil {
		_ = l.cache.Set(ctx, cacheKey, status, statusCacheTTL)
	}
	return status, nil
}

func mapStatus(workflowStatus string) string {
	switch workflowStatus {
	case StatusCompleted:
		return models.PodcastStatusCompleted
	case StatusFailed, StatusTerminated:
		return models.PodcastStatusFailed
	case StatusRunning, StatusPaused:
		return models.PodcastStatusProcessing
	default:
		return models.PodcastStatusPending
	}
}

// outputAudioURL digs the published URL out of the workflow output. Older
// workflow versions exposed it as "data", newer ones as "audio_url".
func outputAudioURL(output map[string]any) string {
	for _, key := range []string{"audio_url", "data"} {
		if v, ok := output[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
