package podcast

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gittranslate/gittranslate/internal/models"
	"github.com/gittranslate/gittranslate/internal/queue"
)

// Launcher runs podcast generation on this deployment's own worker fleet:
// a record is created in Postgres and a task enqueued for cmd/worker.
type Launcher struct {
	podcasts    *Service
	queueClient *queue.Client
}

func NewLauncher(podcasts *Service, qc *queue.Client) *Launcher {
	return &Launcher{podcasts: podcasts, queueClient: qc}
}

func (l *Launcher) Start(ctx context.Context, repoURL, language string) (string, error) {
	p, err := l.podcasts.Create(ctx, repoURL, language)
	if err != nil {
		return "", err
	}

	if err := l.queueClient.EnqueuePodcastGenerate(queue.PodcastGeneratePayload{
		PodcastID: p.ID.String(),
	}); err != nil {
		if ferr := l.podcasts.MarkFailed(ctx, p.ID, "enqueue failed: "+err.Error()); ferr != nil {
			return "", fmt.Errorf("enqueue podcast (and record failure): %w", err)
		}
		return "", fmt.Errorf("enqueue podcast: %w", err)
	}

	return p.ID.String(), nil
}

func (l *Launcher) Status(ctx context.Context, id string) (*models.JobStatus, error) {
	podcastID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid podcast id %q", id)
	}

	p, err := l.podcasts.GetByID(ctx, podcastID)
	if err != nil {
		return nil, err
	}

	return &models.JobStatus{
		ID:       p.ID.String(),
		Status:   p.Status,
		AudioURL: p.AudioURL,
		Error:    p.Error,
	}, nil
}
