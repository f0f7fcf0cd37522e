package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/gittranslate/gittranslate/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueuePodcastGenerate schedules a full pipeline run for one podcast.
// Retries re-run the whole pipeline; the pipeline itself never retries.
func (c *Client) EnqueuePodcastGenerate(payload PodcastGeneratePayload) error {
	return c.enqueue(TypePodcastGenerate, payload, asynq.MaxRetry(2), asynq.Timeout(15*time.Minute))
}

func (c *Client) enqueue(taskType string, payload any, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
