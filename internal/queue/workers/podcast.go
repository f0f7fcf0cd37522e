package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/gittranslate/gittranslate/internal/gitrepo"
	"github.com/gittranslate/gittranslate/internal/podcast"
	"github.com/gittranslate/gittranslate/internal/queue"
	"github.com/gittranslate/gittranslate/internal/script"
	"github.com/gittranslate/gittranslate/internal/synthesis"
)

// PodcastWorker runs the full generation pipeline for one podcast record:
// fetch repository metadata, generate a script, translate it, then
// synthesize and publish the audio.
type PodcastWorker struct {
	podcasts *podcast.Service
	fetcher  *gitrepo.Fetcher
	scripts  *script.Service
	pipeline *synthesis.Pipeline
}

func NewPodcastWorker(podcasts *podcast.Service, fetcher *gitrepo.Fetcher, scripts *script.Service, pipeline *synthesis.Pipeline) *PodcastWorker {
	return &PodcastWorker{
		podcasts: podcasts,
		fetcher:  fetcher,
		scripts:  scripts,
		pipeline: pipeline,
	}
}

func (w *PodcastWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.PodcastGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	id, err := uuid.Parse(payload.PodcastID)
	if err != nil {
		return fmt.Errorf("parse podcast ID: %w", err)
	}

	slog.Info("generating podcast", "podcast_id", id)

	job, err := w.podcasts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get podcast: %w", err)
	}

	if err := w.podcasts.MarkProcessing(ctx, id); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	audioURL, repoName, kind, err := w.generate(ctx, job.RepoURL, job.Language)
	if err != nil {
		if ferr := w.podcasts.MarkFailed(ctx, id, err.Error()); ferr != nil {
			slog.Error("failed to record failure", "podcast_id", id, "error", ferr)
		}
		return fmt.Errorf("generate podcast %s: %w", id, err)
	}

	if err := w.podcasts.MarkCompleted(ctx, id, repoName, kind, audioURL); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}

	slog.Info("podcast ready", "podcast_id", id, "repo", repoName, "audio_url", audioURL)
	return nil
}

func (w *PodcastWorker) generate(ctx context.Context, repoURL, language string) (audioURL, repoName, kind string, err error) {
	repo, err := w.fetcher.Fetch(ctx, repoURL)
	if err != nil {
		return "", "", "", fmt.Errorf("fetch repository: %w", err)
	}

	sc, err := w.scripts.Generate(ctx, repo)
	if err != nil {
		return "", "", "", fmt.Errorf("generate script: %w", err)
	}

	text, err := w.scripts.Translate(ctx, sc.Text, language)
	if err != nil {
		return "", "", "", fmt.Errorf("translate script: %w", err)
	}

	utterances := script.ParseUtterances(text)
	audioURL, err = w.pipeline.Run(ctx, utterances)
	if err != nil {
		return "", "", "", err
	}

	return audioURL, repo.FullName, sc.Kind, nil
}
