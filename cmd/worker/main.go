package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/gittranslate/gittranslate/internal/config"
	"github.com/gittranslate/gittranslate/internal/database"
	"github.com/gittranslate/gittranslate/internal/gitrepo"
	"github.com/gittranslate/gittranslate/internal/llm"
	"github.com/gittranslate/gittranslate/internal/podcast"
	"github.com/gittranslate/gittranslate/internal/queue"
	"github.com/gittranslate/gittranslate/internal/queue/workers"
	"github.com/gittranslate/gittranslate/internal/script"
	"github.com/gittranslate/gittranslate/internal/storage"
	"github.com/gittranslate/gittranslate/internal/synthesis"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := storage.NewS3Storage(storage.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    true,
	})
	if err != nil {
		slog.Error("failed to create storage client", "error", err)
		os.Exit(1)
	}

	gw := llm.NewGateway(cfg.LLM)
	scripts := script.NewService(gw, cfg.LLM.DefaultModel)
	fetcher := gitrepo.NewFetcher(cfg.GitHub.Token)

	synth := synthesis.NewLMNTClient(synthesis.LMNTConfig{
		APIKey:     cfg.TTS.APIKey,
		BaseURL:    cfg.TTS.BaseURL,
		Model:      cfg.TTS.Model,
		Format:     cfg.TTS.Format,
		SampleRate: cfg.TTS.SampleRate,
		Seed:       cfg.TTS.Seed,
		Timeout:    cfg.TTSTimeout(),
	})
	pipeline := synthesis.NewPipeline(synth, store, cfg.Storage.Bucket, synthesis.VoicePair{
		Host:   cfg.TTS.HostVoice,
		Expert: cfg.TTS.ExpertVoice,
	})

	podcastSvc := podcast.NewService(db)
	podcastWorker := workers.NewPodcastWorker(podcastSvc, fetcher, scripts, pipeline)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()
	registry.Register(queue.TypePodcastGenerate, asynq.HandlerFunc(podcastWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 4)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
