package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gittranslate/gittranslate/internal/api/handlers"
	"github.com/gittranslate/gittranslate/internal/api/middleware"
	"github.com/gittranslate/gittranslate/internal/cache"
	"github.com/gittranslate/gittranslate/internal/conductor"
	"github.com/gittranslate/gittranslate/internal/config"
	"github.com/gittranslate/gittranslate/internal/podcast"
	"github.com/gittranslate/gittranslate/internal/queue"
)

// Router assembles the public gateway: podcast trigger/poll endpoints in
// front of either the Conductor proxy or the local worker pipeline.
type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Pick the pipeline backing for this deployment.
	var launcher handlers.Launcher
	if rt.cfg.Pipeline.Mode == "conductor" {
		var statusCache *cache.Cache
		if rt.redis != nil {
			statusCache = cache.NewCache(rt.redis)
		}
		launcher = conductor.NewLauncher(conductor.NewClient(rt.cfg.Conductor), statusCache)
	} else {
		podcastSvc := podcast.NewService(rt.db)
		launcher = podcast.NewLauncher(podcastSvc, queue.NewClient(rt.cfg.Redis))
	}

	podcastH := handlers.NewPodcastHandler(launcher)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/podcasts", func(r chi.Router) {
			r.Post("/", podcastH.Generate)
			r.Get("/{id}", podcastH.Status)
		})
	})

	return r
}
