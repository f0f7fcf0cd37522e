package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gittranslate/gittranslate/internal/gitrepo"
	"github.com/gittranslate/gittranslate/internal/models"
)

// Launcher starts a podcast generation run and reports its progress. The
// conductor-backed and worker-backed pipelines both satisfy it.
type Launcher interface {
	Start(ctx context.Context, repoURL, language string) (string, error)
	Status(ctx context.Context, id string) (*models.JobStatus, error)
}

type PodcastHandler struct {
	launcher Launcher
}

func NewPodcastHandler(launcher Launcher) *PodcastHandler {
	return &PodcastHandler{launcher: launcher}
}

type generateRequest struct {
	RepoURL  string `json:"repo_url"`
	Language string `json:"language"`
}

type generateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Generate kicks off podcast generation for a repository and returns the
// job ID to poll.
func (h *PodcastHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, _, err := gitrepo.ParseRepoURL(req.RepoURL); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Language == "" {
		req.Language = "english"
	}

	id, err := h.launcher.Start(r.Context(), req.RepoURL, req.Language)
	if err != nil {
		slog.Error("failed to start podcast generation", "repo_url", req.RepoURL, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	slog.Info("podcast generation started", "id", id, "repo_url", req.RepoURL, "language", req.Language)
	writeJSON(w, http.StatusAccepted, generateResponse{ID: id, Status: models.PodcastStatusPending})
}

// Status reports the current state of a generation run, including the audio
// URL once it completes.
func (h *PodcastHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id required"})
		return
	}

	status, err := h.launcher.Status(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, status)
}
