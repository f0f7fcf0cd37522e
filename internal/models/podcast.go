package models

import (
	"time"

	"github.com/google/uuid"
)

// Podcast is one generation job: a repository URL in, an audio URL out.
type Podcast struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	RepoURL     string     `json:"repo_url" db:"repo_url"`
	RepoName    string     `json:"repo_name,omitempty" db:"repo_name"`
	Language    string     `json:"language" db:"language"`
	Status      string     `json:"status" db:"status"`
	ScriptKind  string     `json:"script_kind,omitempty" db:"script_kind"`
	AudioURL    string     `json:"audio_url,omitempty" db:"audio_url"`
	Error       string     `json:"error,omitempty" db:"error"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

const (
	PodcastStatusPending    = "pending"
	PodcastStatusProcessing = "processing"
	PodcastStatusCompleted  = "completed"
	PodcastStatusFailed     = "failed"
)

// JobStatus is the poll response shape shared by both pipeline modes.
type JobStatus struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	AudioURL string `json:"audio_url,omitempty"`
	Error    string `json:"error,omitempty"`
}
