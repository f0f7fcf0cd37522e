package podcast

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gittranslate/gittranslate/internal/models"
)

// Service persists podcast generation jobs for the local pipeline mode.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

const podcastColumns = `id, repo_url, repo_name, language, status, script_kind, audio_url, error, created_at, completed_at`

func scanPodcast(row interface{ Scan(...any) error }) (*models.Podcast, error) {
	var p models.Podcast
	err := row.Scan(&p.ID, &p.RepoURL, &p.RepoName, &p.Language, &p.Status,
		&p.ScriptKind, &p.AudioURL, &p.Error, &p.CreatedAt, &p.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, repoURL, language string) (*models.Podcast, error) {
	id := uuid.New()
	row := s.db.QueryRow(ctx,
		`INSERT INTO podcasts (id, repo_url, language, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+podcastColumns,
		id, repoURL, language, models.PodcastStatusPending,
	)
	p, err := scanPodcast(row)
	if err != nil {
		return nil, fmt.Errorf("insert podcast: %w", err)
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Podcast, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+podcastColumns+` FROM podcasts WHERE id = $1`, id)
	p, err := scanPodcast(row)
	if err != nil {
		return nil, fmt.Errorf("get podcast: %w", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Podcast, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+podcastColumns+` FROM podcasts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list podcasts: %w", err)
	}
	defer rows.Close()

	var podcasts []models.Podcast
	for rows.Next() {
		p, err := scanPodcast(rows)
		if err != nil {
			return nil, fmt.Errorf("scan podcast: %w", err)
		}
		podcasts = append(podcasts, *p)
	}
	return podcasts, rows.Err()
}

func (s *Service) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return s.updateStatus(ctx, id, models.PodcastStatusProcessing)
}

func (s *Service) MarkCompleted(ctx context.Context, id uuid.UUID, repoName, scriptKind, audioURL string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE podcasts
		 SET status = $2, repo_name = $3, script_kind = $4, audio_url = $5, completed_at = now()
		 WHERE id = $1`,
		id, models.PodcastStatusCompleted, repoName, scriptKind, audioURL,
	)
	if err != nil {
		return fmt.Errorf("mark podcast completed: %w", err)
	}
	return nil
}

func (s *Service) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE podcasts SET status = $2, error = $3, completed_at = now() WHERE id = $1`,
		id, models.PodcastStatusFailed, message,
	)
	if err != nil {
		return fmt.Errorf("mark podcast failed: %w", err)
	}
	return nil
}

func (s *Service) updateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.db.Exec(ctx, `UPDATE podcasts SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update podcast status: %w", err)
	}
	return nil
}
