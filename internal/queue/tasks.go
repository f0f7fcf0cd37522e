package queue

// Task types handled by cmd/worker.
const (
	TypePodcastGenerate = "podcast:generate"
)

// PodcastGeneratePayload identifies the podcast record a worker should
// generate audio for. All other inputs live on the record itself.
type PodcastGeneratePayload struct {
	PodcastID string `json:"podcast_id"`
}
