package synthesis

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gittranslate/gittranslate/internal/audio"
	"github.com/gittranslate/gittranslate/internal/storage"
)

// Pipeline turns an ordered script into a single published audio track:
// one concurrent synthesis call per utterance, ordered merge of the clips,
// then upload to the object store.
type Pipeline struct {
	synth  Synthesizer
	store  storage.Storage
	bucket string
	voices VoicePair
}

// NewPipeline wires a synthesis backend and an object store into a pipeline
// publishing to the given bucket.
func NewPipeline(synth Synthesizer, store storage.Storage, bucket string, voices VoicePair) *Pipeline {
	if voices.Host == "" || voices.Expert == "" {
		voices = DefaultVoices
	}
	return &Pipeline{
		synth:  synth,
		store:  store,
		bucket: bucket,
		voices: voices,
	}
}

// Run synthesizes every utterance, merges the clips in input order, uploads
// the merged track, and returns its public URL.
//
// All synthesis requests are issued concurrently. Results are gathered into
// per-index slots, so the merged track always follows the input order no
// matter when each request completes. Any single failure aborts the whole
// batch: no partial merge, no upload.
func (p *Pipeline) Run(ctx context.Context, utterances []string) (string, error) {
	if len(utterances) == 0 {
		return "", ErrNoUtterances
	}

	results := make([][]byte, len(utterances))

	// Plain errgroup, not WithContext: once the fan-out is issued, every
	// request runs to completion or failure on its own timeout. Wait
	// reports the first failure.
	var g errgroup.Group
	for i, text := range utterances {
		voice := p.voices.Voice(i)
		g.Go(func() error {
			data, err := p.synth.Synthesize(ctx, text, voice)
			if err != nil {
				return &SynthesisError{Index: i, Err: err}
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	format := p.synth.Format()
	clips := make([]*audio.Clip, len(results))
	for i, data := range results {
		clip, err := audio.Decode(data, format)
		if err != nil {
			return "", &DecodeError{Index: i, Err: err}
		}
		clips[i] = clip
	}

	merged, err := audio.Concat(clips)
	if err != nil {
		return "", &DecodeError{Index: 0, Err: err}
	}

	track, err := audio.EncodeWAV(merged)
	if err != nil {
		return "", &DecodeError{Index: 0, Err: err}
	}

	key := uuid.New().String() + ".wav"
	if err := p.store.Upload(ctx, p.bucket, key, bytes.NewReader(track), int64(len(track)), "audio/wav"); err != nil {
		return "", &UploadError{Err: err}
	}

	url := p.store.PublicURL(p.bucket, key)
	slog.Info("published merged track",
		"utterances", len(utterances),
		"duration_s", merged.Duration(),
		"bytes", len(track),
		"url", url,
	)
	return url, nil
}
