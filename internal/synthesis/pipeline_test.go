package synthesis_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gittranslate/gittranslate/internal/audio"
	"github.com/gittranslate/gittranslate/internal/synthesis"
)

const testSampleRate = 24000

// wavClip builds a short mono clip where every sample carries the given
// value, so segment order survives a decode round-trip and can be asserted.
func wavClip(t *testing.T, value, samples int) []byte {
	t.Helper()
	data := make([]int, samples)
	for i := range data {
		data[i] = value
	}
	encoded, err := audio.EncodeWAV(&audio.Clip{
		Samples:     data,
		NumChannels: 1,
		SampleRate:  testSampleRate,
		BitDepth:    16,
	})
	require.NoError(t, err)
	return encoded
}

// fakeSynth maps utterance text to canned clips, optionally delaying some
// utterances to force out-of-order completion.
type fakeSynth struct {
	clips  map[string][]byte
	delays map[string]time.Duration
	fail   map[string]error

	mu     sync.Mutex
	calls  int32
	voices []string
}

func (f *fakeSynth) Format() string { return "wav" }

func (f *fakeSynth) Synthesize(_ context.Context, text, voice string) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.voices = append(f.voices, voice)
	f.mu.Unlock()

	if d, ok := f.delays[text]; ok {
		time.Sleep(d)
	}
	if err, ok := f.fail[text]; ok {
		return nil, err
	}
	clip, ok := f.clips[text]
	if !ok {
		return nil, fmt.Errorf("no clip for %q", text)
	}
	return clip, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, bucket, key string, data io.Reader, _ int64, _ string) error {
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.uploads[bucket+"/"+key] = b
	f.mu.Unlock()
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	delete(f.uploads, bucket+"/"+key)
	f.mu.Unlock()
	return nil
}

func (f *fakeStorage) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}

func (f *fakeStorage) only(t *testing.T) []byte {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.uploads, 1)
	for _, b := range f.uploads {
		return b
	}
	return nil
}

// segmentValues decodes a merged track and collapses runs of identical
// samples into the sequence of clip marker values.
func segmentValues(t *testing.T, track []byte) []int {
	t.Helper()
	clip, err := audio.Decode(track, "wav")
	require.NoError(t, err)

	var segments []int
	for _, s := range clip.Samples {
		if len(segments) == 0 || segments[len(segments)-1] != s {
			segments = append(segments, s)
		}
	}
	return segments
}

func TestPipelineEmptyInput(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{}
	store := newFakeStorage()
	p := synthesis.NewPipeline(synth, store, "github-podcasts", synthesis.DefaultVoices)

	_, err := p.Run(context.Background(), nil)
	require.ErrorIs(t, err, synthesis.ErrNoUtterances)
	assert.Zero(t, atomic.LoadInt32(&synth.calls), "no network calls for empty input")
	assert.Empty(t, store.uploads)
}

func TestPipelineOrderPreservation(t *testing.T) {
	t.Parallel()

	// B completes before A and C; the merged track must still read A, B, C.
	synth := &fakeSynth{
		clips: map[string][]byte{
			"A": wavClip(t, 100, 50),
			"B": wavClip(t, 200, 50),
			"C": wavClip(t, 300, 50),
		},
		delays: map[string]time.Duration{
			"A": 40 * time.Millisecond,
			"C": 20 * time.Millisecond,
		},
	}
	store := newFakeStorage()
	p := synthesis.NewPipeline(synth, store, "github-podcasts", synthesis.DefaultVoices)

	url, err := p.Run(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	require.NotEmpty(t, url)

	assert.Equal(t, []int{100, 200, 300}, segmentValues(t, store.only(t)))
}

func TestPipelineAtomicFailure(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{
		clips: map[string][]byte{
			"u0": wavClip(t, 1, 10),
			"u1": wavClip(t, 2, 10),
			"u3": wavClip(t, 4, 10),
			"u4": wavClip(t, 5, 10),
		},
		fail: map[string]error{
			"u2": errors.New("service unavailable"),
		},
	}
	store := newFakeStorage()
	p := synthesis.NewPipeline(synth, store, "github-podcasts", synthesis.DefaultVoices)

	_, err := p.Run(context.Background(), []string{"u0", "u1", "u2", "u3", "u4"})
	require.Error(t, err)

	var synthErr *synthesis.SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, 2, synthErr.Index)
	assert.Empty(t, store.uploads, "no upload after a failed fan-out")
}

func TestPipelineDecodeFailure(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{
		clips: map[string][]byte{
			"good": wavClip(t, 1, 10),
			"bad":  []byte("definitely not audio"),
		},
	}
	store := newFakeStorage()
	p := synthesis.NewPipeline(synth, store, "github-podcasts", synthesis.DefaultVoices)

	_, err := p.Run(context.Background(), []string{"good", "bad"})
	require.Error(t, err)

	var decodeErr *synthesis.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 1, decodeErr.Index)
	assert.Empty(t, store.uploads)
}

func TestPipelineUploadFailureIsDistinct(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{
		clips: map[string][]byte{
			"hello": wavClip(t, 7, 10),
		},
	}
	store := newFakeStorage()
	store.err = errors.New("bucket gone")
	p := synthesis.NewPipeline(synth, store, "github-podcasts", synthesis.DefaultVoices)

	_, err := p.Run(context.Background(), []string{"hello"})
	require.Error(t, err)

	var uploadErr *synthesis.UploadError
	require.ErrorAs(t, err, &uploadErr)

	var synthErr *synthesis.SynthesisError
	assert.False(t, errors.As(err, &synthErr))
	var decodeErr *synthesis.DecodeError
	assert.False(t, errors.As(err, &decodeErr))
}

func TestPipelineEndToEnd(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{
		clips: map[string][]byte{
			"Hello there.":      wavClip(t, 1000, 30),
			"Indeed, it works.": wavClip(t, 2000, 30),
		},
	}
	store := newFakeStorage()
	p := synthesis.NewPipeline(synth, store, "github-podcasts", synthesis.DefaultVoices)

	url, err := p.Run(context.Background(), []string{"Hello there.", "Indeed, it works."})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&synth.calls))
	assert.ElementsMatch(t, []string{"brandon", "juniper"}, synth.voices)

	assert.True(t, strings.HasPrefix(url, "https://github-podcasts.s3.amazonaws.com/"), url)
	assert.True(t, strings.HasSuffix(url, ".wav"), url)

	assert.Equal(t, []int{1000, 2000}, segmentValues(t, store.only(t)))
}
