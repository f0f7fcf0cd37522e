package synthesis_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gittranslate/gittranslate/internal/synthesis"
)

func TestLMNTClientSynthesize(t *testing.T) {
	t.Parallel()

	wantAudio := []byte("fake-mp3-bytes")

	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write(wantAudio)
	}))
	defer srv.Close()

	client := synthesis.NewLMNTClient(synthesis.LMNTConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})

	audio, err := client.Synthesize(context.Background(), "Hello world.", "brandon")
	require.NoError(t, err)
	assert.Equal(t, wantAudio, audio)

	assert.Equal(t, "/v1/ai/speech/bytes", gotPath)
	assert.Equal(t, "test-key", gotKey)

	assert.Equal(t, "Hello world.", gotBody["text"])
	assert.Equal(t, "brandon", gotBody["voice"])
	assert.Equal(t, "blizzard", gotBody["model"])
	assert.Equal(t, "auto", gotBody["language"])
	assert.Equal(t, "mp3", gotBody["format"])
	assert.EqualValues(t, 24000, gotBody["sample_rate"])
	assert.EqualValues(t, 123, gotBody["seed"])
	assert.EqualValues(t, 0.8, gotBody["top_p"])
	assert.EqualValues(t, 1, gotBody["temperature"])
}

func TestLMNTClientErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"voice not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := synthesis.NewLMNTClient(synthesis.LMNTConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})

	_, err := client.Synthesize(context.Background(), "hi", "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "voice not found")
}

func TestLMNTClientFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mp3", synthesis.NewLMNTClient(synthesis.LMNTConfig{}).Format())
	assert.Equal(t, "wav", synthesis.NewLMNTClient(synthesis.LMNTConfig{Format: "wav"}).Format())
}
