package conductor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gittranslate/gittranslate/internal/conductor"
	"github.com/gittranslate/gittranslate/internal/config"
	"github.com/gittranslate/gittranslate/internal/models"
)

// fakeConductor mimics the three Orkes endpoints the client touches.
type fakeConductor struct {
	tokenCalls int32
	status     conductor.WorkflowStatus
}

func (f *fakeConductor) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "key-id", creds["keyId"])
		assert.Equal(t, "key-secret", creds["keySecret"])
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})

	mux.HandleFunc("POST /api/workflow", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-123", r.Header.Get("x-authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "GitTranslate_v3", body["name"])
		// Conductor answers with the bare workflow id, not JSON.
		w.Write([]byte("wf-42\n"))
	})

	mux.HandleFunc("GET /api/workflow/wf-42", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-123", r.Header.Get("x-authorization"))
		assert.Equal(t, "true", r.URL.Query().Get("summarize"))
		json.NewEncoder(w).Encode(f.status)
	})

	return httptest.NewServer(mux)
}

func newClient(baseURL string) *conductor.Client {
	return conductor.NewClient(config.ConductorConfig{
		BaseURL:         baseURL,
		KeyID:           "key-id",
		KeySecret:       "key-secret",
		WorkflowName:    "GitTranslate_v3",
		WorkflowVersion: 1,
	})
}

func TestClientStartAndPoll(t *testing.T) {
	t.Parallel()

	fake := &fakeConductor{
		status: conductor.WorkflowStatus{
			Status: conductor.StatusRunning,
		},
	}
	srv := fake.server(t)
	defer srv.Close()

	client := newClient(srv.URL)
	ctx := context.Background()

	id, err := client.StartWorkflow(ctx, map[string]any{"github_url": "https://github.com/golang/go"})
	require.NoError(t, err)
	assert.Equal(t, "wf-42", id)

	wf, err := client.GetWorkflow(ctx, "wf-42")
	require.NoError(t, err)
	assert.Equal(t, conductor.StatusRunning, wf.Status)
	assert.Equal(t, "wf-42", wf.WorkflowID)
	assert.False(t, wf.Done())

	// One token exchange serves both calls.
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.tokenCalls))
}

func TestClientTokenFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newClient(srv.URL)
	_, err := client.StartWorkflow(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestWorkflowStatusDone(t *testing.T) {
	t.Parallel()

	for status, done := range map[string]bool{
		conductor.StatusRunning:    false,
		conductor.StatusPaused:     false,
		conductor.StatusCompleted:  true,
		conductor.StatusFailed:     true,
		conductor.StatusTerminated: true,
	} {
		wf := &conductor.WorkflowStatus{Status: status}
		assert.Equal(t, done, wf.Done(), status)
	}
}

func TestLauncherStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		workflow   conductor.WorkflowStatus
		wantStatus string
		wantURL    string
		wantError  string
		wantErr    bool
	}{
		{
			name:       "running maps to processing",
			workflow:   conductor.WorkflowStatus{Status: conductor.StatusRunning},
			wantStatus: models.PodcastStatusProcessing,
		},
		{
			name: "completed with audio_url",
			workflow: conductor.WorkflowStatus{
				Status: conductor.StatusCompleted,
				Output: map[string]any{"audio_url": "https://github-podcasts.s3.amazonaws.com/x.wav"},
			},
			wantStatus: models.PodcastStatusCompleted,
			wantURL:    "https://github-podcasts.s3.amazonaws.com/x.wav",
		},
		{
			name: "completed with legacy data key",
			workflow: conductor.WorkflowStatus{
				Status: conductor.StatusCompleted,
				Output: map[string]any{"data": "https://github-podcasts.s3.amazonaws.com/y.wav"},
			},
			wantStatus: models.PodcastStatusCompleted,
			wantURL:    "https://github-podcasts.s3.amazonaws.com/y.wav",
		},
		{
			name:     "completed without URL is an error",
			workflow: conductor.WorkflowStatus{Status: conductor.StatusCompleted, Output: map[string]any{}},
			wantErr:  true,
		},
		{
			name: "failed carries the reason",
			workflow: conductor.WorkflowStatus{
				Status: conductor.StatusFailed,
				Output: map[string]any{"reason": "clone timed out"},
			},
			wantStatus: models.PodcastStatusFailed,
			wantError:  "clone timed out",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeConductor{status: tt.workflow}
			srv := fake.server(t)
			defer srv.Close()

			launcher := conductor.NewLauncher(newClient(srv.URL), nil)
			status, err := launcher.Status(context.Background(), "wf-42")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantURL, status.AudioURL)
			assert.Equal(t, tt.wantError, status.Error)
		})
	}
}
