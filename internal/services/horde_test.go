package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePollsUntilDone(t *testing.T) {
	var checks atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, hordeClientAgent, r.Header.Get("Client-Agent"))
		switch r.URL.Path {
		case "/api/v2/generate/async":
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
		case "/api/v2/generate/check/job-1":
			done := checks.Add(1) >= 3
			json.NewEncoder(w).Encode(map[string]bool{"done": done})
		case "/api/v2/generate/status/job-1":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"generations": []map[string]string{{"img": "https://img.test/out.webp"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewHordeClient(srv.URL, "0000000000")
	client.PollInterval = time.Millisecond

	url, err := client.Generate(context.Background(), "a castle in the clouds")
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/out.webp", url)
	assert.GreaterOrEqual(t, checks.Load(), int32(3))
}

func TestGenerateFaultedJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/generate/async":
			json.NewEncoder(w).Encode(map[string]string{"id": "job-2"})
		case "/api/v2/generate/check/job-2":
			json.NewEncoder(w).Encode(map[string]bool{"done": false, "faulted": true})
		}
	}))
	defer srv.Close()

	client := NewHordeClient(srv.URL, "0000000000")
	client.PollInterval = time.Millisecond

	_, err := client.Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "faulted")
}

func TestGenerateSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewHordeClient(srv.URL, "bad-key")
	client.PollInterval = time.Millisecond

	_, err := client.Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "HTTP 403")
}
