package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTelegraphTestServer(t *testing.T, accountCalls *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/createAccount":
			if accountCalls != nil {
				accountCalls.Add(1)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"ok":     true,
				"result": map[string]string{"access_token": "tg-token"},
			})
		case "/createPage":
			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "tg-token", req["access_token"])
			json.NewEncoder(w).Encode(map[string]interface{}{
				"ok":     true,
				"result": map[string]string{"url": "https://telegra.ph/page-1"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestEnsureAccountOnlyCreatesOnce(t *testing.T) {
	var calls atomic.Int32
	srv := newTelegraphTestServer(t, &calls)
	defer srv.Close()

	client := NewTelegraphClient(srv.URL)
	ctx := context.Background()

	require.NoError(t, client.EnsureAccount(ctx, "grabbit", "grabbit_bot", "https://t.me/grabbit_bot"))
	require.NoError(t, client.EnsureAccount(ctx, "grabbit", "grabbit_bot", "https://t.me/grabbit_bot"))

	assert.Equal(t, int32(1), calls.Load())
}

func TestCreatePage(t *testing.T) {
	srv := newTelegraphTestServer(t, nil)
	defer srv.Close()

	client := NewTelegraphClient(srv.URL)
	ctx := context.Background()
	require.NoError(t, client.EnsureAccount(ctx, "grabbit", "grabbit_bot", ""))

	url, err := client.CreatePage(ctx, "A paste", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "https://telegra.ph/page-1", url)
}

func TestCreatePageWithoutAccount(t *testing.T) {
	client := NewTelegraphClient("http://unused.test")
	_, err := client.CreatePage(context.Background(), "title", "text")
	assert.ErrorContains(t, err, "not initialized")
}

func TestDoJSONPropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "SHORT_NAME_REQUIRED"})
	}))
	defer srv.Close()

	client := NewTelegraphClient(srv.URL)
	err := client.EnsureAccount(context.Background(), "", "", "")
	assert.ErrorContains(t, err, "SHORT_NAME_REQUIRED")
}
