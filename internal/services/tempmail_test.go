package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	var createdAddress string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/domains":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"hydra:member": []map[string]string{{"domain": "tmpmail.test"}},
			})
		case "/accounts":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			createdAddress = creds["address"]
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "1"})
		case "/token":
			json.NewEncoder(w).Encode(map[string]string{"token": "bearer-token"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	account, err := NewTempMailClient(srv.URL).CreateAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, createdAddress, account.Address)
	assert.Contains(t, account.Address, "@tmpmail.test")
	assert.Equal(t, "bearer-token", account.Token)
	assert.Len(t, account.Password, 12)
}

func TestCreateAccountFailsOnAccountConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/domains":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"hydra:member": []map[string]string{{"domain": "tmpmail.test"}},
			})
		case "/accounts":
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
	}))
	defer srv.Close()

	_, err := NewTempMailClient(srv.URL).CreateAccount(context.Background())
	assert.Error(t, err)
}

func TestMessagesSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"hydra:member": []map[string]interface{}{
				{"id": "m1", "from": map[string]string{"address": "noreply@example.com"}, "subject": "Verify"},
			},
		})
	}))
	defer srv.Close()

	messages, err := NewTempMailClient(srv.URL).Messages(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "noreply@example.com", messages[0].From)
	assert.Equal(t, "Verify", messages[0].Subject)
}

func TestExtractOTPsAndLinks(t *testing.T) {
	html := `<html><body>
		<p>Your verification code: 482913</p>
		<a href="https://example.com/verify?t=abc">Verify your email</a>
		<a href="https://example.com/unsubscribe">Unsubscribe</a>
	</body></html>`

	otps, links := ExtractOTPsAndLinks(html)

	assert.Contains(t, otps, "482913")
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/verify?t=abc", links[0].Href)
	assert.Contains(t, links[0].Text, "Verify")
}

func TestExtractOTPsAndLinksEmptyBody(t *testing.T) {
	otps, links := ExtractOTPsAndLinks("")
	assert.Empty(t, otps)
	assert.Empty(t, links)
}

func TestExtractOTPsDeduplicates(t *testing.T) {
	otps, _ := ExtractOTPsAndLinks("<p>123456 and again 123456</p>")
	assert.Equal(t, []string{"123456"}, otps)
}
