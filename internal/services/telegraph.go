package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// TelegraphClient publishes text pastes as telegra.ph pages. The publishing
// account is created once via EnsureAccount, not lazily per request.
type TelegraphClient struct {
	baseURL string
	client  *http.Client

	mu          sync.RWMutex
	accessToken string
}

func NewTelegraphClient(baseURL string) *TelegraphClient {
	return &TelegraphClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *TelegraphClient) doJSON(ctx context.Context, path string, body interface{}, result interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegraph returned HTTP %d", resp.StatusCode)
	}

	var envelope struct {
		OK     bool            `json:"ok"`
		Error  string          `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to parse telegraph response")
	}
	if !envelope.OK {
		return fmt.Errorf("telegraph error: %s", envelope.Error)
	}
	return json.Unmarshal(envelope.Result, result)
}

// EnsureAccount creates the publishing account if one has not been created
// yet. Safe to call more than once; only the first call hits the API.
func (c *TelegraphClient) EnsureAccount(ctx context.Context, shortName, authorName, authorURL string) error {
	c.mu.RLock()
	have := c.accessToken != ""
	c.mu.RUnlock()
	if have {
		return nil
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	err := c.doJSON(ctx, "/createAccount", map[string]string{
		"short_name":  shortName,
		"author_name": authorName,
		"author_url":  authorURL,
	}, &result)
	if err != nil {
		return err
	}
	if result.AccessToken == "" {
		return fmt.Errorf("telegraph returned empty access token")
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.mu.Unlock()
	return nil
}

// CreatePage publishes text as a preformatted page and returns its URL.
func (c *TelegraphClient) CreatePage(ctx context.Context, title, text string) (string, error) {
	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()
	if token == "" {
		return "", fmt.Errorf("telegraph account not initialized")
	}

	content := []map[string]interface{}{
		{"tag": "pre", "children": []string{text}},
	}

	var result struct {
		URL string `json:"url"`
	}
	err := c.doJSON(ctx, "/createPage", map[string]interface{}{
		"access_token": token,
		"title":        title,
		"content":      content,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.URL == "" {
		return "", fmt.Errorf("telegraph returned empty page url")
	}
	return result.URL, nil
}
