package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const hordeClientAgent = "grabbit:1.0:grabbit"

// HordeClient generates images through the Stable Horde crowdsourced API.
// Generation is asynchronous: submit a job, poll until done, fetch results.
type HordeClient struct {
	baseURL string
	apiKey  string
	client  *http.Client

	// PollInterval is overridable so tests don't sleep for real.
	PollInterval time.Duration
	MaxPolls     int
}

func NewHordeClient(baseURL, apiKey string) *HordeClient {
	return &HordeClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 30 * time.Second},
		PollInterval: 10 * time.Second,
		MaxPolls:     60,
	}
}

func (c *HordeClient) doJSON(ctx context.Context, method, path string, body interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Client-Agent", hordeClientAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return data, resp.StatusCode, err
}

// Generate submits a prompt, waits for the horde to finish, and returns the
// generated image URL.
func (c *HordeClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"prompt": prompt,
		"params": map[string]interface{}{"n": 1, "width": 512, "height": 512},
		"models": []string{"Anything V5"},
	}

	data, status, err := c.doJSON(ctx, http.MethodPost, "/api/v2/generate/async", payload)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("failed to submit request: HTTP %d", status)
	}

	var submit struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &submit); err != nil || submit.ID == "" {
		return "", fmt.Errorf("could not get a job id from the horde")
	}

	if err := c.waitForJob(ctx, submit.ID); err != nil {
		return "", err
	}

	data, status, err = c.doJSON(ctx, http.MethodGet, "/api/v2/generate/status/"+submit.ID, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("failed to fetch result: HTTP %d", status)
	}

	var final struct {
		Generations []struct {
			Img string `json:"img"`
		} `json:"generations"`
		Faulted bool `json:"faulted"`
	}
	if err := json.Unmarshal(data, &final); err != nil {
		return "", fmt.Errorf("failed to parse result")
	}
	if final.Faulted || len(final.Generations) == 0 {
		return "", fmt.Errorf("the horde could not generate an image")
	}
	return final.Generations[0].Img, nil
}

func (c *HordeClient) waitForJob(ctx context.Context, id string) error {
	for attempt := 0; attempt < c.MaxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.PollInterval):
		}

		data, status, err := c.doJSON(ctx, http.MethodGet, "/api/v2/generate/check/"+id, nil)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("status check failed: HTTP %d", status)
		}

		var check struct {
			Done    bool `json:"done"`
			Faulted bool `json:"faulted"`
		}
		if err := json.Unmarshal(data, &check); err != nil {
			return fmt.Errorf("failed to parse status")
		}
		if check.Faulted {
			return fmt.Errorf("job faulted")
		}
		if check.Done {
			return nil
		}
	}
	return fmt.Errorf("timed out waiting for image generation")
}
