package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var pageTitleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// SpotifyResolver turns a Spotify track URL into a search locator by
// scraping the track title from the share page. The actual audio comes from
// a YouTube search, Spotify itself only supplies the name.
type SpotifyResolver struct {
	client *http.Client
}

func NewSpotifyResolver() *SpotifyResolver {
	return &SpotifyResolver{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *SpotifyResolver) Resolve(ctx context.Context, trackURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("spotify returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", err
	}

	m := pageTitleRe.FindStringSubmatch(string(body))
	if len(m) < 2 {
		return "", "", fmt.Errorf("could not find the track title on the page")
	}

	title := strings.TrimSpace(strings.ReplaceAll(m[1], "| Spotify", ""))
	if title == "" {
		return "", "", fmt.Errorf("could not find the track title on the page")
	}

	return fmt.Sprintf("ytsearch1:%s official audio", title), title, nil
}
