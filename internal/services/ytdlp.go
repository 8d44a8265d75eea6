package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	log "github.com/charmbracelet/log"

	"grabbit/internal/config"
	"grabbit/internal/util"
)

var ytdlpErrorRe = regexp.MustCompile(`(?i)ERROR[:\s]+(.+?)(?:\n|$)`)

// MediaInfo is the metadata probe for a locator.
type MediaInfo struct {
	ID       string
	Title    string
	Uploader string
	Artist   string
	Duration int
	Formats  []FormatInfo
}

type FormatInfo struct {
	Height int
	Ext    string
	VCodec string
}

// AcquireOpts configures one media acquisition run.
type AcquireOpts struct {
	TempDir     string
	FilePrefix  string // per-run unique, derived from user id + message id
	Format      string // yt-dlp -f selector; empty means best
	AudioOnly   bool
	CookiesFile string
}

// AcquireResult is the downloaded artifact plus the metadata needed for a
// caption.
type AcquireResult struct {
	Path     string
	Ext      string
	Title    string
	Uploader string
	Duration int
	Size     int64
}

// YtdlpClient acquires media by shelling out to yt-dlp.
type YtdlpClient struct{}

// Probe fetches metadata for a locator without downloading.
func (YtdlpClient) Probe(ctx context.Context, locator string, cookiesFile string) (*MediaInfo, error) {
	args := append([]string{}, util.CookieArgs(cookiesFile)...)
	args = append(args, "--no-playlist", "-J", locator)

	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, ytdlpError(err, "Failed to fetch video details")
	}

	var raw struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Uploader string `json:"uploader"`
		Artist   string `json:"artist"`
		Duration float64 `json:"duration"`
		Formats  []struct {
			Height int    `json:"height"`
			Ext    string `json:"ext"`
			VCodec string `json:"vcodec"`
		} `json:"formats"`
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse media info")
	}

	// Search locators return a playlist wrapper with one entry.
	if len(raw.Entries) > 0 {
		if err := json.Unmarshal(raw.Entries[0], &raw); err != nil {
			return nil, fmt.Errorf("failed to parse media info")
		}
	}

	info := &MediaInfo{
		ID:       raw.ID,
		Title:    raw.Title,
		Uploader: raw.Uploader,
		Artist:   raw.Artist,
		Duration: int(raw.Duration),
	}
	for _, f := range raw.Formats {
		info.Formats = append(info.Formats, FormatInfo{Height: f.Height, Ext: f.Ext, VCodec: f.VCodec})
	}
	return info, nil
}

// Acquire downloads the media behind a locator into the per-run working file
// and returns its path and caption metadata.
func (c YtdlpClient) Acquire(ctx context.Context, locator string, opts AcquireOpts) (*AcquireResult, error) {
	info, err := c.Probe(ctx, locator, opts.CookiesFile)
	if err != nil {
		return nil, err
	}

	tempFile := filepath.Join(opts.TempDir, opts.FilePrefix+".%(ext)s")

	args := append([]string{}, util.CookieArgs(opts.CookiesFile)...)
	args = append(args, "--no-playlist", "--quiet", "--no-warnings", "-o", tempFile)

	if opts.AudioOnly {
		args = append(args,
			"-f", "bestaudio/best",
			"-x", "--audio-format", "mp3", "--audio-quality", config.AudioQuality+"K",
		)
	} else {
		format := opts.Format
		if format == "" {
			format = "best"
		}
		args = append(args, "-f", format, "--merge-output-format", "mp4")
	}

	args = append(args, locator)

	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := "Download failed"
		if m := ytdlpErrorRe.FindStringSubmatch(stderr.String()); len(m) > 1 {
			errMsg = strings.TrimSpace(m[1])
		}
		return nil, fmt.Errorf("%s", errMsg)
	}

	path, ext, err := findOutputFile(opts.TempDir, opts.FilePrefix)
	if err != nil {
		return nil, err
	}

	size := util.FileSize(path)
	log.Infof("[Acquire] %s complete: %.2fMB", opts.FilePrefix, float64(size)/1024/1024)

	return &AcquireResult{
		Path:     path,
		Ext:      ext,
		Title:    info.Title,
		Uploader: firstNonEmpty(info.Artist, info.Uploader),
		Duration: info.Duration,
		Size:     size,
	}, nil
}

// findOutputFile locates the artifact yt-dlp wrote. The real extension can
// differ from the requested one, so match on the per-run prefix. The match
// requires the "." right after the prefix, otherwise run tik_7_123 would
// claim files from a concurrent run tik_7_1234.
func findOutputFile(dir, prefix string) (string, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("failed to read temp dir: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix+".") {
			continue
		}
		if strings.HasSuffix(name, ".part") || strings.Contains(name, ".part-Frag") ||
			strings.Contains(name, "_compressed") {
			continue
		}
		full := filepath.Join(dir, name)
		ext := strings.TrimPrefix(filepath.Ext(name), ".")
		return full, ext, nil
	}

	return "", "", fmt.Errorf("downloaded file not found")
}

func ytdlpError(err error, fallback string) error {
	if exitErr, ok := err.(*exec.ExitError); ok {
		if m := ytdlpErrorRe.FindStringSubmatch(string(exitErr.Stderr)); len(m) > 1 {
			return fmt.Errorf("%s", strings.TrimSpace(m[1]))
		}
	}
	return fmt.Errorf("%s", fallback)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
