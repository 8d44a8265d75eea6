package bot

import (
	"context"

	"grabbit/internal/config"
)

// Platform describes one download command. The workflow itself is shared;
// everything platform specific lives here.
type Platform struct {
	Command string
	Name    string
	Icon    string

	// Format is the yt-dlp selector for video platforms. AudioOnly switches
	// the acquisition to mp3 extraction instead.
	Format    string
	AudioOnly bool

	CookiesFile string

	// Search marks commands whose arguments form a search query rather than
	// a URL. Resolve, when set, turns the argument into a locator first
	// (Spotify links resolve to a YouTube search).
	Search  bool
	Resolve func(ctx context.Context, arg string) (locator, title string, err error)

	UsageExample string
}

const defaultVideoFormat = "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

func downloadPlatforms() []Platform {
	return []Platform{
		{
			Command: "fb", Name: "Facebook", Icon: "📘",
			Format:       defaultVideoFormat,
			UsageExample: "https://www.facebook.com/watch?v=123456",
		},
		{
			Command: "ig", Name: "Instagram", Icon: "📸",
			Format:       defaultVideoFormat,
			CookiesFile:  config.CookiesFile,
			UsageExample: "https://www.instagram.com/reel/abc123/",
		},
		{
			Command: "x", Name: "Twitter", Icon: "🐦",
			Format:       defaultVideoFormat,
			UsageExample: "https://x.com/user/status/123456",
		},
		{
			Command: "tik", Name: "TikTok", Icon: "🎵",
			Format:       defaultVideoFormat,
			UsageExample: "https://www.tiktok.com/@user/video/123456",
		},
		{
			Command: "pn", Name: "Pinterest", Icon: "📌",
			Format:       defaultVideoFormat,
			UsageExample: "https://pin.it/abc123",
		},
		{
			Command: "tdl", Name: "Threads", Icon: "🧵",
			Format:       defaultVideoFormat,
			UsageExample: "https://www.threads.net/@user/post/abc123",
		},
		{
			Command: "song", Name: "Song", Icon: "🎧",
			AudioOnly: true, Search: true,
			UsageExample: "shape of you",
		},
	}
}
