package bot

import (
	"fmt"
	"strings"

	"grabbit/internal/config"
	"grabbit/internal/util"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes untrusted text before it is interpolated into an
// HTML-mode message. Media titles and upstream error strings routinely
// contain angle brackets.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// FormatDuration renders seconds as H:MM:SS, M:SS, or "N/A" for unknown.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "N/A"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSize renders bytes as a human readable MB figure.
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}

// TruncateTitle bounds a media title so captions stay within Telegram's
// caption limit after the rest of the template is added. Truncation is by
// rune so emoji and CJK titles never get cut mid-character.
func TruncateTitle(title string) string {
	truncated := util.TruncateRunes(title, config.MaxCaptionTitle)
	if truncated == title {
		return title
	}
	return truncated + "..."
}

const (
	statusProcessing  = "⏳ Processing your request..."
	statusCompressing = "🗜 File is too large, compressing..."
	statusUploading   = "📤 Uploading..."
)

func usageMessage(command, example string) string {
	return fmt.Sprintf("Usage: /%s &lt;link&gt;\nExample: <code>/%s %s</code>", command, command, example)
}
