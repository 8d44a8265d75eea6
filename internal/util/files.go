package util

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/charmbracelet/log"

	"grabbit/internal/config"
)

var unsafeFilenameRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
var multiSpaceRe = regexp.MustCompile(`\s+`)

func ClearTempDir() {
	dir := config.TempDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		os.MkdirAll(dir, 0755)
		return
	}
	for _, e := range entries {
		os.RemoveAll(filepath.Join(dir, e.Name()))
	}
	log.Info("Cleared temp directory", "dir", dir)
}

// CleanupFiles removes working files, ignoring ones that never got created.
// Every workflow exit path calls this, so absence is the common case.
func CleanupFiles(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warnf("[Cleanup] Failed to remove %s: %v", filepath.Base(p), err)
		}
	}
}

// CleanupTempFiles sweeps anything in the temp dir older than the retention
// window, catching files orphaned by crashes mid-run.
func CleanupTempFiles() {
	now := time.Now()
	entries, err := os.ReadDir(config.TempDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > config.FileRetention {
			os.RemoveAll(filepath.Join(config.TempDir, e.Name()))
			log.Infof("[Cleanup] Removed old temp: %s", e.Name())
		}
	}
}

func StartCleanupInterval() {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		for range ticker.C {
			CleanupTempFiles()
		}
	}()
}

func SanitizeFilename(filename string) string {
	s := unsafeFilenameRe.ReplaceAllString(filename, "_")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return TruncateRunes(s, 200)
}

// TruncateRunes bounds s to at most n runes. Slicing by bytes would split a
// multi-byte sequence and produce invalid UTF-8, which the Bot API rejects.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// FileSize returns the size of a file, or 0 when it cannot be measured.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
