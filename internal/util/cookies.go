package util

import "os"

// CookieArgs returns yt-dlp cookie arguments when the given cookie file
// exists, nil otherwise. Platforms that need authenticated extraction point
// at their own file.
func CookieArgs(cookiesFile string) []string {
	if cookiesFile == "" {
		return nil
	}
	if _, err := os.Stat(cookiesFile); err != nil {
		return nil
	}
	return []string{"--cookies", cookiesFile}
}
