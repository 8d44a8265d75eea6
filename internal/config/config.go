package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/charmbracelet/log"
)

var Version = "dev"

var (
	BotToken string
	Port     string

	TempDir string

	// SizeCeiling is the hard upload limit for delivered artifacts.
	// CompressTarget is what the transcode planner aims for, kept below the
	// ceiling to absorb encoder variance.
	SizeCeiling    int64
	CompressTarget int64

	SessionStore string
	RedisAddr    string
	SessionTTL   time.Duration

	StableHordeAPIKey string
	MailTmURL         string
	TelegraphURL      string
	StableHordeURL    string

	TelegraphShortName string
)

const (
	FileRetention   = 20 * time.Minute
	MaxURLLength    = 2048
	MaxCaptionTitle = 250

	// AudioQuality is the mp3 extraction bitrate handed to yt-dlp, in kbps.
	AudioQuality = "192"
)

var (
	CookiesFile        = filepath.Join(".", "cookies.txt")
	YouTubeCookiesFile = filepath.Join(".", "youtube-cookies.txt")
)

func Load() {
	BotToken = os.Getenv("BOT_TOKEN")
	if BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	Port = envOrDefault("PORT", "3002")
	TempDir = envOrDefault("GRABBIT_TEMP_DIR", "/var/tmp/grabbit")

	ceilingMB, _ := strconv.Atoi(envOrDefault("MAX_UPLOAD_MB", "50"))
	if ceilingMB < 1 {
		ceilingMB = 50
	}
	SizeCeiling = int64(ceilingMB) * 1024 * 1024

	targetMB, _ := strconv.Atoi(envOrDefault("COMPRESS_TARGET_MB", "48"))
	if targetMB < 1 || int64(targetMB)*1024*1024 > SizeCeiling {
		targetMB = ceilingMB - 2
	}
	CompressTarget = int64(targetMB) * 1024 * 1024

	SessionStore = envOrDefault("SESSION_STORE", "memory")
	RedisAddr = envOrDefault("REDIS_ADDR", "localhost:6379")

	ttlHours, _ := strconv.Atoi(envOrDefault("SESSION_TTL_HOURS", "24"))
	if ttlHours < 1 {
		ttlHours = 24
	}
	SessionTTL = time.Duration(ttlHours) * time.Hour

	StableHordeAPIKey = envOrDefault("STABLE_HORDE_API_KEY", "0000000000")
	MailTmURL = envOrDefault("MAILTM_API_URL", "https://api.mail.tm")
	TelegraphURL = envOrDefault("TELEGRAPH_API_URL", "https://api.telegra.ph")
	StableHordeURL = envOrDefault("STABLE_HORDE_API_URL", "https://stablehorde.net")

	TelegraphShortName = envOrDefault("TELEGRAPH_SHORT_NAME", "grabbit")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
