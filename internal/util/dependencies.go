package util

import (
	"os/exec"

	log "github.com/charmbracelet/log"
)

// CheckDependencies verifies the external binaries the bot shells out to are
// on PATH. Missing required tools are fatal before the first request can
// hit them.
func CheckDependencies() {
	deps := []struct {
		name     string
		required bool
	}{
		{"yt-dlp", true},
		{"ffmpeg", true},
		{"ffprobe", false},
	}

	for _, dep := range deps {
		path, err := exec.LookPath(dep.name)
		if err != nil {
			if dep.required {
				log.Fatalf("%s not found on PATH (required)", dep.name)
			}
			log.Warnf("%s not found on PATH (optional)", dep.name)
			continue
		}
		log.Infof("Found %s: %s", dep.name, path)
	}
}
