package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	log "github.com/charmbracelet/log"
)

var (
	ErrTranscodeFailed = errors.New("transcode failed")

	// ErrCompressionInsufficient means the encode succeeded but the output
	// still exceeds the size ceiling. The planner is single pass: it never
	// retries with a tighter bitrate.
	ErrCompressionInsufficient = errors.New("compressed output still exceeds size limit")
)

const (
	nominalAudioKbps = 128
	reducedAudioKbps = 64
	minVideoKbps     = 100
)

// TranscodePlan holds the target bitrates derived from a duration and a size
// ceiling.
type TranscodePlan struct {
	VideoKbps int
	AudioKbps int
}

// PlanTranscode derives bitrates that should land a re-encode under
// targetBytes. Non-positive durations are treated as one second, accepting a
// degenerate over-constrained plan over a division by zero. When the video
// share falls below the floor, video is clamped up and audio cut down:
// visual fidelity wins over audio when both can't fit.
func PlanTranscode(durationSec int, targetBytes int64) TranscodePlan {
	if durationSec <= 0 {
		durationSec = 1
	}

	totalBits := float64(targetBytes * 8)
	totalBitrate := totalBits / float64(durationSec)

	audioBits := float64(nominalAudioKbps * 1000)
	videoBits := totalBitrate - audioBits

	if videoBits < minVideoKbps*1000 {
		videoBits = minVideoKbps * 1000
		audioBits = reducedAudioKbps * 1000
	}

	return TranscodePlan{
		VideoKbps: int(videoBits / 1000),
		AudioKbps: int(audioBits / 1000),
	}
}

// FFmpeg runs transcodes through the ffmpeg binary.
type FFmpeg struct{}

// Transcode re-encodes inputPath to outputPath at the planned bitrates. The
// caller must re-measure the output afterwards: the plan is an estimate and
// encoders overshoot.
func (FFmpeg) Transcode(ctx context.Context, plan TranscodePlan, inputPath, outputPath string) error {
	args := []string{
		"-y", "-i", inputPath,
		"-c:v", "libx264", "-b:v", fmt.Sprintf("%dk", plan.VideoKbps),
		"-c:a", "aac", "-b:a", fmt.Sprintf("%dk", plan.AudioKbps),
		"-preset", "fast",
		"-v", "error",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stderrPipe, _ := cmd.StderrPipe()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to start ffmpeg: %v", ErrTranscodeFailed, err)
	}

	stderrBytes, _ := io.ReadAll(stderrPipe)
	if err := cmd.Wait(); err != nil {
		errStr := string(stderrBytes)
		if len(errStr) > 500 {
			errStr = errStr[len(errStr)-500:]
		}
		log.Errorf("[Transcode] FFmpeg failed (code %d): %s", cmd.ProcessState.ExitCode(), errStr)
		return fmt.Errorf("%w: exit code %d", ErrTranscodeFailed, cmd.ProcessState.ExitCode())
	}

	return nil
}
