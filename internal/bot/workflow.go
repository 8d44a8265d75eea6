package bot

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/charmbracelet/log"

	"grabbit/internal/observability"
	"grabbit/internal/services"
	"grabbit/internal/util"
)

// Acquirer downloads media behind a locator into the temp dir.
type Acquirer interface {
	Acquire(ctx context.Context, locator string, opts services.AcquireOpts) (*services.AcquireResult, error)
}

// Transcoder re-encodes a file at planned bitrates.
type Transcoder interface {
	Transcode(ctx context.Context, plan services.TranscodePlan, inputPath, outputPath string) error
}

// Notifier abstracts the chat surface: status messages edited in place and
// the final media delivery.
type Notifier interface {
	SendStatus(ctx context.Context, chatID int64, text string) (messageID int, err error)
	EditStatus(ctx context.Context, chatID int64, messageID int, text string) error
	DeleteStatus(ctx context.Context, chatID int64, messageID int) error
	SendVideo(ctx context.Context, chatID int64, path, caption string) error
	SendAudio(ctx context.Context, chatID int64, path, caption, performer, title string, duration int) error
}

// Request is one download run keyed to the chat and message that started it.
// UserID and MessageID make the working-file prefix unique per run.
type Request struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Locator   string
}

// Workflow is the shared download pipeline: acquire, compress if over the
// ceiling, deliver, clean up. Limits are injected rather than read from
// config so tests can shrink them.
type Workflow struct {
	Acquirer   Acquirer
	Transcoder Transcoder
	Notifier   Notifier

	TempDir        string
	SizeCeiling    int64
	CompressTarget int64
}

// Run executes one download for a platform. Working files are removed on
// every exit path. The status message is deleted on success and rewritten
// with the failure reason otherwise.
func (w *Workflow) Run(ctx context.Context, p Platform, req Request) error {
	statusID, err := w.Notifier.SendStatus(ctx, req.ChatID, statusProcessing)
	if err != nil {
		return fmt.Errorf("failed to send status message: %w", err)
	}

	prefix := fmt.Sprintf("%s_%d_%d", p.Command, req.UserID, req.MessageID)
	compressedPath := filepath.Join(w.TempDir, prefix+"_compressed.mp4")

	var workFiles []string
	defer func() {
		util.CleanupFiles(workFiles...)
	}()

	fail := func(cause error, userMsg string) error {
		observability.WorkflowRuns.WithLabelValues(p.Command, "failure").Inc()
		log.Errorf("[Workflow] %s failed: %v", prefix, cause)
		if editErr := w.Notifier.EditStatus(ctx, req.ChatID, statusID, "❌ "+EscapeHTML(userMsg)); editErr != nil {
			log.Warnf("[Workflow] failed to edit status for %s: %v", prefix, editErr)
		}
		return cause
	}

	result, err := w.Acquirer.Acquire(ctx, req.Locator, services.AcquireOpts{
		TempDir:     w.TempDir,
		FilePrefix:  prefix,
		Format:      p.Format,
		AudioOnly:   p.AudioOnly,
		CookiesFile: p.CookiesFile,
	})
	if err != nil {
		return fail(err, util.ToUserError(err.Error()))
	}
	workFiles = append(workFiles, result.Path)

	deliverPath := result.Path
	deliverSize := result.Size

	if deliverSize > w.SizeCeiling {
		if p.AudioOnly {
			return fail(services.ErrCompressionInsufficient,
				fmt.Sprintf("File is too large to send (%s).", FormatSize(deliverSize)))
		}

		if err := w.Notifier.EditStatus(ctx, req.ChatID, statusID, statusCompressing); err != nil {
			log.Warnf("[Workflow] failed to edit status for %s: %v", prefix, err)
		}

		plan := services.PlanTranscode(result.Duration, w.CompressTarget)
		log.Infof("[Workflow] compressing %s: %dk video, %dk audio", prefix, plan.VideoKbps, plan.AudioKbps)

		workFiles = append(workFiles, compressedPath)
		if err := w.Transcoder.Transcode(ctx, plan, result.Path, compressedPath); err != nil {
			observability.Compressions.WithLabelValues("failure").Inc()
			return fail(err, "Failed to compress the video. It may be too large for me to handle.")
		}

		deliverSize = util.FileSize(compressedPath)
		if deliverSize > w.SizeCeiling {
			observability.Compressions.WithLabelValues("insufficient").Inc()
			return fail(services.ErrCompressionInsufficient,
				fmt.Sprintf("Even after compression the file is too large to send (%s).", FormatSize(deliverSize)))
		}
		observability.Compressions.WithLabelValues("success").Inc()
		deliverPath = compressedPath
	}

	if err := w.Notifier.EditStatus(ctx, req.ChatID, statusID, statusUploading); err != nil {
		log.Warnf("[Workflow] failed to edit status for %s: %v", prefix, err)
	}

	caption := w.caption(p, result)
	if p.AudioOnly {
		err = w.Notifier.SendAudio(ctx, req.ChatID, deliverPath, caption, result.Uploader, result.Title, result.Duration)
	} else {
		err = w.Notifier.SendVideo(ctx, req.ChatID, deliverPath, caption)
	}
	if err != nil {
		return fail(err, "Failed to upload the file. Please try again later.")
	}

	if err := w.Notifier.DeleteStatus(ctx, req.ChatID, statusID); err != nil {
		log.Warnf("[Workflow] failed to delete status for %s: %v", prefix, err)
	}

	observability.WorkflowRuns.WithLabelValues(p.Command, "success").Inc()
	log.Infof("[Workflow] %s delivered (%s)", prefix, FormatSize(deliverSize))
	return nil
}

func (w *Workflow) caption(p Platform, result *services.AcquireResult) string {
	title := EscapeHTML(TruncateTitle(result.Title))
	if p.AudioOnly {
		return fmt.Sprintf("%s <b>%s</b>\n👤 %s\n⏱ %s",
			p.Icon, title, EscapeHTML(result.Uploader), FormatDuration(result.Duration))
	}
	return fmt.Sprintf("%s <b>%s</b>", p.Icon, title)
}
