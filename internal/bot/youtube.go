package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"grabbit/internal/callback"
	"grabbit/internal/config"
	"grabbit/internal/services"
)

var youtubeQualities = []int{480, 720, 1080}

// handleYouTube probes the video and offers a quality picker instead of
// downloading immediately. The choice comes back as a callback token.
func (b *Bot) handleYouTube(ctx context.Context, msg telego.Message, args []string) error {
	if len(args) == 0 {
		return b.reply(ctx, msg.Chat.ID, usageMessage("yt", "https://youtu.be/dQw4w9WgXcQ"))
	}
	if verr := validateLink(args[0]); verr != nil {
		return b.reply(ctx, msg.Chat.ID, "❌ "+EscapeHTML(verr.UserMessage))
	}

	info, err := b.ytdlp.Probe(ctx, args[0], config.YouTubeCookiesFile)
	if err != nil {
		return b.reply(ctx, msg.Chat.ID, "❌ "+EscapeHTML(err.Error()))
	}

	var buttons []telego.InlineKeyboardButton
	for _, q := range youtubeQualities {
		if !hasQuality(info, q) {
			continue
		}
		token, err := callback.YouTube.Encode(info.ID, fmt.Sprintf("%d", q), "mp4")
		if err != nil {
			continue
		}
		buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%dp", q)).WithCallbackData(token))
	}

	audioToken, err := callback.YouTube.Encode(info.ID, "audio", "mp3")
	if err != nil {
		return err
	}

	rows := [][]telego.InlineKeyboardButton{}
	if len(buttons) > 0 {
		rows = append(rows, tu.InlineKeyboardRow(buttons...))
	}
	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("🎵 Audio").WithCallbackData(audioToken),
	))

	text := fmt.Sprintf("🎬 <b>%s</b>\n⏱ %s\n\nChoose a quality:",
		EscapeHTML(TruncateTitle(info.Title)), FormatDuration(info.Duration))

	_, err = b.api.SendMessage(ctx, tu.Message(tu.ID(msg.Chat.ID), text).
		WithParseMode(telego.ModeHTML).
		WithReplyMarkup(tu.InlineKeyboard(rows...)))
	return err
}

func hasQuality(info *services.MediaInfo, height int) bool {
	for _, f := range info.Formats {
		if f.VCodec != "" && f.VCodec != "none" && f.Height >= height {
			return true
		}
	}
	return false
}

// handleYouTubeCallback runs the workflow with the chosen quality. The
// picker message is removed so the chat keeps only the result.
func (b *Bot) handleYouTubeCallback(ctx context.Context, query telego.CallbackQuery, fields []string) error {
	videoID, quality := fields[0], fields[1]

	msg := query.Message
	if msg == nil {
		return fmt.Errorf("quality picker message is no longer accessible")
	}
	chatID := msg.GetChat().ID

	if err := b.api.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    tu.ID(chatID),
		MessageID: msg.GetMessageID(),
	}); err != nil {
		return err
	}

	p := Platform{Command: "yt", Name: "YouTube", Icon: "🎬", CookiesFile: config.YouTubeCookiesFile}
	if quality == "audio" {
		p.AudioOnly = true
	} else {
		p.Format = fmt.Sprintf("bestvideo[height<=%s][ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best", quality)
	}

	return b.workflow.Run(ctx, p, Request{
		ChatID:    chatID,
		UserID:    query.From.ID,
		MessageID: msg.GetMessageID(),
		Locator:   "https://www.youtube.com/watch?v=" + videoID,
	})
}
