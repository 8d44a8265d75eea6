package bot

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"

	"grabbit/internal/util"
)

const pasteTitleLimit = 60

// handlePaste publishes text as a telegra.ph page. Replying to a message
// pastes that message's text; otherwise the command arguments are used.
func (b *Bot) handlePaste(ctx context.Context, msg telego.Message, args []string) error {
	text := strings.Join(args, " ")
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.Text != "" {
		text = msg.ReplyToMessage.Text
	}
	if strings.TrimSpace(text) == "" {
		return b.reply(ctx, msg.Chat.ID,
			"Usage: reply to a message with /paste, or <code>/paste your text here</code>")
	}

	title := pasteTitle(text)
	url, err := b.telegraph.CreatePage(ctx, title, text)
	if err != nil {
		return b.reply(ctx, msg.Chat.ID, "❌ "+EscapeHTML(err.Error()))
	}

	return b.reply(ctx, msg.Chat.ID, "📝 Your paste is ready:\n"+url)
}

// pasteTitle derives a page title from the first line of the text.
func pasteTitle(text string) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if truncated := util.TruncateRunes(line, pasteTitleLimit); truncated != line {
		line = truncated + "..."
	}
	if line == "" {
		line = "Paste"
	}
	return line
}
