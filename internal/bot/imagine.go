package bot

import (
	"context"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// handleImagine generates an image from a text prompt via the horde. The
// status message covers the polling wait, which can run for minutes.
func (b *Bot) handleImagine(ctx context.Context, msg telego.Message, args []string) error {
	if len(args) == 0 {
		return b.reply(ctx, msg.Chat.ID, usageMessage("imagine", "a castle in the clouds"))
	}
	prompt := strings.Join(args, " ")

	status, err := b.api.SendMessage(ctx, tu.Message(tu.ID(msg.Chat.ID),
		"🎨 Generating your image, this can take a minute..."))
	if err != nil {
		return err
	}

	imageURL, err := b.horde.Generate(ctx, prompt)
	if err != nil {
		_, editErr := b.api.EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:    tu.ID(msg.Chat.ID),
			MessageID: status.MessageID,
			Text:      "❌ " + EscapeHTML(err.Error()),
		})
		if editErr != nil {
			log.Warnf("[Imagine] failed to edit status: %v", editErr)
		}
		return err
	}

	_, err = b.api.SendPhoto(ctx, tu.Photo(tu.ID(msg.Chat.ID), tu.FileFromURL(imageURL)).
		WithCaption("🎨 "+EscapeHTML(TruncateTitle(prompt))).
		WithParseMode(telego.ModeHTML))
	if err != nil {
		return err
	}

	if delErr := b.api.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    tu.ID(msg.Chat.ID),
		MessageID: status.MessageID,
	}); delErr != nil {
		log.Warnf("[Imagine] failed to delete status: %v", delErr)
	}
	return nil
}
