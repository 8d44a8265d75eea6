package bot

import (
	"context"
	"os"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"grabbit/internal/util"
)

// telegramNotifier delivers workflow output through the Telegram Bot API.
type telegramNotifier struct {
	api *telego.Bot
}

func (n *telegramNotifier) SendStatus(ctx context.Context, chatID int64, text string) (int, error) {
	msg, err := n.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

func (n *telegramNotifier) EditStatus(ctx context.Context, chatID int64, messageID int, text string) error {
	_, err := n.api.EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:    tu.ID(chatID),
		MessageID: messageID,
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (n *telegramNotifier) DeleteStatus(ctx context.Context, chatID int64, messageID int) error {
	return n.api.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    tu.ID(chatID),
		MessageID: messageID,
	})
}

func (n *telegramNotifier) SendVideo(ctx context.Context, chatID int64, path, caption string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = n.api.SendVideo(ctx, tu.Video(tu.ID(chatID), tu.File(f)).
		WithCaption(caption).
		WithParseMode(telego.ModeHTML).
		WithSupportsStreaming())
	return err
}

func (n *telegramNotifier) SendAudio(ctx context.Context, chatID int64, path, caption, performer, title string, duration int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := util.SanitizeFilename(title)
	if name == "" {
		name = "audio"
	}

	_, err = n.api.SendAudio(ctx, tu.Audio(tu.ID(chatID), tu.File(tu.NameReader(f, name+".mp3"))).
		WithCaption(caption).
		WithParseMode(telego.ModeHTML).
		WithPerformer(performer).
		WithTitle(title).
		WithDuration(duration))
	return err
}
