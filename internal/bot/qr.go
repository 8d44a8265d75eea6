package bot

import (
	"bytes"
	"context"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 512

// handleQR renders the argument text as a QR code and sends it as a photo.
// The image is generated in memory, nothing touches the temp dir.
func (b *Bot) handleQR(ctx context.Context, msg telego.Message, args []string) error {
	if len(args) == 0 {
		return b.reply(ctx, msg.Chat.ID, usageMessage("qr", "https://example.com"))
	}

	content := strings.Join(args, " ")
	png, err := qrcode.Encode(content, qrcode.Medium, qrImageSize)
	if err != nil {
		return b.reply(ctx, msg.Chat.ID, "❌ Could not generate a QR code for that text.")
	}

	caption := "🔳 QR code for: " + EscapeHTML(TruncateTitle(content))
	_, err = b.api.SendPhoto(ctx, tu.Photo(tu.ID(msg.Chat.ID),
		tu.File(tu.NameReader(bytes.NewReader(png), "qr.png"))).
		WithCaption(caption).
		WithParseMode(telego.ModeHTML))
	return err
}
