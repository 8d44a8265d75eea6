package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"grabbit/internal/callback"
	"grabbit/internal/services"
	"grabbit/internal/session"
)

const maxInboxMessages = 5

// handleGetEmail provisions a disposable mailbox. The bearer token never
// goes into the callback token; it lives in the session store and only the
// session id travels through Telegram.
func (b *Bot) handleGetEmail(ctx context.Context, msg telego.Message, _ []string) error {
	account, err := b.mail.CreateAccount(ctx)
	if err != nil {
		return b.reply(ctx, msg.Chat.ID, "❌ "+EscapeHTML(err.Error()))
	}

	id, err := b.sessions.Create(ctx, session.Payload{
		"address":  account.Address,
		"password": account.Password,
		"token":    account.Token,
	})
	if err != nil {
		return b.reply(ctx, msg.Chat.ID, "❌ Could not store the mailbox session. Please try again.")
	}

	token, err := callback.TempMail.Encode("check", id)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"📧 Your temporary email is ready!\n\n"+
			"Address: <code>%s</code>\nPassword: <code>%s</code>\n\n"+
			"Tap the address to copy it. The mailbox expires after a while, so use it soon.",
		EscapeHTML(account.Address), EscapeHTML(account.Password))

	_, err = b.api.SendMessage(ctx, tu.Message(tu.ID(msg.Chat.ID), text).
		WithParseMode(telego.ModeHTML).
		WithReplyMarkup(tu.InlineKeyboard(
			tu.InlineKeyboardRow(tu.InlineKeyboardButton("📬 Check Inbox").WithCallbackData(token)),
		)))
	return err
}

// handleMailCallback re-reads the inbox for the session referenced by the
// token. An expired session asks the user to start over instead of failing
// silently.
func (b *Bot) handleMailCallback(ctx context.Context, query telego.CallbackQuery, fields []string) error {
	action, sessionID := fields[0], fields[1]
	if action != "check" {
		return nil
	}

	msg := query.Message
	if msg == nil {
		return fmt.Errorf("mailbox message is no longer accessible")
	}
	chatID := msg.GetChat().ID

	payload, err := b.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		_, editErr := b.api.EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:    tu.ID(chatID),
			MessageID: msg.GetMessageID(),
			Text:      "⌛ This mailbox has expired. Run /get_email to create a new one.",
		})
		return editErr
	}
	if err != nil {
		return err
	}

	messages, err := b.mail.Messages(ctx, payload["token"])
	if err != nil {
		return b.reply(ctx, chatID, "❌ "+EscapeHTML(err.Error()))
	}

	text := b.renderInbox(ctx, payload, messages)

	refreshToken, err := callback.TempMail.Encode("check", sessionID)
	if err != nil {
		return err
	}

	_, err = b.api.EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(chatID),
		MessageID:   msg.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: tu.InlineKeyboard(
			tu.InlineKeyboardRow(tu.InlineKeyboardButton("🔄 Refresh").WithCallbackData(refreshToken)),
		),
	})
	return err
}

// renderInbox formats inbox previews plus the codes and verification links
// pulled out of the newest message.
func (b *Bot) renderInbox(ctx context.Context, payload session.Payload, messages []services.MailMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📧 <code>%s</code>\n\n", EscapeHTML(payload["address"]))

	if len(messages) == 0 {
		sb.WriteString("📭 Inbox is empty. Check again in a moment.")
		return sb.String()
	}

	shown := messages
	if len(shown) > maxInboxMessages {
		shown = shown[:maxInboxMessages]
	}
	for i, m := range shown {
		fmt.Fprintf(&sb, "%d. <b>%s</b>\n   From: %s\n", i+1, EscapeHTML(m.Subject), EscapeHTML(m.From))
	}

	body, err := b.mail.MessageHTML(ctx, payload["token"], messages[0].ID)
	if err != nil || body == "" {
		return sb.String()
	}

	otps, links := services.ExtractOTPsAndLinks(body)
	if len(otps) > 0 {
		sb.WriteString("\n🔑 Codes found:\n")
		for _, otp := range otps {
			fmt.Fprintf(&sb, "<code>%s</code>\n", EscapeHTML(otp))
		}
	}
	if len(links) > 0 {
		sb.WriteString("\n🔗 Links found:\n")
		for _, l := range links {
			fmt.Fprintf(&sb, "<a href=\"%s\">%s</a>\n", EscapeHTML(l.Href), EscapeHTML(l.Text))
		}
	}
	return sb.String()
}
