package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"grabbit/internal/callback"
)

const menuPageSize = 8

// menuEntries is the full command list shown in the paginated main menu.
var menuEntries = []string{
	"🎬 /yt — YouTube video or audio, pick a quality",
	"🎧 /song — search and download a song as mp3",
	"🎧 /sp — download a Spotify track (via search)",
	"📘 /fb — Facebook video",
	"📸 /ig — Instagram reel or video",
	"🐦 /x — Twitter/X video",
	"🎵 /tik — TikTok video",
	"📌 /pn — Pinterest video",
	"🧵 /tdl — Threads video",
	"🔳 /qr — turn text into a QR code",
	"📧 /get_email — disposable email with inbox checking",
	"📝 /paste — publish text to telegra.ph",
	"🎨 /imagine — generate an image from a prompt",
}

func menuPageCount() int {
	return (len(menuEntries) + menuPageSize - 1) / menuPageSize
}

func menuPageText(page int) string {
	start := page * menuPageSize
	end := start + menuPageSize
	if end > len(menuEntries) {
		end = len(menuEntries)
	}

	var sb strings.Builder
	sb.WriteString("🐰 <b>grabbit</b> — what can I do?\n\n")
	sb.WriteString(strings.Join(menuEntries[start:end], "\n"))
	fmt.Fprintf(&sb, "\n\nPage %d/%d", page+1, menuPageCount())
	return sb.String()
}

func menuKeyboard(page int) *telego.InlineKeyboardMarkup {
	var nav []telego.InlineKeyboardButton
	if page > 0 {
		if token, err := callback.MenuPage.Encode(strconv.Itoa(page - 1)); err == nil {
			nav = append(nav, tu.InlineKeyboardButton("⬅️ Prev").WithCallbackData(token))
		}
	}
	if page < menuPageCount()-1 {
		if token, err := callback.MenuPage.Encode(strconv.Itoa(page + 1)); err == nil {
			nav = append(nav, tu.InlineKeyboardButton("Next ➡️").WithCallbackData(token))
		}
	}

	rows := [][]telego.InlineKeyboardButton{}
	if len(nav) > 0 {
		rows = append(rows, tu.InlineKeyboardRow(nav...))
	}
	rows = append(rows,
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("📥 Downloaders").WithCallbackData("downloaders_menu"),
			tu.InlineKeyboardButton("ℹ️ About").WithCallbackData("about_me"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("📜 Policy & Terms").WithCallbackData("policy_terms"),
			tu.InlineKeyboardButton("❌ Close").WithCallbackData("close_menu"),
		),
	)
	return tu.InlineKeyboard(rows...)
}

func (b *Bot) handleStart(ctx context.Context, msg telego.Message, _ []string) error {
	_, err := b.api.SendMessage(ctx, tu.Message(tu.ID(msg.Chat.ID), menuPageText(0)).
		WithParseMode(telego.ModeHTML).
		WithReplyMarkup(menuKeyboard(0)))
	return err
}

func (b *Bot) editMenu(ctx context.Context, query telego.CallbackQuery, text string, kb *telego.InlineKeyboardMarkup) error {
	msg := query.Message
	if msg == nil {
		return fmt.Errorf("menu message is no longer accessible")
	}
	_, err := b.api.EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(msg.GetChat().ID),
		MessageID:   msg.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: kb,
	})
	return err
}

func (b *Bot) handleMainMenu(ctx context.Context, query telego.CallbackQuery, _ []string) error {
	return b.editMenu(ctx, query, menuPageText(0), menuKeyboard(0))
}

func (b *Bot) handleMenuPage(ctx context.Context, query telego.CallbackQuery, fields []string) error {
	page, err := strconv.Atoi(fields[0])
	if err != nil || page < 0 || page >= menuPageCount() {
		page = 0
	}
	return b.editMenu(ctx, query, menuPageText(page), menuKeyboard(page))
}

func backKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("⬅️ Back").WithCallbackData("main_menu"),
	))
}

func (b *Bot) handleDownloadersMenu(ctx context.Context, query telego.CallbackQuery, _ []string) error {
	text := "📥 <b>Downloaders</b>\n\n" +
		"Send a command followed by a link and I'll fetch the media for you.\n" +
		"Files over the upload limit get compressed automatically.\n\n" +
		"/yt /song /sp /fb /ig /x /tik /pn /tdl"
	return b.editMenu(ctx, query, text, backKeyboard())
}

func (b *Bot) handleAboutMe(ctx context.Context, query telego.CallbackQuery, _ []string) error {
	text := "🐰 <b>About grabbit</b>\n\n" +
		"A toolkit bot for grabbing media and doing odd jobs: downloads, " +
		"QR codes, disposable email, pastes, and image generation."
	return b.editMenu(ctx, query, text, backKeyboard())
}

func (b *Bot) handlePolicyTerms(ctx context.Context, query telego.CallbackQuery, _ []string) error {
	text := "📜 <b>Policy & Terms</b>\n\n" +
		"Downloads are fetched on demand and deleted right after delivery. " +
		"Nothing you download is stored. Use the bot only for content you " +
		"are allowed to access."
	return b.editMenu(ctx, query, text, backKeyboard())
}

func (b *Bot) handleCloseMenu(ctx context.Context, query telego.CallbackQuery, _ []string) error {
	msg := query.Message
	if msg == nil {
		return nil
	}
	return b.api.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    tu.ID(msg.GetChat().ID),
		MessageID: msg.GetMessageID(),
	})
}
