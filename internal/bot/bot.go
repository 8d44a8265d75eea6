// Package bot wires Telegram updates to the download workflow and the
// utility handlers. One goroutine per update, with status messages edited
// in place as a download progresses.
package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"grabbit/internal/callback"
	"grabbit/internal/config"
	"grabbit/internal/observability"
	"grabbit/internal/services"
	"grabbit/internal/session"
)

// Deps are the external service clients the handlers need.
type Deps struct {
	Sessions  session.Store
	Mail      *services.TempMailClient
	Telegraph *services.TelegraphClient
	Horde     *services.HordeClient
	Spotify   *services.SpotifyResolver
}

type Bot struct {
	api      *telego.Bot
	router   *Router
	workflow *Workflow
	ytdlp    services.YtdlpClient

	sessions  session.Store
	mail      *services.TempMailClient
	telegraph *services.TelegraphClient
	horde     *services.HordeClient
	spotify   *services.SpotifyResolver
}

// New builds the bot and registers all routes. It calls getMe to learn the
// bot's username for @mention command matching.
func New(ctx context.Context, api *telego.Bot, deps Deps) (*Bot, error) {
	me, err := api.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to identify bot: %w", err)
	}
	log.Infof("[Bot] Authorized as @%s", me.Username)

	b := &Bot{
		api:       api,
		router:    NewRouter(me.Username),
		sessions:  deps.Sessions,
		mail:      deps.Mail,
		telegraph: deps.Telegraph,
		horde:     deps.Horde,
		spotify:   deps.Spotify,
		workflow: &Workflow{
			Acquirer:       services.YtdlpClient{},
			Transcoder:     services.FFmpeg{},
			Notifier:       &telegramNotifier{api: api},
			TempDir:        config.TempDir,
			SizeCeiling:    config.SizeCeiling,
			CompressTarget: config.CompressTarget,
		},
	}
	b.registerRoutes()
	return b, nil
}

func (b *Bot) registerRoutes() {
	r := b.router

	r.HandleCommand("start", b.handleStart)
	r.HandleCommand("yt", b.handleYouTube)

	for _, p := range downloadPlatforms() {
		r.HandleCommand(p.Command, b.downloadHandler(p))
	}
	r.HandleCommand("sp", b.downloadHandler(Platform{
		Command: "sp", Name: "Spotify", Icon: "🎧",
		AudioOnly:    true,
		Resolve:      b.spotify.Resolve,
		UsageExample: "https://open.spotify.com/track/abc123",
	}))

	r.HandleCommand("qr", b.handleQR)
	r.HandleCommand("get_email", b.handleGetEmail)
	r.HandleCommand("paste", b.handlePaste)
	r.HandleCommand("imagine", b.handleImagine)

	r.HandleCallbackSchema(callback.YouTube, b.handleYouTubeCallback)
	r.HandleCallbackSchema(callback.TempMail, b.handleMailCallback)
	r.HandleCallbackSchema(callback.MenuPage, b.handleMenuPage)
	r.HandleCallbackExact("main_menu", b.handleMainMenu)
	r.HandleCallbackExact("downloaders_menu", b.handleDownloadersMenu)
	r.HandleCallbackExact("about_me", b.handleAboutMe)
	r.HandleCallbackExact("policy_terms", b.handlePolicyTerms)
	r.HandleCallbackExact("close_menu", b.handleCloseMenu)
}

// Run consumes updates until the context is cancelled. Each update is
// handled on its own goroutine so a slow download never blocks the poll
// loop.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.api.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	log.Info("[Bot] Listening for updates")
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return ctx.Err()
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	switch {
	case update.Message != nil:
		msg := *update.Message
		name, _, ok := b.router.ParseCommand(msg.Text)
		if !ok {
			return
		}
		matched, err := b.router.DispatchMessage(ctx, msg)
		if matched {
			observability.CommandsHandled.WithLabelValues(name).Inc()
		}
		if err != nil {
			log.Errorf("[Bot] /%s failed: %v", name, err)
		}

	case update.CallbackQuery != nil:
		query := *update.CallbackQuery
		prefix, err := b.router.DispatchCallback(ctx, query)
		if prefix != "" {
			observability.CallbacksHandled.WithLabelValues(prefix).Inc()
		}
		if err != nil {
			log.Errorf("[Bot] callback %q failed: %v", prefix, err)
		}
		if ackErr := b.api.AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)); ackErr != nil {
			log.Warnf("[Bot] failed to answer callback: %v", ackErr)
		}
	}
}

// downloadHandler adapts a platform record into a command handler: validate
// the argument, resolve it to a locator, run the workflow.
func (b *Bot) downloadHandler(p Platform) MessageHandler {
	return func(ctx context.Context, msg telego.Message, args []string) error {
		if len(args) == 0 {
			return b.reply(ctx, msg.Chat.ID, usageMessage(p.Command, p.UsageExample))
		}

		locator := args[0]
		switch {
		case p.Search:
			locator = "ytsearch1:" + strings.Join(args, " ")
		case p.Resolve != nil:
			if verr := validateLink(args[0]); verr != nil {
				return b.reply(ctx, msg.Chat.ID, "❌ "+EscapeHTML(verr.UserMessage))
			}
			resolved, _, err := p.Resolve(ctx, args[0])
			if err != nil {
				return b.reply(ctx, msg.Chat.ID, "❌ "+EscapeHTML(err.Error()))
			}
			locator = resolved
		default:
			if verr := validateLink(args[0]); verr != nil {
				return b.reply(ctx, msg.Chat.ID, "❌ "+EscapeHTML(verr.UserMessage))
			}
		}

		return b.workflow.Run(ctx, p, Request{
			ChatID:    msg.Chat.ID,
			UserID:    senderID(msg),
			MessageID: msg.MessageID,
			Locator:   locator,
		})
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) error {
	_, err := b.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err
}

// senderID falls back to the chat id for channel posts without a sender.
func senderID(msg telego.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}
