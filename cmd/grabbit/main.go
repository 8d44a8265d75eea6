package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mymmrac/telego"

	"grabbit/internal/bot"
	"grabbit/internal/config"
	"grabbit/internal/server"
	"grabbit/internal/services"
	"grabbit/internal/session"
	"grabbit/internal/util"
)

func main() {
	godotenv.Load()
	config.Load()

	util.CheckDependencies()
	util.ClearTempDir()
	util.StartCleanupInterval()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, err := session.New(ctx, config.SessionStore, config.RedisAddr, config.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer sessions.Close()

	telegraph := services.NewTelegraphClient(config.TelegraphURL)
	if err := telegraph.EnsureAccount(ctx, config.TelegraphShortName, config.TelegraphShortName, ""); err != nil {
		log.Warnf("[Telegraph] account setup failed, /paste will be unavailable: %v", err)
	}

	api, err := telego.NewBot(config.BotToken)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	b, err := bot.New(ctx, api, bot.Deps{
		Sessions:  sessions,
		Mail:      services.NewTempMailClient(config.MailTmURL),
		Telegraph: telegraph,
		Horde:     services.NewHordeClient(config.StableHordeURL, config.StableHordeAPIKey),
		Spotify:   services.NewSpotifyResolver(),
	})
	if err != nil {
		log.Fatalf("Failed to build bot: %v", err)
	}

	srv := server.New()
	go func() {
		log.Infof("[Server] Status server on :%s", config.Port)
		if err := srv.ListenAndServe(); err != nil {
			log.Errorf("[Server] stopped: %v", err)
		}
	}()

	if err := b.Run(ctx); err != nil {
		log.Fatalf("Bot stopped: %v", err)
	}

	log.Info("Shutting down")
	srv.Shutdown(context.Background())
}
