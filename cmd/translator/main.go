package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ghsss/real-time-translator-client/internal/admission"
	"github.com/ghsss/real-time-translator-client/internal/bot"
	"github.com/ghsss/real-time-translator-client/internal/config"
	"github.com/ghsss/real-time-translator-client/internal/logger"
	"github.com/ghsss/real-time-translator-client/internal/reaper"
	"github.com/ghsss/real-time-translator-client/internal/session"
	"github.com/ghsss/real-time-translator-client/internal/storage"
	"github.com/ghsss/real-time-translator-client/internal/transcode"
	"github.com/ghsss/real-time-translator-client/internal/translate"
	"github.com/ghsss/real-time-translator-client/internal/translator"
)

func init() {
	godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	if err := os.MkdirAll(cfg.ScratchDir, 0o755); err != nil {
		logger.Fatal("failed to create scratch dir", "dir", cfg.ScratchDir, "error", err)
	}

	registry := session.NewRegistry()
	inflight := session.NewInFlight()

	ctrl := admission.NewController(admission.Config{
		Limit:              cfg.Limits.Capacity,
		MinRequestInterval: cfg.Limits.MinRequestInterval,
		DrainGrace:         cfg.Limits.DrainGrace,
		DrainPacing:        cfg.Limits.DrainPacing,
	}, registry, inflight)

	svc := translator.New(translator.Config{
		ScratchDir:    cfg.ScratchDir,
		MaxAudioBytes: cfg.Limits.MaxAudioBytes,
	}, registry, inflight, ctrl, transcode.NewFFmpeg(), translate.NewClient(cfg.Translation.BaseURL))

	b, err := bot.New(bot.Config{Provider: cfg.Bot.Provider, Token: cfg.Bot.Token}, svc)
	if err != nil {
		logger.Fatal("failed to create bot", "provider", cfg.Bot.Provider, "error", err)
	}
	svc.SetTransport(b)

	// translation archive (optional)
	if cfg.Storage.Enabled {
		archive, err := storage.NewArchive(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Error("failed to create archive client", "error", err)
		} else {
			initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if !archive.Healthy(initCtx) {
				logger.Error("archive unreachable, running without it", "endpoint", cfg.Storage.Endpoint)
			} else if err := archive.Init(initCtx); err != nil {
				logger.Error("failed to init archive bucket", "error", err)
			} else {
				svc.SetArchive(archive)
				logger.Info("archive enabled", "endpoint", cfg.Storage.Endpoint)
			}
			cancel()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := b.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Fatal("bot stopped", "error", err)
		}
	}()

	notify := func(sessionID, text string) error {
		_, err := b.SendText(ctx, sessionID, text, bot.SendOptions{})
		return err
	}

	go ctrl.RunDrainNotifier(ctx, notify)

	idleReaper := reaper.New(reaper.Config{
		IdleTimeout:   cfg.Limits.IdleTimeout,
		SweepInterval: cfg.Limits.SweepInterval,
		Pacing:        cfg.Limits.ReaperPacing,
	}, registry, func(ctx context.Context, sessionID, text string) error {
		return notify(sessionID, text)
	}, svc.Reset)

	if err := idleReaper.Start(ctx); err != nil {
		logger.Fatal("failed to start idle reaper", "error", err)
	}

	logger.Info("translator started",
		"provider", cfg.Bot.Provider,
		"capacity", cfg.Limits.Capacity,
		"idle_timeout", cfg.Limits.IdleTimeout,
		"scratch", cfg.ScratchDir,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	idleReaper.Stop()
	cancel()
}
