// cmd/server/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Rarebox/kalorify-ai/internal/analyzer"
	"github.com/Rarebox/kalorify-ai/internal/config"
	"github.com/Rarebox/kalorify-ai/internal/llm"
	"github.com/Rarebox/kalorify-ai/internal/locale"
	"github.com/Rarebox/kalorify-ai/internal/server"
	"github.com/Rarebox/kalorify-ai/internal/telegram"
	"github.com/Rarebox/kalorify-ai/internal/webhook"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	resolver, err := newResolver(cfg.Locale)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	backend, err := newBackend(cfg)
	if err != nil {
		log.Fatalf("failed to create analysis backend: %v", err)
	}

	a := analyzer.New(backend, resolver, analyzer.WithSplitErrors(cfg.Analyzer.SplitErrors))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.Token != "" {
		bot, err := telegram.New(cfg.Telegram.Token, a)
		if err != nil {
			log.Fatalf("failed to start telegram bot: %v", err)
		}
		go func() {
			if err := bot.Run(ctx); err != nil {
				slog.Error("Telegram bot failed", "error", err)
			}
		}()
	}

	srv := server.New(*cfg, a)
	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"backend", backend.Name(),
		"language", resolver.Language())
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func newResolver(cfg config.LocaleConfig) (*locale.Resolver, error) {
	if cfg.CatalogFile == "" {
		return locale.DefaultResolver()
	}
	catalog, err := locale.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	return locale.NewResolver(catalog)
}

func newBackend(cfg *config.Config) (analyzer.Backend, error) {
	switch cfg.Analyzer.Backend {
	case config.BackendOpenAI:
		return llm.NewOpenAI(&cfg.OpenAI)
	default:
		return webhook.NewClient(cfg.Analyzer.WebhookURL, cfg.Analyzer.Timeout)
	}
}
