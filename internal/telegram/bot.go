package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Rarebox/kalorify-ai/apimodels"
	"github.com/Rarebox/kalorify-ai/internal/analyzer"
)

// maxPhotoBytes matches the Bot API download limit.
const maxPhotoBytes = 20 << 20

// Bot answers meal photos sent in a Telegram chat with a nutrition report.
type Bot struct {
	api        *tgbotapi.BotAPI
	analyzer   *analyzer.Analyzer
	httpClient *http.Client
}

func New(token string, a *analyzer.Analyzer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("Telegram bot authorized", "username", api.Self.UserName)

	return &Bot{
		api:        api,
		analyzer:   a,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	slog.Info("Telegram bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			slog.Info("Telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if len(msg.Photo) == 0 {
		b.sendText(chatID, b.analyzer.Resolver().Message("welcome"))
		return
	}

	// Telegram lists sizes smallest first.
	photo := msg.Photo[len(msg.Photo)-1]

	resp, err := b.analyzePhoto(ctx, photo)
	if err != nil {
		slog.Error("Telegram analysis failed", "chat_id", chatID, "error", err)
		b.sendText(chatID, b.analyzer.FailureMessage(err))
		return
	}

	b.sendText(chatID, Render(resp, b.analyzer.Resolver()))
}

func (b *Bot) analyzePhoto(ctx context.Context, photo tgbotapi.PhotoSize) (*apimodels.AnalysisResponse, error) {
	url, err := b.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve photo url: %w", err)
	}

	data, err := download(ctx, b.httpClient, url)
	if err != nil {
		return nil, err
	}

	return b.analyzer.Analyze(ctx, apimodels.AnalysisRequest{
		Filename:    photo.FileUniqueID + ".jpg",
		ContentType: "image/jpeg",
		Image:       data,
	})
}

func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("photo exceeds %d bytes", maxPhotoBytes)
	}
	return data, nil
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("Failed to send telegram message", "chat_id", chatID, "error", err)
	}
}
