package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/puckbot/internal/service"
)

// ErrNoChat is returned when a scheduled post has no chat to go to.
var ErrNoChat = errors.New("chat ID not set")

type TelegramBot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, bracketService *service.BracketService) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	return &TelegramBot{
		api:     api,
		handler: NewHandler(bracketService),
		chatID:  chatID,
	}, nil
}

// Start long-polls for updates and answers commands until ctx is done.
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Polling for commands", "username", t.api.Self.UserName)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	updates := t.api.GetUpdatesChan(cfg)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			msg, ok := t.reply(ctx, update)
			if !ok {
				continue
			}
			if _, err := t.api.Send(msg); err != nil {
				slog.Error("Error answering command", "chat", msg.ChatID, "error", err)
			}
		}
	}
}

// reply builds the answer to update; ok is false for anything but a command.
func (t *TelegramBot) reply(ctx context.Context, update tgbotapi.Update) (msg tgbotapi.MessageConfig, ok bool) {
	if update.Message == nil || !update.Message.IsCommand() {
		return msg, false
	}
	return t.handler.HandleCommand(ctx, update), true
}

// SendMessage posts a Markdown message to the configured chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return ErrNoChat
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("sending message to chat %d: %w", t.chatID, err)
	}
	return nil
}
