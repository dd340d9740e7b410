package error_notificator

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramInfra sends failure reports to admin chats.
type TelegramInfra struct {
	mu     sync.RWMutex
	bot    Sender
	admins []int64
	logger *zap.Logger
}

func NewTelegramInfra(bot Sender, admins []int64, logger *zap.Logger) *TelegramInfra {
	return &TelegramInfra{bot: bot, admins: admins, logger: logger}
}

// SetBot lets the bot be attached after it has been initialized.
func (i *TelegramInfra) SetBot(bot Sender) {
	i.mu.Lock()
	i.bot = bot
	i.mu.Unlock()
}

func (i *TelegramInfra) Notify(ctx context.Context, sessionID string, err error, details string) error {
	i.mu.RLock()
	bot := i.bot
	i.mu.RUnlock()
	if bot == nil || len(i.admins) == 0 {
		return nil
	}

	text := fmt.Sprintf(
		"❗ Failure in session %s\n\nError: %v\n\nDetails: %s",
		sessionID,
		err,
		details,
	)

	for _, chatID := range i.admins {
		if _, sendErr := bot.Send(tgbotapi.NewMessage(chatID, text)); sendErr != nil {
			i.logger.Warn("[error_notificator] send fail",
				zap.Int64("chat_id", chatID),
				zap.Error(sendErr),
			)
			return sendErr
		}
	}
	return nil
}
