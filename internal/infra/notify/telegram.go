package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegramAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

func NewTelegramSender(api *tgbotapi.BotAPI, chatID int64, logger *zap.Logger) *TelegramSender {
	return &TelegramSender{api: api, chatID: chatID, logger: logger}
}

func (s *TelegramSender) Send(ctx context.Context, subject, body string) error {
	s.logger.Info("telegram send", zap.Int64("chat_id", s.chatID), zap.String("subject", subject))
	msg := tgbotapi.NewMessage(s.chatID, subject+"\n\n"+body)
	_, err := s.api.Send(msg)
	if err != nil {
		s.logger.Warn("failed to send telegram alert", zap.Error(err))
	}
	return err
}
