package error_notificator

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestService_FanOut(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	sender := &fakeSender{}
	svc := NewService(
		NewLogInfra(zap.New(core)),
		NewTelegramInfra(sender, []int64{1, 2}, zap.NewNop()),
	)

	cause := errors.New("quota exceeded")
	if err := svc.Notify(context.Background(), "s1", cause, "translation"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if logs.Len() != 1 {
		t.Fatalf("expected one log entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["session"]; got != "s1" {
		t.Errorf("expected session field s1, got %v", got)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected two admin messages, got %d", len(sender.sent))
	}
	if sender.sent[1].ChatID != 2 || !strings.Contains(sender.sent[1].Text, "quota exceeded") {
		t.Errorf("unexpected message %+v", sender.sent[1])
	}
}

func TestService_SendFailureReturned(t *testing.T) {
	t.Parallel()

	svc := NewService(
		NewLogInfra(zap.NewNop()),
		NewTelegramInfra(&fakeSender{err: errors.New("blocked")}, []int64{1}, zap.NewNop()),
	)

	err := svc.Notify(context.Background(), "s1", errors.New("x"), "d")
	if err == nil || !strings.Contains(err.Error(), "blocked") {
		t.Errorf("expected send error, got %v", err)
	}
}

func TestTelegramInfra_NoBotIsNoop(t *testing.T) {
	t.Parallel()

	infra := NewTelegramInfra(nil, []int64{1}, zap.NewNop())
	if err := infra.Notify(context.Background(), "s", errors.New("x"), ""); err != nil {
		t.Errorf("expected nil without bot, got %v", err)
	}

	sender := &fakeSender{}
	infra.SetBot(sender)
	infra.Notify(context.Background(), "s", errors.New("x"), "")
	if len(sender.sent) != 1 {
		t.Errorf("expected message after SetBot, got %d", len(sender.sent))
	}
}
