package telegram

import (
	"context"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/speakmosaic/internal/artifact"
	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/pipeline"
	"github.com/Vovarama1992/speakmosaic/internal/session"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(cfg tgbotapi.FileConfig) (tgbotapi.File, error)
	// FileURL returns the download link of a file fetched with GetFile.
	FileURL(f tgbotapi.File) string
}

type Pipeline interface {
	VoiceToText(ctx context.Context, st *session.State, audio speech.Audio, autoDetect bool) (pipeline.Outcome, error)
	TextToVoice(ctx context.Context, st *session.State, gender speech.Gender) (pipeline.Outcome, error)
}

type AudioSource interface {
	Open(ctx context.Context, ref artifact.Ref) (io.ReadCloser, artifact.Info, error)
}

// botAPI adapts *tgbotapi.BotAPI to API.
type botAPI struct {
	*tgbotapi.BotAPI
}

func (b botAPI) FileURL(f tgbotapi.File) string {
	return f.Link(b.Token)
}

// maxVoiceBytes caps a downloaded voice message. Telegram's own bot download
// limit is 20 MB.
const maxVoiceBytes = 20 << 20

// BotApp is the Telegram front end. Every chat is a session named
// tg:<chatID> in the shared session store.
type BotApp struct {
	api       API
	updates   *tgbotapi.BotAPI
	sessions  session.Service
	pipeline  Pipeline
	artifacts AudioSource
	registry  *languages.Registry
	http      *http.Client
	logger    *zap.Logger
}

func newBotApp(
	api API,
	sessions session.Service,
	p Pipeline,
	artifacts AudioSource,
	registry *languages.Registry,
	logger *zap.Logger,
) *BotApp {
	return &BotApp{
		api:       api,
		sessions:  sessions,
		pipeline:  p,
		artifacts: artifacts,
		registry:  registry,
		http:      &http.Client{Timeout: 60 * time.Second},
		logger:    logger,
	}
}

// NewBotApp logs in with token. The returned BotAPI is handed to the admin
// notifier so both share one connection.
func NewBotApp(
	token string,
	sessions session.Service,
	p Pipeline,
	artifacts AudioSource,
	registry *languages.Registry,
	logger *zap.Logger,
) (*BotApp, *tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, nil, err
	}
	app := newBotApp(botAPI{bot}, sessions, p, artifacts, registry, logger)
	app.updates = bot
	logger.Info("[bot] authorized", zap.String("username", bot.Self.UserName))
	return app, bot, nil
}
