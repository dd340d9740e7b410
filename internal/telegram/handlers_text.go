package telegram

import (
	"context"
	"errors"
	"io"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/speakmosaic/internal/pipeline"
	"github.com/Vovarama1992/speakmosaic/internal/session"
)

func (app *BotApp) handleText(ctx context.Context, chatID int64, st *session.State, text string) {
	log := app.logger.With(zap.Int64("chat", chatID))

	st.SetInput(text)
	out, err := app.pipeline.TextToVoice(ctx, st, st.Gender)
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		app.reply(chatID, "Please send some text.", false)
		return
	case err != nil:
		log.Error("[text] pipeline", zap.Error(err))
		app.reply(chatID, "⚠️ "+err.Error(), false)
		return
	}

	app.reply(chatID, out.Translation.Translated, false)

	rc, _, err := app.artifacts.Open(ctx, *out.Speech)
	if err != nil {
		log.Error("[text] open speech", zap.Error(err))
		app.reply(chatID, "⚠️ Could not load the audio.", false)
		return
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		log.Error("[text] read speech", zap.Error(err))
		app.reply(chatID, "⚠️ Could not load the audio.", false)
		return
	}

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{Name: out.Speech.FileName(), Bytes: data})
	if _, err := app.api.Send(audio); err != nil {
		log.Warn("[text] send audio", zap.Error(err))
		return
	}
	log.Info("[text] speech sent", zap.String("file", out.Speech.FileName()), zap.Int("bytes", len(data)))
}
