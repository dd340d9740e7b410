package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/speakmosaic/internal/pipeline"
	"github.com/Vovarama1992/speakmosaic/internal/session"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
)

func (app *BotApp) handleVoice(ctx context.Context, chatID int64, st *session.State, fileID string) {
	log := app.logger.With(zap.Int64("chat", chatID), zap.String("file", fileID))

	data, err := app.download(ctx, fileID)
	if err != nil {
		log.Warn("[voice] download", zap.Error(err))
		app.reply(chatID, "⚠️ Could not fetch the voice message.", false)
		return
	}

	out, err := app.pipeline.VoiceToText(ctx, st, speech.Audio{Data: data, Format: speech.FormatOGG}, st.AutoDetect)
	switch {
	case errors.Is(err, speech.ErrNoSpeech):
		app.reply(chatID, "🤷 Could not understand the audio.", false)
		return
	case errors.Is(err, pipeline.ErrTranslation):
		log.Warn("[voice] translation", zap.Error(err))
		app.reply(chatID, st.RecognizedText+"\n\n⚠️ "+err.Error(), false)
		return
	case err != nil:
		log.Error("[voice] pipeline", zap.Error(err))
		app.reply(chatID, "⚠️ "+err.Error(), false)
		return
	}

	if out.Stage == pipeline.StageIdle {
		app.reply(chatID, "The voice message was empty.", false)
		return
	}
	log.Info("[voice] recognized", zap.Bool("translated", out.Translated))
	app.reply(chatID, out.Recognized, false)
}

func (app *BotApp) download(ctx context.Context, fileID string) ([]byte, error) {
	file, err := app.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, app.api.FileURL(file), nil)
	if err != nil {
		return nil, err
	}
	resp, err := app.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVoiceBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxVoiceBytes {
		return nil, errors.New("voice message too large")
	}
	return data, nil
}
