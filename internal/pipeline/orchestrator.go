package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Vovarama1992/speakmosaic/internal/artifact"
	"github.com/Vovarama1992/speakmosaic/internal/error_notificator"
	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/session"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
)

type Transcriber interface {
	Transcribe(ctx context.Context, filePath string, format speech.Format, lang languages.Code) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text string, target languages.Code) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang languages.Code, gender speech.Gender) (speech.Audio, error)
}

type Artifacts interface {
	SaveSpeech(ctx context.Context, sessionID string, lang languages.Code, audio speech.Audio) (artifact.Ref, error)
	Discard(ctx context.Context, ref artifact.Ref) error
}

// Outcome reports how far a run got. On a stage failure Stage is the last
// stage that completed.
type Outcome struct {
	Stage       Stage
	Recognized  string
	Translated  bool
	Translation *session.Translation
	Speech      *artifact.Ref
}

type Orchestrator struct {
	stt       Transcriber
	tr        Translator
	tts       Synthesizer
	artifacts Artifacts
	notifier  error_notificator.Notificator
	logger    *zap.Logger
	tempDir   string
}

func NewOrchestrator(
	stt Transcriber,
	tr Translator,
	tts Synthesizer,
	artifacts Artifacts,
	notifier error_notificator.Notificator,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		stt:       stt,
		tr:        tr,
		tts:       tts,
		artifacts: artifacts,
		notifier:  notifier,
		logger:    logger,
	}
}

// VoiceToText transcribes a recording into st.RecognizedText and, when
// auto-detect is on or the selected language is not the default, translates
// it into the selected language. An empty recording is not an error: the
// outcome stage is StageIdle and nothing changes.
func (o *Orchestrator) VoiceToText(ctx context.Context, st *session.State, audio speech.Audio, autoDetect bool) (Outcome, error) {
	out := Outcome{Stage: StageIdle}
	if audio.Empty() {
		return out, nil
	}

	path, err := o.writeTemp(audio)
	if err != nil {
		return out, o.fail(ctx, st, StageCapture, err)
	}
	defer os.Remove(path)
	out.Stage = StageCapture

	lang := st.Selected
	if autoDetect {
		lang = languages.Auto
	}

	text, err := o.stt.Transcribe(ctx, path, audio.Format, lang)
	if err != nil {
		return out, o.fail(ctx, st, StageTranscription, err)
	}
	st.SetRecognized(text)
	st.History.Append(session.KindRecognized, text)
	out.Stage = StageTranscription
	out.Recognized = text

	if autoDetect || st.Selected != languages.Default {
		translated, err := o.tr.Translate(ctx, text, st.Selected)
		if err != nil {
			return out, o.fail(ctx, st, StageTranslation, err)
		}
		st.SetRecognized(translated)
		out.Stage = StageTranslation
		out.Recognized = translated
		out.Translated = true
	}

	o.logger.Info("voice to text done",
		zap.String("session", st.ID),
		zap.String("language", string(st.Selected)),
		zap.Bool("auto_detect", autoDetect),
		zap.Bool("translated", out.Translated),
	)
	out.Stage = StageDone
	return out, nil
}

// TextToVoice translates st.InputText into the selected language and
// synthesizes it. The new recording replaces the previous one only when
// every stage succeeded.
func (o *Orchestrator) TextToVoice(ctx context.Context, st *session.State, gender speech.Gender) (Outcome, error) {
	out := Outcome{Stage: StageIdle}

	text := strings.TrimSpace(st.InputText)
	if text == "" {
		return out, ErrEmptyInput
	}
	if gender == "" {
		gender = st.Gender
	}
	lang := st.Selected

	translated, err := o.tr.Translate(ctx, text, lang)
	if err != nil {
		return out, o.fail(ctx, st, StageTranslation, err)
	}
	out.Stage = StageTranslation

	audio, err := o.tts.Synthesize(ctx, translated, lang, gender)
	if err != nil {
		return out, o.fail(ctx, st, StageSynthesis, err)
	}
	out.Stage = StageSynthesis

	ref, err := o.artifacts.SaveSpeech(ctx, st.ID, lang, audio)
	if err != nil {
		return out, o.fail(ctx, st, StageStorage, err)
	}

	previous := st.Speech
	st.Speech = &ref
	st.Translation = &session.Translation{
		Original:   text,
		Translated: translated,
		Language:   lang,
	}
	st.History.Append(session.KindSynthesized, translated)

	if previous != nil {
		if err := o.artifacts.Discard(ctx, *previous); err != nil {
			o.logger.Warn("discard previous speech",
				zap.String("session", st.ID),
				zap.String("key", previous.Key),
				zap.Error(err),
			)
		}
	}

	o.logger.Info("text to voice done",
		zap.String("session", st.ID),
		zap.String("language", string(lang)),
		zap.String("gender", string(gender)),
		zap.Int64("bytes", ref.Size),
	)
	out.Stage = StageDone
	out.Translation = st.Translation
	out.Speech = st.Speech
	return out, nil
}

func (o *Orchestrator) writeTemp(audio speech.Audio) (string, error) {
	f, err := os.CreateTemp(o.tempDir, "capture-*."+string(audio.Format))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(audio.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

func (o *Orchestrator) fail(ctx context.Context, st *session.State, stage Stage, err error) error {
	stageErr := &StageError{Stage: stage, Err: err}
	if o.notifier != nil && !userOutcome(err) {
		details := fmt.Sprintf("stage=%s language=%s", stage, st.Selected)
		if nErr := o.notifier.Notify(ctx, st.ID, err, details); nErr != nil {
			o.logger.Warn("notify failure", zap.String("session", st.ID), zap.Error(nErr))
		}
	}
	return stageErr
}

// userOutcome reports errors caused by the recording or text itself, which
// are not worth an operator's attention.
func userOutcome(err error) bool {
	return errors.Is(err, speech.ErrNoSpeech) || errors.Is(err, speech.ErrEmptyAudio)
}

// WithTempDir sets where capture files are written; empty means os.TempDir.
func (o *Orchestrator) WithTempDir(dir string) *Orchestrator {
	o.tempDir = dir
	return o
}
