package speech

import (
	"context"
	"errors"
	"strings"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

var (
	// ErrNoSpeech is returned when the recognizer understood nothing.
	ErrNoSpeech = errors.New("no speech recognized")
	// ErrEmptyAudio is returned when the synthesizer produced no bytes.
	ErrEmptyAudio = errors.New("synthesizer returned no audio")
)

// Service is the boundary between backends and the pipeline: it validates
// backend results before they reach session state.
type Service struct {
	stt STTClient
	tts TTSClient
}

func NewService(stt STTClient, tts TTSClient) *Service {
	return &Service{
		stt: stt,
		tts: tts,
	}
}

func (s *Service) Transcribe(ctx context.Context, filePath string, format Format, lang languages.Code) (string, error) {
	text, err := s.stt.Transcribe(ctx, filePath, format, lang)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

func (s *Service) Synthesize(ctx context.Context, text string, lang languages.Code, gender Gender) (Audio, error) {
	if gender == "" {
		gender = Female
	}
	audio, err := s.tts.Synthesize(ctx, text, lang, gender)
	if err != nil {
		return Audio{}, err
	}
	if audio.Empty() {
		return Audio{}, ErrEmptyAudio
	}
	if audio.Format == "" {
		audio.Format = FormatMP3
	}
	return audio, nil
}
