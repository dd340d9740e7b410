package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/haguro/elevenlabs-go"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

const (
	elevenLabsModel   = "eleven_multilingual_v2"
	elevenLabsTimeout = 30 * time.Second

	// Rachel and Adam, the stock multilingual voices.
	defaultElevenLabsFemale = "21m00Tcm4TlvDq8ikWAM"
	defaultElevenLabsMale   = "pNInz6obpgDQGcFmaJgB"
)

type ElevenLabsConfig struct {
	APIKey      string
	FemaleVoice string
	MaleVoice   string
}

// elevenLabsSpeaker is the part of *elevenlabs.Client used here.
type elevenLabsSpeaker interface {
	TextToSpeech(voiceID string, req elevenlabs.TextToSpeechRequest, queries ...elevenlabs.QueryFunc) ([]byte, error)
}

type ElevenLabsClient struct {
	cfg ElevenLabsConfig
	// The SDK binds a context at construction, so a client is built per call.
	newSpeaker func(ctx context.Context) elevenLabsSpeaker
}

func NewElevenLabsClient(cfg ElevenLabsConfig) *ElevenLabsClient {
	if cfg.FemaleVoice == "" {
		cfg.FemaleVoice = defaultElevenLabsFemale
	}
	if cfg.MaleVoice == "" {
		cfg.MaleVoice = defaultElevenLabsMale
	}
	return &ElevenLabsClient{
		cfg: cfg,
		newSpeaker: func(ctx context.Context) elevenLabsSpeaker {
			return elevenlabs.NewClient(ctx, cfg.APIKey, elevenLabsTimeout)
		},
	}
}

// Synthesize returns MP3. The multilingual model picks the language from the
// text itself.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string, _ languages.Code, gender Gender) (Audio, error) {
	voiceID := c.cfg.FemaleVoice
	if gender == Male {
		voiceID = c.cfg.MaleVoice
	}

	data, err := c.newSpeaker(ctx).TextToSpeech(voiceID, elevenlabs.TextToSpeechRequest{
		Text:    text,
		ModelID: elevenLabsModel,
	})
	if err != nil {
		return Audio{}, fmt.Errorf("elevenlabs: %w", err)
	}
	return Audio{Data: data, Format: FormatMP3}, nil
}
