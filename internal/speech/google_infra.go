package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gspeech "google.golang.org/api/speech/v1"
	"google.golang.org/api/texttospeech/v1"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

// Google's recognizer needs a language; auto-detect falls back to it.
const googleFallbackLanguage = "en-US"

// GoogleClient talks to Cloud Speech-to-Text and Cloud Text-to-Speech.
type GoogleClient struct {
	stt *gspeech.Service
	tts *texttospeech.Service
}

func NewGoogleClient(ctx context.Context, opts ...option.ClientOption) (*GoogleClient, error) {
	stt, err := gspeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google speech client: %w", err)
	}
	tts, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google tts client: %w", err)
	}
	return &GoogleClient{stt: stt, tts: tts}, nil
}

func (c *GoogleClient) Transcribe(ctx context.Context, filePath string, format Format, lang languages.Code) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}

	cfg := &gspeech.RecognitionConfig{
		LanguageCode: googleFallbackLanguage,
	}
	if lang != languages.Auto {
		cfg.LanguageCode = languages.BCP47(lang)
	}
	// WAV carries its own header, the recognizer reads encoding and rate from it.
	if format == FormatOGG {
		cfg.Encoding = "OGG_OPUS"
		cfg.SampleRateHertz = 48000
	}

	resp, err := c.stt.Speech.Recognize(&gspeech.RecognizeRequest{
		Config: cfg,
		Audio: &gspeech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(data),
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("google recognize: %w", googleError(err))
	}

	var parts []string
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		parts = append(parts, strings.TrimSpace(r.Alternatives[0].Transcript))
	}
	return strings.Join(parts, " "), nil
}

func (c *GoogleClient) Synthesize(ctx context.Context, text string, lang languages.Code, gender Gender) (Audio, error) {
	ssml := "FEMALE"
	if gender == Male {
		ssml = "MALE"
	}

	resp, err := c.tts.Text.Synthesize(&texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: languages.BCP47(lang),
			SsmlGender:   ssml,
		},
		AudioConfig: &texttospeech.AudioConfig{AudioEncoding: "MP3"},
	}).Context(ctx).Do()
	if err != nil {
		return Audio{}, fmt.Errorf("google synthesize: %w", googleError(err))
	}

	data, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return Audio{}, fmt.Errorf("decode google audio: %w", err)
	}
	return Audio{Data: data, Format: FormatMP3}, nil
}

// googleError keeps only the service message of an API error.
func googleError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return fmt.Errorf("%d %s", gerr.Code, gerr.Message)
	}
	return err
}
