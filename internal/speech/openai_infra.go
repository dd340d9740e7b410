package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

// OpenAIClient covers both directions: Whisper for recognition and the speech
// endpoint for synthesis.
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
	}
}

// NewOpenAIClientWithConfig is used when the base URL must be overridden.
func NewOpenAIClientWithConfig(cfg openai.ClientConfig) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (c *OpenAIClient) Transcribe(ctx context.Context, filePath string, format Format, lang languages.Code) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
	}
	if lang != languages.Auto {
		req.Language = baseCode(lang)
	}

	resp, err := c.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}
	return resp.Text, nil
}

func (c *OpenAIClient) Synthesize(ctx context.Context, text string, _ languages.Code, gender Gender) (Audio, error) {
	voice := openai.VoiceNova
	if gender == Male {
		voice = openai.VoiceOnyx
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return Audio{}, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return Audio{}, fmt.Errorf("read openai audio: %w", err)
	}
	return Audio{Data: data, Format: FormatMP3}, nil
}
