package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

// StubTranscriberConfig configures the stub recognizer behavior.
type StubTranscriberConfig struct {
	// ProcessingDelay simulates recognition time.
	ProcessingDelay time.Duration
	// Text is returned for every recording.
	Text string
	// Err, when set, fails every call.
	Err error
}

func DefaultStubTranscriberConfig() *StubTranscriberConfig {
	return &StubTranscriberConfig{
		ProcessingDelay: 20 * time.Millisecond,
		Text:            "hello world",
	}
}

// StubTranscriber returns deterministic text. Used by tests and by the
// "stub" backend for local runs without credentials.
type StubTranscriber struct {
	config *StubTranscriberConfig
}

func NewStubTranscriber(config *StubTranscriberConfig) *StubTranscriber {
	if config == nil {
		config = DefaultStubTranscriberConfig()
	}
	return &StubTranscriber{config: config}
}

func (s *StubTranscriber) Transcribe(ctx context.Context, _ string, _ Format, _ languages.Code) (string, error) {
	if err := wait(ctx, s.config.ProcessingDelay); err != nil {
		return "", err
	}
	if s.config.Err != nil {
		return "", s.config.Err
	}
	return s.config.Text, nil
}

// StubSynthesizerConfig configures the stub synthesizer behavior.
type StubSynthesizerConfig struct {
	ProcessingDelay time.Duration
	Err             error
}

func DefaultStubSynthesizerConfig() *StubSynthesizerConfig {
	return &StubSynthesizerConfig{
		ProcessingDelay: 20 * time.Millisecond,
	}
}

// StubSynthesizer returns a fake MP3 payload that encodes its inputs, so
// callers can assert on what was spoken.
type StubSynthesizer struct {
	config *StubSynthesizerConfig
}

func NewStubSynthesizer(config *StubSynthesizerConfig) *StubSynthesizer {
	if config == nil {
		config = DefaultStubSynthesizerConfig()
	}
	return &StubSynthesizer{config: config}
}

func (s *StubSynthesizer) Synthesize(ctx context.Context, text string, lang languages.Code, gender Gender) (Audio, error) {
	if err := wait(ctx, s.config.ProcessingDelay); err != nil {
		return Audio{}, err
	}
	if s.config.Err != nil {
		return Audio{}, s.config.Err
	}
	return Audio{
		Data:   StubPayload(text, lang, gender),
		Format: FormatMP3,
	}, nil
}

// StubPayload is the exact byte content StubSynthesizer produces.
func StubPayload(text string, lang languages.Code, gender Gender) []byte {
	return []byte(fmt.Sprintf("ID3|%s|%s|%s", lang, gender, text))
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
