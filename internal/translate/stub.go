package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

// StubTranslatorConfig configures the stub translator behavior.
type StubTranslatorConfig struct {
	ProcessingDelay time.Duration
	// Dictionary maps [target][source text] to the translation.
	// Misses return "[<target>] " + text.
	Dictionary map[languages.Code]map[string]string
	Err        error
}

func DefaultStubTranslatorConfig() *StubTranslatorConfig {
	return &StubTranslatorConfig{
		ProcessingDelay: 20 * time.Millisecond,
		Dictionary: map[languages.Code]map[string]string{
			"en": {
				"hola":        "hello",
				"bonjour":     "hello",
				"hola amigo":  "hello friend",
				"hello world": "hello world",
			},
			"es": {
				"hello":       "hola",
				"hello world": "hola mundo",
			},
			"fr": {
				"hola":        "bonjour",
				"hello":       "bonjour",
				"hello world": "bonjour le monde",
			},
		},
	}
}

// StubTranslator returns deterministic translations.
type StubTranslator struct {
	config *StubTranslatorConfig
}

func NewStubTranslator(config *StubTranslatorConfig) *StubTranslator {
	if config == nil {
		config = DefaultStubTranslatorConfig()
	}
	return &StubTranslator{config: config}
}

func (s *StubTranslator) Translate(ctx context.Context, text string, target languages.Code) (string, error) {
	if s.config.ProcessingDelay > 0 {
		select {
		case <-time.After(s.config.ProcessingDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.config.Err != nil {
		return "", s.config.Err
	}
	if byText, ok := s.config.Dictionary[target]; ok {
		if out, ok := byText[text]; ok {
			return out, nil
		}
	}
	return fmt.Sprintf("[%s] %s", target, text), nil
}
