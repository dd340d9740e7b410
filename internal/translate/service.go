package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

// ErrEmptyResult is returned when a backend answers with no text.
var ErrEmptyResult = errors.New("translator returned no text")

type Service struct {
	backend  Translator
	registry *languages.Registry
}

func NewService(backend Translator, registry *languages.Registry) *Service {
	return &Service{
		backend:  backend,
		registry: registry,
	}
}

// Translate validates the target before calling out. Empty input translates
// to empty output without a backend round-trip.
func (s *Service) Translate(ctx context.Context, text string, target languages.Code) (string, error) {
	if !s.registry.Valid(target) {
		return "", fmt.Errorf("%w: %q", languages.ErrUnknownLanguage, target)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	out, err := s.backend.Translate(ctx, text, target)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyResult
	}
	return out, nil
}
