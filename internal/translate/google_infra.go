package translate

import (
	"context"
	"errors"
	"fmt"
	"html"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gtranslate "google.golang.org/api/translate/v2"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

// GoogleTranslator uses the Cloud Translation v2 REST API.
type GoogleTranslator struct {
	svc *gtranslate.Service
}

func NewGoogleTranslator(ctx context.Context, opts ...option.ClientOption) (*GoogleTranslator, error) {
	svc, err := gtranslate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google translate client: %w", err)
	}
	return &GoogleTranslator{svc: svc}, nil
}

func (g *GoogleTranslator) Translate(ctx context.Context, text string, target languages.Code) (string, error) {
	resp, err := g.svc.Translations.
		List([]string{text}, languages.BCP47(target)).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Message != "" {
			return "", fmt.Errorf("google translate: %d %s", gerr.Code, gerr.Message)
		}
		return "", fmt.Errorf("google translate: %w", err)
	}
	if len(resp.Translations) == 0 {
		return "", ErrEmptyResult
	}
	// Format("text") is honoured for most pairs, but entities still leak through.
	return html.UnescapeString(resp.Translations[0].TranslatedText), nil
}
