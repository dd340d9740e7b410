package translate

import (
	"context"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

// Translator renders text in the target language. The source language is
// always detected by the backend.
type Translator interface {
	Translate(ctx context.Context, text string, target languages.Code) (string, error)
}
