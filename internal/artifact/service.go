package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// ObjectKey is the path in the store: <session>/<xid>/speech_<code>.mp3.
// Session IDs may contain ':' (telegram chats), which is kept as is.
func ObjectKey(sessionID string, lang languages.Code) string {
	clean := strings.ReplaceAll(sessionID, "/", "_")
	return fmt.Sprintf("%s/%s/%s", clean, xid.New().String(), Ref{Language: lang}.FileName())
}

// SaveSpeech stores a synthesized recording and returns its reference.
func (s *Service) SaveSpeech(ctx context.Context, sessionID string, lang languages.Code, audio speech.Audio) (Ref, error) {
	if sessionID == "" {
		return Ref{}, fmt.Errorf("session id required")
	}

	key := ObjectKey(sessionID, lang)
	size := int64(len(audio.Data))
	if err := s.store.Put(ctx, key, bytes.NewReader(audio.Data), size, speech.FormatMP3.ContentType()); err != nil {
		return Ref{}, err
	}

	return Ref{
		Key:       key,
		Language:  lang,
		Size:      size,
		CreatedAt: s.now(),
	}, nil
}

func (s *Service) Open(ctx context.Context, ref Ref) (io.ReadCloser, Info, error) {
	return s.store.Get(ctx, ref.Key)
}

// Discard removes the object behind ref. A zero ref is a no-op.
func (s *Service) Discard(ctx context.Context, ref Ref) error {
	if ref.Key == "" {
		return nil
	}
	return s.store.Delete(ctx, ref.Key)
}
