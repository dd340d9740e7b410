package artifact

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

var ErrNotFound = errors.New("artifact not found")

// Store is the low-level blob storage.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, Info, error)
	Delete(ctx context.Context, key string) error
}

// Info describes a stored object.
type Info struct {
	Size        int64
	ContentType string
}

// Ref points at a synthesized recording kept for download.
type Ref struct {
	Key       string
	Language  languages.Code
	Size      int64
	CreatedAt time.Time
}

// FileName is the name offered to the user on download.
func (r Ref) FileName() string {
	return "speech_" + string(r.Language) + ".mp3"
}
