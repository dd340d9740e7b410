package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

// Gender selects the synthesized voice.
type Gender string

const (
	Female Gender = "female"
	Male   Gender = "male"
)

func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case Female:
		return Female, nil
	case Male:
		return Male, nil
	}
	return "", fmt.Errorf("unknown voice gender %q", s)
}

// Format is the container/codec of an audio buffer.
type Format string

const (
	FormatWAV Format = "wav"
	FormatOGG Format = "ogg"
	FormatMP3 Format = "mp3"
)

func (f Format) ContentType() string {
	switch f {
	case FormatWAV:
		return "audio/wav"
	case FormatOGG:
		return "audio/ogg"
	case FormatMP3:
		return "audio/mpeg"
	}
	return "application/octet-stream"
}

// Audio is an encoded audio buffer.
type Audio struct {
	Data   []byte
	Format Format
}

func (a Audio) Empty() bool { return len(a.Data) == 0 }

// STTClient turns a recorded file into text. lang == languages.Auto lets the
// backend detect the spoken language.
type STTClient interface {
	Transcribe(ctx context.Context, filePath string, format Format, lang languages.Code) (string, error)
}

// TTSClient turns text into MP3 audio.
type TTSClient interface {
	Synthesize(ctx context.Context, text string, lang languages.Code, gender Gender) (Audio, error)
}

// baseCode strips the region from a code ("zh-cn" → "zh") for backends that
// only take ISO 639-1 codes.
func baseCode(lang languages.Code) string {
	s := string(lang)
	if i := strings.IndexAny(s, "-_"); i >= 0 {
		s = s[:i]
	}
	return s
}
