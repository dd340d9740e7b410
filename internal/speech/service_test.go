package speech

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

func TestService_TranscribeTrims(t *testing.T) {
	t.Parallel()

	svc := NewService(NewStubTranscriber(&StubTranscriberConfig{Text: "  hola  "}), nil)

	text, err := svc.Transcribe(context.Background(), "unused.wav", FormatWAV, "es")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "hola" {
		t.Errorf("expected %q, got %q", "hola", text)
	}
}

func TestService_TranscribeNoSpeech(t *testing.T) {
	t.Parallel()

	svc := NewService(NewStubTranscriber(&StubTranscriberConfig{Text: "   "}), nil)

	_, err := svc.Transcribe(context.Background(), "unused.wav", FormatWAV, languages.Auto)
	if !errors.Is(err, ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech, got %v", err)
	}
}

func TestService_TranscribeBackendError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	svc := NewService(NewStubTranscriber(&StubTranscriberConfig{Err: boom}), nil)

	_, err := svc.Transcribe(context.Background(), "unused.wav", FormatWAV, "en")
	if !errors.Is(err, boom) {
		t.Errorf("expected backend error, got %v", err)
	}
}

func TestService_SynthesizeDefaultsToFemale(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, NewStubSynthesizer(&StubSynthesizerConfig{}))

	audio, err := svc.Synthesize(context.Background(), "bonjour", "fr", "")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if want := StubPayload("bonjour", "fr", Female); !bytes.Equal(audio.Data, want) {
		t.Errorf("expected %q, got %q", want, audio.Data)
	}
	if audio.Format != FormatMP3 {
		t.Errorf("expected mp3, got %q", audio.Format)
	}
}

type emptyTTS struct{}

func (emptyTTS) Synthesize(context.Context, string, languages.Code, Gender) (Audio, error) {
	return Audio{}, nil
}

func TestService_SynthesizeEmptyAudio(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, emptyTTS{})

	_, err := svc.Synthesize(context.Background(), "hi", "en", Male)
	if !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestStubTranscriber_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStubTranscriber(nil).Transcribe(ctx, "x", FormatWAV, "en")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParseGender(t *testing.T) {
	t.Parallel()

	cases := map[string]Gender{"female": Female, " Male ": Male, "FEMALE": Female}
	for in, want := range cases {
		got, err := ParseGender(in)
		if err != nil {
			t.Fatalf("ParseGender(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseGender(%q): expected %q, got %q", in, want, got)
		}
	}
	if _, err := ParseGender("robot"); err == nil {
		t.Error("expected error for unknown gender")
	}
}

func TestBaseCode(t *testing.T) {
	t.Parallel()

	cases := map[languages.Code]string{"zh-cn": "zh", "en": "en", "pt_BR": "pt", "": ""}
	for in, want := range cases {
		if got := baseCode(in); got != want {
			t.Errorf("baseCode(%q): expected %q, got %q", in, want, got)
		}
	}
}
