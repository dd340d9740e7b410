package delivery

import (
	"context"
	"io"

	"github.com/Vovarama1992/speakmosaic/internal/artifact"
	"github.com/Vovarama1992/speakmosaic/internal/pipeline"
	"github.com/Vovarama1992/speakmosaic/internal/session"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
)

// Pipeline runs the two conversion paths on a locked session.
type Pipeline interface {
	VoiceToText(ctx context.Context, st *session.State, audio speech.Audio, autoDetect bool) (pipeline.Outcome, error)
	TextToVoice(ctx context.Context, st *session.State, gender speech.Gender) (pipeline.Outcome, error)
}

// AudioSource opens a stored recording for download.
type AudioSource interface {
	Open(ctx context.Context, ref artifact.Ref) (io.ReadCloser, artifact.Info, error)
}
