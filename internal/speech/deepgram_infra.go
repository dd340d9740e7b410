package speech

import (
	"context"
	"fmt"
	"io"
	"os"

	restapi "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/rest"
	restiface "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/rest/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/listen"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

const deepgramModel = "nova-2"

// deepgramListener is the prerecorded part of the Deepgram SDK.
type deepgramListener interface {
	FromStream(ctx context.Context, src io.Reader, options *interfaces.PreRecordedTranscriptionOptions) (*restiface.PreRecordedResponse, error)
}

type DeepgramClient struct {
	listener deepgramListener
}

func NewDeepgramClient(apiKey string) *DeepgramClient {
	return &DeepgramClient{
		listener: restapi.New(listen.NewREST(apiKey, &interfaces.ClientOptions{})),
	}
}

// Transcribe sends the whole recording to the prerecorded endpoint. The
// container format is sniffed by Deepgram.
func (c *DeepgramClient) Transcribe(ctx context.Context, filePath string, _ Format, lang languages.Code) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	opts := &interfaces.PreRecordedTranscriptionOptions{
		Model:       deepgramModel,
		SmartFormat: true,
	}
	if lang == languages.Auto {
		opts.DetectLanguage = true
	} else {
		opts.Language = languages.BCP47(lang)
	}

	resp, err := c.listener.FromStream(ctx, f, opts)
	if err != nil {
		return "", fmt.Errorf("deepgram listen: %w", err)
	}

	// no channels means silence; the service reports it as ErrNoSpeech
	if resp == nil || resp.Results == nil ||
		len(resp.Results.Channels) == 0 ||
		len(resp.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}
	return resp.Results.Channels[0].Alternatives[0].Transcript, nil
}
