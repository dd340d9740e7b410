package delivery

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/pipeline"
	"github.com/Vovarama1992/speakmosaic/internal/session"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
)

const serviceName = "speakmosaic"

// ActionHandler serves the POST /actions/* routes. Each method performs one
// transition on the request's session.
type ActionHandler struct {
	pipeline  Pipeline
	registry  *languages.Registry
	maxUpload int64
	log       *logger.ZapLogger
}

func NewActionHandler(p Pipeline, reg *languages.Registry, maxUpload int64, log *logger.ZapLogger) *ActionHandler {
	return &ActionHandler{
		pipeline:  p,
		registry:  reg,
		maxUpload: maxUpload,
		log:       log,
	}
}

func (h *ActionHandler) done(w http.ResponseWriter, r *http.Request, status int, notice session.Notice) {
	respond(w, r, h.registry, StateFrom(r.Context()), status, notice)
}

func (h *ActionHandler) SelectLanguage(w http.ResponseWriter, r *http.Request) {
	st := StateFrom(r.Context())
	name := r.FormValue("language")

	code, err := st.SelectLanguage(h.registry, name)
	if err != nil {
		h.done(w, r, http.StatusBadRequest, failure(fmt.Sprintf("Unknown language: %q", name)))
		return
	}

	display, _ := h.registry.Name(code)
	if !h.registry.RecognitionSupported(code) {
		h.done(w, r, http.StatusOK, warning(fmt.Sprintf("%s has limited speech recognition support.", display)))
		return
	}
	h.done(w, r, http.StatusOK, info("Language set to "+display+"."))
}

func (h *ActionHandler) Swap(w http.ResponseWriter, r *http.Request) {
	st := StateFrom(r.Context())
	if !st.Swap() {
		h.done(w, r, http.StatusOK, warning("No previous language to swap with."))
		return
	}
	h.done(w, r, http.StatusOK, session.Notice{})
}

func (h *ActionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	StateFrom(r.Context()).Clear()
	h.done(w, r, http.StatusOK, session.Notice{})
}

func (h *ActionHandler) SetInput(w http.ResponseWriter, r *http.Request) {
	StateFrom(r.Context()).SetInput(r.FormValue("text"))
	h.done(w, r, http.StatusOK, session.Notice{})
}

func (h *ActionHandler) EditRecognized(w http.ResponseWriter, r *http.Request) {
	StateFrom(r.Context()).SetRecognized(r.FormValue("text"))
	h.done(w, r, http.StatusOK, session.Notice{})
}

func (h *ActionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	StateFrom(r.Context()).TransferRecognized()
	h.done(w, r, http.StatusOK, session.Notice{})
}

func (h *ActionHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	StateFrom(r.Context()).ClearHistory()
	h.done(w, r, http.StatusOK, info("History cleared."))
}

func (h *ActionHandler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	StateFrom(r.Context()).ToggleDarkMode()
	h.done(w, r, http.StatusOK, session.Notice{})
}

func (h *ActionHandler) SetFontSize(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(strings.TrimSpace(r.FormValue("size")))
	if err != nil {
		h.done(w, r, http.StatusBadRequest, failure("Font size must be a number."))
		return
	}
	StateFrom(r.Context()).SetFontSize(size)
	h.done(w, r, http.StatusOK, session.Notice{})
}

func (h *ActionHandler) DismissOnboarding(w http.ResponseWriter, r *http.Request) {
	StateFrom(r.Context()).DismissOnboarding()
	h.done(w, r, http.StatusOK, session.Notice{})
}

// Speak runs Text-to-Voice. An optional "text" field replaces the input
// first, an optional "gender" field picks the voice.
func (h *ActionHandler) Speak(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := StateFrom(ctx)

	if err := r.ParseForm(); err != nil {
		h.done(w, r, http.StatusBadRequest, failure("Invalid form."))
		return
	}
	if _, ok := r.PostForm["text"]; ok {
		st.SetInput(r.PostForm.Get("text"))
	}
	if g := r.PostForm.Get("gender"); g != "" {
		gender, err := speech.ParseGender(g)
		if err != nil {
			h.done(w, r, http.StatusBadRequest, failure("Unknown voice: "+g))
			return
		}
		st.SetGender(gender)
	}

	out, err := h.pipeline.TextToVoice(ctx, st, st.Gender)
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		h.done(w, r, http.StatusUnprocessableEntity, warning("Please enter some text first."))
		return
	case err != nil:
		h.log.Log(logger.LogEntry{Level: "error", Message: "text to voice failed", Error: err, Service: serviceName})
		h.done(w, r, http.StatusBadGateway, failure(err.Error()))
		return
	}

	h.done(w, r, http.StatusOK, info("Speech ready: "+out.Speech.FileName()))
}

// Voice runs Voice-to-Text on an uploaded recording (multipart field
// "audio"). A missing or empty recording leaves everything as is.
func (h *ActionHandler) Voice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := StateFrom(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.done(w, r, http.StatusRequestEntityTooLarge, failure("Recording is too large."))
			return
		}
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Error: err, Service: serviceName})
		h.done(w, r, http.StatusBadRequest, failure("Invalid upload."))
		return
	}

	autoDetect := parseBool(r.FormValue("auto_detect"))
	st.SetAutoDetect(autoDetect)

	audio, err := readAudio(r)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "read recording", Error: err, Service: serviceName})
		h.done(w, r, http.StatusBadRequest, failure("Could not read the recording."))
		return
	}

	out, err := h.pipeline.VoiceToText(ctx, st, audio, autoDetect)
	switch {
	case errors.Is(err, speech.ErrNoSpeech):
		h.done(w, r, http.StatusUnprocessableEntity, warning("Could not understand the audio."))
		return
	case errors.Is(err, pipeline.ErrTranslation):
		h.log.Log(logger.LogEntry{Level: "warn", Message: "recognized text not translated", Error: err, Service: serviceName})
		h.done(w, r, http.StatusBadGateway, warning("Recognized, but "+err.Error()))
		return
	case err != nil:
		h.log.Log(logger.LogEntry{Level: "error", Message: "voice to text failed", Error: err, Service: serviceName})
		h.done(w, r, http.StatusBadGateway, failure(err.Error()))
		return
	}

	if out.Stage == pipeline.StageIdle {
		h.done(w, r, http.StatusOK, info("No recording yet."))
		return
	}
	h.done(w, r, http.StatusOK, info("Recognized: "+session.Truncate(out.Recognized)))
}

func readAudio(r *http.Request) (speech.Audio, error) {
	if r.MultipartForm == nil {
		return speech.Audio{}, nil
	}
	file, header, err := r.FormFile("audio")
	if errors.Is(err, http.ErrMissingFile) {
		return speech.Audio{}, nil
	}
	if err != nil {
		return speech.Audio{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return speech.Audio{}, err
	}

	format := speech.FormatWAV
	ct := strings.ToLower(header.Header.Get("Content-Type"))
	name := strings.ToLower(header.Filename)
	switch {
	case strings.Contains(ct, "ogg") || strings.HasSuffix(name, ".ogg") || strings.HasSuffix(name, ".oga"):
		format = speech.FormatOGG
	case strings.Contains(ct, "mpeg") || strings.HasSuffix(name, ".mp3"):
		format = speech.FormatMP3
	}
	return speech.Audio{Data: data, Format: format}, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
