package delivery

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/speakmosaic/internal/artifact"
)

type AudioHandler struct {
	source AudioSource
	log    *logger.ZapLogger
}

func NewAudioHandler(source AudioSource, log *logger.ZapLogger) *AudioHandler {
	return &AudioHandler{source: source, log: log}
}

// Latest streams the session's most recent synthesized recording. With
// ?inline=1 it is served for playback instead of as a download.
func (h *AudioHandler) Latest(w http.ResponseWriter, r *http.Request) {
	st := StateFrom(r.Context())
	if st.Speech == nil {
		http.Error(w, "no audio yet", http.StatusNotFound)
		return
	}
	ref := *st.Speech

	rc, meta, err := h.source.Open(r.Context(), ref)
	if errors.Is(err, artifact.ErrNotFound) {
		http.Error(w, "audio expired", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "open audio", Error: err, Service: serviceName})
		http.Error(w, "failed to open audio", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	disposition := "attachment"
	if parseBool(r.URL.Query().Get("inline")) {
		disposition = "inline"
	}
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": ref.FileName()}))
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	w.Header().Set("Cache-Control", "no-store")

	if _, err := io.Copy(w, rc); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "stream audio", Error: err, Service: serviceName})
	}
}
