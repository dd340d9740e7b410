package delivery

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"ago":   func(t time.Time) string { return humanize.Time(t) },
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
	}).ParseFS(templateFS, "templates/index.html"),
)

type pageData struct {
	View           View
	Notice         *session.Notice
	Languages      []string
	ActiveSessions int
	MinFontSize    int
	MaxFontSize    int
}

// PageHandler renders the single-page UI and the read-only JSON endpoints.
type PageHandler struct {
	registry *languages.Registry
	sessions session.Service
	log      *logger.ZapLogger
}

func NewPageHandler(reg *languages.Registry, sessions session.Service, log *logger.ZapLogger) *PageHandler {
	return &PageHandler{
		registry: reg,
		sessions: sessions,
		log:      log,
	}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	st := StateFrom(r.Context())

	data := pageData{
		View:           buildView(h.registry, st),
		Languages:      h.registry.DisplayNames(),
		ActiveSessions: h.sessions.Count(),
		MinFontSize:    session.MinFontSize,
		MaxFontSize:    session.MaxFontSize,
	}
	if n, ok := st.TakeFlash(); ok {
		data.Notice = &n
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "render page", Error: err, Service: serviceName})
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *PageHandler) State(w http.ResponseWriter, r *http.Request) {
	st := StateFrom(r.Context())
	render := Render{View: buildView(h.registry, st)}
	if n, ok := st.TakeFlash(); ok {
		render.Notice = &n
	}
	writeJSON(w, http.StatusOK, render)
}

type languageEntry struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Recognition bool   `json:"recognition"`
}

func (h *PageHandler) Languages(w http.ResponseWriter, _ *http.Request) {
	names := h.registry.DisplayNames()
	out := make([]languageEntry, 0, len(names))
	for _, name := range names {
		code, _ := h.registry.Resolve(name)
		out = append(out, languageEntry{
			Name:        name,
			Code:        string(code),
			Recognition: h.registry.RecognitionSupported(code),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"languages": out})
}
