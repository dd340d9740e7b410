package delivery

import (
	"mime"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/session"
)

// Render is what every action hands back: an optional notice and the view
// after the transition.
type Render struct {
	Notice *session.Notice `json:"notice,omitempty"`
	View   View            `json:"view"`
}

func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == "application/json" {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respond finishes an action. JSON clients get the Render, browsers get the
// notice as a flash and a redirect back to the page.
func respond(w http.ResponseWriter, r *http.Request, reg *languages.Registry, st *session.State, status int, notice session.Notice) {
	if wantsJSON(r) {
		render := Render{View: buildView(reg, st)}
		if !notice.Empty() {
			render.Notice = &notice
		}
		writeJSON(w, status, render)
		return
	}

	if !notice.Empty() {
		st.Flash(notice.Level, notice.Text)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func info(text string) session.Notice {
	return session.Notice{Level: session.LevelInfo, Text: text}
}

func warning(text string) session.Notice {
	return session.Notice{Level: session.LevelWarning, Text: text}
}

func failure(text string) session.Notice {
	return session.Notice{Level: session.LevelError, Text: text}
}
