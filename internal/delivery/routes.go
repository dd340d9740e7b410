package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/klauspost/compress/gzhttp"

	"github.com/Vovarama1992/speakmosaic/internal/session"
)

type RouteConfig struct {
	CORSOrigins        []string
	RateLimitPerMinute int
}

func RegisterRoutes(
	r chi.Router,
	cfg RouteConfig,
	sessions session.Service,
	log *logger.ZapLogger,
	hPage *PageHandler,
	hAction *ActionHandler,
	hAudio *AudioHandler,
) {
	r.Use(
		httputil.RecoverMiddleware,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}),
		func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) },
	)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	r.Group(func(sr chi.Router) {
		sr.Use(SessionMiddleware(sessions, log))

		// --- page / read-only ---
		sr.Get("/", hPage.Index)
		sr.Get("/api/state", hPage.State)
		sr.Get("/api/languages", hPage.Languages)
		sr.Get("/audio/latest", hAudio.Latest)

		// --- actions ---
		sr.Route("/actions", func(ar chi.Router) {
			if cfg.RateLimitPerMinute > 0 {
				ar.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
			}

			ar.Post("/language", hAction.SelectLanguage)
			ar.Post("/swap", hAction.Swap)
			ar.Post("/clear", hAction.Clear)
			ar.Post("/input", hAction.SetInput)
			ar.Post("/speak", hAction.Speak)
			ar.Post("/voice", hAction.Voice)
			ar.Post("/recognized", hAction.EditRecognized)
			ar.Post("/transfer", hAction.Transfer)
			ar.Post("/history/clear", hAction.ClearHistory)
			ar.Post("/dark-mode", hAction.ToggleDarkMode)
			ar.Post("/font-size", hAction.SetFontSize)
			ar.Post("/onboarded", hAction.DismissOnboarding)
		})
	})
}
