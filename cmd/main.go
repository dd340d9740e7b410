package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/Vovarama1992/speakmosaic/internal/artifact"
	"github.com/Vovarama1992/speakmosaic/internal/config"
	"github.com/Vovarama1992/speakmosaic/internal/delivery"
	"github.com/Vovarama1992/speakmosaic/internal/error_notificator"
	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/pipeline"
	"github.com/Vovarama1992/speakmosaic/internal/session"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
	"github.com/Vovarama1992/speakmosaic/internal/telegram"
	"github.com/Vovarama1992/speakmosaic/internal/translate"
)

func main() {

	// =========================================================================
	// ENV / LOGGING
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := languages.Builtin()

	// =========================================================================
	// CLIENTS (STT / TRANSLATE / TTS)
	// =========================================================================

	googleOpts := googleOptions(cfg)

	var googleSpeech *speech.GoogleClient
	if cfg.Transcriber == config.BackendGoogle || cfg.Synthesizer == config.BackendGoogle {
		googleSpeech, err = speech.NewGoogleClient(ctx, googleOpts...)
		if err != nil {
			log.Fatalf("failed to init google speech: %v", err)
		}
	}

	var openAISpeech *speech.OpenAIClient
	if cfg.OpenAIKey != "" {
		openAISpeech = speech.NewOpenAIClient(cfg.OpenAIKey)
	}

	var stt speech.STTClient
	switch cfg.Transcriber {
	case config.BackendGoogle:
		stt = googleSpeech
	case config.BackendWhisper:
		stt = openAISpeech
	case config.BackendDeepgram:
		stt = speech.NewDeepgramClient(cfg.DeepgramKey)
	default:
		stt = speech.NewStubTranscriber(nil)
	}

	var tts speech.TTSClient
	switch cfg.Synthesizer {
	case config.BackendGoogle:
		tts = googleSpeech
	case config.BackendOpenAI:
		tts = openAISpeech
	case config.BackendElevenLabs:
		tts = speech.NewElevenLabsClient(speech.ElevenLabsConfig{
			APIKey:      cfg.ElevenLabs.APIKey,
			FemaleVoice: cfg.ElevenLabs.FemaleVoice,
			MaleVoice:   cfg.ElevenLabs.MaleVoice,
		})
	default:
		tts = speech.NewStubSynthesizer(nil)
	}

	var trBackend translate.Translator
	switch cfg.Translator {
	case config.BackendGoogle:
		trBackend, err = translate.NewGoogleTranslator(ctx, googleOpts...)
		if err != nil {
			log.Fatalf("failed to init google translate: %v", err)
		}
	case config.BackendOpenAI:
		trBackend = translate.NewOpenAITranslator(openai.DefaultConfig(cfg.OpenAIKey), cfg.OpenAITranslateModel, registry)
	default:
		trBackend = translate.NewStubTranslator(nil)
	}

	speechService := speech.NewService(stt, tts)
	translateService := translate.NewService(trBackend, registry)

	baseLogger.Info("backends selected",
		zap.String("transcriber", cfg.Transcriber),
		zap.String("translator", cfg.Translator),
		zap.String("synthesizer", cfg.Synthesizer),
	)

	// =========================================================================
	// STORAGE
	// =========================================================================

	var store artifact.Store
	if cfg.S3.Enabled() {
		store, err = artifact.NewS3Store(ctx, artifact.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Secure:    cfg.S3.Secure,
		})
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
	} else {
		store = artifact.NewMemoryStore()
	}
	artifacts := artifact.NewService(store)

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	tgNotifier := error_notificator.NewTelegramInfra(nil, cfg.TelegramAdmins, baseLogger)
	errService := error_notificator.NewService(
		error_notificator.NewLogInfra(baseLogger),
		tgNotifier,
	)

	// =========================================================================
	// SESSIONS / PIPELINE
	// =========================================================================

	sessions := session.NewService(session.NewInfra(), baseLogger)
	sessions.OnEnd(func(ctx context.Context, st *session.State) {
		if st.Speech == nil {
			return
		}
		if err := artifacts.Discard(ctx, *st.Speech); err != nil {
			baseLogger.Warn("discard speech of ended session",
				zap.String("session", st.ID),
				zap.Error(err),
			)
		}
	})

	orchestrator := pipeline.NewOrchestrator(
		speechService,
		translateService,
		speechService,
		artifacts,
		errService,
		baseLogger,
	).WithTempDir(cfg.TempDir)

	// =========================================================================
	// TELEGRAM BOT
	// =========================================================================

	if cfg.TelegramToken != "" {
		botApp, bot, err := telegram.NewBotApp(cfg.TelegramToken, sessions, orchestrator, artifacts, registry, baseLogger)
		if err != nil {
			log.Fatalf("failed to init telegram bot: %v", err)
		}
		tgNotifier.SetBot(bot)
		go botApp.Run(ctx)
	}

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()

	pageHandler := delivery.NewPageHandler(registry, sessions, zl)
	actionHandler := delivery.NewActionHandler(orchestrator, registry, cfg.MaxUploadBytes, zl)
	audioHandler := delivery.NewAudioHandler(artifacts, zl)

	delivery.RegisterRoutes(
		r,
		delivery.RouteConfig{
			CORSOrigins:        cfg.CORSOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		},
		sessions,
		zl,
		pageHandler,
		actionHandler,
		audioHandler,
	)

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	go func() {
		ticker := time.NewTicker(sweepInterval(cfg.SessionIdleTTL))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.SweepIdle(ctx, cfg.SessionIdleTTL); n > 0 {
					baseLogger.Info("[sweeper] ended idle sessions",
						zap.Int("ended", n),
						zap.Int("live", sessions.Count()),
					)
				}
			}
		}
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			baseLogger.Warn("shutdown", zap.Error(err))
		}
	}()

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "speakmosaic",
	})

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// googleOptions returns client options for the Google APIs, or nil when no
// stage is backed by Google.
func googleOptions(cfg *config.Config) []option.ClientOption {
	if !cfg.UsesGoogle() {
		return nil
	}
	switch {
	case cfg.Google.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.Google.CredentialsFile)}
	case cfg.Google.APIKey != "":
		return []option.ClientOption{option.WithAPIKey(cfg.Google.APIKey)}
	}
	return nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	if d := ttl / 4; d > 0 && d < time.Minute {
		return d
	}
	return time.Minute
}
