// Package config reads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

const (
	BackendGoogle     = "google"
	BackendWhisper    = "whisper"
	BackendOpenAI     = "openai"
	BackendDeepgram   = "deepgram"
	BackendElevenLabs = "elevenlabs"
	BackendStub       = "stub"
)

type Google struct {
	APIKey          string
	CredentialsFile string
}

type ElevenLabs struct {
	APIKey      string
	FemaleVoice string
	MaleVoice   string
}

type S3 struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
}

func (s S3) Enabled() bool { return s.Endpoint != "" }

type Config struct {
	Port string

	Transcriber string
	Translator  string
	Synthesizer string

	Google               Google
	OpenAIKey            string
	OpenAITranslateModel string
	DeepgramKey          string
	ElevenLabs           ElevenLabs

	S3 S3

	TelegramToken  string
	TelegramAdmins []int64

	SessionIdleTTL     time.Duration
	RateLimitPerMinute int
	MaxUploadBytes     int64
	CORSOrigins        []string
	TempDir            string
}

// Load reads .env files (missing files are ignored) and then the process
// environment. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:        env("PORT", "8080"),
		Transcriber: strings.ToLower(env("TRANSCRIBER", BackendGoogle)),
		Translator:  strings.ToLower(env("TRANSLATOR", BackendGoogle)),
		Synthesizer: strings.ToLower(env("SYNTHESIZER", BackendGoogle)),
		Google: Google{
			APIKey:          os.Getenv("GOOGLE_API_KEY"),
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		},
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		OpenAITranslateModel: os.Getenv("OPENAI_TRANSLATE_MODEL"),
		DeepgramKey:          os.Getenv("DEEPGRAM_API_KEY"),
		ElevenLabs: ElevenLabs{
			APIKey:      os.Getenv("ELEVENLABS_API_KEY"),
			FemaleVoice: os.Getenv("ELEVENLABS_VOICE_FEMALE"),
			MaleVoice:   os.Getenv("ELEVENLABS_VOICE_MALE"),
		},
		S3: S3{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
		},
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TempDir:       os.Getenv("TEMP_DIR"),
	}

	var errs []error
	var err error

	if cfg.S3.Secure, err = strconv.ParseBool(env("S3_SECURE", "true")); err != nil {
		errs = append(errs, fmt.Errorf("S3_SECURE: %w", err))
	}
	if cfg.SessionIdleTTL, err = time.ParseDuration(env("SESSION_IDLE_TTL", "30m")); err != nil {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TTL: %w", err))
	} else if cfg.SessionIdleTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TTL must be positive"))
	}
	if cfg.RateLimitPerMinute, err = strconv.Atoi(env("RATE_LIMIT_PER_MINUTE", "60")); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err))
	}
	maxUpload, err := humanize.ParseBytes(env("MAX_UPLOAD_BYTES", "20MiB"))
	if err != nil {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES: %w", err))
	}
	cfg.MaxUploadBytes = int64(maxUpload)
	cfg.CORSOrigins = splitList(env("CORS_ALLOWED_ORIGINS", "*"))

	for _, raw := range splitList(os.Getenv("TELEGRAM_ADMIN_CHAT_IDS")) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("TELEGRAM_ADMIN_CHAT_IDS: %w", err))
			continue
		}
		cfg.TelegramAdmins = append(cfg.TelegramAdmins, id)
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error

	switch c.Transcriber {
	case BackendGoogle, BackendStub:
	case BackendWhisper:
		errs = append(errs, require("OPENAI_API_KEY", c.OpenAIKey)...)
	case BackendDeepgram:
		errs = append(errs, require("DEEPGRAM_API_KEY", c.DeepgramKey)...)
	default:
		errs = append(errs, fmt.Errorf("TRANSCRIBER: unknown backend %q", c.Transcriber))
	}

	switch c.Translator {
	case BackendGoogle, BackendStub:
	case BackendOpenAI:
		errs = append(errs, require("OPENAI_API_KEY", c.OpenAIKey)...)
	default:
		errs = append(errs, fmt.Errorf("TRANSLATOR: unknown backend %q", c.Translator))
	}

	switch c.Synthesizer {
	case BackendGoogle, BackendStub:
	case BackendOpenAI:
		errs = append(errs, require("OPENAI_API_KEY", c.OpenAIKey)...)
	case BackendElevenLabs:
		errs = append(errs, require("ELEVENLABS_API_KEY", c.ElevenLabs.APIKey)...)
	default:
		errs = append(errs, fmt.Errorf("SYNTHESIZER: unknown backend %q", c.Synthesizer))
	}

	if c.S3.Enabled() {
		errs = append(errs, require("S3_BUCKET", c.S3.Bucket)...)
		errs = append(errs, require("S3_ACCESS_KEY", c.S3.AccessKey)...)
		errs = append(errs, require("S3_SECRET_KEY", c.S3.SecretKey)...)
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive"))
	}
	return errs
}

// UsesGoogle reports whether any stage needs Google credentials.
func (c *Config) UsesGoogle() bool {
	return c.Transcriber == BackendGoogle || c.Translator == BackendGoogle || c.Synthesizer == BackendGoogle
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func require(key, val string) []error {
	if val == "" {
		return []error{fmt.Errorf("%s is not set", key)}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
