package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/speakmosaic/internal/artifact"
	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/pipeline"
	"github.com/Vovarama1992/speakmosaic/internal/session"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
	"github.com/Vovarama1992/speakmosaic/internal/translate"
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	fileURL string
	fileErr error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetFile(cfg tgbotapi.FileConfig) (tgbotapi.File, error) {
	if f.fileErr != nil {
		return tgbotapi.File{}, f.fileErr
	}
	return tgbotapi.File{FileID: cfg.FileID, FilePath: "voice/" + cfg.FileID + ".oga"}, nil
}

func (f *fakeAPI) FileURL(tgbotapi.File) string { return f.fileURL }

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) lastText() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (f *fakeAPI) audios() []tgbotapi.AudioConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.AudioConfig
	for _, c := range f.sent {
		if a, ok := c.(tgbotapi.AudioConfig); ok {
			out = append(out, a)
		}
	}
	return out
}

type testBot struct {
	app      *BotApp
	api      *fakeAPI
	sessions session.Service
}

func newTestBot(t *testing.T, sttText string) *testBot {
	t.Helper()

	reg := languages.Builtin()
	arts := artifact.NewService(artifact.NewMemoryStore())
	voice := speech.NewService(
		speech.NewStubTranscriber(&speech.StubTranscriberConfig{Text: sttText}),
		speech.NewStubSynthesizer(&speech.StubSynthesizerConfig{}),
	)
	tr := translate.NewService(translate.NewStubTranslator(&translate.StubTranslatorConfig{
		Dictionary: translate.DefaultStubTranslatorConfig().Dictionary,
	}), reg)
	orch := pipeline.NewOrchestrator(voice, tr, voice, arts, nil, zap.NewNop()).WithTempDir(t.TempDir())

	api := &fakeAPI{}
	sessions := session.NewService(session.NewInfra(), zap.NewNop())
	return &testBot{
		app:      newBotApp(api, sessions, orch, arts, reg, zap.NewNop()),
		api:      api,
		sessions: sessions,
	}
}

func (b *testBot) send(t *testing.T, msg *tgbotapi.Message) {
	t.Helper()
	if msg.Chat == nil {
		msg.Chat = &tgbotapi.Chat{ID: 42}
	}
	b.app.HandleUpdate(context.Background(), tgbotapi.Update{Message: msg})
}

func (b *testBot) state(t *testing.T) *session.State {
	t.Helper()
	h, err := b.sessions.Acquire(context.Background(), SessionID(42))
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer h.Release()
	return h.State()
}

func command(text string) *tgbotapi.Message {
	name := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func TestStartRepliesWithKeyboard(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, "hola")
	b.send(t, command("/start"))

	if len(b.api.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(b.api.sent))
	}
	m := b.api.sent[0].(tgbotapi.MessageConfig)
	if _, ok := m.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup); !ok {
		t.Errorf("expected a reply keyboard, got %T", m.ReplyMarkup)
	}
	if b.sessions.Count() != 1 {
		t.Errorf("expected the chat session to exist, got %d sessions", b.sessions.Count())
	}
}

func TestLanguageCommands(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, "hola")

	b.send(t, command("/lang spanish"))
	if got := b.state(t).Selected; got != "es" {
		t.Fatalf("expected es, got %q", got)
	}
	if !strings.Contains(b.api.lastText(), "Spanish") {
		t.Errorf("unexpected reply %q", b.api.lastText())
	}

	b.send(t, command("/lang Klingon"))
	if !strings.Contains(b.api.lastText(), "Unknown language") {
		t.Errorf("expected unknown language reply, got %q", b.api.lastText())
	}
	if got := b.state(t).Selected; got != "es" {
		t.Errorf("unknown language must not change selection, got %q", got)
	}

	b.send(t, command("/swap"))
	st := b.state(t)
	if st.Selected != "en" || st.Previous != "es" {
		t.Errorf("expected en/es after swap, got %q/%q", st.Selected, st.Previous)
	}
}

func TestSwapWithoutPrevious(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, "hola")
	b.send(t, command("/swap"))

	if !strings.Contains(b.api.lastText(), "No previous language") {
		t.Errorf("unexpected reply %q", b.api.lastText())
	}
}

func TestPreferenceButtons(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, "hola")
	b.send(t, &tgbotapi.Message{Text: btnMale})
	b.send(t, &tgbotapi.Message{Text: btnAutoOn})

	st := b.state(t)
	if st.Gender != speech.Male {
		t.Errorf("expected male voice, got %q", st.Gender)
	}
	if !st.AutoDetect {
		t.Error("expected auto-detect on")
	}

	b.send(t, command("/voice robot"))
	if got := b.state(t).Gender; got != speech.Male {
		t.Errorf("invalid voice must not change gender, got %q", got)
	}
}

func TestTextToVoiceSendsAudio(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, "hola")
	b.send(t, command("/lang Spanish"))
	b.send(t, &tgbotapi.Message{Text: "hello world"})

	if got := b.api.lastText(); got != "hola mundo" {
		t.Errorf("expected translated reply, got %q", got)
	}
	audios := b.api.audios()
	if len(audios) != 1 {
		t.Fatalf("expected one audio reply, got %d", len(audios))
	}
	file, ok := audios[0].File.(tgbotapi.FileBytes)
	if !ok {
		t.Fatalf("expected FileBytes, got %T", audios[0].File)
	}
	if file.Name != "speech_es.mp3" {
		t.Errorf("expected speech_es.mp3, got %q", file.Name)
	}
	if want := string(speech.StubPayload("hola mundo", "es", speech.Female)); string(file.Bytes) != want {
		t.Errorf("expected %q, got %q", want, file.Bytes)
	}

	st := b.state(t)
	if st.Speech == nil || st.History.Len() != 1 {
		t.Errorf("expected speech and one history entry, got %+v / %d", st.Speech, st.History.Len())
	}
}

func TestVoiceMessageTranslates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OggS-voice"))
	}))
	defer srv.Close()

	b := newTestBot(t, "hola")
	b.api.fileURL = srv.URL + "/voice.oga"

	b.send(t, command("/lang French"))
	b.send(t, &tgbotapi.Message{Voice: &tgbotapi.Voice{FileID: "f1"}})

	if got := b.api.lastText(); got != "bonjour" {
		t.Errorf("expected bonjour, got %q", got)
	}
	if got := b.state(t).RecognizedText; got != "bonjour" {
		t.Errorf("expected recognized text to be translated, got %q", got)
	}

	b.send(t, command("/history"))
	if !strings.Contains(b.api.lastText(), "hola") {
		t.Errorf("expected history to list the recognized text, got %q", b.api.lastText())
	}

	b.send(t, command("/clear_history"))
	if b.state(t).History.Len() != 0 {
		t.Error("expected history to be cleared")
	}
}

func TestVoiceDownloadFailure(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, "hola")
	b.api.fileErr = errors.New("file is gone")

	b.send(t, &tgbotapi.Message{Voice: &tgbotapi.Voice{FileID: "f1"}})

	if !strings.Contains(b.api.lastText(), "Could not fetch") {
		t.Errorf("unexpected reply %q", b.api.lastText())
	}
	if b.state(t).RecognizedText != "" {
		t.Error("expected no recognized text")
	}
}

func TestVoiceNoSpeech(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OggS-silence"))
	}))
	defer srv.Close()

	b := newTestBot(t, "   ")
	b.api.fileURL = srv.URL

	b.send(t, &tgbotapi.Message{Voice: &tgbotapi.Voice{FileID: "f1"}})

	if !strings.Contains(b.api.lastText(), "Could not understand") {
		t.Errorf("unexpected reply %q", b.api.lastText())
	}
}

func TestFormatHistoryNewestFirst(t *testing.T) {
	t.Parallel()

	var h session.History
	h.Append(session.KindRecognized, "first")
	h.Append(session.KindSynthesized, "second")

	got := formatHistory(h.Recent(session.HistoryLimit))
	if got != "🔊 second\n🎤 first" {
		t.Errorf("unexpected history %q", got)
	}
	if formatHistory(nil) != "No activity yet." {
		t.Error("expected placeholder for empty history")
	}
}
