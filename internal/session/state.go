package session

import (
	"time"

	"github.com/Vovarama1992/speakmosaic/internal/artifact"
	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
)

const (
	MinFontSize     = 12
	MaxFontSize     = 32
	DefaultFontSize = 18
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a message shown once on the next render.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func (n Notice) Empty() bool { return n.Text == "" }

// Translation is the last original/translated pair of a Text-to-Voice run.
type Translation struct {
	Original   string         `json:"original"`
	Translated string         `json:"translated"`
	Language   languages.Code `json:"language"`
}

// State is everything the app remembers about one visitor.
// It is only touched while the owning Handle is held.
type State struct {
	ID             string
	InputText      string
	RecognizedText string
	Selected       languages.Code
	// Previous is empty until the first language change.
	Previous   languages.Code
	History    History
	DarkMode   bool
	Onboarded  bool
	AutoDetect bool
	Gender     speech.Gender
	FontSize   int

	Translation *Translation
	Speech      *artifact.Ref

	notice   Notice
	LastSeen time.Time
}

func NewState(id string, now time.Time) *State {
	return &State{
		ID:       id,
		Selected: languages.Default,
		Gender:   speech.Female,
		FontSize: DefaultFontSize,
		LastSeen: now,
	}
}

func (s *State) Clear() {
	s.InputText = ""
}

// Swap exchanges the selected and previous languages. It reports false and
// changes nothing when there is no previous language.
func (s *State) Swap() bool {
	if s.Previous == "" {
		return false
	}
	s.Selected, s.Previous = s.Previous, s.Selected
	return true
}

func (s *State) ClearHistory() {
	s.History.Clear()
}

func (s *State) ToggleDarkMode() bool {
	s.DarkMode = !s.DarkMode
	return s.DarkMode
}

func (s *State) TransferRecognized() {
	s.InputText = s.RecognizedText
}

// SelectLanguage picks a language by display name. The old selection becomes
// Previous when it differs.
func (s *State) SelectLanguage(reg *languages.Registry, displayName string) (languages.Code, error) {
	code, err := reg.Resolve(displayName)
	if err != nil {
		return "", err
	}
	if code != s.Selected {
		s.Previous = s.Selected
		s.Selected = code
	}
	return code, nil
}

func (s *State) SetInput(text string) {
	s.InputText = text
}

func (s *State) SetRecognized(text string) {
	s.RecognizedText = text
}

// SetFontSize clamps to [MinFontSize, MaxFontSize] and returns the stored value.
func (s *State) SetFontSize(n int) int {
	s.FontSize = min(max(n, MinFontSize), MaxFontSize)
	return s.FontSize
}

// DismissOnboarding reports whether this call was the one that dismissed it.
func (s *State) DismissOnboarding() bool {
	if s.Onboarded {
		return false
	}
	s.Onboarded = true
	return true
}

func (s *State) SetGender(g speech.Gender) {
	s.Gender = g
}

func (s *State) SetAutoDetect(on bool) {
	s.AutoDetect = on
}

// Flash stores a notice for the next render, replacing any pending one.
func (s *State) Flash(level Level, text string) {
	s.notice = Notice{Level: level, Text: text}
}

// TakeFlash returns the pending notice and clears it.
func (s *State) TakeFlash() (Notice, bool) {
	n := s.notice
	s.notice = Notice{}
	return n, !n.Empty()
}

// SpeechFileName is the download name of the latest recording, if any.
func (s *State) SpeechFileName() string {
	if s.Speech == nil {
		return ""
	}
	return s.Speech.FileName()
}
