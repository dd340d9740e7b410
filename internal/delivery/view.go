package delivery

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/session"
)

type LanguageView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type SpeechView struct {
	FileName  string    `json:"file_name"`
	Language  string    `json:"language"`
	Size      int64     `json:"size"`
	SizeHuman string    `json:"size_human"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
}

// View is the render-ready projection of a session.
type View struct {
	InputText          string                  `json:"input_text"`
	RecognizedText     string                  `json:"recognized_text"`
	Selected           LanguageView            `json:"selected"`
	Previous           *LanguageView           `json:"previous,omitempty"`
	LimitedRecognition bool                    `json:"limited_recognition"`
	History            []session.ActivityEntry `json:"history"`
	DarkMode           bool                    `json:"dark_mode"`
	Onboarded          bool                    `json:"onboarded"`
	AutoDetect         bool                    `json:"auto_detect"`
	Gender             string                  `json:"gender"`
	FontSize           int                     `json:"font_size"`
	Translation        *session.Translation    `json:"translation,omitempty"`
	Speech             *SpeechView             `json:"speech,omitempty"`
}

func languageView(reg *languages.Registry, code languages.Code) LanguageView {
	name, _ := reg.Name(code)
	return LanguageView{Code: string(code), Name: name}
}

func buildView(reg *languages.Registry, st *session.State) View {
	v := View{
		InputText:          st.InputText,
		RecognizedText:     st.RecognizedText,
		Selected:           languageView(reg, st.Selected),
		LimitedRecognition: !reg.RecognitionSupported(st.Selected),
		History:            st.History.Recent(session.HistoryLimit),
		DarkMode:           st.DarkMode,
		Onboarded:          st.Onboarded,
		AutoDetect:         st.AutoDetect,
		Gender:             string(st.Gender),
		FontSize:           st.FontSize,
		Translation:        st.Translation,
	}
	if st.Previous != "" {
		prev := languageView(reg, st.Previous)
		v.Previous = &prev
	}
	if st.Speech != nil {
		v.Speech = &SpeechView{
			FileName:  st.Speech.FileName(),
			Language:  string(st.Speech.Language),
			Size:      st.Speech.Size,
			SizeHuman: humanize.Bytes(uint64(st.Speech.Size)),
			CreatedAt: st.Speech.CreatedAt,
			URL:       "/audio/latest",
		}
	}
	return v
}
