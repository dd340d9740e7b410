package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

const (
	btnSwap    = "🔁 Swap language"
	btnHistory = "📜 History"
	btnFemale  = "👩 Female voice"
	btnMale    = "👨 Male voice"
	btnAutoOn  = "🌐 Detect language"
	btnAutoOff = "🔒 Fixed language"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSwap),
			tgbotapi.NewKeyboardButton(btnHistory),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnFemale),
			tgbotapi.NewKeyboardButton(btnMale),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAutoOn),
			tgbotapi.NewKeyboardButton(btnAutoOff),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// buttonCommand maps a keyboard button press to its command.
func buttonCommand(text string) (cmd, args string, ok bool) {
	switch text {
	case btnSwap:
		return "swap", "", true
	case btnHistory:
		return "history", "", true
	case btnFemale:
		return "voice", "female", true
	case btnMale:
		return "voice", "male", true
	case btnAutoOn:
		return "auto", "on", true
	case btnAutoOff:
		return "auto", "off", true
	}
	return "", "", false
}
