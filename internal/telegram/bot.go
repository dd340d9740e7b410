package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/speakmosaic/internal/session"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
)

// Run polls updates until ctx is cancelled. Updates are handled one at a
// time.
func (app *BotApp) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := app.updates.GetUpdatesChan(u)
	app.logger.Info("[bot_loop] started")

	for {
		select {
		case <-ctx.Done():
			app.updates.StopReceivingUpdates()
			app.logger.Info("[bot_loop] stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			app.HandleUpdate(ctx, update)
		}
	}
}

func SessionID(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

// HandleUpdate runs one update with the chat's session locked.
func (app *BotApp) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	h, created, err := app.sessions.AcquireOrStart(ctx, SessionID(chatID))
	if err != nil {
		app.logger.Warn("[bot_loop] acquire session", zap.Int64("chat", chatID), zap.Error(err))
		return
	}
	defer h.Release()
	st := h.State()

	if created {
		app.logger.Info("[bot_loop] new chat session", zap.Int64("chat", chatID))
	}

	switch {
	case msg.IsCommand():
		app.handleCommand(chatID, st, msg.Command(), msg.CommandArguments())
	case msg.Voice != nil:
		app.handleVoice(ctx, chatID, st, msg.Voice.FileID)
	case msg.Audio != nil:
		app.handleVoice(ctx, chatID, st, msg.Audio.FileID)
	case msg.Text != "":
		if cmd, args, ok := buttonCommand(msg.Text); ok {
			app.handleCommand(chatID, st, cmd, args)
			return
		}
		app.handleText(ctx, chatID, st, msg.Text)
	}
}

const helpText = `Send me a voice message and I reply with the text, translated into your language.
Send me text and I reply with speech in your language.

/lang <name> - pick a language, e.g. /lang Spanish
/swap - back to the previous language
/voice female|male - pick a voice
/auto on|off - detect the spoken language
/history - recent activity
/clear_history - forget it`

func (app *BotApp) handleCommand(chatID int64, st *session.State, cmd, args string) {
	args = strings.TrimSpace(args)

	switch cmd {
	case "start", "help":
		app.reply(chatID, helpText, true)

	case "lang":
		if args == "" {
			name, _ := app.registry.Name(st.Selected)
			app.reply(chatID, "Current language: "+name+". Use /lang <name> to change it.", false)
			return
		}
		code, err := st.SelectLanguage(app.registry, app.displayName(args))
		if err != nil {
			app.reply(chatID, fmt.Sprintf("Unknown language: %q", args), false)
			return
		}
		name, _ := app.registry.Name(code)
		text := "Language set to " + name + "."
		if !app.registry.RecognitionSupported(code) {
			text += " Speech recognition is limited for it."
		}
		app.reply(chatID, text, false)

	case "swap":
		if !st.Swap() {
			app.reply(chatID, "No previous language to swap with.", false)
			return
		}
		name, _ := app.registry.Name(st.Selected)
		app.reply(chatID, "Language set to "+name+".", false)

	case "voice":
		g, err := speech.ParseGender(args)
		if err != nil {
			app.reply(chatID, "Use /voice female or /voice male.", false)
			return
		}
		st.SetGender(g)
		app.reply(chatID, "Voice set to "+string(g)+".", false)

	case "auto":
		switch strings.ToLower(args) {
		case "on":
			st.SetAutoDetect(true)
			app.reply(chatID, "Language detection is on.", false)
		case "off":
			st.SetAutoDetect(false)
			app.reply(chatID, "Language detection is off.", false)
		default:
			app.reply(chatID, "Use /auto on or /auto off.", false)
		}

	case "history":
		app.reply(chatID, formatHistory(st.History.Recent(session.HistoryLimit)), false)

	case "clear_history":
		st.ClearHistory()
		app.reply(chatID, "History cleared.", false)

	default:
		app.reply(chatID, "Unknown command. /help lists them.", false)
	}
}

// displayName matches a typed name against the registry ignoring case.
func (app *BotApp) displayName(typed string) string {
	for _, name := range app.registry.DisplayNames() {
		if strings.EqualFold(name, typed) {
			return name
		}
	}
	return typed
}

func formatHistory(entries []session.ActivityEntry) string {
	if len(entries) == 0 {
		return "No activity yet."
	}
	var b strings.Builder
	for _, e := range entries {
		mark := "🎤"
		if e.Kind == session.KindSynthesized {
			mark = "🔊"
		}
		b.WriteString(mark + " " + e.Text + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (app *BotApp) reply(chatID int64, text string, withKeyboard bool) {
	m := tgbotapi.NewMessage(chatID, text)
	if withKeyboard {
		m.ReplyMarkup = mainKeyboard()
	}
	if _, err := app.api.Send(m); err != nil {
		app.logger.Warn("[bot] send", zap.Int64("chat", chatID), zap.Error(err))
	}
}
