package handlers

import "telegram-plan-bot/internal/session"

func (h *Handler) handleCommand(st *session.State, chatID int64, cmd string) {
	switch cmd {
	case "start":
		h.startNewSession(st, chatID)
	case "menu":
		h.showMainMenu(st, chatID)
	case "clear":
		h.clearChat(st, chatID, 0)
		h.sendWithMarkup(st, chatID,
			"🧹 Чат повністю очищено!\n\n💡 Тепер чат чистий і зручний для навігації.",
			mainMenuKeyboard())
	case "help":
		h.sendWithMarkup(st, chatID, textHelp, backKeyboard("🔙 Назад до меню", cbBackToMenu))
	case "info":
		h.sendWithMarkup(st, chatID, textInfo, backKeyboard("🔙 Назад до меню", cbBackToMenu))
	default:
		h.showMainMenu(st, chatID)
	}
}
