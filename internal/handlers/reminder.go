package handlers

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-plan-bot/internal/models"
)

// SendReminder pushes one due reminder to its owner. The chat id equals
// the user id for private chats, which is the only place the bot talks.
func (h *Handler) SendReminder(r models.Reminder) error {
	text := "⏰ Нагадування!\n\n" + r.Message +
		"\n\n📅 Дата: " + ukDate(r.Date) +
		"\n⏰ Час: " + r.Time
	if r.PlanText != "" {
		text += "\n\n📝 План: " + r.PlanText
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		row(btn("👀 Переглянути план", cbViewPlan)),
	}
	if r.PlanID != nil {
		rows = append(rows, row(btn("✅ Виконано", cbPrefixComplete+strconv.FormatInt(*r.PlanID, 10))))
	}
	rows = append(rows, row(btn("⬅️ Головне меню", cbBackToMenu)))

	msg := tgbotapi.NewMessage(r.UserID, text)
	msg.ReplyMarkup = tgKeyboard(rows...)
	_, err := h.Bot.Send(msg)
	return err
}
