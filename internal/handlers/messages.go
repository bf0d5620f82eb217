package handlers

import (
	"log"
	"strings"

	"telegram-plan-bot/internal/currency"
	"telegram-plan-bot/internal/models"
	"telegram-plan-bot/internal/session"
	"telegram-plan-bot/internal/storage"
)

// handleText delivers free-form text to the step the user's session is
// currently waiting on. Validation failures re-prompt without leaving
// the step, so the user can simply try again.
func (h *Handler) handleText(st *session.State, chatID int64, text string) {
	s := &st.Session
	text = strings.TrimSpace(text)

	switch s.Step {
	case models.StepAwaitingPlanText:
		h.savePlanText(st, chatID, text)
	case models.StepAwaitingReminderTime:
		h.saveReminderTime(st, chatID, text)
	case models.StepAwaitingReminderMessage:
		h.saveReminderMessage(st, chatID, text)
	case models.StepAwaitingAmount:
		h.readConversionAmount(st, chatID, text)
	case models.StepAwaitingRatesAmount:
		h.readRatesAmount(st, chatID, text)
	default:
		// Text outside any dialog is treated as tomorrow's plan.
		h.savePlanText(st, chatID, text)
	}
}

func (h *Handler) savePlanText(st *session.State, chatID int64, text string) {
	if text == "" {
		h.send(st, chatID, textPlanEmpty)
		return
	}
	if len([]rune(text)) > 1000 {
		h.send(st, chatID, textPlanTooLong)
		return
	}

	u, err := h.DB.GetUser(chatID)
	if err != nil {
		log.Printf("❌ Помилка читання користувача %d: %v", chatID, err)
		h.send(st, chatID, textSomethingWrong)
		return
	}
	reminderTime := "07:00"
	reminderEnabled := true
	if u != nil {
		reminderTime = u.ReminderTime
		reminderEnabled = u.ReminderEnabled
	}

	date := storage.TomorrowDate()
	_, updated, err := h.DB.SavePlan(chatID, text, date, reminderEnabled, reminderTime)
	if err != nil {
		log.Printf("❌ Помилка збереження плану для %d: %v", chatID, err)
		h.send(st, chatID, textSomethingWrong)
		return
	}

	verb := "збережено"
	if updated {
		verb = "оновлено"
	}
	reply := "✅ План на завтра " + verb + "!\n\n" +
		"📅 " + ukDate(date) + "\n📝 " + text
	if reminderEnabled {
		reply += "\n\n⏰ Нагадаю о " + reminderTime
	}

	st.Session.Reset()
	h.sendWithMarkup(st, chatID, reply, tgKeyboard(
		row(btn("👀 Переглянути план", cbViewPlan)),
		row(btn("⬅️ Головне меню", cbBackToMenu)),
	))
}

func (h *Handler) saveReminderTime(st *session.State, chatID int64, text string) {
	if !timeRx.MatchString(text) {
		h.send(st, chatID, textBadTime)
		return
	}
	hm := normalizeTime(text)

	enabled := true
	if u, err := h.DB.GetUser(chatID); err == nil && u != nil {
		enabled = u.ReminderEnabled
	}
	if err := h.DB.UpdateReminderSettings(chatID, hm, enabled); err != nil {
		log.Printf("❌ Помилка оновлення часу нагадування для %d: %v", chatID, err)
		h.send(st, chatID, textSomethingWrong)
		return
	}

	st.Session.Reset()
	h.sendWithMarkup(st, chatID, "✅ Час нагадування змінено на "+hm,
		tgKeyboard(row(btn("⬅️ Назад", cbReminderSettings))))
}

func (h *Handler) saveReminderMessage(st *session.State, chatID int64, text string) {
	if text == "" {
		h.send(st, chatID, textReminderEmpty)
		return
	}
	if len([]rune(text)) > 500 {
		h.send(st, chatID, textReminderTooLong)
		return
	}

	s := &st.Session
	r := &models.Reminder{
		UserID:     chatID,
		Date:       s.ReminderDate,
		Time:       s.ReminderTime,
		Message:    text,
		RepeatType: models.RepeatNone,
	}
	if _, err := h.DB.CreateReminder(r); err != nil {
		log.Printf("❌ Помилка створення нагадування для %d: %v", chatID, err)
		h.send(st, chatID, textSomethingWrong)
		return
	}

	reply := "✅ Нагадування створено!\n\n" +
		"📅 " + ukDate(r.Date) + "\n⏰ " + r.Time + "\n💬 " + text
	st.Session.Reset()
	h.sendWithMarkup(st, chatID, reply, tgKeyboard(
		row(btn("📋 Мої нагадування", cbMyReminders)),
		row(btn("⬅️ Назад", cbReminderSettings)),
	))
}

func (h *Handler) readConversionAmount(st *session.State, chatID int64, text string) {
	amount, errText := parseAmount(text)
	if errText != "" {
		h.send(st, chatID, errText)
		return
	}

	s := &st.Session
	s.Amount = amount
	s.Step = models.StepSelectingFromCurrency
	h.sendWithMarkup(st, chatID,
		"💰 Введена сума: "+currency.FormatAmount(amount)+"\n\n💱 Оберіть валюту, з якої конвертуємо:",
		currencyKeyboard(cbPrefixFromCur, "⬅️ Назад", cbConverter))
}

func (h *Handler) readRatesAmount(st *session.State, chatID int64, text string) {
	amount, errText := parseAmount(text)
	if errText != "" {
		h.send(st, chatID, errText)
		return
	}

	st.Session.Reset()
	table, err := h.Rates.RatesTable("USD", amount)
	if err != nil {
		log.Printf("❌ Помилка побудови таблиці курсів: %v", err)
		h.send(st, chatID, textSomethingWrong)
		return
	}
	h.sendWithMarkup(st, chatID, table, ratesKeyboard())
}
