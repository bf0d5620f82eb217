package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"telegram-plan-bot/internal/currency"
	"telegram-plan-bot/internal/models"
	"telegram-plan-bot/internal/session"
	"telegram-plan-bot/internal/storage"
)

func (h *Handler) handleCallback(st *session.State, chatID int64, messageID int, data string) {
	s := &st.Session

	switch data {
	case cbBackToMenu:
		s.Reset()
		h.clearChat(st, chatID, messageID)
		h.edit(chatID, messageID, textWelcome, mainMenuKeyboard())

	case cbHelp:
		h.edit(chatID, messageID, textHelp, backKeyboard("🔙 Назад до меню", cbBackToMenu))

	case cbInfo:
		h.edit(chatID, messageID, textInfo, backKeyboard("🔙 Назад до меню", cbBackToMenu))

	// ---- plans ----

	case cbTomorrowPlan, cbCancelPlan:
		s.Reset()
		h.edit(chatID, messageID, textPlanMenu, planMenuKeyboard())

	case cbAddPlan:
		s.Enter(models.StepAwaitingPlanText)
		h.edit(chatID, messageID, textEnterPlan, backKeyboard("🔙 Назад до меню", cbCancelPlan))

	case cbViewPlan:
		h.showPlan(chatID, messageID)

	case cbPlanHistory:
		h.showPlanHistory(chatID, messageID)

	case cbStatistics:
		h.showStatistics(chatID, messageID)

	// ---- currency ----

	case cbConverter:
		s.Reset()
		h.edit(chatID, messageID, textConverterMenu, converterMenuKeyboard())

	case cbConvertCurrency:
		s.Enter(models.StepAwaitingAmount)
		h.edit(chatID, messageID, textEnterAmount, backKeyboard("🔙 Назад до конвертера", cbConverter))

	case cbQuickConvert:
		h.edit(chatID, messageID, textQuickConvert, quickConvertKeyboard())

	case cbExchangeRates:
		h.showRatesTable(chatID, messageID, "USD", decimal.NewFromInt(100))

	case cbRefreshRates:
		h.refreshRates(chatID, messageID)

	case cbEnterRatesAmount:
		s.Enter(models.StepAwaitingRatesAmount)
		h.edit(chatID, messageID, textEnterAmountForRates, backKeyboard("🔙 Назад до курсів", cbExchangeRates))

	case cbSelectBase:
		h.edit(chatID, messageID, textSelectBaseCurrency,
			currencyKeyboard(cbPrefixBaseCur, "🔙 Назад до курсів", cbExchangeRates))

	// ---- reminders ----

	case cbReminderSettings:
		s.Reset()
		h.showReminderSettings(chatID, messageID)

	case cbToggleReminder:
		h.toggleReminder(chatID, messageID)

	case cbChangeRemTime:
		s.Enter(models.StepAwaitingReminderTime)
		h.edit(chatID, messageID, textEnterReminderTime,
			backKeyboard("🔙 Назад до налаштувань", cbReminderSettings))

	case cbCreateReminder:
		s.Enter(models.StepSelectingReminderDate)
		h.edit(chatID, messageID, textSelectReminderDate, calendarKeyboard())

	case cbMyReminders:
		h.showReminders(chatID, messageID)

	case cbDeleteRemMenu:
		h.showDeleteReminderMenu(chatID, messageID)

	default:
		h.handlePrefixedCallback(st, chatID, messageID, data)
	}
}

func (h *Handler) handlePrefixedCallback(st *session.State, chatID int64, messageID int, data string) {
	s := &st.Session

	switch {
	case strings.HasPrefix(data, cbPrefixFromCur):
		code := strings.TrimPrefix(data, cbPrefixFromCur)
		if s.Step != models.StepSelectingFromCurrency || !h.Rates.IsSupported(code) {
			h.edit(chatID, messageID,
				"❌ Помилка: необхідно спочатку ввести суму для конвертації.",
				backKeyboard("🔙 Назад до конвертера", cbConverter))
			return
		}
		s.FromCurrency = code
		s.Step = models.StepSelectingToCurrency
		info := currency.Currencies[code]
		h.edit(chatID, messageID,
			fmt.Sprintf("💱 Конвертація валют:\n\n💰 Сума: %s\n📤 З: %s %s\n📥 В: Оберіть валюту\n\n💡 Оберіть валюту, в яку хочете конвертувати:",
				currency.FormatAmount(s.Amount), info.Flag, code),
			currencyKeyboard(cbPrefixToCur, "🔙 Назад до вибору валюти \"з\"", cbConvertCurrency))

	case strings.HasPrefix(data, cbPrefixToCur):
		code := strings.TrimPrefix(data, cbPrefixToCur)
		if s.Step != models.StepSelectingToCurrency || s.FromCurrency == "" {
			h.edit(chatID, messageID,
				"❌ Помилка: необхідно спочатку ввести суму та вибрати валюту \"з\".",
				backKeyboard("🔙 Назад до конвертера", cbConverter))
			return
		}
		h.finishConversion(st, chatID, messageID, code)

	case strings.HasPrefix(data, cbPrefixBaseCur):
		code := strings.TrimPrefix(data, cbPrefixBaseCur)
		h.showRatesTable(chatID, messageID, code, decimal.NewFromInt(100))

	case strings.HasPrefix(data, cbPrefixQuick):
		h.quickConvert(chatID, messageID, strings.TrimPrefix(data, cbPrefixQuick))

	case strings.HasPrefix(data, cbPrefixSelectDate):
		date := strings.TrimPrefix(data, cbPrefixSelectDate)
		// StepAwaitingReminderMessage means the user pressed "back" on
		// the message prompt: return them to time selection.
		if s.Step != models.StepSelectingReminderDate && s.Step != models.StepAwaitingReminderMessage {
			s.Reset()
			h.showReminderSettings(chatID, messageID)
			return
		}
		s.ReminderDate = date
		s.ReminderTime = ""
		s.Step = models.StepSelectingReminderTime
		h.edit(chatID, messageID,
			fmt.Sprintf("🕐 Оберіть час для нагадування на %s:\n\n💡 Виберіть час, коли хочете отримати нагадування.", ukDate(date)),
			timeSlotsKeyboard())

	case strings.HasPrefix(data, cbPrefixSelectTime):
		slot := strings.TrimPrefix(data, cbPrefixSelectTime)
		if s.Step != models.StepSelectingReminderTime || s.ReminderDate == "" {
			s.Reset()
			h.showReminderSettings(chatID, messageID)
			return
		}
		s.ReminderTime = slot
		s.Step = models.StepAwaitingReminderMessage
		h.edit(chatID, messageID,
			fmt.Sprintf("📝 Введіть текст нагадування:\n\n📅 Дата: %s\n🕐 Час: %s\n\n💡 Напишіть що саме нагадувати.",
				ukDate(s.ReminderDate), slot),
			backKeyboard("🔙 Назад до вибору часу", cbPrefixSelectDate+s.ReminderDate))

	case strings.HasPrefix(data, cbPrefixComplete):
		h.completePlan(chatID, messageID, strings.TrimPrefix(data, cbPrefixComplete))

	case strings.HasPrefix(data, cbPrefixDeletePlan):
		h.deletePlan(chatID, messageID, strings.TrimPrefix(data, cbPrefixDeletePlan))

	case strings.HasPrefix(data, cbPrefixDeleteRem):
		h.deleteReminder(chatID, messageID, strings.TrimPrefix(data, cbPrefixDeleteRem))
	}
}

// ---------- plan views ------------------------------------------------------

func (h *Handler) showPlan(chatID int64, messageID int) {
	plan, err := h.DB.GetPlan(chatID, storage.TomorrowDate())
	if err != nil {
		log.Println("❌ Помилка отримання плану:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад", cbTomorrowPlan))
		return
	}
	if plan == nil {
		h.edit(chatID, messageID,
			"📝 План на завтра ще не створено!\n\n💡 Натисніть \"Додати план\" щоб створити свій план.",
			backKeyboard("🔙 Назад", cbTomorrowPlan))
		return
	}

	status := "⏳ В очікуванні"
	if plan.Completed {
		status = "✅ Виконано"
	}
	kb := tgKeyboard(
		row(btn("✅ Позначити виконаним", cbPrefixComplete+strconv.FormatInt(plan.ID, 10))),
		row(btn("🗑️ Видалити план", cbPrefixDeletePlan+strconv.FormatInt(plan.ID, 10))),
		row(btn("🔙 Назад", cbTomorrowPlan)),
	)
	h.edit(chatID, messageID,
		fmt.Sprintf("📅 План на %s:\n\n📝 %s\n\n%s\n\n📅 Створено: %s",
			ukDate(plan.Date), plan.Text, status, plan.CreatedAt.Format("02.01.2006")),
		kb)
}

func (h *Handler) showPlanHistory(chatID int64, messageID int) {
	plans, err := h.DB.ListPlans(chatID, 5)
	if err != nil {
		log.Println("❌ Помилка отримання історії:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад", cbTomorrowPlan))
		return
	}
	if len(plans) == 0 {
		h.edit(chatID, messageID,
			"📝 У вас поки немає планів!\n\n💡 Створіть свій перший план.",
			backKeyboard("🔙 Назад", cbTomorrowPlan))
		return
	}

	var b strings.Builder
	b.WriteString("📋 Ваші останні плани:\n\n")
	for _, p := range plans {
		status := "⏳"
		if p.Completed {
			status = "✅"
		}
		fmt.Fprintf(&b, "%s %s: %s\n\n", status, ukDate(p.Date), p.Text)
	}
	h.edit(chatID, messageID, b.String(), backKeyboard("🔙 Назад", cbTomorrowPlan))
}

func (h *Handler) showStatistics(chatID int64, messageID int) {
	stats, err := h.DB.GetStatistics(chatID, 7)
	if err != nil {
		log.Println("❌ Помилка отримання статистики:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад", cbBackToMenu))
		return
	}
	if len(stats) == 0 {
		h.edit(chatID, messageID,
			"📊 Поки немає статистики!\n\n💡 Створіть плани щоб побачити статистику.",
			backKeyboard("🔙 Назад", cbBackToMenu))
		return
	}

	var b strings.Builder
	b.WriteString("📊 Ваша статистика за останні 7 днів:\n\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "📅 %s:\n   ➕ Створено: %d\n   ✅ Виконано: %d\n\n",
			ukDate(s.Date), s.PlansCreated, s.PlansCompleted)
	}
	h.edit(chatID, messageID, b.String(), backKeyboard("🔙 Назад", cbBackToMenu))
}

func (h *Handler) completePlan(chatID int64, messageID int, rawID string) {
	planID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return
	}
	ok, err := h.DB.MarkPlanCompleted(planID, chatID)
	if err != nil {
		log.Println("❌ Помилка позначення плану:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад", cbTomorrowPlan))
		return
	}
	if !ok {
		h.edit(chatID, messageID, "❌ Не вдалося позначити план як виконаний.",
			backKeyboard("🔙 Назад", cbTomorrowPlan))
		return
	}
	h.edit(chatID, messageID,
		"✅ План позначено як виконаний!\n\n🎉 Вітаємо з виконанням плану!",
		backKeyboard("🔙 Назад", cbTomorrowPlan))
}

func (h *Handler) deletePlan(chatID int64, messageID int, rawID string) {
	planID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return
	}
	ok, err := h.DB.DeletePlan(planID, chatID)
	if err != nil {
		log.Println("❌ Помилка видалення плану:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад", cbTomorrowPlan))
		return
	}
	if !ok {
		h.edit(chatID, messageID, "❌ Не вдалося видалити план.",
			backKeyboard("🔙 Назад", cbTomorrowPlan))
		return
	}
	h.edit(chatID, messageID, "🗑️ План видалено!\n\n💡 Можете створити новий план.",
		backKeyboard("🔙 Назад", cbTomorrowPlan))
}

// ---------- currency views --------------------------------------------------

func (h *Handler) finishConversion(st *session.State, chatID int64, messageID int, toCode string) {
	s := &st.Session
	conv, err := h.Rates.Convert(s.Amount, s.FromCurrency, toCode)
	if err != nil {
		h.edit(chatID, messageID,
			"❌ Помилка при конвертації. Перевірте чи всі валюти підтримуються.",
			backKeyboard("🔙 Назад до конвертера", cbConverter))
		return
	}
	f := currency.FormatResult(conv)
	kb := tgKeyboard(
		row(btn("💱 Нова конвертація", cbConvertCurrency)),
		row(btn("📊 Курси валют", cbExchangeRates)),
		row(btn("🔙 Назад до конвертера", cbConverter)),
	)
	h.edit(chatID, messageID,
		fmt.Sprintf("💱 Результат конвертації:\n\n%s\n⬇️\n%s\n\n📊 Курс: %s\n📊 Зворотний курс: %s\n📅 Дата: %s",
			f.From, f.To, f.Rate, f.ReverseRate, f.Date),
		kb)
	s.Reset()
}

func (h *Handler) showRatesTable(chatID int64, messageID int, base string, amount decimal.Decimal) {
	table, err := h.Rates.RatesTable(base, amount)
	if err != nil {
		h.edit(chatID, messageID,
			"❌ Курси валют недоступні. Спробуйте оновити курси.",
			backKeyboard("🔙 Назад до конвертера", cbConverter))
		return
	}
	h.edit(chatID, messageID, table, ratesKeyboard())
}

// quickConvert handles "quick_<amount>_<code>" payloads.
func (h *Handler) quickConvert(chatID int64, messageID int, payload string) {
	parts := strings.SplitN(payload, "_", 2)
	if len(parts) != 2 {
		return
	}
	amount, err := strconv.ParseInt(parts[0], 10, 64)
	code := strings.ToUpper(parts[1])
	if err != nil || !h.Rates.IsSupported(code) {
		h.edit(chatID, messageID,
			fmt.Sprintf("❌ Валюта %s не підтримується.", code),
			backKeyboard("🔙 Назад до швидкої конвертації", cbQuickConvert))
		return
	}
	h.showRatesTable(chatID, messageID, code, decimal.NewFromInt(amount))
}

func (h *Handler) refreshRates(chatID int64, messageID int) {
	if err := h.Rates.Update(); err != nil {
		log.Println("❌ Помилка оновлення курсів:", err)
		h.edit(chatID, messageID,
			"❌ Помилка при оновленні курсів. Спробуйте ще раз.",
			backKeyboard("🔙 Назад до конвертера", cbConverter))
		return
	}
	kb := tgKeyboard(
		row(btn("📊 Подивитися курси", cbExchangeRates)),
		row(btn("🔙 Назад до конвертера", cbConverter)),
	)
	h.edit(chatID, messageID,
		"✅ Курси валют оновлено!\n\n📅 Останнє оновлення: "+h.Rates.LastUpdate().Format("02.01.2006 15:04"),
		kb)
}

// ---------- reminder views --------------------------------------------------

func (h *Handler) showReminderSettings(chatID int64, messageID int) {
	user, err := h.DB.GetUser(chatID)
	if err != nil || user == nil {
		log.Println("❌ Помилка отримання налаштувань:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад до меню", cbBackToMenu))
		return
	}
	status := "❌ Вимкнено"
	if user.ReminderEnabled {
		status = "✅ Увімкнено"
	}
	h.edit(chatID, messageID,
		fmt.Sprintf("⏰ Налаштування нагадувань:\n\n%s\n🕐 Час нагадування: %s\n\n💡 Нагадування відправляються щодня о вказаний час, якщо у вас є плани на завтра.",
			status, user.ReminderTime),
		reminderSettingsKeyboard(user.ReminderEnabled))
}

func (h *Handler) toggleReminder(chatID int64, messageID int) {
	user, err := h.DB.GetUser(chatID)
	if err != nil || user == nil {
		log.Println("❌ Помилка отримання налаштувань:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад до меню", cbBackToMenu))
		return
	}
	if err := h.DB.UpdateReminderSettings(chatID, user.ReminderTime, !user.ReminderEnabled); err != nil {
		log.Println("❌ Помилка перемикання нагадувань:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад до меню", cbBackToMenu))
		return
	}
	h.showReminderSettings(chatID, messageID)
}

func (h *Handler) showReminders(chatID int64, messageID int) {
	reminders, err := h.DB.ListReminders(chatID)
	if err != nil {
		log.Println("❌ Помилка отримання нагадувань:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад до налаштувань", cbReminderSettings))
		return
	}
	if len(reminders) == 0 {
		h.edit(chatID, messageID,
			"📝 У вас поки немає нагадувань!\n\n💡 Створіть своє перше нагадування.",
			backKeyboard("🔙 Назад до налаштувань", cbReminderSettings))
		return
	}

	var b strings.Builder
	b.WriteString("📋 Ваші нагадування:\n\n")
	for i, r := range reminders {
		status := "⏳ Очікує"
		if r.Sent {
			status = "✅ Відправлено"
		}
		fmt.Fprintf(&b, "%d. %s о %s\n   %s\n   📝 %s\n\n", i+1, ukDate(r.Date), r.Time, status, r.Message)
	}
	kb := tgKeyboard(
		row(btn("🗑️ Видалити нагадування", cbDeleteRemMenu)),
		row(btn("🔙 Назад до налаштувань", cbReminderSettings)),
	)
	h.edit(chatID, messageID, b.String(), kb)
}

func (h *Handler) showDeleteReminderMenu(chatID int64, messageID int) {
	reminders, err := h.DB.ListReminders(chatID)
	if err != nil {
		log.Println("❌ Помилка отримання нагадувань:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад до нагадувань", cbMyReminders))
		return
	}
	if len(reminders) == 0 {
		h.edit(chatID, messageID, "📝 Немає нагадувань для видалення.",
			backKeyboard("🔙 Назад до нагадувань", cbMyReminders))
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range reminders {
		rows = append(rows, row(btn(
			fmt.Sprintf("🗑️ %s о %s", ukDate(r.Date), r.Time),
			cbPrefixDeleteRem+strconv.FormatInt(r.ID, 10))))
	}
	rows = append(rows, row(btn("🔙 Назад до нагадувань", cbMyReminders)))
	h.edit(chatID, messageID, "🗑️ Оберіть нагадування для видалення:", tgKeyboard(rows...))
}

func (h *Handler) deleteReminder(chatID int64, messageID int, rawID string) {
	reminderID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return
	}
	ok, err := h.DB.DeleteReminder(reminderID, chatID)
	if err != nil {
		log.Println("❌ Помилка видалення нагадування:", err)
		h.edit(chatID, messageID, textSomethingWrong, backKeyboard("🔙 Назад до нагадувань", cbMyReminders))
		return
	}
	if !ok {
		h.edit(chatID, messageID, "❌ Не вдалося видалити нагадування.",
			backKeyboard("🔙 Назад до нагадувань", cbMyReminders))
		return
	}
	h.edit(chatID, messageID,
		"✅ Нагадування видалено!\n\n💡 Можете створити нове нагадування.",
		backKeyboard("🔙 Назад до нагадувань", cbMyReminders))
}
