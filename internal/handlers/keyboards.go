package handlers

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-plan-bot/internal/currency"
)

// Callback data tags. Prefixed tags carry a payload after the prefix.
const (
	cbHelp             = "help"
	cbInfo             = "info"
	cbBackToMenu       = "back_to_menu"
	cbTomorrowPlan     = "tomorrow_plan"
	cbAddPlan          = "add_plan"
	cbCancelPlan       = "cancel_plan"
	cbViewPlan         = "view_plan"
	cbPlanHistory      = "plan_history"
	cbStatistics       = "statistics"
	cbConverter        = "currency_converter"
	cbConvertCurrency  = "convert_currency"
	cbQuickConvert     = "quick_convert"
	cbExchangeRates    = "exchange_rates"
	cbRefreshRates     = "refresh_rates"
	cbEnterRatesAmount = "enter_amount_for_rates"
	cbSelectBase       = "select_base_currency"
	cbReminderSettings = "reminder_settings"
	cbToggleReminder   = "toggle_reminder"
	cbChangeRemTime    = "change_reminder_time"
	cbCreateReminder   = "create_reminder"
	cbMyReminders      = "my_reminders"
	cbDeleteRemMenu    = "delete_reminder_menu"

	cbPrefixQuick       = "quick_"           // quick_<amount>_<code>
	cbPrefixFromCur     = "from_currency_"   // from_currency_<code>
	cbPrefixToCur       = "to_currency_"     // to_currency_<code>
	cbPrefixBaseCur     = "base_currency_"   // base_currency_<code>
	cbPrefixSelectDate  = "select_date_"     // select_date_<YYYY-MM-DD>
	cbPrefixSelectTime  = "select_time_"     // select_time_<HH:MM>
	cbPrefixComplete    = "complete_plan_"   // complete_plan_<id>
	cbPrefixDeletePlan  = "delete_plan_"     // delete_plan_<id>
	cbPrefixDeleteRem   = "delete_reminder_" // delete_reminder_<id>
)

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func row(buttons ...tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(buttons...)
}

func tgKeyboard(rows ...[]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func backKeyboard(text, data string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(row(btn(text, data)))
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📋 Допомога", cbHelp)),
		row(btn("ℹ️ Інформація", cbInfo)),
		row(btn("📝 План на завтра", cbTomorrowPlan)),
		row(btn("💱 Конвертер валют", cbConverter)),
		row(btn("📊 Статистика", cbStatistics)),
		row(btn("⏰ Налаштування нагадувань", cbReminderSettings)),
	)
}

func planMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("➕ Додати план", cbAddPlan)),
		row(btn("👁️ Подивитися план", cbViewPlan)),
		row(btn("📋 Історія планів", cbPlanHistory)),
		row(btn("🔙 Назад", cbBackToMenu)),
	)
}

func converterMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("💱 Конвертувати валюту", cbConvertCurrency)),
		row(btn("⚡ Швидка конвертація", cbQuickConvert)),
		row(btn("📊 Курси валют", cbExchangeRates)),
		row(btn("🔄 Оновити курси", cbRefreshRates)),
		row(btn("🔙 Назад до меню", cbBackToMenu)),
	)
}

func quickConvertKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("💰 100 USD", "quick_100_usd")),
		row(btn("💰 1000 USD", "quick_1000_usd")),
		row(btn("💰 100 EUR", "quick_100_eur")),
		row(btn("💰 1000 EUR", "quick_1000_eur")),
		row(btn("💰 1000 UAH", "quick_1000_uah")),
		row(btn("💰 10000 UAH", "quick_10000_uah")),
		row(btn("🔙 Назад до конвертера", cbConverter)),
	)
}

func ratesKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("💰 Ввести суму", cbEnterRatesAmount)),
		row(btn("🏦 Змінити базову валюту", cbSelectBase)),
		row(btn("🔄 Оновити курси", cbRefreshRates)),
		row(btn("🔙 Назад до конвертера", cbConverter)),
	)
}

func reminderSettingsKeyboard(enabled bool) tgbotapi.InlineKeyboardMarkup {
	toggle := "✅ Увімкнути нагадування"
	if enabled {
		toggle = "❌ Вимкнути нагадування"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn(toggle, cbToggleReminder)),
		row(btn("🕐 Змінити час нагадування", cbChangeRemTime)),
		row(btn("📅 Створити нагадування", cbCreateReminder)),
		row(btn("📋 Мої нагадування", cbMyReminders)),
		row(btn("🔙 Назад до меню", cbBackToMenu)),
	)
}

// currencyKeyboard lists the supported currencies three per row, each
// tagged with prefix+code, plus a back button.
func currencyKeyboard(prefix, backText, backData string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var cur []tgbotapi.InlineKeyboardButton
	for _, code := range currency.Codes {
		info := currency.Currencies[code]
		cur = append(cur, btn(info.Flag+" "+code, prefix+code))
		if len(cur) == 3 {
			rows = append(rows, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		rows = append(rows, cur)
	}
	rows = append(rows, row(btn(backText, backData)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// time.Weekday order: Sunday first
var ukWeekdays = [7]string{"нд", "пн", "вт", "ср", "чт", "пт", "сб"}

// calendarKeyboard covers the next 30 days, three per row, with explicit
// today/tomorrow labels.
func calendarKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var cur []tgbotapi.InlineKeyboardButton

	today := time.Now()
	for i := 0; i < 30; i++ {
		d := today.AddDate(0, 0, i)
		label := d.Format("02.01") + " " + ukWeekdays[d.Weekday()]
		switch i {
		case 0:
			label = "📅 Сьогодні"
		case 1:
			label = "📅 Завтра"
		}
		cur = append(cur, btn(label, cbPrefixSelectDate+d.Format("2006-01-02")))
		if len(cur) == 3 {
			rows = append(rows, cur)
			cur = nil
		}
	}
	rows = append(rows, row(btn("🔙 Назад до налаштувань", cbReminderSettings)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// timeSlotsKeyboard offers 06:00 through 22:00 in 30-minute steps, four
// per row.
func timeSlotsKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var cur []tgbotapi.InlineKeyboardButton

	for hour := 6; hour <= 22; hour++ {
		for _, minute := range []int{0, 30} {
			if hour == 22 && minute == 30 {
				break
			}
			slot := fmt.Sprintf("%02d:%02d", hour, minute)
			cur = append(cur, btn(slot, cbPrefixSelectTime+slot))
			if len(cur) == 4 {
				rows = append(rows, cur)
				cur = nil
			}
		}
	}
	if len(cur) > 0 {
		rows = append(rows, cur)
	}
	rows = append(rows, row(btn("🔙 Назад до вибору дати", cbCreateReminder)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
