package scheduler

import (
	"log"
	"time"

	"telegram-plan-bot/internal/config"
	"telegram-plan-bot/internal/currency"
	"telegram-plan-bot/internal/handlers"
	"telegram-plan-bot/internal/models"
	"telegram-plan-bot/internal/session"
	"telegram-plan-bot/internal/storage"

	"github.com/go-co-op/gocron/v2"
)

// Start registers the three background jobs and starts the scheduler:
// reminder delivery, exchange-rate refresh and idle-session cleanup.
func Start(cfg config.Config, h *handlers.Handler, db *storage.DB, rates *currency.Converter, sessions *session.Manager) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(cfg.ReminderCheckInterval),
		gocron.NewTask(func() {
			deliverDueReminders(h, db)
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(cfg.CurrencyUpdateInterval),
		gocron.NewTask(func() {
			if err := rates.Update(); err != nil {
				log.Println("⚠️ Помилка оновлення курсів валют:", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(cfg.CleanupInterval),
		gocron.NewTask(func() {
			if n := sessions.Sweep(cfg.InactivityThreshold); n > 0 {
				log.Printf("🧹 Очищено неактивних сесій: %d", n)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}

func deliverDueReminders(h *handlers.Handler, db *storage.DB) {
	now := time.Now()

	due, err := db.DueReminders(now)
	if err != nil {
		log.Println("❌ Помилка вибірки нагадувань:", err)
		return
	}

	for _, r := range due {
		at, err := time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, now.Location())
		if err != nil {
			log.Printf("❌ Некоректний час нагадування #%d: %v", r.ID, err)
			continue
		}
		if at.After(now) {
			continue
		}

		if err := h.SendReminder(r); err != nil {
			log.Printf("❌ Помилка відправки нагадування #%d: %v", r.ID, err)
			continue
		}
		if err := db.MarkReminderSent(r.ID); err != nil {
			log.Printf("❌ Помилка позначення нагадування #%d: %v", r.ID, err)
			continue
		}

		if r.RepeatType != models.RepeatNone {
			next := r
			next.ID = 0
			next.Sent = false
			next.Date = NextDate(r.Date, r.RepeatType)
			if _, err := db.CreateReminder(&next); err != nil {
				log.Printf("❌ Помилка створення повторного нагадування: %v", err)
			}
		}
	}
}

// NextDate returns the follow-up date for a recurring reminder. Monthly
// repeats clamp to the last day of shorter months, so a reminder set for
// Jan 31 fires on Feb 28.
func NextDate(date, repeat string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	switch repeat {
	case models.RepeatDaily:
		t = t.AddDate(0, 0, 1)
	case models.RepeatWeekly:
		t = t.AddDate(0, 0, 7)
	case models.RepeatMonthly:
		day := t.Day()
		first := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
		last := first.AddDate(0, 1, -1).Day()
		if day > last {
			day = last
		}
		t = time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
	}
	return t.Format("2006-01-02")
}
