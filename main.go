package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"telegram-plan-bot/internal/config"
	"telegram-plan-bot/internal/currency"
	"telegram-plan-bot/internal/handlers"
	"telegram-plan-bot/internal/scheduler"
	"telegram-plan-bot/internal/session"
	"telegram-plan-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // TELEGRAM_BOT_TOKEN etc.

	cfg := config.Load()

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatal("❌ Помилка відкриття бази даних:", err)
	}
	defer db.Close()
	log.Println("✅ Базу даних ініціалізовано:", cfg.DBPath)

	rates := currency.New(currency.NBUExchangeURL)
	if err := rates.Update(); err != nil {
		log.Println("⚠️ Не вдалося завантажити курси валют:", err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal("❌ Помилка підключення до Telegram:", err)
	}
	log.Println("🤖 Бот запущено:", bot.Self.UserName)

	sessions := session.NewManager()
	h := handlers.NewHandler(bot, db, rates, sessions)

	sched, err := scheduler.Start(cfg, h, db, rates, sessions)
	if err != nil {
		log.Fatal("❌ Помилка запуску планувальника:", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case upd := <-updates:
			h.HandleUpdate(upd)
		case sig := <-stop:
			log.Println("🛑 Отримано сигнал, завершуємо роботу:", sig)
			bot.StopReceivingUpdates()
			if err := sched.Shutdown(); err != nil {
				log.Println("⚠️ Помилка зупинки планувальника:", err)
			}
			return
		}
	}
}
