package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DBPath        string
	TelegramToken string

	CurrencyUpdateInterval time.Duration
	ReminderCheckInterval  time.Duration
	CleanupInterval        time.Duration
	InactivityThreshold    time.Duration
}

func Load() Config {
	return Config{
		DBPath:                 getEnv("DATABASE_PATH", "./data/bot.db"),
		TelegramToken:          getBotToken(),
		CurrencyUpdateInterval: minutesEnv("CURRENCY_UPDATE_INTERVAL_MINUTES", 30),
		ReminderCheckInterval:  secondsEnv("REMINDER_CHECK_INTERVAL_SECONDS", 60),
		CleanupInterval:        15 * time.Minute,
		InactivityThreshold:    time.Hour,
	}
}

func getBotToken() string {
	if data, err := os.ReadFile("/run/secrets/telegram_bot_token"); err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token
		}
	}
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if token != "" {
		return token
	}
	log.Fatal("❌ TELEGRAM_BOT_TOKEN не встановлений: відсутній і Docker Secret, і змінна оточення")
	return ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func minutesEnv(key string, fallback int) time.Duration {
	return time.Duration(intEnv(key, fallback)) * time.Minute
}

func secondsEnv(key string, fallback int) time.Duration {
	return time.Duration(intEnv(key, fallback)) * time.Second
}

func intEnv(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
