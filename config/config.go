package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabasePath   string
	Timezone       *time.Location
	TelegramToken  string
	AlarmChatID    int64
	HolidayICSPath string
	SweepInterval  time.Duration
}

func Load() (*Config, error) {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/wakeup.db"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Shanghai"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")

	var chatID int64
	if c := os.Getenv("ALARM_CHAT_ID"); c != "" {
		chatID, err = strconv.ParseInt(c, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ALARM_CHAT_ID must be a number")
		}
	}
	if token != "" && chatID == 0 {
		return nil, fmt.Errorf("ALARM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	sweep := time.Minute
	if s := os.Getenv("SWEEP_INTERVAL"); s != "" {
		sweep, err = time.ParseDuration(s)
		if err != nil || sweep <= 0 {
			return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %q", s)
		}
	}

	return &Config{
		DatabasePath:   dbPath,
		Timezone:       tz,
		TelegramToken:  token,
		AlarmChatID:    chatID,
		HolidayICSPath: os.Getenv("HOLIDAY_ICS_PATH"),
		SweepInterval:  sweep,
	}, nil
}
