package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/eraliev/wakeup/config"
	"github.com/eraliev/wakeup/internal/holiday"
	"github.com/eraliev/wakeup/internal/notify"
	"github.com/eraliev/wakeup/internal/service"
	"github.com/eraliev/wakeup/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	holidays := holiday.NewCalendar()
	if cfg.HolidayICSPath != "" {
		days, err := holiday.LoadICSFile(cfg.HolidayICSPath)
		if err != nil {
			log.Fatalf("Failed to load holiday feed: %v", err)
		}
		holidays = holiday.NewCalendarWithDays(days)
		log.Printf("Loaded %d holiday entries from %s", len(days), cfg.HolidayICSPath)
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.TelegramToken != "" {
		sender, err = notify.NewTelegramSender(cfg.TelegramToken, cfg.AlarmChatID)
		if err != nil {
			log.Fatalf("Failed to init telegram sender: %v", err)
		}
	}

	sched := notify.NewLocalScheduler(sender, cfg.Timezone)
	defer sched.Stop()

	soundSvc := service.NewSoundService(store)
	alarmSvc := service.NewAlarmService(store, sched, soundSvc, holidays, cfg.Timezone)
	alarmSvc.SetSweepInterval(cfg.SweepInterval)

	if err := alarmSvc.Load(); err != nil {
		log.Fatalf("Failed to load alarms: %v", err)
	}
	defer alarmSvc.Close()

	log.Printf("wakeup started (TZ: %s, %d registrations pending)",
		cfg.Timezone, len(sched.ListPending()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
}
