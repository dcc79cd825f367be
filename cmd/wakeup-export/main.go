// wakeup-export writes the enabled alarms as an iCalendar document to stdout.
package main

import (
	"log"
	"os"
	"time"

	"github.com/eraliev/wakeup/config"
	"github.com/eraliev/wakeup/internal/export"
	"github.com/eraliev/wakeup/internal/holiday"
	"github.com/eraliev/wakeup/internal/storage"
)

func main() {
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	alarms, err := store.ListAlarms()
	if err != nil {
		log.Fatalf("Failed to list alarms: %v", err)
	}

	holidays := holiday.NewCalendar()
	if cfg.HolidayICSPath != "" {
		days, err := holiday.LoadICSFile(cfg.HolidayICSPath)
		if err != nil {
			log.Fatalf("Failed to load holiday feed: %v", err)
		}
		holidays = holiday.NewCalendarWithDays(days)
	}

	now := time.Now().In(cfg.Timezone)
	if err := export.ICS(os.Stdout, alarms, holidays, now); err != nil {
		log.Fatalf("Failed to export: %v", err)
	}
}
