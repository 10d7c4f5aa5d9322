package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"fleettrack_server/internal/db"
	"fleettrack_server/internal/models"
	"fleettrack_server/internal/services"
	"fleettrack_server/pkg/colors"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Command line maintenance tool: count or delete events older than a cutoff
// across every device of a group. Deletion is irreversible and requires
// -confirm.
func main() {
	accountID := flag.String("account", "", "Account ID that owns the group")
	groupID := flag.String("group", models.DeviceGroupAll, "Group ID to sweep ('all' covers every device)")
	cutoffFlag := flag.Int64("time", 0, "Cutoff as epoch seconds (delete mode: 0 means now, clamped by the account retention policy)")
	del := flag.Bool("delete", false, "Delete matching events instead of counting them")
	confirm := flag.Bool("confirm", false, "Required to actually delete events")
	verbose := flag.Bool("verbose", true, "Print per-device progress")
	flag.Parse()

	if *accountID == "" {
		log.Fatal("-account is required")
	}
	if *del && !*confirm {
		log.Fatal("-delete requires -confirm; deleted events cannot be recovered")
	}
	if !*del && *cutoffFlag <= 0 {
		log.Fatal("-time (epoch seconds) is required in count mode")
	}
	cutoff := *cutoffFlag
	if *del && cutoff <= 0 {
		cutoff = time.Now().Unix()
	}

	if err := godotenv.Load(); err != nil {
		colors.PrintWarning("No .env file found, using system environment variables")
	}
	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// A missing account is swept as nil, which yields zero
	var account *models.Account
	var rec models.Account
	err := db.GetDB().Where("account_id = ?", *accountID).First(&rec).Error
	if err == nil {
		account = &rec
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to load account %s: %v", *accountID, err)
	}

	retention := services.NewRetentionService(db.GetDB(), nil)

	start := time.Now()
	var total int64
	if *del {
		total, err = retention.DeleteOldEvents(account, *groupID, cutoff, *verbose)
	} else {
		total, err = retention.CountOldEvents(account, *groupID, cutoff, *verbose)
	}
	elapsed := time.Since(start)

	if err != nil {
		log.Fatalf("Sweep failed after %d events: %v", total, err)
	}
	if total == services.EventCountUnknown {
		colors.PrintSweep("Done in %s: event total indeterminate (driver did not report counts)", elapsed.Round(time.Millisecond))
		return
	}
	verb := "counted"
	if *del {
		verb = "deleted"
	}
	colors.PrintSweep("Done in %s: %s %d events", elapsed.Round(time.Millisecond), verb, total)
}
