package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/config"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/services"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[LEDGER-SYNC %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartLedgerSyncScheduler runs the reconciliation sweep on the configured
// cron spec. Each sweep verifies pending transactions that carry a ledger
// hash and commits confirmed/failed outcomes through the donation service.
func StartLedgerSyncScheduler(service *services.DonationService) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.SyncCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()

		confirmed, failed := service.Reconcile(ctx)
		if confirmed > 0 || failed > 0 {
			logScheduler(fmt.Sprintf("Sweep done: %d confirmed, %d failed", confirmed, failed))
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule ledger sync (%s): %v", config.AppConfig.SyncCron, err)
	}

	c.Start()
	logScheduler("Ledger sync scheduler started: " + config.AppConfig.SyncCron)
	return c
}
