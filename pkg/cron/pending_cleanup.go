package cron

import (
	"log"
	"time"

	"estateport_backend/internal/repository"
	"estateport_backend/internal/service"

	"github.com/robfig/cron/v3"
)

// stalePendingAge ödeme linki bu süre içinde sonuçlanmazsa işlem
// başarısız sayılır
const stalePendingAge = 48 * time.Hour

// InitPendingCleanupCron altı saatte bir cevapsız kalan pending
// işlemleri kapatır ve bağlı bekleyen hakları iptal eder.
func InitPendingCleanupCron(
	transactionRepo *repository.TransactionRepository,
	transactionService *service.TransactionService,
	userPackageRepo *repository.UserPackageRepository,
) {
	c := cron.New()

	_, err := c.AddFunc("@every 6h", func() {
		cleanupStalePending(transactionRepo, transactionService, userPackageRepo)
	})

	if err != nil {
		log.Printf("Could not initialize pending cleanup cron: %v", err)
		return
	}

	c.Start()
}

func cleanupStalePending(
	transactionRepo *repository.TransactionRepository,
	transactionService *service.TransactionService,
	userPackageRepo *repository.UserPackageRepository,
) {
	log.Println("Checking for stale pending transactions...")

	stale, err := transactionRepo.GetStalePending(time.Now().Add(-stalePendingAge))
	if err != nil {
		log.Printf("Error fetching stale pending transactions: %v", err)
		return
	}

	for _, txn := range stale {
		// listeleme ile kapatma arasında webhook gelmiş olabilir
		if err := transactionService.FailPending(txn.ID, "payment link expired"); err != nil {
			log.Printf("Error failing stale transaction %d: %v", txn.ID, err)
			continue
		}
		if _, err := userPackageRepo.CancelPendingByTransactionID(txn.ID); err != nil {
			log.Printf("Error cancelling pending packages for transaction %d: %v", txn.ID, err)
		}
	}

	if len(stale) > 0 {
		log.Printf("Closed %d stale pending transaction(s)", len(stale))
	}
}
