package cron

import (
	"log"

	"estateport_backend/internal/service"

	"github.com/robfig/cron/v3"
)

// InitBoostExpiryCron saatte bir süresi geçen boost'ları kapatır.
// Her tur kendi içinde loglanır; bir turdaki hata sonraki turları durdurmaz.
func InitBoostExpiryCron(boostService *service.BoostService) {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		expireOldBoosts(boostService)
	})

	if err != nil {
		log.Printf("Could not initialize boost expiry cron: %v", err)
		return
	}

	c.Start()
}

func expireOldBoosts(boostService *service.BoostService) {
	log.Println("Checking for expired listing boosts...")

	expired, err := boostService.ExpireOldBoosts()
	if err != nil {
		log.Printf("Error expiring boosts: %v", err)
		return
	}

	if expired > 0 {
		log.Printf("Expired %d listing boost(s)", expired)
	}
}
