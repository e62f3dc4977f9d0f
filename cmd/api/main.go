package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"estateport_backend/internal/controller"
	"estateport_backend/internal/model"
	"estateport_backend/internal/repository"
	"estateport_backend/internal/service"
	"estateport_backend/pkg/config"
	"estateport_backend/pkg/cron"
	"estateport_backend/pkg/database"
	"estateport_backend/pkg/email"
	"estateport_backend/pkg/payment"
	"estateport_backend/pkg/seed"
)

func setupRoutes(app *fiber.App, paymentCtl *controller.PaymentController, packageCtl *controller.PackageController) {
	api := app.Group("/api")

	// Public package catalog
	api.Get("/packages", packageCtl.ListPackages)

	// Gateway callback yüzeyi
	payments := api.Group("/payments")
	payments.Post("/webhook", paymentCtl.HandleWebhook)
	payments.Get("/return", paymentCtl.PaymentReturn)
	payments.Get("/cancel", paymentCtl.PaymentCancel)
}

func main() {
	cfg := config.Load()

	if cfg.Email.ResendAPIKey != "" {
		if err := email.InitEmailService(cfg.Email.ResendAPIKey); err != nil {
			log.Printf("Could not initialize email service: %v", err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, email notifications disabled")
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Package{},
		&model.Transaction{},
		&model.UserPackage{},
		&model.Listing{},
		&model.ListingBoost{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedPackages(database.DB)

	// Repositories
	packageRepo := repository.NewPackageRepository(database.DB)
	transactionRepo := repository.NewTransactionRepository(database.DB)
	userPackageRepo := repository.NewUserPackageRepository(database.DB)
	boostRepo := repository.NewListingBoostRepository(database.DB)
	listingRepo := repository.NewListingRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)

	// Gateway
	gateway, err := payment.NewPayOSGateway(
		cfg.PayOS.ClientID,
		cfg.PayOS.APIKey,
		cfg.PayOS.ChecksumKey,
		cfg.PayOS.ReturnURL,
		cfg.PayOS.CancelURL,
	)
	if err != nil {
		log.Fatal("Could not initialize payment gateway:", err)
	}

	// Services
	packageService := service.NewPackageService(packageRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	userPackageService := service.NewUserPackageService(userPackageRepo, packageRepo, listingRepo, userRepo, transactionService)
	boostService := service.NewBoostService(boostRepo, listingRepo, userPackageRepo, userRepo)
	paymentService := service.NewPaymentService(gateway, transactionRepo, transactionService, userPackageService, userRepo, packageRepo)

	// Background sweeps
	cron.InitBoostExpiryCron(boostService)
	cron.InitPendingCleanupCron(transactionRepo, transactionService, userPackageRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	paymentCtl := controller.NewPaymentController(paymentService)
	packageCtl := controller.NewPackageController(packageService)
	setupRoutes(app, paymentCtl, packageCtl)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
