package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wompi-checkout-api/internal/client"
	"wompi-checkout-api/internal/config"
	"wompi-checkout-api/internal/logging"
	"wompi-checkout-api/internal/repository"
	"wompi-checkout-api/internal/server"
	"wompi-checkout-api/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db := client.InitDBClient(cfg.DatabaseURL, cfg.SQLitePath)
	wompiClient := client.NewWompiClient(&cfg.Wompi)

	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	if err := productRepo.Seed(context.Background()); err != nil {
		logger.Fatal("seed products", zap.Error(err))
	}

	customerService := service.NewCustomerService(customerRepo)
	productService := service.NewProductService(productRepo)
	checkoutService := service.NewCheckoutService(
		db, wompiClient, cfg.Wompi.FallbackPhone,
		transactionRepo,
		productRepo,
		customerRepo,
		deliveryRepo,
		webhookEventRepo,
		logger,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(
		customerService, productService, checkoutService,
		wompiClient, cfg.Wompi.PublicKey,
		logger,
	)

	logger.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
