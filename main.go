package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/api"
	"github.com/Mediamoney08/mediamoney-gateway/cache"
	"github.com/Mediamoney08/mediamoney-gateway/config"
	"github.com/Mediamoney08/mediamoney-gateway/middleware"
	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/services"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"golang.org/x/time/rate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func printBanner() {
	fmt.Printf("%s%s", colorCyan, colorBold)
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                                                              ║")
	fmt.Println("║  MediaMoney API Gateway                                      ║")
	fmt.Println("║                                                              ║")
	fmt.Println("║  Key auth, rate limiting and transactional orders            ║")
	fmt.Println("║                                                              ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("%s", colorReset)
}

func printStep(step, message string) {
	fmt.Printf("%s[%s]%s %s%s%s\n", colorBlue, step, colorReset, colorBold, message, colorReset)
}

func printSuccess(message string) {
	fmt.Printf("%s✓%s %s\n", colorGreen, colorReset, message)
}

func printWarning(message string) {
	fmt.Printf("%s⚠%s %s\n", colorYellow, colorReset, message)
}

func printError(message string) {
	fmt.Printf("%s✗%s %s\n", colorRed, colorReset, message)
}

func main() {
	printBanner()
	fmt.Println()

	printStep("1/8", "Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		printError(fmt.Sprintf("Configuration validation failed: %v", err))
		os.Exit(1)
	}
	printSuccess("Configuration loaded")

	printStep("2/8", "Connecting to database...")
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		printError(fmt.Sprintf("Failed to connect to database: %v", err))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		printError(fmt.Sprintf("Failed to get database instance: %v", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if cfg.Database.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.MaxLifetime)
	}
	if cfg.Database.MaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)
	}
	printSuccess(fmt.Sprintf("Connected to PostgreSQL at %s:%d", cfg.Database.Host, cfg.Database.Port))

	printStep("3/8", "Running migrations...")
	if err := db.AutoMigrate(
		&models.APIKey{},
		&models.Product{},
		&models.Category{},
		&models.Order{},
		&models.Wallet{},
		&models.Payment{},
		&models.Webhook{},
		&models.UsageLog{},
		&models.Profile{},
		&models.Ticket{},
	); err != nil {
		printError(fmt.Sprintf("Migration failed: %v", err))
		os.Exit(1)
	}
	printSuccess("Migrations applied")

	printStep("4/8", "Connecting to Redis...")
	var counters services.CounterStore
	redisCache, err := cache.CreateRedisCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		printWarning(fmt.Sprintf("Failed to connect to Redis: %v (falling back to in-memory rate limit counters)", err))
		counters = services.CreateMemoryCounterStore()
	} else {
		defer redisCache.Close()
		counters = redisCache
		printSuccess(fmt.Sprintf("Connected to Redis at %s", cfg.GetRedisAddr()))
	}

	printStep("5/8", "Initializing stores...")
	apiKeyStore := stores.CreateAPIKeyStore(db)
	productStore := stores.CreateProductStore(db)
	orderStore := stores.CreateOrderStore(db)
	walletStore := stores.CreateWalletStore(db)
	paymentStore := stores.CreatePaymentStore(db)
	webhookStore := stores.CreateWebhookStore(db)
	usageStore := stores.CreateUsageStore(db)
	profileStore := stores.CreateProfileStore(db)
	ticketStore := stores.CreateTicketStore(db)
	printSuccess("Stores initialized")

	printStep("6/8", "Initializing services...")
	authenticator := services.CreateAuthenticator(apiKeyStore)
	rateLimiter := services.CreateRateLimiter(counters)
	usageService := services.CreateUsageService(usageStore)
	webhookService := services.CreateWebhookService(webhookStore)
	orderService := services.CreateOrderService(orderStore, productStore, walletStore, webhookService)
	paymentService := services.CreatePaymentService(paymentStore, walletStore, webhookService)
	catalogService := services.CreateCatalogService(productStore, walletStore)
	supportService := services.CreateSupportService(profileStore, ticketStore, walletStore)
	printSuccess("Services initialized")

	printStep("7/8", "Setting up gateways...")
	customerGateway := middleware.CreateGateway(authenticator, rateLimiter, usageService, models.KeyVersionV1, api.WriteCustomerError)
	adminGateway := middleware.CreateGateway(authenticator, rateLimiter, usageService, models.KeyVersionV2, api.WriteAdminError)

	adminHandler, err := api.CreateAdminHandler(orderService, paymentService, supportService)
	if err != nil {
		printError(fmt.Sprintf("Failed to build admin command table: %v", err))
		os.Exit(1)
	}

	router := api.NewRouter(&api.RouterDeps{
		Customer: customerGateway,
		Admin:    adminGateway,
		Catalog:  api.CreateCatalogHandler(catalogService),
		Orders:   api.CreateOrderHandler(orderService),
		Webhooks: api.CreateWebhookHandler(webhookService),
		AdminAPI: adminHandler,
		Health:   api.CreateHealthHandler(db),
		Overload: rate.NewLimiter(rate.Limit(cfg.Gateway.OverloadRPS), cfg.Gateway.OverloadBurst),
	})
	printSuccess("Gateways configured")

	printStep("8/8", "Starting HTTP server...")
	server := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	fmt.Println()
	fmt.Printf("%s%sMediaMoney gateway is ready!%s\n", colorGreen, colorBold, colorReset)
	fmt.Println()
	fmt.Printf("%s%sEndpoints:%s\n", colorPurple, colorBold, colorReset)
	fmt.Printf("  %s•%s Health:   %shttp://localhost:%s/health%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Customer: %shttp://localhost:%s/api/v1/...%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Admin:    %shttp://localhost:%s/api/admin?endpoint=...&action=...%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Println()
	fmt.Printf("%s%sEnvironment:%s %s%s%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Environment, colorReset)
	fmt.Printf("%s%sServer Port:%s %s%s%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Println()
	fmt.Printf("%s%sPress Ctrl+C to stop the server%s\n", colorYellow, colorBold, colorReset)
	fmt.Println()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			printError(fmt.Sprintf("Server failed to start: %v", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println()
	printWarning("Shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		printError(fmt.Sprintf("Server forced to shutdown: %v", err))
		os.Exit(1)
	}

	usageService.Close()

	printSuccess("Gateway stopped gracefully")
}
