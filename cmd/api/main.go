package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paywave/config"
	httpHandler "paywave/internal/adapter/http/handler"
	fsStorage "paywave/internal/adapter/storage/fs"
	pgStorage "paywave/internal/adapter/storage/postgres"
	redisStorage "paywave/internal/adapter/storage/redis"
	"paywave/internal/core/ports"
	"paywave/internal/service"
	"paywave/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting PayWave")

	ctx := context.Background()

	// Run schema migrations before opening the pool
	if err := pgStorage.Migrate(cfg.Database.DSN(), log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	rateRepo := pgStorage.NewRateRepo(pool)
	tradeRepo := pgStorage.NewTradeRepo(pool)
	withdrawalRepo := pgStorage.NewWithdrawalRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	denylist := redisStorage.NewSessionDenylist(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize proof-of-payment store
	proofStore, err := fsStorage.NewProofStore(cfg.Upload.Dir, cfg.Upload.MaxSizeBytes, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize proof store")
	}

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Seed bootstrap admin and default rates
	seeder := pgStorage.NewSeeder(userRepo, rateRepo, hashSvc, cfg.Bootstrap, log)
	if err := seeder.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed bootstrap data")
	}

	// Initialize business services
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc, denylist, log)
	rateSvc := service.NewRateService(rateRepo, log)
	tradeSvc := service.NewTradeService(tradeRepo, rateRepo, proofStore, log)
	withdrawalSvc := service.NewWithdrawalService(withdrawalRepo, userRepo, log)
	settlementSvc := service.NewSettlementService(tradeRepo, withdrawalRepo, userRepo, transactor, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		RateSvc:        rateSvc,
		TradeSvc:       tradeSvc,
		WithdrawalSvc:  withdrawalSvc,
		SettlementSvc:  settlementSvc,
		UserRepo:       userRepo,
		TradeRepo:      tradeRepo,
		WithdrawalRepo: withdrawalRepo,
		ProofStore:     proofStore,
		TokenSvc:       tokenSvc,
		Denylist:       denylist,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		MaxUploadBytes: cfg.Upload.MaxSizeBytes,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
