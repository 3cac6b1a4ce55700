// Command server runs the bankcore HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kevincoe/bankcore/internal/accountnumber"
	"github.com/kevincoe/bankcore/internal/clients/brapi"
	"github.com/kevincoe/bankcore/internal/config"
	"github.com/kevincoe/bankcore/internal/database"
	"github.com/kevincoe/bankcore/internal/modules/accounts"
	accounthandlers "github.com/kevincoe/bankcore/internal/modules/accounts/handlers"
	"github.com/kevincoe/bankcore/internal/modules/investments"
	investmenthandlers "github.com/kevincoe/bankcore/internal/modules/investments/handlers"
	"github.com/kevincoe/bankcore/internal/quotes"
	quotehandlers "github.com/kevincoe/bankcore/internal/quotes/handlers"
	"github.com/kevincoe/bankcore/internal/scheduler"
	"github.com/kevincoe/bankcore/internal/server"
	"github.com/kevincoe/bankcore/internal/storage"
	"github.com/kevincoe/bankcore/pkg/logger"
)

const (
	rateSyncSchedule     = "@every 30m"
	priceRefreshSchedule = "@every 15m"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Int("port", cfg.Port).
		Str("data_dir", cfg.DataDir).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting bankcore")

	// Database
	bankDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "bank.db"),
		Profile: database.ProfileStandard,
		Name:    "bank",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open bank database")
	}
	defer bankDB.Close()

	if err := bankDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate bank database")
	}

	// Storage and external clients
	store := storage.NewStore(bankDB.Conn(), log)
	brapiClient := brapi.NewClient(cfg.BrapiBaseURL, cfg.BrapiToken, log)

	// Services
	quoteService := quotes.NewService(brapiClient, cfg.QuoteCacheTTL, nil, log)

	accountRepo := accounts.NewRepository(store, log)
	accountService := accounts.NewService(accountRepo, accountnumber.NewDefault(), nil, nil, log)

	investmentRepo := investments.NewRepository(store, log)
	investmentService := investments.NewService(investmentRepo, quoteService, accountService, nil, log)

	// Accounts cascade-delete holdings; wired late because the two
	// services reference each other.
	accountService.SetInvestmentRemover(investmentService)

	// Background jobs
	sched := scheduler.New(log)
	rateSyncJob := scheduler.NewRateSyncJob(quoteService, log)
	priceRefreshJob := scheduler.NewPriceRefreshJob(investmentService, log)

	if err := sched.AddJob(rateSyncSchedule, rateSyncJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule rate sync job")
	}
	if err := sched.AddJob(priceRefreshSchedule, priceRefreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule price refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Log:                log,
		Cfg:                cfg,
		BankDB:             bankDB,
		QuoteService:       quoteService,
		AccountHandlers:    accounthandlers.NewHandler(accountService, log),
		InvestmentHandlers: investmenthandlers.NewHandler(investmentService, log),
		QuoteHandlers:      quotehandlers.NewHandler(quoteService, log),
		Scheduler:          sched,
		RateSyncJob:        rateSyncJob,
		PriceRefreshJob:    priceRefreshJob,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
