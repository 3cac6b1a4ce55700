// Package server provides the HTTP server and routing for bankcore.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/config"
	"github.com/kevincoe/bankcore/internal/database"
	accounthandlers "github.com/kevincoe/bankcore/internal/modules/accounts/handlers"
	investmenthandlers "github.com/kevincoe/bankcore/internal/modules/investments/handlers"
	"github.com/kevincoe/bankcore/internal/quotes"
	quotehandlers "github.com/kevincoe/bankcore/internal/quotes/handlers"
	"github.com/kevincoe/bankcore/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log                zerolog.Logger
	Cfg                *config.Config
	BankDB             *database.DB
	QuoteService       *quotes.Service
	AccountHandlers    *accounthandlers.Handler
	InvestmentHandlers *investmenthandlers.Handler
	QuoteHandlers      *quotehandlers.Handler
	Scheduler          *scheduler.Scheduler
	RateSyncJob        scheduler.Job
	PriceRefreshJob    scheduler.Job
}

// Server represents the HTTP server
type Server struct {
	router          *chi.Mux
	server          *http.Server
	log             zerolog.Logger
	cfg             *config.Config
	bankDB          *database.DB
	systemHandlers  *SystemHandlers
	accounts        *accounthandlers.Handler
	investments     *investmenthandlers.Handler
	quotes          *quotehandlers.Handler
	sched           *scheduler.Scheduler
	rateSyncJob     scheduler.Job
	priceRefreshJob scheduler.Job
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:          chi.NewRouter(),
		log:             cfg.Log.With().Str("component", "server").Logger(),
		cfg:             cfg.Cfg,
		bankDB:          cfg.BankDB,
		accounts:        cfg.AccountHandlers,
		investments:     cfg.InvestmentHandlers,
		quotes:          cfg.QuoteHandlers,
		sched:           cfg.Scheduler,
		rateSyncJob:     cfg.RateSyncJob,
		priceRefreshJob: cfg.PriceRefreshJob,
	}

	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.BankDB, cfg.QuoteService)

	s.setupMiddleware(cfg.Cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		s.accounts.RegisterRoutes(r)
		s.investments.RegisterRoutes(r)
		s.quotes.RegisterRoutes(r)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/database", s.systemHandlers.HandleDatabaseStats)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/rate-sync", s.handleTriggerJob(s.rateSyncJob))
			r.Post("/price-refresh", s.handleTriggerJob(s.priceRefreshJob))
		})
	})
}

// handleHealth is a minimal liveness probe that also pings the database
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := s.bankDB.QuickCheck(ctx); err != nil {
		s.log.Error().Err(err).Msg("Health check database ping failed")
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"status":%q}`, status)
}

// handleTriggerJob runs a scheduled job immediately on request
func (s *Server) handleTriggerJob(job scheduler.Job) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sched.RunNow(job); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, `{"error":%q}`, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"completed","job":%q}`, job.Name())
	}
}

// loggingMiddleware logs each request with method, path, status and timing
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

// Start begins listening for requests
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
