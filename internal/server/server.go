// Package server wires the router, middleware, and all route definitions.
//
// This is the composition root: handlers, services, repositories, and the
// execution engine are all constructed and connected here, so main.go stays
// minimal and every other package stays ignorant of the assembly.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/script-worker/internal/auth"
	"github.com/sakif/script-worker/internal/config"
	"github.com/sakif/script-worker/internal/executor"
	"github.com/sakif/script-worker/internal/executor/sandbox"
	"github.com/sakif/script-worker/internal/handler"
	"github.com/sakif/script-worker/internal/middleware"
	sqliteRepo "github.com/sakif/script-worker/internal/repository/sqlite"
	"github.com/sakif/script-worker/internal/service"
)

// Server owns the router, the database connection, and the executor. The
// database is closed during graceful shutdown in Start.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → ScriptStore / ExecutionStore
//	Registry + sandbox.Executor
//	ScriptService (repositories + executor)
//	handlers → routes
//
// Each layer receives only the interface it needs; the handler never touches
// the database, the service never touches HTTP.
func New(cfg *config.Config, registry *executor.Registry, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(registry); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
//
//	POST   /auth/token            → exchange client credentials for a token
//	GET    /api/health            → liveness + engine version
//	POST   /api/execute           → run ad-hoc code
//	GET    /api/scripts           → list stored scripts
//	POST   /api/scripts           → create script
//	GET    /api/scripts/{id}      → get script
//	PUT    /api/scripts/{id}      → update script
//	DELETE /api/scripts/{id}      → delete script
//	POST   /api/scripts/{id}/run  → run stored script
//	GET    /api/executions        → list execution records
//
// When auth is configured, everything under /api except /api/health requires
// a Bearer token. The health probe stays open so load balancers don't need
// credentials.
func (s *Server) setupRoutes(registry *executor.Registry) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	exec := sandbox.New(sandbox.Config{
		Timeout:  s.cfg.ExecTimeout,
		MaxSteps: s.cfg.MaxSteps,
		PoolSize: s.cfg.PoolSize,
	}, registry, s.logger)

	scripts := sqliteRepo.NewScriptStore(s.db)
	executions := sqliteRepo.NewExecutionStore(s.db)
	scriptService := service.NewScriptService(scripts, executions, exec, s.logger)

	executeHandler := handler.NewExecuteHandler(scriptService, s.logger)
	scriptHandler := handler.NewScriptHandler(scriptService, s.logger)
	healthHandler := handler.NewHealthHandler(exec)

	requireAuth := func(next http.Handler) http.Handler { return next }
	if s.cfg.AuthEnabled() {
		tokens, err := auth.NewTokenService(s.cfg.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}

		authHandler := handler.NewAuthHandler(
			s.cfg.ClientID,
			s.cfg.ClientSecretHash,
			auth.NewSecretService(),
			tokens,
			s.logger,
		)
		s.router.Post("/auth/token", authHandler.HandleToken)

		requireAuth = auth.RequireAuth(tokens)
	} else {
		s.logger.Warn("authentication disabled: JWT_SECRET not configured")
	}

	s.router.Get("/api/health", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/execute", executeHandler.HandleExecute)

		r.Get("/scripts", scriptHandler.HandleList)
		r.Post("/scripts", scriptHandler.HandleCreate)
		r.Get("/scripts/{id}", scriptHandler.HandleGet)
		r.Put("/scripts/{id}", scriptHandler.HandleUpdate)
		r.Delete("/scripts/{id}", scriptHandler.HandleDelete)
		r.Post("/scripts/{id}/run", scriptHandler.HandleRun)

		r.Get("/executions", scriptHandler.HandleListExecutions)
	})

	return nil
}

// Handler exposes the router, mainly for tests driving the full stack
// through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// signal loop. Tests use this; production shutdown happens inside Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s),
// close the database so the WAL is flushed.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
			slog.Bool("authEnabled", s.cfg.AuthEnabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
