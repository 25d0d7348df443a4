// Package server wires the HTTP router, handlers and store together and
// owns the server lifecycle. main.go stays minimal; every dependency is
// assembled here, in one place.
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

	"github.com/sevillaa/Travel-bros/internal/handler"
	"github.com/sevillaa/Travel-bros/internal/middleware"
	"github.com/sevillaa/Travel-bros/internal/repository"
	"github.com/sevillaa/Travel-bros/internal/repository/jsonfile"
	sqliteRepo "github.com/sevillaa/Travel-bros/internal/repository/sqlite"
	"github.com/sevillaa/Travel-bros/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port       int
	Store      string // "jsonfile" (default) or "sqlite"
	DataFile   string // jsonfile store path
	DBPath     string // sqlite store path
	StaticDir  string // the browser app
	UploadsDir string // participant presentation files
}

// Server owns the router and the trip store; the store is closed during
// graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  repository.TripStore
}

// New creates a Server with the given config: it opens the configured
// store, builds the service on top of it and wires all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		store.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

func openStore(cfg Config) (repository.TripStore, error) {
	switch cfg.Store {
	case "", "jsonfile":
		store, err := jsonfile.New(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("opening data file: %w", err)
		}
		return store, nil
	case "sqlite":
		store, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store)
	}
}

// setupRoutes configures middleware, handlers and routes.
//
// Route map:
//
//	GET    /health                                            liveness probe
//	GET    /uploads/*                                         stored presentations
//	GET    /*                                                 static browser app
//	POST   /api/trips                                         create trip
//	GET    /api/trips/{code}                                  fetch trip
//	POST   /api/trips/{code}/join                             join trip
//	PUT    /api/trips/{code}/participants/{participantId}     update participation
//	DELETE /api/trips/{code}/participants/{participantId}     withdraw
//	POST   /api/trips/{code}/participants/{participantId}/presentation  upload
//	GET    /api/users/{email}/trips                           trips by email
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID) // X-Request-ID for tracing
	s.router.Use(chimiddleware.RealIP)    // client IP from proxy headers
	s.router.Use(chimiddleware.Recoverer) // panics become 500s, not crashes
	s.router.Use(middleware.Logger(s.logger))

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	tripService := service.NewTripService(s.store, s.logger)
	tripHandler := handler.NewTripHandler(tripService, s.logger)

	uploadHandler, err := handler.NewUploadHandler(tripService, s.config.UploadsDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating upload handler: %w", err)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/trips", tripHandler.HandleCreate)
		r.Get("/trips/{code}", tripHandler.HandleGetByCode)
		r.Post("/trips/{code}/join", tripHandler.HandleJoin)
		r.Put("/trips/{code}/participants/{participantId}", tripHandler.HandleUpdateParticipant)
		r.Delete("/trips/{code}/participants/{participantId}", tripHandler.HandleRemoveParticipant)
		r.Post("/trips/{code}/participants/{participantId}/presentation", uploadHandler.HandleUpload)
		r.Get("/users/{email}/trips", tripHandler.HandleTripsForEmail)
	})

	// Uploaded presentations, under the same public prefix stored on the
	// participant records.
	uploadsServer := http.FileServer(http.Dir(s.config.UploadsDir))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", uploadsServer))

	// The static browser app takes everything else.
	staticServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/*", staticServer)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, close the store.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("store", storeDescription(s.config)),
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

func storeDescription(cfg Config) string {
	if cfg.Store == "sqlite" {
		return "sqlite:" + cfg.DBPath
	}
	return "jsonfile:" + cfg.DataFile
}
