// Package main is the entry point for the Travel Bros server.
// Its only jobs are reading configuration, creating the logger and
// starting the application; everything else lives in internal/.
package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sevillaa/Travel-bros/internal/server"
)

func main() {
	// .env is a development convenience; in production the variables come
	// from the real environment and the file simply does not exist.
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 3000
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	cfg := server.Config{
		Port:       port,
		Store:      envOr("STORE", "jsonfile"),
		DataFile:   envOr("DATA_FILE", "data/trips.json"),
		DBPath:     envOr("DB_PATH", "data/trips.db"),
		StaticDir:  envOr("STATIC_DIR", "web/static"),
		UploadsDir: envOr("UPLOADS_DIR", "uploads"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
