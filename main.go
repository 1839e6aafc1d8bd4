package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pakid/shared"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using process environment")
	}

	db, err := shared.GetConnection()
	if err != nil {
		slog.Error("Failed to connect to database", "err", err)
		os.Exit(1)
	}

	if err := shared.InitSchema(db); err != nil {
		slog.Error("Failed to initialize schema", "err", err)
		os.Exit(1)
	}

	app := NewAppServer(db)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8000"
	}

	go func() {
		slog.Info("Starting HTTP server", "port", port)
		if err := app.RunHttpServer(port); err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	if err := app.Shutdown(10 * time.Second); err != nil {
		slog.Error("Server shutdown failed", "err", err)
	}
	if err := db.Close(); err != nil {
		slog.Error("Closing database handle failed", "err", err)
	}
}
