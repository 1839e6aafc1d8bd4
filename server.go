package main

import (
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"pakid/shared"
)

type AppServer struct {
	server *fiber.App
}

// NewAppServer wires the fiber app over an already-open database handle. The
// handle is injected rather than fetched here so main owns its lifecycle.
func NewAppServer(db *sql.DB) *AppServer {
	server := fiber.New(fiber.Config{
		AppName:      "PakID Identity Verification API",
		ErrorHandler: shared.ErrorHandler,
	})
	validate := validator.New()

	// The dashboard runs on another origin and there is no auth layer, so
	// requests from anywhere are allowed.
	server.Use(cors.New())

	userService := NewUserService(validate, db)
	userService.RegisterRoutes(server)

	verificationService := NewVerificationService(validate, db)
	verificationService.RegisterRoutes(server)

	return &AppServer{
		server: server,
	}
}

func (a *AppServer) RunHttpServer(port string) error {
	return a.server.Listen(":" + port)
}

func (a *AppServer) Shutdown(timeout time.Duration) error {
	return a.server.ShutdownWithTimeout(timeout)
}
