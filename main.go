package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"careerhub/server/internal/config"
	"careerhub/server/internal/database"
	"careerhub/server/internal/handlers"
	"careerhub/server/internal/messaging"
	"careerhub/server/internal/routes"
	"careerhub/server/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, users, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	service := messaging.NewService(store, users, log)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.AuthTokenDuration)

	app := fiber.New(fiber.Config{
		AppName:   "CareerHub Messaging API v1.0",
		BodyLimit: cfg.BodyLimit(),
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Messages:    handlers.NewMessageHandler(service, log),
		Attachments: handlers.NewAttachmentHandler(cfg.UploadDir, cfg.MaxUploadSize),
		Tokens:      tokens,
	})

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server...")
		_ = app.Shutdown()
	}()

	log.Info("Server starting", "addr", cfg.Addr(), "driver", cfg.StoreDriver)
	return app.Listen(cfg.Addr())
}

// openStore wires the message store and identity resolver for the configured driver.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (messaging.MessageStore, messaging.IdentityResolver, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverBadger:
		db, err := database.OpenBadger(cfg.BadgerFilepath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database opening failed: %w", err)
		}
		directory := database.NewBadgerDirectory(db)
		if cfg.SeedProfiles != "" {
			count, err := directory.SeedProfiles(cfg.SeedProfiles)
			if err != nil {
				_ = db.Close()
				return nil, nil, nil, fmt.Errorf("seeding profiles failed: %w", err)
			}
			log.Info("Profiles seeded", "count", count)
		}
		closeFn := func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}
		return database.NewBadgerMessageStore(db), directory, closeFn, nil
	default:
		pool, err := database.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		closeFn := func() {
			log.Info("Closing database pool...")
			pool.Close()
		}
		return database.NewPostgresMessageStore(pool), database.NewPostgresDirectory(pool), closeFn, nil
	}
}
