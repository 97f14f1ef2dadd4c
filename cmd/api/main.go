package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-warehouse-inventory/config"
	"go-warehouse-inventory/internal/handler"
	"go-warehouse-inventory/internal/middleware"
	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/internal/ws"
	"go-warehouse-inventory/pkg/database"
	"go-warehouse-inventory/pkg/jwt"
	"go-warehouse-inventory/pkg/logger"
	"go-warehouse-inventory/pkg/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg, envFound := config.Load()
	log := logger.New(cfg.IsProduction())
	defer log.Sync()

	if !envFound {
		log.Warn(".env file not found, using process environment")
	}
	jwt.Configure(cfg.Auth.JWTSecret, cfg.Auth.JWTExpirationHours)

	// 2. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := model.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("database ready", zap.String("driver", cfg.Database.Driver))

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log.Named("ws"))
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	services := handler.NewServices(db, wsHub, log, cfg.Reports)
	handlers := handler.NewHandlers(services, log, cfg.Reports)

	// 5. Seed the admin account when configured
	if err := services.Auth.EnsureAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Warn("admin seed failed", zap.Error(err))
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS
	app.Use(middleware.Metrics())

	// 7. Routes
	handlers.Register(app, services.Users)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(wsHub.Handler))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Panic("server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server exited")
}
