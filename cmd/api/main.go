package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-catalog-admin/internal/config"
	"go-catalog-admin/internal/handler"
	applog "go-catalog-admin/internal/logger"
	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/internal/ws"
	"go-catalog-admin/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := applog.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	for _, name := range cfg.Catalog.ExtraCategories {
		model.RegisterCategory(name)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, cfg.LogLevel)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	// Auto Migrate; the products table is the only schema this service owns
	if err := db.AutoMigrate(&model.Product{}); err != nil {
		zlog.Fatal("failed to migrate schema", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)

	catalogService := service.NewCatalogService(productRepo, db, wsHub, zlog)
	queryService := service.NewQueryService(productRepo, zlog)
	statsService := service.NewStatsService(productRepo)

	images := model.ImageResolver{
		BaseURL:        cfg.Catalog.ImageBaseURL,
		PlaceholderURL: cfg.Catalog.PlaceholderURL,
	}
	productHandler := handler.NewProductHandler(catalogService, queryService, images)
	statsHandler := handler.NewStatsHandler(statsService)
	authHandler := handler.NewAuthHandler(cfg.JWT.Secret, cfg.JWT.Issuer)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")
	handler.RegisterRoutes(api, middleware.RequireAuth(cfg.JWT.Secret, cfg.JWT.Issuer), authHandler, productHandler, statsHandler)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Connect(c) {
			return
		}
		defer wsHub.Disconnect(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		zlog.Info("catalog admin listening", zap.String("port", cfg.Port), zap.String("driver", cfg.Database.Driver))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Panic("server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	wsHub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("server exited")
}
