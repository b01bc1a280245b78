package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-catalog-api/internal/config"
	"go-catalog-api/internal/constraint"
	"go-catalog-api/internal/handler"
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/seed"
	"go-catalog-api/internal/service"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/database"
	"go-catalog-api/pkg/jwt"
	"go-catalog-api/pkg/logger"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	jwt.Configure(jwt.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, zapLog, constraint.Plugin{})
	if err != nil {
		zapLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if err := db.AutoMigrate(model.All()...); err != nil {
		zapLog.Fatal("Migration failed", zap.Error(err))
	}
	if _, err := constraint.Sync(ctx, db, zapLog, model.All()...); err != nil {
		zapLog.Fatal("Constraint sync failed", zap.Error(err))
	}

	// 3. Seed system and admin users
	userRepo := repository.NewUserRepo(db)
	seeded, err := seed.Users(ctx, userRepo, cfg.Seed, zapLog)
	if err != nil {
		zapLog.Fatal("Seeding users failed", zap.Error(err))
	}
	model.SystemUserID = seeded.SystemID

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zapLog)
	go wsHub.Run()
	defer wsHub.Stop()

	// 5. Dependency Injection (Wiring Layers)
	typeRepo := repository.NewCategoryTypeRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	skuRepo := repository.NewSkuRepo(db)
	pricelistRepo := repository.NewPricelistRepo(db)
	priceRepo := repository.NewPriceDetailRepo(db)
	attrRepo := repository.NewAttributeRepo(db)
	valueRepo := repository.NewSkuAttributeValueRepo(db)
	setRepo := repository.NewAttributeSetRepo(db)
	imageRepo := repository.NewImageRepo(db)

	services := handler.Services{
		Auth:          service.NewAuthService(userRepo),
		Users:         service.NewUserService(userRepo, db, wsHub, seeded.Protected()...),
		Dashboard:     service.NewDashboardService(repository.NewStatsRepo(db)),
		CategoryTypes: service.NewCategoryTypeService(typeRepo, db, wsHub),
		Categories:    service.NewCategoryService(categoryRepo, typeRepo, imageRepo, db, wsHub),
		Suppliers:     service.NewSupplierService(supplierRepo, db, wsHub),
		Products:      service.NewProductService(productRepo, categoryRepo, supplierRepo, imageRepo, db, wsHub),
		Skus:          service.NewSkuService(skuRepo, productRepo, categoryRepo, pricelistRepo, priceRepo, attrRepo, valueRepo, db, wsHub),
		Pricelists:    service.NewPricelistService(pricelistRepo, priceRepo, db, wsHub),
		Attributes:    service.NewAttributeService(attrRepo, valueRepo, db, wsHub),
		AttributeSets: service.NewAttributeSetService(setRepo, attrRepo, categoryRepo, db, wsHub),
		Images:        service.NewImageService(imageRepo),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: response.ErrorHandler(zapLog),
	})

	// Middleware
	app.Use(recover.New()) // Panic recovery
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(zapLog))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	// 7. Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return response.OK(c, fiber.Map{"status": "ok", "ws_clients": wsHub.ClientCount()})
	})
	handler.Register(app.Group("/api/v1"), services)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Add(c) {
			return
		}
		defer wsHub.Remove(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		zapLog.Info("Server starting", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			zapLog.Panic("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		zapLog.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLog.Info("Server exited")
}
