package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-pos/internal/cache"
	"go-inventory-pos/internal/config"
	"go-inventory-pos/internal/handler"
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/database"
	"go-inventory-pos/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg.Database)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Report cache
	reports, closeCache := openReportCache(cfg)
	defer closeCache()

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	signer := jwt.NewSigner(cfg.JWTSecret, cfg.JWTTTL)

	productRepo := repository.NewProductRepo(db)
	brandRepo := repository.NewBrandRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)
	reportRepo := repository.NewReportRepo(db)
	ledger := repository.NewStockLedger(db)
	uow := repository.NewUnitOfWork(db)

	skuService := service.NewSKUService(productRepo)
	productService := service.NewProductService(productRepo, brandRepo, uow, skuService, wsHub, reports)
	brandService := service.NewBrandService(brandRepo, uow, wsHub, reports)
	saleService := service.NewSaleService(uow, saleRepo, ledger, wsHub, reports)
	reportService := service.NewReportService(reportRepo, reports, cfg.ReportCacheTTL, cfg.LowStockThreshold)
	authService := service.NewAuthService(userRepo, signer)
	userService := service.NewUserService(userRepo)

	// 6. Seed default brand and first administrator
	seed(brandService, userService, cfg)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	handler.Register(app.Group("/api/v1"), handler.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Product: handler.NewProductHandler(productService, skuService),
		Brand:   handler.NewBrandHandler(brandService),
		Sale:    handler.NewSaleHandler(saleService),
		Report:  handler.NewReportHandler(reportService),
	}, middleware.RequireAuth(signer, userRepo))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Address()); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exited")
}

// openReportCache connects to Redis when REDIS_ADDR is set and falls back
// to no caching when it is unset or unreachable.
func openReportCache(cfg config.Config) (cache.ReportCache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NoopReportCache{}, func() {}
	}

	rc := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		log.Printf("Warning: Redis unavailable at %s, report cache disabled: %v", cfg.RedisAddr, err)
		rc.Close()
		return cache.NoopReportCache{}, func() {}
	}

	log.Printf("Report cache connected (%s)", cfg.RedisAddr)
	return rc, func() { rc.Close() }
}

func seed(brands service.BrandService, users service.UserService, cfg config.Config) {
	ctx := context.Background()

	if _, err := brands.EnsureDefaultBrand(ctx); err != nil {
		log.Printf("Warning: Failed to seed default brand: %v", err)
	}

	created, err := users.EnsureAdministrator(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		log.Printf("Warning: Failed to seed administrator: %v", err)
		return
	}
	if created {
		log.Printf("Administrator created: %s", cfg.AdminUsername)
	}
}
