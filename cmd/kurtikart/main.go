package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"kurtikart/internal/cache"
	"kurtikart/internal/config"
	"kurtikart/internal/http/handlers"
	applog "kurtikart/internal/log"
	"kurtikart/internal/repos"
	"kurtikart/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	views := cache.New(cache.DefaultTTL)
	deps := handlers.NewDeps(db, authSvc, views)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendOrigin,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Csrf-Token",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(handlers.AttachUser(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Security check failed. Please refresh and try again.",
			})
		},
	}))

	// ---------- Catalog ----------
	api := app.Group("/api")
	api.Get("/products", deps.CatalogHandler.OtherProducts)
	api.Get("/products/:id", deps.CatalogHandler.OtherProductDetail)
	api.Get("/offers", deps.CatalogHandler.Offers)
	api.Get("/offers/:id", deps.CatalogHandler.OfferDetail)
	api.Get("/kurtis", deps.CatalogHandler.Kurtis)
	api.Get("/kurtis/catalog", deps.CatalogHandler.Browse)
	api.Get("/kurtis/new-releases", deps.CatalogHandler.NewReleases)
	api.Get("/kurtis/:id", deps.CatalogHandler.Detail)
	api.Get("/categories", deps.CatalogHandler.Categories)
	api.Get("/kurti-types", deps.CatalogHandler.KurtiTypes)

	// ---------- Cart ----------
	api.Get("/cart", deps.CartHandler.View)
	api.Get("/cart/count", deps.CartHandler.Count)
	api.Post("/cart", deps.CartHandler.Add)
	api.Put("/cart/items/:id", deps.CartHandler.Update)
	api.Delete("/cart/items/:id", deps.CartHandler.Remove)

	// ---------- Auth (login throttled) ----------
	api.Post("/register", deps.AuthHandler.Register)
	api.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many attempts. Please try again later.",
			})
		},
	}), deps.AuthHandler.Login)
	api.Post("/logout", deps.AuthHandler.Logout)
	api.Get("/me", deps.AuthHandler.Me)

	// ---------- Site & health ----------
	api.Get("/site", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"contactPhone": cfg.ContactPhone})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
