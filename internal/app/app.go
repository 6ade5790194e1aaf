// Package app wires repositories, services and handlers into a Fiber app.
package app

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/repositories"
	"portfolio/internal/services"
	"portfolio/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// New builds the HTTP application on top of db. publisher may be nil, in
// which case section events are not sent anywhere.
func New(cfg config.Config, db *gorm.DB, publisher services.EventPublisher) *fiber.App {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")

	app := fiber.New(fiber.Config{
		AppName:      "portfolio",
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	sectionRepo := repositories.NewGORMSectionRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.SecretKey, cfg.SessionTTL)
	sectionService := services.NewSectionService(sectionRepo, publisher)

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: logrus.StandardLogger().Out}))
	// The session token carries its own signature.
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key:    cookieKey(cfg.SecretKey),
		Except: []string{middleware.SessionCookie},
	}))
	app.Use(middleware.LoadIdentity(authService))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Routes ---
	handlers.NewHomeHandler().RegisterRoutes(app)
	handlers.NewAuthHandler(authService, cfg.Production()).RegisterRoutes(app)
	handlers.NewSectionHandler(sectionService).RegisterRoutes(app)

	return app
}

// cookieKey derives the AES-256 key for encrypted cookies from the app secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte("cookies:" + secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// ConfigureLogging sets the global logrus level and format.
func ConfigureLogging(cfg config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.Production() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
