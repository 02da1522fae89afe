package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tipjar-labs/tipjar/internal/config"
	"github.com/tipjar-labs/tipjar/internal/metrics"
	"github.com/tipjar-labs/tipjar/internal/middleware"
	"github.com/tipjar-labs/tipjar/internal/notification"
	"github.com/tipjar-labs/tipjar/internal/profile"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	// Now is the clock for new profiles and donations; nil means time.Now.
	Now func() time.Time
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.SecurityHeaders())
	app.Use(metrics.Middleware())
	if d.Cfg.IsDev() {
		// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	} else {
		app.Use(middleware.Audit(d.Logger))
	}
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)
	app.Get("/metrics", metrics.Handler())

	var repo profile.Repository
	if d.DB != nil {
		repo = profile.NewPostgresRepository(d.DB)
	} else {
		repo = profile.NewMemoryRepository(profile.Seed(now())...)
	}
	notifier := notification.NewLoggerNotifier(d.Logger)
	profileSvc := profile.NewService(repo, notifier,
		profile.WithBannerColor(d.Cfg.DefaultBannerColor),
		profile.WithClock(now),
	)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	v1.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterUserRoutes(api, profile.NewHandler(profileSvc), middleware.WriteRateLimit(d.Cache, d.Cfg.WriteRateLimit))
	return nil
}
