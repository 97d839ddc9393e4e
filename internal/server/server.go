package server

import (
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/kanishk44/social-media/internal/auth"
	"github.com/kanishk44/social-media/internal/cache"
	"github.com/kanishk44/social-media/internal/config"
	"github.com/kanishk44/social-media/internal/db"
	"github.com/kanishk44/social-media/internal/httpx"
	"github.com/kanishk44/social-media/internal/media"
	"github.com/kanishk44/social-media/internal/posts"
	"github.com/kanishk44/social-media/internal/social"
	"github.com/redis/go-redis/v9"
)

const (
	apiRateLimit  = 100
	apiRateWindow = 15 * time.Minute
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    db.Querier
	Redis *redis.Client
}

func NewServer(cfg config.Config, q db.Querier, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1024 * 1024,
		ErrorHandler: httpx.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Authorization, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    q,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
	s.App.Get("/healthz", health)
	s.App.Get("/health", health)

	api := s.App.Group("/api/v1", limiter.New(limiter.Config{
		Max:               apiRateLimit,
		Expiration:        apiRateWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later")
		},
	}))

	authSvc := auth.NewService(auth.Config{
		Secret:     s.Cfg.JWTSecret,
		TokenTTL:   s.Cfg.JWTTTL,
		BcryptCost: s.Cfg.BcryptCost,
	}, s.DB)
	jwtMiddleware := auth.JWTMiddleware(authSvc)

	directory := social.NewDirectory(s.DB, cache.NewProfiles(s.Redis, s.Cfg.ProfileCacheTTL))

	auth.RegisterRoutes(api.Group("/auth"), authSvc, jwtMiddleware)
	social.RegisterRoutes(api.Group("/users"), social.NewService(s.DB, directory), jwtMiddleware)

	// before posts so /posts/:id does not capture upload-url
	media.RegisterRoutes(api, media.NewService(media.Config{
		BaseURL:   s.Cfg.MediaBaseURL,
		Secret:    s.Cfg.JWTSecret,
		UploadTTL: s.Cfg.MediaUploadTTL,
	}, s.DB), jwtMiddleware)
	posts.RegisterRoutes(api, posts.NewService(s.DB, directory), jwtMiddleware)
}

// InitSentry enables error reporting when a DSN is configured. The
// returned flush must run before the process exits.
func InitSentry(cfg config.Config) (flush func(), err error) {
	if cfg.SentryDSN == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}
