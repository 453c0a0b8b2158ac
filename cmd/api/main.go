package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"acadrepo/docs"
	"acadrepo/internal/attachment"
	"acadrepo/internal/auth"
	"acadrepo/internal/config"
	"acadrepo/internal/database"
	"acadrepo/internal/database/migration"
	"acadrepo/internal/doi"
	handlers "acadrepo/internal/http/handler"
	"acadrepo/internal/http/middleware"
	"acadrepo/internal/logger"
	"acadrepo/internal/model"
	tracing "acadrepo/internal/otel"
	"acadrepo/internal/ratelimit"
	"acadrepo/internal/repository"
	"acadrepo/internal/repository/memory"
	"acadrepo/internal/repository/postgres"
	"acadrepo/internal/service"
	"acadrepo/internal/storage"
)

// @title Academic Repository API
// @version 1.0
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(logger.Options{
		ServiceName: "acadrepo",
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server_exited")
	}
}

// repositories groups the persistence layer chosen at startup.
type repositories struct {
	products   repository.RecordRepository[*model.Product]
	news       repository.RecordRepository[*model.News]
	ensino     repository.RecordRepository[*model.Ensino]
	extensao   repository.RecordRepository[*model.Extensao]
	principals repository.PrincipalRepository
}

func run(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) error {
	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing_shutdown_failed")
		}
	}()

	// PostgreSQL when configured, otherwise in-process repositories
	var (
		db    *sql.DB
		repos repositories
	)
	if database.Configured(cfg.Database) {
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		repos = repositories{
			products:   postgres.NewProductPostgres(db),
			news:       postgres.NewNewsPostgres(db),
			ensino:     postgres.NewEnsinoPostgres(db),
			extensao:   postgres.NewExtensaoPostgres(db),
			principals: postgres.NewPrincipalPostgres(db),
		}
	} else {
		log.Warn().Msg("database_not_configured_using_memory")
		repos = repositories{
			products:   memory.NewProductMemory(),
			news:       memory.NewNewsMemory(),
			ensino:     memory.NewEnsinoMemory(),
			extensao:   memory.NewExtensaoMemory(),
			principals: memory.NewPrincipalMemory(),
		}
	}

	blobs, err := newBlobStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init blob storage: %w", err)
	}
	log.Info().Str("backend", cfg.Storage.Backend).Msg("blob_storage_ready")

	validator := attachment.NewValidator(cfg.Storage.MaxUploadBytes)
	contentLog := log.With().Str("component", "content").Logger()

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Msg("jwt_secret_not_set_using_ephemeral")
	}
	authSvc, err := service.NewAuthService(repos.principals,
		auth.TokenConfig{Secret: secret, Issuer: cfg.Auth.JWTIssuer, TTL: cfg.Auth.TokenTTL},
		auth.ArgonParams{
			Memory:      cfg.Auth.ArgonMemoryKB,
			Time:        cfg.Auth.ArgonTime,
			Parallelism: cfg.Auth.ArgonParallelism,
			SaltLen:     auth.DefaultArgonParams.SaltLen,
			KeyLen:      auth.DefaultArgonParams.KeyLen,
		})
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}

	doiClient := doi.NewClient(doi.Config{
		BaseURL:   cfg.DOI.BaseURL,
		Timeout:   cfg.DOI.Timeout,
		UserAgent: cfg.DOI.UserAgent,
	})

	deps := handlers.Deps{
		Products: service.NewContentService(service.ProductSchema, repos.products, blobs, validator, contentLog),
		News:     service.NewContentService(service.NewsSchema, repos.news, blobs, validator, contentLog),
		Ensino:   service.NewContentService(service.EnsinoSchema, repos.ensino, blobs, validator, contentLog),
		Extensao: service.NewContentService(service.ExtensaoSchema, repos.extensao, blobs, validator, contentLog),
		Auth:     authSvc,
		Metadata: service.NewMetadataService(doiClient, cfg.DOI.CacheSize, cfg.DOI.CacheTTL),
		Stats:    service.NewStatsService(repos.products, repos.news, repos.ensino, repos.extensao),
	}
	if db != nil {
		deps.DB = db
	}

	if err := service.Bootstrap(ctx, log, service.BootstrapConfig{
		AdminUsername:  cfg.Auth.AdminUsername,
		AdminPassword:  cfg.Auth.AdminPassword,
		SeedSampleNews: cfg.SeedSampleNews,
	}, authSvc, repos.news); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	// Login throttling shares counters across replicas when Redis is available
	var limiterStore fiber.Storage
	if cfg.RedisURL != "" {
		rs, err := ratelimit.NewRedisStorage(ctx, cfg.RedisURL, "login")
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rs.Close()
		limiterStore = rs
	}
	deps.LoginLimiter = middleware.LoginLimiter(cfg.Auth.LoginRateMax, cfg.Auth.LoginRateWindow, limiterStore)

	metrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Handler strings outlive the request in the memory repositories and the DOI cache.
	app := fiber.New(fiber.Config{
		AppName:      "acadrepo",
		Immutable:    true,
		BodyLimit:    cfg.MaxBodyBytes,
		ErrorHandler: handlers.ErrorHandler(log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	// Register global middleware
	app.Use(recover.New())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	// JSON access log; renders handler errors so the logged status is final
	app.Use(middleware.Logger(log.With().Str("component", "http").Logger()))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, deps)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown_started")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown_failed")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("server_listening")
	if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

func newBlobStore(cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Backend {
	case "minio", "s3":
		return storage.NewMinIO(cfg.MinIO)
	case "memory":
		return storage.NewMemory(), nil
	case "fs", "":
		return storage.NewFS(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
