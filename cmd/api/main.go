package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"school-management-api/internal/api"
	"school-management-api/internal/auth"
	"school-management-api/internal/config"
	"school-management-api/internal/db"
	"school-management-api/internal/importer"
	"school-management-api/internal/logger"
	"school-management-api/internal/notification"
	"school-management-api/internal/queue"
	"school-management-api/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting API server")

	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if cfg.Database.MigrateOnStart {
		if err := db.Migrate(context.Background(), database); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	repo := db.NewRepository(database)

	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	var archive storage.Storage
	if cfg.Import.ArchiveUploads {
		s3Storage, err := storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		archive = s3Storage
	}

	hasher := auth.NewBcryptHasher(auth.DefaultCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	dispatcher := notification.NewDispatcher(queue.NewProducer(redisClient, cfg), repo)

	handler := api.NewHandler(
		cfg,
		importer.NewService(cfg, repo, hasher),
		repo,
		archive,
		dispatcher,
		auth.NewService(repo, hasher, tokens),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.CORSMiddleware(cfg.Server.AllowedOrigins...))
	router.Use(api.LoggingMiddleware())
	router.Use(api.RecoveryMiddleware())
	router.MaxMultipartMemory = cfg.Import.MaxUploadBytes

	api.SetupRoutes(router, handler, tokens)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
