// @title           Concert Booking API
// @version         1.0
// @description     Concerts, users and ticket bookings with per-user booking limits.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/99minutos/concert-booking/docs"
	"github.com/99minutos/concert-booking/internal/api"
	"github.com/99minutos/concert-booking/internal/api/handler"
	"github.com/99minutos/concert-booking/internal/core/service"
	"github.com/99minutos/concert-booking/internal/infrastructure/db/mongo"
	"github.com/99minutos/concert-booking/internal/infrastructure/db/redis"
	"github.com/99minutos/concert-booking/internal/infrastructure/queue"
	"github.com/99minutos/concert-booking/internal/pkg/config"
	"github.com/99minutos/concert-booking/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Service: "concert-booking", Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	userRepo := mongo.NewUserRepository(db)
	concertRepo := mongo.NewConcertRepository(db)
	bookingRepo := mongo.NewBookingRepository(db)
	eventRepo := mongo.NewBookingEventRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, concertRepo, bookingRepo, eventRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Audit pipeline ---
	auditService := service.NewAuditService(eventRepo, logger.WithComponent("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, logger.WithComponent("dispatcher"))
	// Outlives the signal context: requests drained by e.Shutdown still publish.
	auditCtx, cancelAudit := context.WithCancel(context.Background())
	defer cancelAudit()
	dispatcher.Start(auditCtx)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, service.AuthOptions{
		TokenTTL:         cfg.Auth.TokenTTL,
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
	}, logger.WithComponent("auth"))
	concertService := service.NewConcertService(concertRepo, logger.WithComponent("concert"))
	userService := service.NewUserService(userRepo)
	bookingService := service.NewBookingService(
		bookingRepo,
		redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL),
		dispatcher,
		logger.WithComponent("booking"),
	)

	// --- HTTP ---
	e := api.NewRouter(api.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Concert: handler.NewConcertHandler(concertService),
		Booking: handler.NewBookingHandler(bookingService),
		User:    handler.NewUserHandler(userService),
		Health:  handler.NewHealthHandler(),
		Readiness: handler.NewHealthDependenciesHandler(map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		}),
	}, api.Options{
		Verifier: authService,
		Log:      logger.WithComponent("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("audit events lost on shutdown")
	}
}
