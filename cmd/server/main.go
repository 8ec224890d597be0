package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AnshRaj112/celustock-backend/internal/config"
	"github.com/AnshRaj112/celustock-backend/internal/database"
	"github.com/AnshRaj112/celustock-backend/internal/handlers"
	"github.com/AnshRaj112/celustock-backend/internal/logger"
	"github.com/AnshRaj112/celustock-backend/internal/middleware"
	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/routes"
	"github.com/AnshRaj112/celustock-backend/internal/services"
	"github.com/AnshRaj112/celustock-backend/internal/store"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("no .env file found, using process environment")
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := database.Connect(cfg.MongoURI); err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Disconnect()

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := database.EnsureIndexes(idxCtx, database.DB)
	idxCancel()
	if err != nil {
		logger.Fatal("failed to ensure MongoDB indexes; unique plan names and user emails depend on them", zap.Error(err))
	}

	// Redis is optional: without it the stats cache is off and the auth
	// routes fall back to the in-process limiter.
	var cache services.Cache
	authLimit := middleware.LoginRateLimit()
	if cfg.RedisURI != "" {
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer database.DisconnectRedis()
			cache = services.NewRedisCache(database.RedisClient)
			authLimit = middleware.AuthRateLimit(database.RedisClient)
		}
	}

	db := database.DB
	phones := store.New[models.Phone](db.Collection(database.PhonesCollection))
	accessories := store.New[models.Accessory](db.Collection(database.AccessoriesCollection))
	plans := store.New[models.Plan](db.Collection(database.PlansCollection))
	vivoPhones := store.New[models.VivoPhone](db.Collection(database.VivoPhonesCollection))
	vivoAccessories := store.New[models.VivoAccessory](db.Collection(database.VivoAccessoriesCollection))
	users := store.New[models.User](db.Collection(database.UsersCollection))
	activities := store.New[models.Activity](db.Collection(database.ActivitiesCollection))

	recorder := services.NewActivityRecorder(activities)
	authService := services.NewAuthService(users, recorder, cfg.JWTSecret, cfg.JWTExpiry)

	phoneService := services.NewPhoneService(phones, recorder)
	accessoryService := services.NewAccessoryService(accessories, recorder)
	vivoPhoneService := services.NewVivoPhoneService(vivoPhones, recorder)
	vivoAccessoryService := services.NewVivoAccessoryService(vivoAccessories, recorder)
	if cache != nil {
		phoneService.UseStatsCache(cache)
		accessoryService.UseStatsCache(cache)
		vivoPhoneService.UseStatsCache(cache)
		vivoAccessoryService.UseStatsCache(cache)
	}

	h := routes.NewHandlers(routes.Services{
		Auth:            authService,
		Phones:          phoneService,
		Accessories:     accessoryService,
		Plans:           services.NewPlanService(plans, recorder),
		VivoPhones:      vivoPhoneService,
		VivoAccessories: vivoAccessoryService,
		Dashboard:       services.NewDashboardService(phones, accessories, vivoPhones, vivoAccessories, recorder, cache),
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		logger.Info("production security enabled")
	} else {
		r.Use(middleware.RequestLogger)
	}

	r.Get("/health", handlers.Health(database.Ping))
	routes.SetupRoutes(r, h, middleware.Auth(authService), authLimit)

	if cfg.IsProduction() {
		r.NotFound(handlers.SPA(cfg.ClientDir))
		logger.Info("serving client", zap.String("dir", cfg.ClientDir))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
