package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	v1 "github.com/facade-admin/api/v1"
	"github.com/facade-admin/cascade"
	"github.com/facade-admin/config"
	"github.com/facade-admin/database"
	"github.com/facade-admin/guard"
	"github.com/facade-admin/logging"
	"github.com/facade-admin/metrics"
	"github.com/facade-admin/middleware"
	"github.com/facade-admin/prompt"
	"github.com/facade-admin/repositories"
	"github.com/facade-admin/services"
	"github.com/facade-admin/store/gormstore"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)
	log := logging.Component("server")

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	if !cfg.AutoMigrate {
		migrator, err := database.NewMigrator(cfg.DatabaseURL, logging.Component("migrate"))
		if err != nil {
			log.WithError(err).Fatal("Failed to set up migrations")
		}
		if err := migrator.Up(context.Background()); err != nil {
			log.WithError(err).Fatal("Failed to run migrations")
		}
	}

	db, err := database.Open(database.Options{
		URL:         cfg.DatabaseURL,
		AutoMigrate: cfg.AutoMigrate,
		LogLevel:    logrus.GetLevel(),
	}, logging.Component("database"))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	inflight, closeGuard := newGuard(cfg, log)
	defer closeGuard()

	m := metrics.New(prometheus.DefaultRegisterer)
	deleter := cascade.NewDeleter(
		gormstore.New(db),
		prompt.NonInteractive{},
		cascade.WithLogger(logging.Component("cascade")),
		cascade.WithObserver(m),
	)

	projectRepo := repositories.NewProjectRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	userRepo := repositories.NewUserRepository(db)

	projectService := services.NewProjectService(
		projectRepo,
		customerRepo,
		repositories.NewDeletionLogRepository(db),
		deleter,
		inflight,
		logging.Component("projects"),
	)
	svc := v1.Services{
		Auth:         services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, logging.Component("auth")),
		Projects:     projectService,
		Exports:      services.NewExportService(projectRepo),
		Structures:   services.NewStructureService(projectService, repositories.NewStructureRepository(db)),
		Customers:    services.NewCustomerService(customerRepo, logging.Component("customers")),
		Notes:        services.NewNoteService(repositories.NewNoteRepository(db)),
		Users:        services.NewUserService(userRepo, customerRepo, logging.Component("users")),
		SecureCookie: cfg.GinMode == gin.ReleaseMode,
	}

	if err := v1.RegisterValidators(); err != nil {
		log.WithError(err).Fatal("Failed to register validators")
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logging.Component("http")))
	router.Use(middleware.Metrics(m))

	// CORS configuration
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	v1.RegisterRoutes(router.Group("/api/v1"), svc)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Facade admin API starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

// newGuard returns the in-flight delete guard: Redis when configured so that
// replicas share it, otherwise in-process
func newGuard(cfg config.Config, log *logrus.Entry) (guard.Guard, func()) {
	if !cfg.UseRedis() {
		log.Info("Using in-process delete guard")
		return guard.NewMemory(), func() {}
	}
	g, err := guard.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.DeleteLockTTL, logging.Component("guard"))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	log.WithField("addr", cfg.RedisAddr).Info("Using Redis delete guard")
	return g, func() { _ = g.Close() }
}
