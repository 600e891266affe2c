package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/controller"
	"nutri_edu_backend/internal/repository"
	"nutri_edu_backend/internal/service"
	"nutri_edu_backend/pkg/configwatcher"
	"nutri_edu_backend/pkg/database"
	"nutri_edu_backend/pkg/logger"
	"nutri_edu_backend/pkg/monitoring"
	"nutri_edu_backend/pkg/security"
	"nutri_edu_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	stopArchiver    chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	supplement *repository.SupplementRepository
	quiz       *repository.QuizRepository
	archive    *repository.TallyArchiveRepository
	sessions   repository.SessionStore
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	quiz         *service.QuizService
	telemetry    *service.TelemetryService
	presentation *service.PresentationService
	catalog      *service.CatalogService
	analytics    *service.AnalyticsService
	leadExport   *service.LeadExportService
}

type controllers struct {
	auth      *controller.AuthController
	quiz      *controller.QuizController
	telemetry *controller.TelemetryController
	surface   *controller.SurfaceController
	catalog   *controller.CatalogController
	analytics *controller.AnalyticsController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	ttl := time.Duration(cfg.Telemetry.SessionTTLMinutes) * time.Minute

	var sessions repository.SessionStore
	if rdb != nil {
		sessions = repository.NewRedisSessionStore(rdb, ttl)
	} else {
		sessions = repository.NewMemorySessionStore(ttl)
	}

	return &repositories{
		user:       repository.NewUserRepository(db),
		supplement: repository.NewSupplementRepository(db),
		quiz:       repository.NewQuizRepository(db),
		archive:    repository.NewTallyArchiveRepository(db),
		sessions:   sessions,
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg)
	s.quiz = service.NewQuizService(repos.quiz, repos.supplement, repos.sessions, cfg)
	s.telemetry = service.NewTelemetryService(repos.sessions, cfg.Telemetry)
	s.presentation = service.NewPresentationService(s.telemetry, repos.sessions, cfg)
	s.catalog = service.NewCatalogService(repos.supplement)
	s.analytics = service.NewAnalyticsService(repos.sessions, repos.archive)
	s.leadExport = service.NewLeadExportService(repos.quiz, s.storage)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		quiz:      controller.NewQuizController(s.quiz),
		telemetry: controller.NewTelemetryController(s.telemetry),
		surface:   controller.NewSurfaceController(s.presentation),
		catalog:   controller.NewCatalogController(s.catalog),
		analytics: controller.NewAnalyticsController(s.analytics, s.leadExport),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the hourly tally archiver so the ephemeral
// Redis counters survive as daily rows in MySQL.
func (a *App) startBackgroundTasks(s *services) {
	a.stopArchiver = make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-a.stopArchiver:
				return
			case <-ticker.C:
				if err := s.analytics.ArchiveTallies(context.Background()); err != nil {
					logger.Log.Error("tally archive error", zap.Error(err))
				}
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Redis is optional: without it, sessions live in-process and are
	// lost on restart, which is acceptable for single-node deployments.
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, falling back to in-memory session store", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	services, err := app.initServices(repos, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
		log.Fatalf("Failed to initialize services: %v", err)
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	app.RegisterConfigCallback(services.quiz.Reconfigure)
	app.RegisterConfigCallback(services.telemetry.Reconfigure)
	app.RegisterConfigCallback(services.presentation.Reconfigure)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("nutri-edu", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	go configwatcher.WatchConfig("configs/config.yaml", app.applyConfig)

	return app
}

// applyConfig hot-applies the tunable engine sections on config file
// change. Structural settings (ports, database, storage) still require
// a restart.
func (a *App) applyConfig(fresh *config.Config) {
	a.Config.Scoring = fresh.Scoring
	a.Config.Engagement = fresh.Engagement
	a.Config.Telemetry = fresh.Telemetry
	a.Config.Presentation = fresh.Presentation
	for _, cb := range a.configCallbacks {
		cb(fresh)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Freeze every live tracker so final snapshots reach the session
	// store and no tick goroutine outlives the server.
	if a.services != nil && a.services.telemetry != nil {
		a.services.telemetry.StopAll()
	}
	if a.stopArchiver != nil {
		close(a.stopArchiver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
