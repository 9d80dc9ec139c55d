package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/talentview/hr-insight/internal/config"
	"github.com/talentview/hr-insight/internal/domain/fiber/handler"
	"github.com/talentview/hr-insight/internal/logger"
	"github.com/talentview/hr-insight/internal/metrics"
	"github.com/talentview/hr-insight/internal/middleware"
	"github.com/talentview/hr-insight/internal/model"
	"github.com/talentview/hr-insight/internal/ranking"
	"github.com/talentview/hr-insight/internal/repository"
	"github.com/talentview/hr-insight/internal/service"
	"github.com/talentview/hr-insight/internal/usecase"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	zlog, err := logger.New(appConfig.Env)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer zlog.Sync()

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: 10 * 1024 * 1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint:  "/livez",
		ReadinessEndpoint: "/readyz",
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB(zlog)

	metricsManager := metrics.NewManager()
	app.Get("/metrics", adaptor.HTTPHandler(metricsManager.Handler()))

	candidateRepo := repository.NewCandidateRepository(db)

	gemini, err := service.NewGeminiService(ctx, zlog)
	if err != nil {
		zlog.Fatal("could not init gemini service", zap.Error(err))
	}
	openRouter := service.NewOpenRouterService(zlog)

	var chatProvider service.ChatProvider = gemini
	if config.LoadChatConfig().Provider == "openrouter" {
		chatProvider = openRouter
	}

	weights := ranking.NewWeights(config.LoadRankingConfig().Weights)

	extractionUC := usecase.NewExtractionUsecase(candidateRepo, gemini, weights, metricsManager, zlog)
	recommendationUC := usecase.NewRecommendationUsecase(candidateRepo, weights, metricsManager, zlog)
	chatUC := usecase.NewChatUsecase(candidateRepo, gemini, chatProvider, metricsManager, zlog)

	h := handler.NewCandidateHandler(extractionUC, recommendationUC, chatUC)
	h.RegisterRoutes(app)

	waitForDashboard(zlog)

	zlog.Info("server running", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func ConnectDB(zlog *zap.Logger) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		zlog.Fatal("could not connect to database", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		zlog.Fatal("could not get database instance", zap.Error(err))
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	// The embedding column needs the pgvector extension before migration;
	// uuid_generate_v4 needs uuid-ossp.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		zlog.Fatal("could not enable pgvector extension", zap.Error(err))
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		zlog.Fatal("could not enable uuid-ossp extension", zap.Error(err))
	}

	if err := db.AutoMigrate(&model.Candidate{}); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}
	return db
}

// waitForDashboard polls the companion dashboard until it answers, so the
// two processes can start in any order. A dashboard that never comes up is
// logged and ignored; the API serves without it.
func waitForDashboard(zlog *zap.Logger) {
	cfg := config.LoadDashboardConfig()
	if cfg.URL == "" {
		return
	}

	client := resty.New().SetTimeout(2 * time.Second)
	deadline := time.Now().Add(cfg.ProbeTimeout)
	for time.Now().Before(deadline) {
		resp, err := client.R().Get(cfg.URL)
		if err == nil && resp.StatusCode() < 500 {
			zlog.Info("dashboard reachable", zap.String("url", cfg.URL))
			return
		}
		time.Sleep(time.Second)
	}
	zlog.Warn("dashboard not reachable before timeout, continuing without it",
		zap.String("url", cfg.URL),
		zap.Duration("timeout", cfg.ProbeTimeout),
	)
}
