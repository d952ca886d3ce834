package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/upkook/cx-metrics/internal/application/usecases"
	"github.com/upkook/cx-metrics/internal/config"
	"github.com/upkook/cx-metrics/internal/domain/registry"
	"github.com/upkook/cx-metrics/internal/domain/repositories"
	"github.com/upkook/cx-metrics/internal/infrastructure/cache"
	"github.com/upkook/cx-metrics/internal/infrastructure/database"
	"github.com/upkook/cx-metrics/internal/infrastructure/repository"
	"github.com/upkook/cx-metrics/internal/interfaces/http/handlers"
	"github.com/upkook/cx-metrics/internal/interfaces/http/middleware"
	"github.com/upkook/cx-metrics/internal/interfaces/http/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Error loading configuration: %v", err)
	}

	db, err := database.SetupDatabase(cfg.DatabaseURL, cfg.SlowQueryThreshold)
	if err != nil {
		log.Fatalf("❌ Error setting up database: %v", err)
	}

	mem := cache.New(time.Minute)
	defer mem.Close()
	insightCache := cache.NewInsightCache(mem, cfg.InsightCacheTTL)
	surveyCache := cache.NewSurveyCache(mem, cfg.SurveyCacheTTL)

	store := repositories.NewStore(db)
	factory := registry.Default()

	h := handlers.NewHandlers(handlers.UseCases{
		Surveys:        usecases.NewSurveyUseCase(store, factory, surveyCache, cfg.SurveyBaseURL),
		Responses:      usecases.NewResponseUseCase(store, repository.NewCustomerRepository(db), insightCache, cfg.ResponseCooldown),
		Insights:       usecases.NewInsightUseCase(store, insightCache),
		DefaultOptions: usecases.NewDefaultOptionUseCase(store),
	}, cfg.ClientIDCookie)

	app := fiber.New(fiber.Config{
		Concurrency:  256 * 1024,
		Prefork:      false,
		BodyLimit:    10 * 1024 * 1024, // 10MB
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: handlers.ErrorHandler,
	})

	middleware.SetupMiddlewares(app, cfg.AllowedOrigins)
	routes.SetupRoutes(app, h, middleware.JWTBusinessMember(cfg.JWTSecret), factory.Types())

	log.Printf("📋 Survey types: %v", factory.Types())
	log.Printf("🚀 Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
