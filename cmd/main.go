package main

import (
	"fmt"
	"os"

	"github.com/Yanami-qaq/health-assistant/internal/db"
	"github.com/Yanami-qaq/health-assistant/internal/handlers"
	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/middleware"
	"github.com/Yanami-qaq/health-assistant/internal/repos"
	"github.com/Yanami-qaq/health-assistant/internal/server"
	"github.com/Yanami-qaq/health-assistant/internal/services"
	"github.com/Yanami-qaq/health-assistant/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	sampleRepo := repos.NewSampleRepo(thePG, log)
	planRepo := repos.NewPlanRepo(thePG, log)
	taskRepo := repos.NewTaskRepo(thePG, log)
	assessmentRepo := repos.NewAssessmentRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	advisorClient, err := services.NewAdvisorClient(log)
	if err != nil {
		log.Error("Could not init AdvisorClient", "error", err)
		os.Exit(1)
	}
	recordService := services.NewRecordService(thePG, log, userRepo, sampleRepo)
	syncService := services.NewSyncService(log, recordService)
	planService := services.NewPlanService(thePG, log, planRepo, taskRepo)
	statsService := services.NewStatsService(thePG, log, userRepo, sampleRepo, planService)
	advisorService := services.NewAdvisorService(thePG, log, advisorClient, userRepo, sampleRepo, planRepo, taskRepo)
	assessmentService := services.NewAssessmentService(thePG, log, advisorClient, userRepo, sampleRepo, assessmentRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	recordHandler := handlers.NewRecordHandler(log, recordService, syncService)
	statsHandler := handlers.NewStatsHandler(log, statsService)
	advisorHandler := handlers.NewAdvisorHandler(log, advisorService)
	planHandler := handlers.NewPlanHandler(log, planService)
	assessmentHandler := handlers.NewAssessmentHandler(log, assessmentService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:    authMiddleware,
		RecordHandler:     recordHandler,
		StatsHandler:      statsHandler,
		AdvisorHandler:    advisorHandler,
		PlanHandler:       planHandler,
		AssessmentHandler: assessmentHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
