package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Yanami-qaq/health-assistant/internal/handlers"
	"github.com/Yanami-qaq/health-assistant/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware    *middleware.AuthMiddleware
	RecordHandler     *handlers.RecordHandler
	StatsHandler      *handlers.StatsHandler
	AdvisorHandler    *handlers.AdvisorHandler
	PlanHandler       *handlers.PlanHandler
	AssessmentHandler *handlers.AssessmentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Records
	api.POST("/records", cfg.RecordHandler.Submit)
	api.POST("/records/sync", cfg.RecordHandler.Sync)
	api.GET("/records", cfg.RecordHandler.List)
	api.PUT("/records/:id", cfg.RecordHandler.Update)
	api.DELETE("/records/:id", cfg.RecordHandler.Delete)

	// Dashboard
	api.GET("/dashboard", cfg.StatsHandler.Dashboard)

	// Advisor
	api.POST("/advisor/chat", cfg.AdvisorHandler.Chat)

	// Plans
	api.GET("/plans/latest", cfg.PlanHandler.Latest)
	api.GET("/plans", cfg.PlanHandler.History)
	api.POST("/tasks/:id/toggle", cfg.PlanHandler.ToggleTask)
	api.PUT("/tasks/:id", cfg.PlanHandler.UpdateTask)
	api.DELETE("/tasks/:id", cfg.PlanHandler.DeleteTask)

	// Assessment
	api.GET("/assessment", cfg.AssessmentHandler.Get)
	api.POST("/assessment/regenerate", cfg.AssessmentHandler.Regenerate)

	return router
}
