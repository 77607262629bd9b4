package handlers

import (
	"tasktrack/backend/internal/config"
	"tasktrack/backend/internal/middleware"
	"tasktrack/backend/internal/services"
	"tasktrack/backend/internal/suggest"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouterDeps are the fully constructed collaborators the router wires
// together; nothing is created here.
type RouterDeps struct {
	Config          *config.Config
	DB              *gorm.DB
	TaskService     services.TaskService
	QueryService    services.TaskQueryService
	AuthService     services.AuthService
	RegisterService services.RegisterService
	SuggestClient   *suggest.Client
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryWithLog())
	router.Use(cors.Default())

	if deps.Config.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(
			deps.Config.RateLimit.RequestsPerMin,
			deps.Config.RateLimit.BurstSize,
			deps.Config.RateLimit.CleanupInterval,
		)
		router.Use(rl.Middleware())
	}

	healthHandler := NewHealthHandler(deps.DB)
	router.GET("/healthz", healthHandler.Health)

	authHandler := NewAuthHandler(deps.DB, deps.AuthService, deps.Config.Auth.AccessTokenTTL)
	registerHandler := NewRegisterHandler(deps.DB, deps.RegisterService)
	refreshHandler := NewRefreshHandler(deps.DB, deps.AuthService)
	logoutHandler := NewLogoutHandler(deps.DB, deps.AuthService)

	auth := router.Group("/auth")
	{
		auth.POST("/register", registerHandler.Registration)
		auth.POST("/login", authHandler.Token)
		auth.POST("/refresh", refreshHandler.Refresh)
		auth.POST("/logout", logoutHandler.Logout)
	}

	taskHandler := NewTaskHandler(deps.DB, deps.TaskService, deps.QueryService)
	dashboardHandler := NewDashboardHandler(deps.DB, deps.QueryService)
	labelHandler := NewLabelHandler(deps.SuggestClient)

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.Config.Auth.JWTSecret))
	{
		protected.POST("/tasks", taskHandler.CreateTask)
		protected.GET("/tasks", taskHandler.GetTasks)
		protected.GET("/tasks/:id", taskHandler.GetTask)
		protected.PUT("/tasks/:id", taskHandler.UpdateTask)
		protected.PATCH("/tasks/:id/status", taskHandler.UpdateTaskStatus)
		protected.DELETE("/tasks/:id", taskHandler.DeleteTask)

		protected.GET("/dashboard/recent", dashboardHandler.RecentTasks)
		protected.GET("/dashboard/due-today", dashboardHandler.DueToday)
		protected.GET("/dashboard/stats", dashboardHandler.Stats)

		protected.POST("/labels/suggest", labelHandler.SuggestLabels)
	}

	return router
}
