package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/unitechhub/examhub/internal/config"
	"github.com/unitechhub/examhub/internal/handler"
	"github.com/unitechhub/examhub/internal/middleware"
	"github.com/unitechhub/examhub/internal/response"
	"github.com/unitechhub/examhub/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Question *handler.QuestionHandler
	Practice *handler.PracticeHandler
	CGPA     *handler.CGPAHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireUserJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	userAPI := router.Group("/api/v1")
	userAPI.Use(
		middleware.RequireUserJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		userAPI.GET("/courses", handlers.Catalog.ListCourses)
		userAPI.GET("/courses/:course_id/topics", handlers.Catalog.ListTopics)

		userAPI.POST("/practices", handlers.Practice.Start)
		userAPI.POST("/practices/:session_id/submit", handlers.Practice.Submit)
		userAPI.PUT("/practices/:session_id/answers", handlers.Practice.SaveAnswer)
		userAPI.GET("/practices/:session_id/state", handlers.Practice.State)
		userAPI.GET("/practices/history", handlers.Practice.History)

		userAPI.GET("/leaderboard", handlers.Practice.Leaderboard)
		userAPI.POST("/cgpa", handlers.CGPA.Compute)
	}

	// ─── 3. WebSocket Group (User WS Auth) ─────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/practices/:session_id/countdown", handlers.WS.CountdownStream)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/courses", handlers.Catalog.AdminListCourses)
		adminAPI.POST("/courses", handlers.Catalog.CreateCourse)
		adminAPI.PATCH("/courses/:course_id/toggle", handlers.Catalog.ToggleCourse)
		adminAPI.GET("/courses/:course_id/topics", handlers.Catalog.AdminListTopics)

		adminAPI.POST("/topics", handlers.Catalog.CreateTopic)
		adminAPI.PATCH("/topics/:topic_id/toggle", handlers.Catalog.ToggleTopic)

		adminAPI.GET("/topics/:topic_id/questions", handlers.Question.ListByTopic)
		adminAPI.POST("/questions", handlers.Question.Add)
		adminAPI.POST("/topics/:topic_id/questions/import", handlers.Question.ImportCSV)
	}

	return router
}
