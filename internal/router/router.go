// Package router assembles the Gin engine: middleware, API routes,
// health check and Swagger UI.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fitr/internal/docs" // Import swagger docs
	"fitr/internal/handlers"
	"fitr/internal/middleware"
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Category  *handlers.CategoryHandler
	Expense   *handlers.ExpenseHandler
	Budget    *handlers.BudgetHandler
	Feedback  *handlers.FeedbackHandler
	Dashboard *handlers.DashboardHandler
}

// New builds the engine. auth resolves bearer tokens for protected routes.
func New(h Handlers, auth middleware.Authenticator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/signup", h.Auth.SignUp)
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.GET("/oauth/:provider", h.Auth.OAuth)
	authRoutes.POST("/refresh", h.Auth.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.SessionAuth(auth))

	protected.POST("/auth/logout", h.Auth.Logout)

	categories := protected.Group("/categories")
	categories.GET("", h.Category.GetCategories)
	categories.POST("", h.Category.CreateCategory)

	expenses := protected.Group("/expenses")
	expenses.GET("", h.Expense.GetExpenses)
	expenses.POST("", h.Expense.CreateExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)

	protected.GET("/budget", h.Budget.GetBudget)
	protected.PUT("/budget", h.Budget.SetBudget)

	protected.POST("/feedback", h.Feedback.SubmitFeedback)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("", h.Dashboard.GetDashboard)
	dashboard.GET("/report", h.Dashboard.GetReport)
	dashboard.GET("/months", h.Dashboard.GetMonths)

	return router
}
