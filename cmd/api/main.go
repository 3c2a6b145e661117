package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"fitr/internal/config"
	"fitr/internal/database"
	"fitr/internal/gateway"
	"fitr/internal/gateway/store"
	"fitr/internal/gateway/supabase"
	"fitr/internal/handlers"
	"fitr/internal/logger"
	"fitr/internal/router"
	"fitr/internal/services"
	"fitr/internal/session"
	"fitr/internal/validator"
)

// @title           FiTr API
// @version         1.0
// @description     FiTr is a personal expense tracker: record expenses, set daily or monthly budgets, and review spending by day and category.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

// backend is the data gateway and authenticator selected by GATEWAY.
type backend struct {
	gw    gateway.Gateway
	auth  gateway.Authenticator
	close func() error
}

func newBackend(cfg *config.Config) (*backend, error) {
	switch cfg.Gateway {
	case config.GatewayDatabase:
		dbConfig, err := database.NewConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load database configuration: %w", err)
		}
		dbManager, err := database.NewManager(dbConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create database manager: %w", err)
		}
		if err := dbManager.RunMigrations(); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		db := dbManager.DB()
		return &backend{
			gw:    store.New(db),
			auth:  store.NewAuth(db, store.AuthOptions{JWTSecret: cfg.JWTSecret, AccessTTL: cfg.JWTExpirationDur}),
			close: dbManager.Close,
		}, nil

	default:
		client := supabase.New(supabase.Config{
			URL:         cfg.SupabaseURL,
			AnonKey:     cfg.SupabaseAnonKey,
			RedirectURL: cfg.OAuthRedirectURL,
		}, &http.Client{Timeout: cfg.RequestTimeout})
		return &backend{gw: client, auth: client, close: func() error { return nil }}, nil
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	be, err := newBackend(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.close(); err != nil {
			log.Warnw("Failed to close backend", "error", err)
		}
	}()

	validator.Register()

	// Session events drive workspace loading
	broker := session.NewBroker()
	workspaces := services.NewWorkspaceService(be.gw)
	stopWatching := services.WatchSessions(broker, workspaces, appConfig.RequestTimeout)
	defer stopWatching()

	// Initialize services
	authService := services.NewAuthService(be.auth, broker)
	categoryService := services.NewCategoryService(be.gw, workspaces)
	expenseService := services.NewExpenseService(be.gw, workspaces, time.Local)
	budgetService := services.NewBudgetService(be.gw, workspaces)
	feedbackService := services.NewFeedbackService(be.gw)
	dashboardService := services.NewDashboardService(workspaces, time.Now)

	// Initialize handlers
	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Category:  handlers.NewCategoryHandler(categoryService),
		Expense:   handlers.NewExpenseHandler(expenseService),
		Budget:    handlers.NewBudgetHandler(budgetService),
		Feedback:  handlers.NewFeedbackHandler(feedbackService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
	}, authService)

	log.Infow("Starting FiTr server", "port", appConfig.Port, "gateway", appConfig.Gateway)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
