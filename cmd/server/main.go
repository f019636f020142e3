package main

import (
	"os"

	"github.com/compass-cx/orchestrator/internal/api/handlers"
	"github.com/compass-cx/orchestrator/internal/api/middleware"
	"github.com/compass-cx/orchestrator/internal/config"
	"github.com/compass-cx/orchestrator/internal/content"
	"github.com/compass-cx/orchestrator/internal/crypto"
	"github.com/compass-cx/orchestrator/internal/dialogue"
	"github.com/compass-cx/orchestrator/internal/logger"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load(config.Overrides{})
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	if cfg.Debug {
		logger.SetLevel(logger.LevelDebug)
	}

	// Set Gin mode
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize confirmation token manager
	tokens, err := crypto.NewTokenManager(cfg.MasterSecret, cfg.ConfirmTTL)
	if err != nil {
		logger.Errorf("Failed to create token manager: %v", err)
		os.Exit(1)
	}

	// Session store and dialogue components
	store := session.NewStore()
	machine := dialogue.NewMachine(store, tokens)
	executor := dialogue.NewExecutor(store, tokens)
	registry := content.NewRegistry()

	// Create Gin router
	router := gin.Default()

	// CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	// Logging middleware
	router.Use(middleware.LoggingMiddleware())

	// Health endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// Initialize handlers
	orchestrateHandler := handlers.NewOrchestrateHandler(store, machine, registry)
	actionHandler := handlers.NewActionHandler(store, machine, executor, registry)

	v1 := router.Group("/v1")
	{
		v1.POST("/orchestrate", orchestrateHandler.Post)
		v1.POST("/action", actionHandler.Post)
	}

	logger.Infof("Orchestrator starting on http://localhost%s", cfg.Addr)
	if cfg.ConfirmTTL > 0 {
		logger.Infof("Pending transfers expire after %s", cfg.ConfirmTTL)
	}

	if err := router.Run(cfg.Addr); err != nil {
		logger.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
