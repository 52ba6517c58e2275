package main

import (
	"log"
	"time"

	"todo-be/internal/auth"
	"todo-be/internal/cache"
	"todo-be/internal/config"
	"todo-be/internal/controllers"
	"todo-be/internal/database"
	"todo-be/internal/middleware"
	"todo-be/internal/repository"
	"todo-be/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis (%v). Continuing without cache.", err)
			cacheClient = nil
		} else {
			log.Println("Connected to Redis cache")
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	// Initialize token service and identity resolver
	tokenService := auth.NewTokenService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTLMinutes)*time.Minute,
	)
	resolver := auth.NewIdentityResolver(tokenService)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenService, cacheClient)
	todoService := service.NewTodoService(todoRepo)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	todoController := controllers.NewTodoController(todoService)

	// Create a Gin router
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Todo List API",
		})
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Auth routes
	router.POST("/register", authController.Register)
	router.POST("/login", authController.Login)

	// Protected routes - every request passes through the identity resolver
	todos := router.Group("/todos")
	todos.Use(middleware.AuthMiddleware(resolver, authService.LookupUser))
	{
		todos.POST("", todoController.Create)
		todos.GET("", todoController.List)
		todos.PUT("/:id", todoController.Update)
		todos.DELETE("/:id", todoController.Delete)
	}

	log.Printf("Server starting on http://localhost:%s", cfg.Port)
	router.Run(":" + cfg.Port)
}
