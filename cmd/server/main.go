package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/projectboard/project-management-api/internal/config"
	"github.com/projectboard/project-management-api/internal/constants"
	"github.com/projectboard/project-management-api/internal/database"
	"github.com/projectboard/project-management-api/internal/handlers"
	"github.com/projectboard/project-management-api/internal/middleware"
	"github.com/projectboard/project-management-api/internal/repository"
	"github.com/projectboard/project-management-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, cfg.StrictStatusUpdate)
	adminService := services.NewAdminService(userRepo, projectRepo, taskRepo, statsRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	teamHandler := handlers.NewTeamHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService, aiService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.Me)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.Create)
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
		}

		// Team routes (protected)
		team := api.Group("/team")
		team.Use(middleware.RequireAuth())
		{
			team.GET("/:projectId", teamHandler.List)
			team.POST("/:projectId/add", teamHandler.Add)
			team.POST("/:projectId/remove", teamHandler.Remove)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("", taskHandler.Create)
			tasks.GET("/my-tasks", taskHandler.ListMine)
			tasks.GET("/project/:projectId", taskHandler.ListByProject)
			tasks.POST("/generate", taskHandler.Generate)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
			tasks.PATCH("/:id/assign", taskHandler.Assign)
			tasks.DELETE("/:id", taskHandler.Delete)
		}

		// Admin routes (protected, admin only)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
			admin.GET("/projects", adminHandler.ListProjects)
			admin.DELETE("/projects/:id", adminHandler.DeleteProject)
			admin.GET("/tasks", adminHandler.ListTasks)
			admin.DELETE("/tasks/:id", adminHandler.DeleteTask)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
