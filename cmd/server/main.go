package main

import (
	"strings"
	"time"

	"github.com/aokumura/issue-tracker-api/internal/config"
	"github.com/aokumura/issue-tracker-api/internal/constants"
	"github.com/aokumura/issue-tracker-api/internal/database"
	"github.com/aokumura/issue-tracker-api/internal/handlers"
	"github.com/aokumura/issue-tracker-api/internal/logger"
	"github.com/aokumura/issue-tracker-api/internal/middleware"
	"github.com/aokumura/issue-tracker-api/internal/repository"
	"github.com/aokumura/issue-tracker-api/internal/services"
	"github.com/aokumura/issue-tracker-api/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Init(cfg.LogLevel)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			logger.Fatalf("Failed to create indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	ticketService := services.NewTicketService(ticketRepo, projectRepo)
	commentService := services.NewCommentService(commentRepo, ticketRepo, projectRepo)
	attachmentService := services.NewAttachmentService(attachmentRepo, ticketRepo, projectRepo, storage.NewDiskStore(cfg.UploadDir))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	commentHandler := handlers.NewCommentHandler(commentService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Issue Tracker API is running",
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
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.GET("/:id/members/me", projectHandler.GetOwnRole)
			projects.POST("/:id/tickets", ticketHandler.CreateTicket)
			projects.GET("/:id/tickets", ticketHandler.ListTickets)
			projects.GET("/:id/board", ticketHandler.KanbanBoard)
			projects.GET("/:id/dashboard", ticketHandler.Dashboard)
		}

		// Ticket routes (protected)
		tickets := api.Group("/tickets")
		tickets.Use(middleware.RequireAuth())
		{
			tickets.GET("/search", ticketHandler.SearchTickets)
			tickets.GET("/:id", ticketHandler.GetTicket)
			tickets.PATCH("/:id", ticketHandler.UpdateTicket)
			tickets.DELETE("/:id", ticketHandler.ArchiveTicket)
			tickets.POST("/:id/move", ticketHandler.MoveTicket)
			tickets.GET("/:id/comments", commentHandler.ListComments)
			tickets.POST("/:id/comments", commentHandler.CreateComment)
			tickets.GET("/:id/attachments", attachmentHandler.ListAttachments)
			tickets.POST("/:id/attachments", attachmentHandler.UploadAttachment)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	// Start server
	logger.Infof("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
