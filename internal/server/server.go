package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jdelacroix/hackernews-clone/backend/internal/database"
	"github.com/jdelacroix/hackernews-clone/backend/internal/handlers"
	"github.com/jdelacroix/hackernews-clone/backend/internal/middleware"
)

type Server struct {
	db      *database.Database
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Create unified handler
	handler := handlers.NewHandler(db)

	// Create server instance
	newServer := &Server{
		db:      db,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Public reads; the viewer, when logged in, gets their own votes
		// and bookmarks annotated
		reads := api.Group("")
		reads.Use(middleware.OptionalAuth())
		{
			reads.GET("/posts", s.handler.Post.GetPosts)
			reads.GET("/posts/:id", s.handler.Post.GetPost)
			reads.GET("/posts/:id/comments", s.handler.Comment.GetComments)
			reads.GET("/users/:id", s.handler.User.GetUserProfile)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			// Post protected routes
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.POST("/posts/:id/vote", s.handler.Vote.VotePost)

			// Comment protected routes
			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)
			protected.POST("/comments/:id/vote", s.handler.Vote.VoteComment)

			// Notification routes
			protected.GET("/notifications", s.handler.Notification.List)
			protected.POST("/notifications/:id/read", s.handler.Notification.MarkRead)
			protected.POST("/notifications/read-all", s.handler.Notification.MarkAllRead)

			// Bookmark routes
			protected.POST("/bookmarks", s.handler.Bookmark.Create)
			protected.DELETE("/bookmarks/:id", s.handler.Bookmark.Delete)
			protected.GET("/bookmarks", s.handler.Bookmark.List)
			protected.POST("/bookmarks/check", s.handler.Bookmark.Check)
		}
	}

	return r
}
