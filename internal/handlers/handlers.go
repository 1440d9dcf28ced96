package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jdelacroix/hackernews-clone/backend/internal/database"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Post         *PostHandler
	Comment      *CommentHandler
	Vote         *VoteHandler
	Notification *NotificationHandler
	Bookmark     *BookmarkHandler
	User         *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *database.Database) *Handler {
	// Get the GORM DB instance from the service
	dbService := database.New()
	gormDB := dbService.GetDB()

	return &Handler{
		Auth:         NewAuthHandler(gormDB),
		Post:         NewPostHandler(gormDB),
		Comment:      NewCommentHandler(gormDB),
		Vote:         NewVoteHandler(gormDB),
		Notification: NewNotificationHandler(gormDB),
		Bookmark:     NewBookmarkHandler(gormDB),
		User:         NewUserHandler(gormDB),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
