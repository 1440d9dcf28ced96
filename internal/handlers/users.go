package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdelacroix/hackernews-clone/backend/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetUserProfile returns a user's profile with their posts and karma
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID := c.Param("id")
	var user models.User

	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var posts []models.Post
	h.db.Where("author_id = ?", user.ID).Preload("Author").Order("created_at DESC").Find(&posts)

	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	fillPostPoints(h.db, refs)
	fillCommentCounts(h.db, refs)

	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"bio":        user.Bio,
			"avatar":     user.Avatar,
			"created_at": user.CreatedAt,
		},
		"posts": posts,
		"karma": h.karma(user.ID),
	})
}

// karma is the net vote total across everything the user has written.
func (h *UserHandler) karma(userID int) int {
	var postKarma, commentKarma int64

	h.db.Model(&models.Vote{}).
		Select("COALESCE(SUM(votes.vote_type), 0)").
		Joins("JOIN posts ON posts.id = votes.post_id").
		Where("posts.author_id = ?", userID).
		Scan(&postKarma)

	h.db.Model(&models.Vote{}).
		Select("COALESCE(SUM(votes.vote_type), 0)").
		Joins("JOIN comments ON comments.id = votes.comment_id").
		Where("comments.author_id = ?", userID).
		Scan(&commentKarma)

	return int(postKarma + commentKarma)
}
