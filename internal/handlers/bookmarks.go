package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdelacroix/hackernews-clone/backend/internal/models"
)

type BookmarkHandler struct {
	db *gorm.DB
}

func NewBookmarkHandler(db *gorm.DB) *BookmarkHandler {
	return &BookmarkHandler{db: db}
}

// Create saves a post for the caller. Bookmarking the same post twice fails
// with a conflict.
func (h *BookmarkHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateBookmarkRequest
	if err := c.ShouldBindJSON(&input); err != nil || input.PostID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id is required"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, input.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var existing models.Bookmark
	if err := h.db.Where("user_id = ? AND post_id = ?", userID, post.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Post already bookmarked"})
		return
	}

	bookmark := models.Bookmark{
		UserID: userID,
		PostID: post.ID,
	}

	if err := h.db.Create(&bookmark).Error; err != nil {
		// The (user_id, post_id) unique index catches concurrent duplicates.
		c.JSON(http.StatusConflict, gin.H{"error": "Post already bookmarked"})
		return
	}

	h.db.Preload("Post").Preload("Post.Author").First(&bookmark, bookmark.ID)

	c.JSON(http.StatusCreated, bookmark)
}

// Delete removes one of the caller's bookmarks (owner only)
func (h *BookmarkHandler) Delete(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookmarkID := c.Param("id")

	var bookmark models.Bookmark
	if err := h.db.First(&bookmark, bookmarkID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}

	if bookmark.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own bookmarks"})
		return
	}

	if err := h.db.Delete(&bookmark).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bookmark"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bookmark deleted successfully"})
}

// List returns the caller's bookmarks with their posts, newest first
func (h *BookmarkHandler) List(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var bookmarks []models.Bookmark
	if err := h.db.Preload("Post").Preload("Post.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	posts := make([]*models.Post, len(bookmarks))
	for i := range bookmarks {
		posts[i] = &bookmarks[i].Post
	}
	fillPostPoints(h.db, posts)
	fillCommentCounts(h.db, posts)

	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}

	c.JSON(http.StatusOK, bookmarks)
}

// Check returns, for a batch of post ids, whether the caller has bookmarked
// each one. Listings use it to annotate rows in one round trip.
func (h *BookmarkHandler) Check(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CheckBookmarksRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := make(map[int]bool, len(input.PostIDs))
	for _, id := range input.PostIDs {
		result[id] = false
	}

	if len(input.PostIDs) > 0 {
		var bookmarks []models.Bookmark
		h.db.Where("user_id = ? AND post_id IN ?", userID, input.PostIDs).Find(&bookmarks)
		for _, b := range bookmarks {
			result[b.PostID] = true
		}
	}

	c.JSON(http.StatusOK, gin.H{"bookmarked": result})
}
