package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jdelacroix/hackernews-clone/backend/internal/models"
)

type VoteHandler struct {
	db *gorm.DB
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{db: db}
}

// voteTarget discriminates between the two things a vote can land on.
// Exactly one field is set, so the toggle/switch/create rules live in a
// single code path for both posts and comments.
type voteTarget struct {
	postID    *int
	commentID *int
}

func (t voteTarget) scope(q *gorm.DB) *gorm.DB {
	if t.postID != nil {
		return q.Where("post_id = ?", *t.postID)
	}
	return q.Where("comment_id = ?", *t.commentID)
}

// VotePost casts, switches or removes the caller's vote on a post
func (h *VoteHandler) VotePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	h.applyVote(c, voteTarget{postID: &post.ID})
}

// VoteComment casts, switches or removes the caller's vote on a comment
func (h *VoteHandler) VoteComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	h.applyVote(c, voteTarget{commentID: &comment.ID})
}

// applyVote implements the one-vote-per-target ledger rules:
//   - same vote type again removes the vote (toggle off)
//   - a different vote type updates the existing row in place
//   - otherwise a new row is created
//
// The read-decide-write runs in one transaction with the existing row locked,
// and the partial unique indexes catch concurrent duplicate creates.
func (h *VoteHandler) applyVote(c *gin.Context, target voteTarget) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		VoteType int `json:"vote_type" binding:"required,oneof=-1 1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote type must be -1 or 1"})
		return
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	var existing models.Vote
	err := target.scope(
		tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID),
	).First(&existing).Error

	var result *int
	switch {
	case err == nil && existing.VoteType == input.VoteType:
		// Same vote - remove it (toggle)
		if err := tx.Delete(&existing).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
			return
		}
		result = nil

	case err == nil:
		// Different vote - update in place, preserving the row identity
		existing.VoteType = input.VoteType
		if err := tx.Save(&existing).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
			return
		}
		result = &input.VoteType

	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := models.Vote{
			UserID:    userID,
			PostID:    target.postID,
			CommentID: target.commentID,
			VoteType:  input.VoteType,
		}
		if err := tx.Create(&vote).Error; err != nil {
			// Unique index hit: a concurrent request won the create
			tx.Rollback()
			c.JSON(http.StatusConflict, gin.H{"error": "Vote already recorded, retry"})
			return
		}
		result = &input.VoteType

	default:
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vote_type": result,
		"points":    h.points(target),
	})
}

// points derives the target's point total from the ledger: +1 per upvote,
// -1 per downvote. Computed on read so it can never go stale.
func (h *VoteHandler) points(target voteTarget) int {
	var points int64
	target.scope(h.db.Model(&models.Vote{})).
		Select("COALESCE(SUM(vote_type), 0)").
		Scan(&points)
	return int(points)
}
