package handlers

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdelacroix/hackernews-clone/backend/internal/markdown"
	"github.com/jdelacroix/hackernews-clone/backend/internal/models"
)

// defaultMaxDepth bounds thread nesting on reads. It guards the traversal
// against pathological chains; it is not a storage limit.
const defaultMaxDepth = 50

type CommentHandler struct {
	db       *gorm.DB
	maxDepth int
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	maxDepth := defaultMaxDepth
	if v := os.Getenv("COMMENT_MAX_DEPTH"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			maxDepth = d
		}
	}
	return &CommentHandler{db: db, maxDepth: maxDepth}
}

// CommentNode is a comment annotated with its derived score, the viewer's
// vote and its nested replies.
type CommentNode struct {
	models.Comment
	Points     int            `json:"points"`
	ViewerVote *int           `json:"viewer_vote"`
	BodyHTML   string         `json:"body_html"`
	Replies    []*CommentNode `json:"replies"`
}

// CreateComment creates a top-level comment or a reply on a post. The comment
// insert and its notification fan-out commit as one unit, so a failure leaves
// neither behind.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(input.Body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment body cannot be empty"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var parent *models.Comment
	if input.ParentID != nil {
		var p models.Comment
		if err := h.db.First(&p, *input.ParentID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found"})
			return
		}
		if p.PostID != post.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment belongs to a different post"})
			return
		}
		parent = &p
	}

	comment := models.Comment{
		Body:     input.Body,
		AuthorID: userID,
		PostID:   post.ID,
		ParentID: input.ParentID,
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if err := tx.Create(&comment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	// Fan-out: a reply notifies the parent's author, a top-level comment
	// notifies the post's author. Never both, never the actor themselves.
	if notification := fanOut(&comment, &post, parent); notification != nil {
		if err := tx.Create(notification).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	h.db.Preload("Author").First(&comment, comment.ID)

	c.JSON(http.StatusCreated, &CommentNode{
		Comment:  comment,
		BodyHTML: markdown.Render(comment.Body),
		Replies:  []*CommentNode{},
	})
}

// fanOut decides who, if anyone, gets notified about a new comment.
func fanOut(comment *models.Comment, post *models.Post, parent *models.Comment) *models.Notification {
	if parent != nil {
		if parent.AuthorID == comment.AuthorID {
			return nil
		}
		return &models.Notification{
			Type:        models.NotificationReplyToComment,
			RecipientID: parent.AuthorID,
			ActorID:     comment.AuthorID,
			PostID:      post.ID,
			CommentID:   comment.ID,
		}
	}

	if post.AuthorID == comment.AuthorID {
		return nil
	}
	return &models.Notification{
		Type:        models.NotificationNewCommentOnPost,
		RecipientID: post.AuthorID,
		ActorID:     comment.AuthorID,
		PostID:      post.ID,
		CommentID:   comment.ID,
	}
}

// GetComments returns the post's comment forest: top-level comments newest
// first, replies oldest first, every node annotated with points and the
// viewer's own vote. One query for the comments, one for their points, one
// for the viewer's votes - no per-node round trips.
func (h *CommentHandler) GetComments(c *gin.Context) {
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

	var comments []models.Comment
	if err := h.db.Where("post_id = ?", post.ID).
		Preload("Author").
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	points := h.commentPoints(comments)

	viewerVotes := map[int]int{}
	if viewerID, ok := extractUserID(c); ok {
		viewerVotes = h.viewerCommentVotes(viewerID, comments)
	}

	roots := buildForest(comments, points, viewerVotes, h.maxDepth)

	c.JSON(http.StatusOK, roots)
}

// buildForest assembles the nested tree in one pass. Comments arrive ordered
// by creation, and a parent always predates its children, so each node's
// parent is already in the map when the node is visited. Nodes past the depth
// cap are dropped along with their subtrees.
func buildForest(comments []models.Comment, points map[int]int, viewerVotes map[int]int, maxDepth int) []*CommentNode {
	nodes := make(map[int]*CommentNode, len(comments))
	depths := make(map[int]int, len(comments))
	roots := []*CommentNode{}

	for i := range comments {
		cm := comments[i]
		node := &CommentNode{
			Comment:  cm,
			Points:   points[cm.ID],
			BodyHTML: markdown.Render(cm.Body),
			Replies:  []*CommentNode{},
		}
		if vt, ok := viewerVotes[cm.ID]; ok {
			v := vt
			node.ViewerVote = &v
		}

		if cm.ParentID == nil {
			nodes[cm.ID] = node
			depths[cm.ID] = 0
			roots = append(roots, node)
			continue
		}

		parent, ok := nodes[*cm.ParentID]
		if !ok {
			// Parent was dropped by the depth cap; drop the subtree too.
			continue
		}
		depth := depths[*cm.ParentID] + 1
		if depth > maxDepth {
			continue
		}
		nodes[cm.ID] = node
		depths[cm.ID] = depth
		// Replies keep conversation order (oldest first).
		parent.Replies = append(parent.Replies, node)
	}

	// Top-level comments read newest first.
	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}

	return roots
}

func (h *CommentHandler) commentPoints(comments []models.Comment) map[int]int {
	result := make(map[int]int, len(comments))
	if len(comments) == 0 {
		return result
	}

	ids := make([]int, len(comments))
	for i, cm := range comments {
		ids[i] = cm.ID
	}

	type row struct {
		CommentID int
		Points    int
	}
	var rows []row
	h.db.Model(&models.Vote{}).
		Select("comment_id, COALESCE(SUM(vote_type), 0) AS points").
		Where("comment_id IN ?", ids).
		Group("comment_id").
		Scan(&rows)

	for _, r := range rows {
		result[r.CommentID] = r.Points
	}
	return result
}

func (h *CommentHandler) viewerCommentVotes(viewerID int, comments []models.Comment) map[int]int {
	result := make(map[int]int, len(comments))
	if len(comments) == 0 {
		return result
	}

	ids := make([]int, len(comments))
	for i, cm := range comments {
		ids[i] = cm.ID
	}

	var votes []models.Vote
	h.db.Where("user_id = ? AND comment_id IN ?", viewerID, ids).Find(&votes)
	for _, v := range votes {
		if v.CommentID != nil {
			result[*v.CommentID] = v.VoteType
		}
	}
	return result
}
