package handlers

import (
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdelacroix/hackernews-clone/backend/internal/markdown"
	"github.com/jdelacroix/hackernews-clone/backend/internal/models"
	"github.com/jdelacroix/hackernews-clone/backend/internal/ranking"
)

const postsPerPage = 25

// pointsSubquery derives a post's point total from the vote ledger inside the
// listing query, so the top/best orderings paginate correctly in SQL.
const pointsSubquery = "(SELECT COALESCE(SUM(v.vote_type), 0) FROM votes v WHERE v.post_id = posts.id)"

type PostHandler struct {
	db      *gorm.DB
	gravity float64
	// bestUsesRank selects which ordering "best" means: the decaying rank
	// formula (default) or the plain vote-count ordering that "top" uses.
	// BEST_SORT_MODE=top picks the latter.
	bestUsesRank bool
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{
		db:           db,
		gravity:      ranking.Gravity(),
		bestUsesRank: os.Getenv("BEST_SORT_MODE") != "top",
	}
}

// CreatePost creates a new link or text post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and type (link or text) are required"})
		return
	}

	switch input.Type {
	case models.PostTypeLink:
		if input.Body != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Link posts cannot have a body"})
			return
		}
		u, err := url.Parse(input.URL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Link posts require an absolute URL"})
			return
		}
	case models.PostTypeText:
		if input.URL != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text posts cannot have a URL"})
			return
		}
		if strings.TrimSpace(input.Body) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text posts require a body"})
			return
		}
	}

	post := models.Post{
		Title:    input.Title,
		Type:     input.Type,
		URL:      input.URL,
		Body:     input.Body,
		AuthorID: userID,
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Reload with author information
	h.db.Preload("Author").First(&post, post.ID)
	if post.Type == models.PostTypeText {
		post.BodyHTML = markdown.Render(post.Body)
	}

	c.JSON(http.StatusCreated, post)
}

// GetPosts returns a paginated listing with sort modes new, top and best,
// and an optional AND-of-terms search over title and body.
func (h *PostHandler) GetPosts(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}

	sort := c.Query("sort")
	if sort == "" {
		sort = "new"
	}

	filtered := func() *gorm.DB {
		q := h.db.Model(&models.Post{})
		for _, term := range strings.Fields(c.Query("q")) {
			pattern := "%" + term + "%"
			q = q.Where("(posts.title ILIKE ? OR posts.body ILIKE ?)", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	totalPages := int(math.Ceil(float64(total) / float64(postsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	query := filtered()
	switch sort {
	case "top":
		query = query.Order(pointsSubquery + " DESC, posts.created_at DESC")
	case "best":
		if h.bestUsesRank {
			query = query.Order(ranking.OrderSQL(pointsSubquery, h.gravity) + " DESC, posts.created_at DESC")
		} else {
			query = query.Order(pointsSubquery + " DESC, posts.created_at DESC")
		}
	default:
		query = query.Order("posts.created_at DESC")
	}

	var posts []models.Post
	if err := query.Preload("Author").
		Limit(postsPerPage).
		Offset((page - 1) * postsPerPage).
		Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	h.annotatePosts(c, refs)

	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       posts,
		"page":        page,
		"total_pages": totalPages,
		"sort":        sort,
	})
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")
	var post models.Post

	if err := h.db.Preload("Author").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	h.annotatePosts(c, []*models.Post{&post})

	c.JSON(http.StatusOK, post)
}

// annotatePosts batch-fills the derived fields (points, comment counts,
// rendered bodies, and the viewer's votes/bookmarks when authenticated).
func (h *PostHandler) annotatePosts(c *gin.Context, posts []*models.Post) {
	fillPostPoints(h.db, posts)
	fillCommentCounts(h.db, posts)
	for _, p := range posts {
		if p.Type == models.PostTypeText {
			p.BodyHTML = markdown.Render(p.Body)
		}
	}
	if viewerID, ok := extractUserID(c); ok {
		fillViewerVotes(h.db, viewerID, posts)
		fillBookmarked(h.db, viewerID, posts)
	}
}

func postIDs(posts []*models.Post) []int {
	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func fillPostPoints(db *gorm.DB, posts []*models.Post) {
	if len(posts) == 0 {
		return
	}

	type row struct {
		PostID int
		Points int
	}
	var rows []row
	db.Model(&models.Vote{}).
		Select("post_id, COALESCE(SUM(vote_type), 0) AS points").
		Where("post_id IN ?", postIDs(posts)).
		Group("post_id").
		Scan(&rows)

	pointsMap := make(map[int]int, len(rows))
	for _, r := range rows {
		pointsMap[r.PostID] = r.Points
	}
	for _, p := range posts {
		p.Points = pointsMap[p.ID]
	}
}

func fillCommentCounts(db *gorm.DB, posts []*models.Post) {
	if len(posts) == 0 {
		return
	}

	type row struct {
		PostID int
		Count  int
	}
	var rows []row
	db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs(posts)).
		Group("post_id").
		Scan(&rows)

	countMap := make(map[int]int, len(rows))
	for _, r := range rows {
		countMap[r.PostID] = r.Count
	}
	for _, p := range posts {
		p.CommentCount = countMap[p.ID]
	}
}

func fillViewerVotes(db *gorm.DB, viewerID int, posts []*models.Post) {
	if len(posts) == 0 {
		return
	}

	var votes []models.Vote
	db.Where("user_id = ? AND post_id IN ?", viewerID, postIDs(posts)).Find(&votes)

	voteMap := make(map[int]int, len(votes))
	for _, v := range votes {
		if v.PostID != nil {
			voteMap[*v.PostID] = v.VoteType
		}
	}
	for _, p := range posts {
		if vt, ok := voteMap[p.ID]; ok {
			v := vt
			p.ViewerVote = &v
		}
	}
}

func fillBookmarked(db *gorm.DB, viewerID int, posts []*models.Post) {
	if len(posts) == 0 {
		return
	}

	var bookmarks []models.Bookmark
	db.Where("user_id = ? AND post_id IN ?", viewerID, postIDs(posts)).Find(&bookmarks)

	marked := make(map[int]bool, len(bookmarks))
	for _, b := range bookmarks {
		marked[b.PostID] = true
	}
	for _, p := range posts {
		p.Bookmarked = marked[p.ID]
	}
}
