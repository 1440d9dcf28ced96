package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jdelacroix/hackernews-clone/backend/internal/models"
)

type commentNodeResponse struct {
	ID         int                   `json:"id"`
	Body       string                `json:"body"`
	AuthorID   int                   `json:"author_id"`
	PostID     int                   `json:"post_id"`
	ParentID   *int                  `json:"parent_id"`
	Points     int                   `json:"points"`
	ViewerVote *int                  `json:"viewer_vote"`
	Replies    []commentNodeResponse `json:"replies"`
}

func commentsURL(postID int) string {
	return fmt.Sprintf("/api/posts/%d/comments", postID)
}

func TestCreateCommentValidation(t *testing.T) {
	resetDB(t)
	router := newTestRouter()

	author := createUser(t, "author")
	other := createUser(t, "other")
	post := createPost(t, author, "commented post")
	otherPost := createPost(t, author, "other post")
	token := authToken(t, other)

	// Empty and whitespace-only bodies are rejected
	for _, body := range []string{"", "   \n\t"} {
		w := doRequest(t, router, "POST", commentsURL(post.ID), token, map[string]interface{}{"body": body})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for body %q, got %d", body, w.Code)
		}
	}

	// Missing post
	w := doRequest(t, router, "POST", commentsURL(9999), token, map[string]interface{}{"body": "hello"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing post, got %d", w.Code)
	}

	// Missing parent
	missing := 9999
	w = doRequest(t, router, "POST", commentsURL(post.ID), token, map[string]interface{}{"body": "hello", "parent_id": missing})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing parent, got %d", w.Code)
	}

	// Parent on a different post
	foreign := createComment(t, author, otherPost, nil, "elsewhere")
	w = doRequest(t, router, "POST", commentsURL(post.ID), token, map[string]interface{}{"body": "hello", "parent_id": foreign.ID})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for cross-post parent, got %d", w.Code)
	}

	// Nothing was persisted by the failed attempts
	if n := countRows(t, &models.Comment{}, "post_id = ?", post.ID); n != 0 {
		t.Errorf("Expected no comments on post, found %d", n)
	}

	// A valid comment comes back with zero points and no replies
	w = doRequest(t, router, "POST", commentsURL(post.ID), token, map[string]interface{}{"body": "hello"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var node commentNodeResponse
	decodeJSON(t, w, &node)
	if node.Points != 0 || node.ViewerVote != nil || len(node.Replies) != 0 {
		t.Errorf("Expected fresh node with points 0 and no replies, got %+v", node)
	}
}

func TestThreadShapeAndOrdering(t *testing.T) {
	resetDB(t)
	router := newTestRouter()

	author := createUser(t, "author")
	viewer := createUser(t, "viewer")
	post := createPost(t, author, "threaded post")

	base := time.Now().UTC().Add(-time.Hour)
	mkComment := func(parentID *int, body string, offset time.Duration) models.Comment {
		cm := models.Comment{
			Body:      body,
			AuthorID:  author.ID,
			PostID:    post.ID,
			ParentID:  parentID,
			CreatedAt: base.Add(offset),
		}
		if err := testDB.Create(&cm).Error; err != nil {
			t.Fatalf("Failed to create comment %q: %v", body, err)
		}
		return cm
	}

	c1 := mkComment(nil, "first top-level", 0)
	c2 := mkComment(nil, "second top-level", time.Minute)
	r1 := mkComment(&c1.ID, "older reply", 2*time.Minute)
	r2 := mkComment(&c1.ID, "newer reply", 3*time.Minute)
	rr := mkComment(&r1.ID, "nested reply", 4*time.Minute)

	// Viewer upvotes c1
	w := doRequest(t, router, "POST", voteURL("comment", c1.ID), authToken(t, viewer), map[string]int{"vote_type": models.Upvote})
	if w.Code != http.StatusOK {
		t.Fatalf("Vote failed: %d %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, "GET", commentsURL(post.ID), authToken(t, viewer), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var roots []commentNodeResponse
	decodeJSON(t, w, &roots)

	// Top level reads newest first
	if len(roots) != 2 {
		t.Fatalf("Expected 2 top-level comments, got %d", len(roots))
	}
	if roots[0].ID != c2.ID || roots[1].ID != c1.ID {
		t.Errorf("Expected top-level order [%d %d], got [%d %d]", c2.ID, c1.ID, roots[0].ID, roots[1].ID)
	}

	// Replies read oldest first, nested to arbitrary depth
	c1Node := roots[1]
	if len(c1Node.Replies) != 2 {
		t.Fatalf("Expected 2 replies under c1, got %d", len(c1Node.Replies))
	}
	if c1Node.Replies[0].ID != r1.ID || c1Node.Replies[1].ID != r2.ID {
		t.Errorf("Expected reply order [%d %d], got [%d %d]", r1.ID, r2.ID, c1Node.Replies[0].ID, c1Node.Replies[1].ID)
	}
	if len(c1Node.Replies[0].Replies) != 1 || c1Node.Replies[0].Replies[0].ID != rr.ID {
		t.Errorf("Expected nested reply %d under %d", rr.ID, r1.ID)
	}

	// Annotations: points and the viewer's own vote
	if c1Node.Points != 1 {
		t.Errorf("Expected c1 points 1, got %d", c1Node.Points)
	}
	if c1Node.ViewerVote == nil || *c1Node.ViewerVote != models.Upvote {
		t.Errorf("Expected viewer vote on c1, got %v", c1Node.ViewerVote)
	}
	if roots[0].ViewerVote != nil {
		t.Errorf("Expected no viewer vote on c2, got %v", *roots[0].ViewerVote)
	}
}

func TestBuildForestDepthCap(t *testing.T) {
	// A five-deep chain capped at depth 2 keeps the root and two reply
	// levels and drops the rest of the subtree.
	base := time.Now().UTC()
	comments := make([]models.Comment, 5)
	for i := range comments {
		comments[i] = models.Comment{
			ID:        i + 1,
			Body:      fmt.Sprintf("level %d", i),
			PostID:    1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if i > 0 {
			parentID := i
			comments[i].ParentID = &parentID
		}
	}

	roots := buildForest(comments, map[int]int{}, map[int]int{}, 2)

	if len(roots) != 1 {
		t.Fatalf("Expected 1 root, got %d", len(roots))
	}
	depth := 0
	node := roots[0]
	for len(node.Replies) > 0 {
		node = node.Replies[0]
		depth++
	}
	if depth != 2 {
		t.Errorf("Expected traversal cut at depth 2, got %d", depth)
	}
}

func TestNotificationFanOut(t *testing.T) {
	resetDB(t)
	router := newTestRouter()

	x := createUser(t, "xavier")
	y := createUser(t, "yolanda")
	z := createUser(t, "zach")
	post := createPost(t, y, "fan-out post") // post by Y

	// X comments top-level on Y's post: one new_comment_on_post to Y
	w := doRequest(t, router, "POST", commentsURL(post.ID), authToken(t, x), map[string]interface{}{"body": "nice post"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Comment failed: %d %s", w.Code, w.Body.String())
	}
	var c1 commentNodeResponse
	decodeJSON(t, w, &c1)

	var notifications []models.Notification
	testDB.Find(&notifications)
	if len(notifications) != 1 {
		t.Fatalf("Expected exactly one notification, got %d", len(notifications))
	}
	n := notifications[0]
	if n.Type != models.NotificationNewCommentOnPost || n.RecipientID != y.ID || n.ActorID != x.ID || n.CommentID != c1.ID {
		t.Errorf("Unexpected notification %+v", n)
	}

	// Z replies to X's comment: one reply_to_comment to X, no post notification
	w = doRequest(t, router, "POST", commentsURL(post.ID), authToken(t, z), map[string]interface{}{"body": "agreed", "parent_id": c1.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("Reply failed: %d %s", w.Code, w.Body.String())
	}

	if n := countRows(t, &models.Notification{}, "type = ?", models.NotificationReplyToComment); n != 1 {
		t.Errorf("Expected one reply notification, got %d", n)
	}
	if n := countRows(t, &models.Notification{}, "type = ?", models.NotificationNewCommentOnPost); n != 1 {
		t.Errorf("Reply must not create a post notification, total is %d", n)
	}
	var reply models.Notification
	testDB.Where("type = ?", models.NotificationReplyToComment).First(&reply)
	if reply.RecipientID != x.ID || reply.ActorID != z.ID {
		t.Errorf("Expected reply notification to X from Z, got %+v", reply)
	}

	// Self actions are suppressed
	w = doRequest(t, router, "POST", commentsURL(post.ID), authToken(t, y), map[string]interface{}{"body": "my own post"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Self comment failed: %d", w.Code)
	}
	w = doRequest(t, router, "POST", commentsURL(post.ID), authToken(t, x), map[string]interface{}{"body": "self reply", "parent_id": c1.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("Self reply failed: %d", w.Code)
	}
	if n := countRows(t, &models.Notification{}, "1 = 1"); n != 2 {
		t.Errorf("Self actions must not notify; expected 2 notifications total, got %d", n)
	}
}
