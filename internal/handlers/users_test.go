package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jdelacroix/hackernews-clone/backend/internal/models"
)

func TestGetUserProfile(t *testing.T) {
	resetDB(t)
	router := newTestRouter()

	author := createUser(t, "author")
	fan := createUser(t, "fan")
	critic := createUser(t, "critic")

	post := createPost(t, author, "profile post")
	comment := createComment(t, author, post, nil, "profile comment")

	// Karma sums post and comment votes: +1 on the post, -1 and +1 on the
	// comment, net +1.
	upvotePost(t, post, []models.User{fan})
	for _, v := range []models.Vote{
		{UserID: fan.ID, CommentID: &comment.ID, VoteType: models.Downvote},
		{UserID: critic.ID, CommentID: &comment.ID, VoteType: models.Upvote},
	} {
		if err := testDB.Create(&v).Error; err != nil {
			t.Fatalf("Failed to insert comment vote: %v", err)
		}
	}

	w := doRequest(t, router, "GET", fmt.Sprintf("/api/users/%d", author.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		Posts []models.Post `json:"posts"`
		Karma int           `json:"karma"`
	}
	decodeJSON(t, w, &resp)

	if resp.User.Username != "author" {
		t.Errorf("Expected author profile, got %q", resp.User.Username)
	}
	if len(resp.Posts) != 1 || resp.Posts[0].Points != 1 || resp.Posts[0].CommentCount != 1 {
		t.Errorf("Unexpected profile posts: %+v", resp.Posts)
	}
	if resp.Karma != 1 {
		t.Errorf("Expected karma 1, got %d", resp.Karma)
	}

	w = doRequest(t, router, "GET", "/api/users/9999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing user, got %d", w.Code)
	}
}
