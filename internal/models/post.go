package models

import "time"

// Post types. A link post carries a URL and no body; a text post carries a
// body and no URL.
const (
	PostTypeLink = "link"
	PostTypeText = "text"
)

type Post struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Type     string `gorm:"type:varchar(8);not null" json:"type"`
	URL      string `json:"url,omitempty"`
	Body     string `gorm:"type:text" json:"body,omitempty"`
	AuthorID int    `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`

	CreatedAt time.Time `json:"created_at"`

	// Filled at query time, never stored.
	Points       int    `gorm:"-" json:"points"`
	CommentCount int    `gorm:"-" json:"comment_count"`
	ViewerVote   *int   `gorm:"-" json:"viewer_vote"`
	Bookmarked   bool   `gorm:"-" json:"bookmarked"`
	BodyHTML     string `gorm:"-" json:"body_html,omitempty"`
}

type CreatePostRequest struct {
	Title string `json:"title" binding:"required"`
	Type  string `json:"type" binding:"required,oneof=link text"`
	URL   string `json:"url"`
	Body  string `json:"body"`
}
