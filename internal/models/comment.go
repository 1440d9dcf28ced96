package models

import "time"

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Body     string `gorm:"type:text;not null" json:"body"`
	AuthorID int    `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	PostID   int    `gorm:"not null;index" json:"post_id"`
	// ParentID is nil for top-level comments. Replies always denormalize the
	// root post id, so the whole thread is one query away.
	ParentID *int `gorm:"index" json:"parent_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Body     string `json:"body"`
	ParentID *int   `json:"parent_id,omitempty"`
}
