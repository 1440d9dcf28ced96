package models

import "time"

const (
	Upvote   = 1
	Downvote = -1
)

// Vote is a user's single current stance on a post or a comment, not a delta
// counter. Exactly one of PostID/CommentID is set. Uniqueness per
// (user, post) and (user, comment) is enforced by partial unique indexes
// created in the database package, since GORM tags cannot express them over
// nullable columns.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	PostID    *int      `gorm:"index" json:"post_id,omitempty"`
	CommentID *int      `gorm:"index" json:"comment_id,omitempty"`
	VoteType  int       `gorm:"not null" json:"vote_type"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
