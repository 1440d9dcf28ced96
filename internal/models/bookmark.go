package models

import "time"

// Bookmark is a user's saved post, unique per (user, post).
type Bookmark struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;index;uniqueIndex:idx_bookmark_user_post" json:"user_id"`
	PostID    int       `gorm:"not null;index;uniqueIndex:idx_bookmark_user_post" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID" json:"post"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateBookmarkRequest struct {
	PostID int `json:"post_id"`
}

type CheckBookmarksRequest struct {
	PostIDs []int `json:"post_ids"`
}
