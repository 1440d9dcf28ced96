package models

import "time"

type NotificationType string

const (
	NotificationNewCommentOnPost NotificationType = "new_comment_on_post"
	NotificationReplyToComment   NotificationType = "reply_to_comment"
)

// Notification is created only as a side effect of comment creation. The only
// mutable field afterwards is Read.
type Notification struct {
	ID          int              `gorm:"primaryKey" json:"id"`
	Type        NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	RecipientID int              `gorm:"not null;index" json:"recipient_id"`
	Recipient   User             `gorm:"foreignKey:RecipientID" json:"-"`
	ActorID     int              `gorm:"not null" json:"actor_id"`
	Actor       User             `gorm:"foreignKey:ActorID" json:"actor"`
	PostID      int              `gorm:"not null" json:"post_id"`
	CommentID   int              `gorm:"not null" json:"comment_id"`
	Read        bool             `gorm:"default:false;index" json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
