package models

import (
	"time"
)

// Notification is the single open reply-notification for a post. The unique
// index on post_id is the at-most-one-open invariant: rows only exist while
// undismissed, so uniqueness over post_id cannot collide with history.
type Notification struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID          int64     `gorm:"not null;index;column:user_id" json:"user_id"`
	PostID          int64     `gorm:"not null;uniqueIndex;column:post_id" json:"post_id"`
	FirstNewReplyID int64     `gorm:"not null;column:first_new_reply_id" json:"first_new_reply_id"`
	NumOfReplies    int64     `gorm:"not null;default:1;column:num_of_replies" json:"num_of_replies"`
	CreatedAt       time.Time `gorm:"not null;column:created_at" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Post *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
