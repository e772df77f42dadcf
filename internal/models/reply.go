package models

import (
	"time"
)

// Reply represents an answer under a post. Replies carry no author:
// anyone may reply to any post, authenticated or not.
type Reply struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PostID    int64     `gorm:"not null;index;column:post_id" json:"post_id"`
	Content   string    `gorm:"type:text;not null;column:content" json:"content"`
	CreatedAt time.Time `gorm:"not null;index;column:created_at" json:"created_at"`

	Post *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Reply
func (Reply) TableName() string {
	return "replies"
}
