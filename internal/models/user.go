package models

import (
	"time"
)

// User represents an anonymous account. The keyed hash of the generated
// password is the only stored secret and doubles as the credential token.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PasswordHash string    `gorm:"type:text;not null;uniqueIndex;column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
