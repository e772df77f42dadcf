package models

import (
	"time"
)

// Token represents a login session. Uniqueness per user is enforced by the
// credential service, not the schema; expired rows are treated as absent
// rather than purged.
type Token struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID    int64     `gorm:"not null;index;column:user_id" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expires_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Token
func (Token) TableName() string {
	return "tokens"
}

// Live reports whether the token is usable at the given instant.
func (t *Token) Live(now time.Time) bool {
	return t.ExpiresAt.After(now)
}
