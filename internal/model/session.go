package model

import "time"

type Session struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	User      *User
	ExpiresAt time.Time `gorm:"not null"`
	IPAddress string    `gorm:"not null;default:''"`
	UserAgent string    `gorm:"not null;default:''"`
	CreatedAt time.Time
}

func (s *Session) IsExpired(now time.Time) bool {
	return s == nil || now.After(s.ExpiresAt)
}
