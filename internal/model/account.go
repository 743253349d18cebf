package model

import "time"

// OAuthAccount links a provider identity to a local user.
type OAuthAccount struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         string `gorm:"index;not null"`
	User           *User
	Provider       string `gorm:"index:idx_provider_uid,unique;not null"`
	ProviderUserID string `gorm:"index:idx_provider_uid,unique;not null"`
	EmailVerified  bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
