package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex;not null"`
	EmailVerified  bool   `gorm:"not null;default:false"`
	Name           string `gorm:"not null;default:''"`
	Image          string `gorm:"not null;default:''"`
	Role           string `gorm:"not null;default:'user'"`
	DefaultStoreID *uint
	DefaultStore   *Store
	CommuteMinutes int     `gorm:"not null;default:15"`
	TrustScore     float64 `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UserDTO struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	EmailVerified  bool      `json:"email_verified"`
	Name           string    `json:"name,omitempty"`
	Image          string    `json:"image,omitempty"`
	Role           string    `json:"role"`
	DefaultStoreID *uint     `json:"default_store_id,omitempty"`
	CommuteMinutes int       `json:"commute_minutes"`
	TrustScore     float64   `json:"trust_score"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) GetID() string {
	if u == nil {
		return ""
	}

	return u.ID
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) DTO() *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:             u.ID,
		Email:          u.Email,
		EmailVerified:  u.EmailVerified,
		Name:           u.Name,
		Image:          u.Image,
		Role:           u.Role,
		DefaultStoreID: u.DefaultStoreID,
		CommuteMinutes: u.CommuteMinutes,
		TrustScore:     u.TrustScore,
		CreatedAt:      u.CreatedAt,
	}
}
