package model

import "time"

type Sighting struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        string `gorm:"index;not null"`
	User          *User
	StoreID       uint `gorm:"index;not null"`
	Store         *Store
	LabelTime     time.Time `gorm:"not null"`
	ObservedAt    time.Time `gorm:"not null"`
	UserLat       *float64
	UserLon       *float64
	Doneness      *int
	Notes         string `gorm:"not null;default:''"`
	Flagged       bool   `gorm:"not null;default:false"`
	FlagReason    string `gorm:"not null;default:''"`
	AdminReviewed bool   `gorm:"not null;default:false"`
	AdminApproved *bool
	CreatedAt     time.Time
}

type SightingDTO struct {
	ID         uint      `json:"id"`
	UserID     string    `json:"user_id"`
	StoreID    uint      `json:"store_id"`
	StoreName  string    `json:"store_name,omitempty"`
	LabelTime  time.Time `json:"label_time"`
	ObservedAt time.Time `json:"observed_at"`
	Doneness   *int      `json:"doneness,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Flagged    bool      `json:"flagged"`
}

type SightingPostDTO struct {
	StoreID   uint      `json:"store_id"`
	LabelTime time.Time `json:"label_time"`
	UserLat   *float64  `json:"user_lat,omitempty"`
	UserLon   *float64  `json:"user_lon,omitempty"`
	Doneness  *int      `json:"doneness,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

type SightingReviewDTO struct {
	Approved bool `json:"approved"`
}

func (s *Sighting) DTO() *SightingDTO {
	if s == nil {
		return nil
	}

	d := &SightingDTO{
		ID:         s.ID,
		UserID:     s.UserID,
		StoreID:    s.StoreID,
		LabelTime:  s.LabelTime,
		ObservedAt: s.ObservedAt,
		Doneness:   s.Doneness,
		Notes:      s.Notes,
		Flagged:    s.Flagged,
	}

	if s.Store != nil {
		d.StoreName = s.Store.Name
	}

	return d
}
