package model

import "time"

type Store struct {
	ID         uint   `gorm:"primaryKey"`
	ExternalID string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	Address    string `gorm:"not null;default:''"`
	City       string `gorm:"not null;default:''"`
	State      string `gorm:"not null;default:''"`
	Zip        string `gorm:"not null;default:''"`
	Lat        float64
	Lon        float64
	Active     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
}

type StoreDTO struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	State   string  `json:"state,omitempty"`
	Zip     string  `json:"zip,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Active  bool    `json:"active"`
}

func (s *Store) DTO() *StoreDTO {
	if s == nil {
		return nil
	}

	return &StoreDTO{
		ID:      s.ID,
		Name:    s.Name,
		Address: s.Address,
		City:    s.City,
		State:   s.State,
		Zip:     s.Zip,
		Lat:     s.Lat,
		Lon:     s.Lon,
		Active:  s.Active,
	}
}
