package model

import "time"

// InviteCode is a single-use, revocable token gating account creation.
// UsedBy and UsedAt are set together, exactly once, by the redemption
// update; RevokedAt, once set, is never cleared.
type InviteCode struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"uniqueIndex;not null"`
	CreatedBy string `gorm:"index;not null;default:''"`
	UsedBy    *string
	UsedAt    *time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

type InviteCodeDTO struct {
	Code      string     `json:"code"`
	CreatedBy string     `json:"created_by,omitempty"`
	UsedBy    *string    `json:"used_by,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Usable    bool       `json:"usable"`
}

// IsUsable reports whether the code can still gate a signup: it exists,
// is unredeemed and is not revoked.
func (c *InviteCode) IsUsable() bool {
	return c != nil && c.UsedBy == nil && c.RevokedAt == nil
}

func (c *InviteCode) DTO() *InviteCodeDTO {
	if c == nil {
		return nil
	}

	return &InviteCodeDTO{
		Code:      c.Code,
		CreatedBy: c.CreatedBy,
		UsedBy:    c.UsedBy,
		UsedAt:    c.UsedAt,
		RevokedAt: c.RevokedAt,
		CreatedAt: c.CreatedAt,
		Usable:    c.IsUsable(),
	}
}
