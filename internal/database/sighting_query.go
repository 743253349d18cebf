package database

import (
	"gorm.io/gorm"

	"github.com/chickspot/chickspot/internal/model"
)

type SightingQuery struct {
	Query[model.Sighting]
	id      uint
	storeID uint
	userID  string
	flagged bool
	pending bool
	full    bool
}

func NewSightingQuery(db *gorm.DB) *SightingQuery {
	return &SightingQuery{
		Query: Query[model.Sighting]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "sightings.observed_at DESC",
		},
	}
}

func (q *SightingQuery) Limit(n int) *SightingQuery {
	q.limit = n
	return q
}

func (q *SightingQuery) Offset(n int) *SightingQuery {
	q.offset = n
	return q
}

func (q *SightingQuery) Id(id uint) *SightingQuery {
	q.id = id
	return q
}

func (q *SightingQuery) Store(id uint) *SightingQuery {
	q.storeID = id
	return q
}

func (q *SightingQuery) User(uid string) *SightingQuery {
	q.userID = uid
	return q
}

func (q *SightingQuery) Flagged() *SightingQuery {
	q.flagged = true
	return q
}

// Pending narrows to flagged sightings that are not reviewed yet.
func (q *SightingQuery) Pending() *SightingQuery {
	q.pending = true
	return q
}

func (q *SightingQuery) Full() *SightingQuery {
	q.full = true
	return q
}

func (q *SightingQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("sightings.id = ?", q.id)
	}

	if q.storeID != 0 {
		tx = tx.Where("sightings.store_id = ?", q.storeID)
	}

	if q.userID != "" {
		tx = tx.Where("sightings.user_id = ?", q.userID)
	}

	if q.flagged {
		tx = tx.Where("sightings.flagged = ?", true)
	}

	if q.pending {
		tx = tx.Where("sightings.flagged = ? AND sightings.admin_reviewed = ?", true, false)
	}

	if q.full {
		tx = tx.Joins("Store")
	}

	return tx
}

func (q *SightingQuery) Get() []*model.Sighting {
	return q.get(q.where().Model(&model.Sighting{}))
}

func (q *SightingQuery) One() *model.Sighting {
	return q.one(q.where().Model(&model.Sighting{}))
}

func (q *SightingQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Sighting{}), updates)
}
