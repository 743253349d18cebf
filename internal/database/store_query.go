package database

import (
	"gorm.io/gorm"

	"github.com/chickspot/chickspot/internal/model"
)

type StoreQuery struct {
	Query[model.Store]
	id         uint
	externalID string
	active     bool
}

func NewStoreQuery(db *gorm.DB) *StoreQuery {
	return &StoreQuery{
		Query: Query[model.Store]{
			db:     db,
			limit:  500,
			offset: 0,
			order:  "stores.name",
		},
	}
}

func (q *StoreQuery) Limit(n int) *StoreQuery {
	q.limit = n
	return q
}

func (q *StoreQuery) Id(id uint) *StoreQuery {
	q.id = id
	return q
}

func (q *StoreQuery) ExternalId(s string) *StoreQuery {
	q.externalID = s
	return q
}

func (q *StoreQuery) Active() *StoreQuery {
	q.active = true
	return q
}

func (q *StoreQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("stores.id = ?", q.id)
	}

	if q.externalID != "" {
		tx = tx.Where("stores.external_id = ?", q.externalID)
	}

	if q.active {
		tx = tx.Where("stores.active = ?", true)
	}

	return tx
}

func (q *StoreQuery) Get() []*model.Store {
	return q.get(q.where().Model(&model.Store{}))
}

func (q *StoreQuery) One() *model.Store {
	return q.one(q.where().Model(&model.Store{}))
}

func (q *StoreQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Store{}), updates)
}
