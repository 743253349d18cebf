package database

import (
	"gorm.io/gorm"

	"github.com/chickspot/chickspot/internal/model"
)

type UserQuery struct {
	Query[model.User]
	id    string
	email string
	role  string
	full  bool
}

func NewUserQuery(db *gorm.DB) *UserQuery {
	return &UserQuery{
		Query: Query[model.User]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "users.created_at",
		},
	}
}

func (q *UserQuery) Limit(n int) *UserQuery {
	q.limit = n
	return q
}

func (q *UserQuery) Offset(n int) *UserQuery {
	q.offset = n
	return q
}

func (q *UserQuery) Id(id string) *UserQuery {
	q.id = id
	return q
}

func (q *UserQuery) Email(s string) *UserQuery {
	q.email = s
	return q
}

func (q *UserQuery) Role(s string) *UserQuery {
	q.role = s
	return q
}

func (q *UserQuery) Full() *UserQuery {
	q.full = true
	return q
}

func (q *UserQuery) where() *gorm.DB {
	tx := q.db

	if q.id != "" {
		tx = tx.Where("users.id = ?", q.id)
	}

	if q.email != "" {
		tx = tx.Where("users.email = ?", q.email)
	}

	if q.role != "" {
		tx = tx.Where("users.role = ?", q.role)
	}

	if q.full {
		tx = tx.Joins("DefaultStore")
	}

	return tx
}

func (q *UserQuery) Get() []*model.User {
	return q.get(q.where().Model(&model.User{}))
}

func (q *UserQuery) One() *model.User {
	return q.one(q.where().Model(&model.User{}))
}

func (q *UserQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.User{}), updates)
}
