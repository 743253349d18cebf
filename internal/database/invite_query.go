package database

import (
	"gorm.io/gorm"

	"github.com/chickspot/chickspot/internal/model"
)

type InviteQuery struct {
	Query[model.InviteCode]
	id         uint
	code       string
	createdBy  string
	usable     bool
	notRevoked bool
}

func NewInviteQuery(db *gorm.DB) *InviteQuery {
	return &InviteQuery{
		Query: Query[model.InviteCode]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "invite_codes.created_at",
		},
	}
}

func (q *InviteQuery) Order(s string) *InviteQuery {
	q.order = s
	return q
}

func (q *InviteQuery) Limit(n int) *InviteQuery {
	q.limit = n
	return q
}

func (q *InviteQuery) Offset(n int) *InviteQuery {
	q.offset = n
	return q
}

func (q *InviteQuery) Id(id uint) *InviteQuery {
	q.id = id
	return q
}

func (q *InviteQuery) Code(s string) *InviteQuery {
	q.code = s
	return q
}

func (q *InviteQuery) CreatedBy(uid string) *InviteQuery {
	q.createdBy = uid
	return q
}

// Usable narrows the query to codes that are neither redeemed nor revoked.
func (q *InviteQuery) Usable() *InviteQuery {
	q.usable = true
	return q
}

func (q *InviteQuery) NotRevoked() *InviteQuery {
	q.notRevoked = true
	return q
}

func (q *InviteQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("invite_codes.id = ?", q.id)
	}

	if q.code != "" {
		tx = tx.Where("invite_codes.code = ?", q.code)
	}

	if q.createdBy != "" {
		tx = tx.Where("invite_codes.created_by = ?", q.createdBy)
	}

	if q.usable {
		tx = tx.Where("invite_codes.used_by IS NULL AND invite_codes.revoked_at IS NULL")
	}

	if q.notRevoked {
		tx = tx.Where("invite_codes.revoked_at IS NULL")
	}

	return tx
}

func (q *InviteQuery) Get() []*model.InviteCode {
	return q.get(q.where().Model(&model.InviteCode{}))
}

func (q *InviteQuery) One() *model.InviteCode {
	return q.one(q.where().Model(&model.InviteCode{}))
}

func (q *InviteQuery) Count() int64 {
	return q.count(q.where().Model(&model.InviteCode{}))
}

func (q *InviteQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.InviteCode{}), updates)
}

func (q *InviteQuery) Delete() error {
	return q.where().Delete(&model.InviteCode{}).Error
}
