package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/chickspot/chickspot/internal/model"
)

type SessionQuery struct {
	Query[model.Session]
	id     string
	userID string
	live   bool
	full   bool
	now    time.Time
}

func NewSessionQuery(db *gorm.DB) *SessionQuery {
	return &SessionQuery{
		Query: Query[model.Session]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "sessions.created_at",
		},
	}
}

func (q *SessionQuery) Id(id string) *SessionQuery {
	q.id = id
	return q
}

func (q *SessionQuery) User(uid string) *SessionQuery {
	q.userID = uid
	return q
}

// Live narrows to sessions that have not expired yet.
func (q *SessionQuery) Live(now time.Time) *SessionQuery {
	q.live = true
	q.now = now
	return q
}

func (q *SessionQuery) Full() *SessionQuery {
	q.full = true
	return q
}

func (q *SessionQuery) where() *gorm.DB {
	tx := q.db

	if q.id != "" {
		tx = tx.Where("sessions.id = ?", q.id)
	}

	if q.userID != "" {
		tx = tx.Where("sessions.user_id = ?", q.userID)
	}

	if q.live {
		tx = tx.Where("sessions.expires_at > ?", q.now)
	}

	if q.full {
		tx = tx.Joins("User")
	}

	return tx
}

func (q *SessionQuery) Get() []*model.Session {
	return q.get(q.where().Model(&model.Session{}))
}

func (q *SessionQuery) One() *model.Session {
	return q.one(q.where().Model(&model.Session{}))
}

func (q *SessionQuery) Delete() error {
	return q.where().Delete(&model.Session{}).Error
}
