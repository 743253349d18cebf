package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/chickspot/chickspot/internal/invite"
	"github.com/chickspot/chickspot/internal/model"
)

type DatabaseManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *DatabaseManager {
	mn := &DatabaseManager{
		db:     db,
		logger: slog.With("logger", "dbm"),
	}

	return mn
}

func (mm *DatabaseManager) Create(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Create(s).Error

	if err != nil {
		mm.logger.Error("error create object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) Save(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Save(s).Error

	if err != nil {
		mm.logger.Error("error saving object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) InviteQuery() *InviteQuery {
	return NewInviteQuery(mm.db)
}

func (mm *DatabaseManager) UserQuery() *UserQuery {
	return NewUserQuery(mm.db)
}

func (mm *DatabaseManager) StoreQuery() *StoreQuery {
	return NewStoreQuery(mm.db)
}

func (mm *DatabaseManager) SightingQuery() *SightingQuery {
	return NewSightingQuery(mm.db)
}

func (mm *DatabaseManager) SessionQuery() *SessionQuery {
	return NewSessionQuery(mm.db)
}

func (mm *DatabaseManager) Migrate() error {
	if mm == nil || mm.db == nil {
		return fmt.Errorf("no database")
	}

	if err := mm.db.AutoMigrate(
		&model.Store{},
		&model.User{},
		&model.OAuthAccount{},
		&model.Session{},
		&model.InviteCode{},
		&model.Sighting{},
	); err != nil {
		return err
	}

	return nil
}

// NewInvites creates n fresh invite codes owned by creatorID.
func (mm *DatabaseManager) NewInvites(n int, creatorID string) ([]*model.InviteCode, error) {
	if n < 1 {
		n = 1
	}

	res := make([]*model.InviteCode, 0, n)

	for i := 0; i < n; i++ {
		c := &model.InviteCode{Code: invite.NewCode(), CreatedBy: creatorID}

		if err := mm.Create(c); err != nil {
			return res, err
		}

		res = append(res, c)
	}

	return res, nil
}

// RevokeInvite marks a code permanently unusable. Revoking an already
// revoked code keeps the original revoked_at and is not an error.
func (mm *DatabaseManager) RevokeInvite(code string) error {
	err := mm.InviteQuery().Code(code).NotRevoked().Update(map[string]any{"revoked_at": time.Now()})

	if errors.Is(err, ErrNoRows) {
		if mm.InviteQuery().Code(code).One() == nil {
			return invite.ErrCodeInvalid
		}

		return nil
	}

	return err
}

// Redeem sets used_by/used_at on the code, conditioned on the code still
// being unused and unrevoked at write time. ErrNoRows means another signup
// won the race (or the code was revoked after the pre-commit gate).
func (mm *DatabaseManager) Redeem(code string, userID string) error {
	return mm.InviteQuery().Code(code).Usable().Update(map[string]any{
		"used_by": userID,
		"used_at": time.Now(),
	})
}

// CreateUserWithAccount commits the user row and its provider link as one
// transaction, so an aborted signup leaves no partial identity.
func (mm *DatabaseManager) CreateUserWithAccount(user *model.User, acc *model.OAuthAccount) error {
	return mm.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		acc.UserID = user.ID

		return tx.Create(acc).Error
	})
}

func (mm *DatabaseManager) GetAccount(provider, providerUserID string) *model.OAuthAccount {
	acc := new(model.OAuthAccount)

	result := mm.db.Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		Joins("User").Take(&acc)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil
	}

	return acc
}

// UpsertStore matches by external id and updates the record in place, so
// reloading the seed file does not duplicate stores.
func (mm *DatabaseManager) UpsertStore(s *model.Store) error {
	old := mm.StoreQuery().ExternalId(s.ExternalID).One()

	if old != nil {
		s.ID = old.ID
		s.CreatedAt = old.CreatedAt
	}

	return mm.Save(s)
}

func (mm *DatabaseManager) DeleteExpiredSessions(now time.Time) {
	mm.db.Where("expires_at <= ?", now).Delete(&model.Session{})
}
