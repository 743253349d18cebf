package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chickspot/chickspot/internal/model"
)

func prepare(t *testing.T) *DatabaseManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mm := New(db)
	require.NoError(t, mm.Migrate())

	return mm
}

func TestNewInvites(t *testing.T) {
	mm := prepare(t)

	invites, err := mm.NewInvites(3, "user-1")
	require.NoError(t, err)
	require.Len(t, invites, 3)

	for _, ic := range invites {
		assert.True(t, ic.IsUsable())
		assert.Equal(t, "user-1", ic.CreatedBy)
	}

	assert.EqualValues(t, 3, mm.InviteQuery().Usable().Count())
	assert.Len(t, mm.InviteQuery().CreatedBy("user-1").Get(), 3)
}

func TestInviteUsableFilter(t *testing.T) {
	mm := prepare(t)

	invites, err := mm.NewInvites(2, "")
	require.NoError(t, err)

	require.NoError(t, mm.Redeem(invites[0].Code, "user-9"))

	assert.Nil(t, mm.InviteQuery().Code(invites[0].Code).Usable().One())
	assert.NotNil(t, mm.InviteQuery().Code(invites[1].Code).Usable().One())

	used := mm.InviteQuery().Code(invites[0].Code).One()
	require.NotNil(t, used)
	require.NotNil(t, used.UsedBy)
	assert.Equal(t, "user-9", *used.UsedBy)
	assert.NotNil(t, used.UsedAt)
	assert.False(t, used.IsUsable())
}

func TestRedeemOnlyOnce(t *testing.T) {
	mm := prepare(t)

	invites, err := mm.NewInvites(1, "")
	require.NoError(t, err)

	code := invites[0].Code

	require.NoError(t, mm.Redeem(code, "winner"))
	require.ErrorIs(t, mm.Redeem(code, "loser"), ErrNoRows)

	ic := mm.InviteQuery().Code(code).One()
	require.NotNil(t, ic)
	require.NotNil(t, ic.UsedBy)
	assert.Equal(t, "winner", *ic.UsedBy)
}

func TestRedeemRevoked(t *testing.T) {
	mm := prepare(t)

	invites, err := mm.NewInvites(1, "")
	require.NoError(t, err)

	require.NoError(t, mm.RevokeInvite(invites[0].Code))
	require.ErrorIs(t, mm.Redeem(invites[0].Code, "user-1"), ErrNoRows)

	ic := mm.InviteQuery().Code(invites[0].Code).One()
	require.NotNil(t, ic)
	assert.Nil(t, ic.UsedBy)
}

func TestRevokeIdempotent(t *testing.T) {
	mm := prepare(t)

	invites, err := mm.NewInvites(1, "")
	require.NoError(t, err)

	code := invites[0].Code

	require.NoError(t, mm.RevokeInvite(code))

	first := mm.InviteQuery().Code(code).One()
	require.NotNil(t, first.RevokedAt)

	require.NoError(t, mm.RevokeInvite(code))

	second := mm.InviteQuery().Code(code).One()
	assert.Equal(t, first.RevokedAt.Unix(), second.RevokedAt.Unix())
}

func TestRevokeUnknown(t *testing.T) {
	mm := prepare(t)

	assert.Error(t, mm.RevokeInvite("NO-SUCH-CODE"))
}

func TestCreateUserWithAccount(t *testing.T) {
	mm := prepare(t)

	user := &model.User{ID: "user-1", Email: "a@b.c", Role: model.RoleUser}
	acc := &model.OAuthAccount{Provider: "google", ProviderUserID: "g-1"}

	require.NoError(t, mm.CreateUserWithAccount(user, acc))

	got := mm.GetAccount("google", "g-1")
	require.NotNil(t, got)
	require.NotNil(t, got.User)
	assert.Equal(t, "user-1", got.User.ID)

	assert.Nil(t, mm.GetAccount("google", "g-2"))

	// duplicate provider identity must not commit a second user
	user2 := &model.User{ID: "user-2", Email: "x@y.z", Role: model.RoleUser}
	acc2 := &model.OAuthAccount{Provider: "google", ProviderUserID: "g-1"}

	require.Error(t, mm.CreateUserWithAccount(user2, acc2))
	assert.Nil(t, mm.UserQuery().Id("user-2").One())
}

func TestUpsertStore(t *testing.T) {
	mm := prepare(t)

	require.NoError(t, mm.UpsertStore(&model.Store{ExternalID: "s-1", Name: "Store One", Active: true}))
	require.NoError(t, mm.UpsertStore(&model.Store{ExternalID: "s-1", Name: "Store One Renamed", Active: true}))

	stores := mm.StoreQuery().Get()
	require.Len(t, stores, 1)
	assert.Equal(t, "Store One Renamed", stores[0].Name)
}
