package invite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chickspot/chickspot/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

func TestValidateOk(t *testing.T) {
	res := Validate("VALID-CODE-123", []*model.InviteCode{
		{Code: "VALID-CODE-123"},
	})

	assert.True(t, res.Valid)
	assert.Empty(t, res.Error)
}

func TestValidateUsed(t *testing.T) {
	res := Validate("USED-CODE-456", []*model.InviteCode{
		{Code: "USED-CODE-456", UsedBy: ptr("user-123"), UsedAt: ptr(time.Now())},
	})

	assert.False(t, res.Valid)
	assert.Equal(t, MsgCodeInvalid, res.Error)
}

func TestValidateRevoked(t *testing.T) {
	res := Validate("REVOKED-CODE", []*model.InviteCode{
		{Code: "REVOKED-CODE", RevokedAt: ptr(time.Now())},
	})

	assert.False(t, res.Valid)
	assert.Equal(t, MsgCodeInvalid, res.Error)
}

func TestValidateNotFound(t *testing.T) {
	res := Validate("NONEXISTENT", nil)

	assert.False(t, res.Valid)
	assert.Equal(t, MsgCodeInvalid, res.Error)

	res = Validate("NONEXISTENT", []*model.InviteCode{{Code: "OTHER"}})

	assert.False(t, res.Valid)
	assert.Equal(t, MsgCodeInvalid, res.Error)
}

func TestValidateEmptyCode(t *testing.T) {
	// the required check runs before any lookup, so candidates are irrelevant
	for _, candidates := range [][]*model.InviteCode{
		nil,
		{},
		{{Code: "VALID-CODE-123"}},
	} {
		res := Validate("", candidates)

		assert.False(t, res.Valid)
		assert.Equal(t, MsgCodeRequired, res.Error)
	}
}

func TestValidateExactMatch(t *testing.T) {
	candidates := []*model.InviteCode{{Code: "Abc-123"}}

	assert.True(t, Validate("Abc-123", candidates).Valid)
	assert.False(t, Validate("abc-123", candidates).Valid)
	assert.False(t, Validate("Abc-123 ", candidates).Valid)
}

func TestValidateDeterministic(t *testing.T) {
	candidates := []*model.InviteCode{
		{Code: "A"},
		{Code: "B", UsedBy: ptr("u1")},
	}

	for i := 0; i < 10; i++ {
		assert.True(t, Validate("A", candidates).Valid)
		assert.Equal(t, MsgCodeInvalid, Validate("B", candidates).Error)
	}
}

func TestNewCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code := NewCode()

		require.NotEmpty(t, code)
		require.False(t, seen[code])
		seen[code] = true

		for _, r := range code {
			ok := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-'
			require.True(t, ok, "unexpected rune %q in %s", r, code)
		}
	}
}
