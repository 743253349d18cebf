package invite

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/chickspot/chickspot/internal/model"
)

// User-facing messages. Not-found, already-used and revoked all collapse
// into the same invalid message, so a prober cannot tell which applies.
const (
	MsgCodeRequired = "Invite code is required"
	MsgCodeInvalid  = "Invalid or already used invite code"
)

var (
	ErrCodeRequired = errors.New(MsgCodeRequired)
	ErrCodeInvalid  = errors.New(MsgCodeInvalid)

	// ErrRaceLoss: the user row is committed but the mark-used write
	// matched nothing because a concurrent signup redeemed the code first.
	ErrRaceLoss = errors.New("invite code was redeemed by a concurrent signup")
)

// Result is a closed two-variant outcome: valid with no error, or invalid
// with a user-facing message. Callers must branch on Valid.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Validate decides whether code is usable given a snapshot of candidate
// records. It is deterministic and does no I/O. The empty-code check runs
// before any lookup, so an empty candidate set still yields "required".
func Validate(code string, candidates []*model.InviteCode) Result {
	if code == "" {
		return Result{Valid: false, Error: MsgCodeRequired}
	}

	for _, c := range candidates {
		if c != nil && c.Code == code {
			if c.IsUsable() {
				return Result{Valid: true}
			}

			break
		}
	}

	return Result{Valid: false, Error: MsgCodeInvalid}
}

// NewCode returns a fresh opaque code of letters, digits and hyphens.
func NewCode() string {
	return strings.ToUpper(uuid.NewString())
}
