package signup

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chickspot/chickspot/internal/database"
	"github.com/chickspot/chickspot/internal/invite"
	"github.com/chickspot/chickspot/internal/model"
)

var (
	signupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chickspot",
		Subsystem: "signup",
		Name:      "attempts_total",
		Help:      "Number of signup attempts by result.",
	}, []string{"result"})

	redeemRaceLost = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chickspot",
		Subsystem: "signup",
		Name:      "redeem_race_total",
		Help:      "Signups that created a user but lost the invite code redemption race.",
	})
)

// Profile is the provider identity the new user is created from.
type Profile struct {
	Provider       string
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
	Image          string
}

// Manager runs one identity-creation attempt: a pre-commit gate that
// re-validates the carried code against live rows, the user commit, and
// a post-commit conditional redemption of the code.
type Manager struct {
	dbm    *database.DatabaseManager
	logger *slog.Logger
}

func New(dbm *database.DatabaseManager) *Manager {
	return &Manager{
		dbm:    dbm,
		logger: slog.With("logger", "signup"),
	}
}

// gate re-checks the code against current invite_codes state, not the
// snapshot taken when the signup page was rendered. Any error here aborts
// creation before a user row exists.
func (m *Manager) gate(code string) error {
	if code == "" {
		return invite.ErrCodeRequired
	}

	if m.dbm.InviteQuery().Code(code).Usable().One() == nil {
		return invite.ErrCodeInvalid
	}

	return nil
}

// Create runs the full redemption workflow for one signup attempt.
//
// On invite.ErrRaceLoss the returned user is committed and valid: the code
// went to a concurrent signup, which is surfaced to the caller and counted
// rather than silently swallowed.
func (m *Manager) Create(code string, p *Profile) (*model.User, error) {
	if err := m.gate(code); err != nil {
		signupsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	user := &model.User{
		ID:            uuid.NewString(),
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
		Name:          p.Name,
		Image:         p.Image,
		Role:          model.RoleUser,
	}

	acc := &model.OAuthAccount{
		Provider:       p.Provider,
		ProviderUserID: p.ProviderUserID,
		EmailVerified:  p.EmailVerified,
	}

	if err := m.dbm.CreateUserWithAccount(user, acc); err != nil {
		signupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := m.dbm.Redeem(code, user.ID); err != nil {
		if errors.Is(err, database.ErrNoRows) {
			redeemRaceLost.Inc()
			signupsTotal.WithLabelValues("race_loss").Inc()
			m.logger.Warn("invite code redeemed concurrently",
				slog.String("code", code), slog.String("user", user.ID))

			return user, invite.ErrRaceLoss
		}

		signupsTotal.WithLabelValues("error").Inc()

		return user, err
	}

	signupsTotal.WithLabelValues("ok").Inc()
	m.logger.Info("user created", slog.String("user", user.ID), slog.String("email", user.Email))

	return user, nil
}

// Snapshot returns the candidate rows for a code so the UI layer can run
// the pure validator against them.
func (m *Manager) Snapshot(code string) []*model.InviteCode {
	if code == "" {
		return nil
	}

	return m.dbm.InviteQuery().Code(code).Get()
}

// Validate is the request-scoped pre-signup check used to render the
// signup page and decide whether to offer the action at all.
func (m *Manager) Validate(code string) invite.Result {
	return invite.Validate(code, m.Snapshot(code))
}
