package auth

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chickspot/chickspot/internal/database"
	"github.com/chickspot/chickspot/internal/model"
)

const (
	SessionCookie = "chickspot_session"

	userKey = "auth_user"
)

// SessionManager issues and checks sessions. The cookie carries a signed
// token with the session id; the row in the sessions table is what makes a
// session revocable.
type SessionManager struct {
	dbm    *database.DatabaseManager
	key    []byte
	maxAge time.Duration
	logger *slog.Logger
}

func NewSessionManager(dbm *database.DatabaseManager, secret string, maxAge time.Duration) *SessionManager {
	return &SessionManager{
		dbm:    dbm,
		key:    []byte(secret),
		maxAge: maxAge,
		logger: slog.With("logger", "sessions"),
	}
}

func (sm *SessionManager) Issue(c *fiber.Ctx, user *model.User) error {
	s := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sm.maxAge),
		IPAddress: c.IP(),
		UserAgent: string(c.Request().Header.UserAgent()),
	}

	if err := sm.dbm.Create(s); err != nil {
		return err
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": s.ID,
		"sub": user.ID,
		"exp": s.ExpiresAt.Unix(),
	}).SignedString(sm.key)

	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sm.maxAge.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

func (sm *SessionManager) Clear(c *fiber.Ctx) {
	if s := sm.session(c); s != nil {
		_ = sm.dbm.SessionQuery().Id(s.ID).Delete()
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (sm *SessionManager) session(c *fiber.Ctx) *model.Session {
	raw := c.Cookies(SessionCookie)

	if raw == "" {
		return nil
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return sm.key, nil
	})

	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil
	}

	return sm.dbm.SessionQuery().Id(sid).Live(time.Now()).Full().One()
}

// Middleware resolves the session user, if any, and stores it in locals.
// It never rejects: route guards do that.
func (sm *SessionManager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s := sm.session(c); s != nil && s.User != nil {
			c.Locals(userKey, s.User)
		}

		return c.Next()
	}
}

func User(c *fiber.Ctx) *model.User {
	if u, ok := c.Locals(userKey).(*model.User); ok {
		return u
	}

	return nil
}

func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if User(c) == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "sign in required")
		}

		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !User(c).IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin only")
		}

		return c.Next()
	}
}
