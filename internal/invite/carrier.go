package invite

import (
	"net/url"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
)

const CookieName = "invite_code"

// First match wins when retries left several cookies with the same name.
var cookieRe = regexp.MustCompile(`(?:^|;\s*)invite_code=([^;]+)`)

// Carrier moves an invite code across the OAuth redirect boundary in a
// cookie scoped to the signup path. The cookie is transport only; the
// invite_codes table stays authoritative.
type Carrier struct {
	path   string
	maxAge time.Duration
}

func NewCarrier(path string, maxAge time.Duration) *Carrier {
	return &Carrier{
		path:   path,
		maxAge: maxAge,
	}
}

func (cr *Carrier) Set(c *fiber.Ctx, code string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    url.QueryEscape(code),
		Path:     cr.path,
		MaxAge:   int(cr.maxAge.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Read extracts the carried code from a raw Cookie header, decoding it
// exactly once. A missing or empty value is ErrCodeRequired: absence never
// means "no gating needed".
func (cr *Carrier) Read(cookieHeader string) (string, error) {
	m := cookieRe.FindStringSubmatch(cookieHeader)

	if m == nil {
		return "", ErrCodeRequired
	}

	code, err := url.QueryUnescape(m[1])
	if err != nil || code == "" {
		return "", ErrCodeRequired
	}

	return code, nil
}
