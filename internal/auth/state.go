package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

func NewRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SignState appends an HMAC over state so the callback can verify that the
// state parameter originated here.
func SignState(state, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(state))

	return state + "." + base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func VerifySignedState(raw, secret string) (string, bool) {
	parts := strings.Split(raw, ".")

	if len(parts) != 2 {
		return "", false
	}

	expected := SignState(parts[0], secret)

	if !hmac.Equal([]byte(expected), []byte(raw)) {
		return "", false
	}

	return parts[0], true
}
