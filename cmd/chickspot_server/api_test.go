package main

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chickspot/chickspot/internal/config"
	"github.com/chickspot/chickspot/internal/invite"
)

type TestApp struct {
	*App
	api   *PublicAPI
	admin *AdminAPI
}

func NewTestApp(t *testing.T) *TestApp {
	t.Helper()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	hash, err := bcrypt.GenerateFromPassword([]byte("adm-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.NewAppConfig()
	cfg.Set("db", ":memory:")
	cfg.Set("stores_file", t.TempDir()+"/stores.yml")
	cfg.Set("token_secret", "test-token-secret")
	cfg.Set("oauth.client_id", "test-client")
	cfg.Set("oauth.client_secret", "test-secret")
	cfg.Set("oauth.state_secret", "test-state-secret")
	cfg.Set("admin.password_hash", string(hash))

	app := &TestApp{
		App: NewApp(cfg),
	}

	app.api = NewPublicAPI(app.App, "localhost:1234")
	app.admin = NewAdminAPI(app.App, "localhost:1235")

	return app
}

func (app *TestApp) Req(f *fiber.App, method, url string, body io.Reader, hdr map[string]string) (*http.Response, error) {
	req := httptest.NewRequest(method, url, body)

	for k, v := range hdr {
		req.Header.Set(k, v)
	}

	return f.Test(req, 3000)
}

func adminAuth() map[string]string {
	return map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:adm-pass")),
	}
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

func TestSignUpPage(t *testing.T) {
	app := NewTestApp(t)

	invites, err := app.dbm.NewInvites(1, "")
	require.NoError(t, err)

	resp, err := app.Req(app.api.f, "GET", "/sign-up?code="+invites[0].Code, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Sign up with Google")

	resp, err = app.Req(app.api.f, "GET", "/sign-up", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), invite.MsgCodeRequired)

	resp, err = app.Req(app.api.f, "GET", "/sign-up?code=NO-SUCH-CODE", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, bodyString(t, resp), invite.MsgCodeInvalid)
}

func TestSignUpPostSetsCarrier(t *testing.T) {
	app := NewTestApp(t)

	resp, err := app.Req(app.api.f, "POST", "/sign-up",
		strings.NewReader("code=VALID-CODE-123"),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, signupPath+"/login", resp.Header.Get("Location"))

	var carrier *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == invite.CookieName {
			carrier = c
		}
	}

	require.NotNil(t, carrier)
	assert.Equal(t, "VALID-CODE-123", carrier.Value)
	assert.Equal(t, signupPath, carrier.Path)
	assert.True(t, carrier.HttpOnly)
	assert.Equal(t, 300, carrier.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, carrier.SameSite)
}

func TestSignUpPostNoCode(t *testing.T) {
	app := NewTestApp(t)

	resp, err := app.Req(app.api.f, "POST", "/sign-up", strings.NewReader(""),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/sign-up", resp.Header.Get("Location"))
	assert.Empty(t, resp.Cookies())
}

func TestValidateEndpoint(t *testing.T) {
	app := NewTestApp(t)

	invites, err := app.dbm.NewInvites(1, "")
	require.NoError(t, err)

	resp, err := app.Req(app.api.f, "GET", "/api/invites/validate?code="+invites[0].Code, nil, nil)
	require.NoError(t, err)

	res := new(invite.Result)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(res))
	assert.True(t, res.Valid)

	resp, err = app.Req(app.api.f, "GET", "/api/invites/validate", nil, nil)
	require.NoError(t, err)

	res = new(invite.Result)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(res))
	assert.False(t, res.Valid)
	assert.Equal(t, invite.MsgCodeRequired, res.Error)
}

func TestOauthLoginRedirect(t *testing.T) {
	app := NewTestApp(t)

	resp, err := app.Req(app.api.f, "GET", signupPath+"/login", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "accounts.google.com")

	var state *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == stateCookie {
			state = c
		}
	}

	require.NotNil(t, state)
	assert.Equal(t, signupPath, state.Path)
	assert.True(t, state.HttpOnly)
}

func TestOauthCallbackBadState(t *testing.T) {
	app := NewTestApp(t)

	resp, err := app.Req(app.api.f, "GET", signupPath+"/callback?state=forged&code=x", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminAuthRequired(t *testing.T) {
	app := NewTestApp(t)

	resp, err := app.Req(app.admin.f, "GET", "/api/invites", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Req(app.admin.f, "GET", "/api/invites", nil, map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:wrong")),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminInviteLifecycle(t *testing.T) {
	app := NewTestApp(t)

	resp, err := app.Req(app.admin.f, "POST", "/api/invites",
		strings.NewReader(`{"count": 2, "created_by": "adm"}`),
		mergeHeaders(adminAuth(), map[string]string{"Content-Type": "application/json"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created []map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Len(t, created, 2)
	assert.Contains(t, created[0]["url"], "/sign-up?code="+created[0]["code"])

	resp, err = app.Req(app.admin.f, "GET", "/api/invites", nil, adminAuth())
	require.NoError(t, err)

	var listed []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Len(t, listed, 2)

	resp, err = app.Req(app.admin.f, "POST", "/api/invites/"+created[0]["code"]+"/revoke", nil, adminAuth())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Nil(t, app.dbm.InviteQuery().Code(created[0]["code"]).Usable().One())
	assert.NotNil(t, app.dbm.InviteQuery().Code(created[1]["code"]).Usable().One())

	resp, err = app.Req(app.admin.f, "POST", "/api/invites/NO-SUCH-CODE/revoke", nil, adminAuth())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsOpen(t *testing.T) {
	app := NewTestApp(t)

	resp, err := app.Req(app.admin.f, "GET", "/metrics", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func mergeHeaders(ms ...map[string]string) map[string]string {
	res := make(map[string]string)

	for _, m := range ms {
		for k, v := range m {
			res[k] = v
		}
	}

	return res
}
