package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type AppConfig struct {
	k *koanf.Koanf
}

func NewAppConfig() *AppConfig {
	c := &AppConfig{k: koanf.New(".")}

	setDefaults(c.k)

	return c
}

func (c *AppConfig) Load(filename ...string) bool {
	loaded := false

	for _, name := range filename {
		if err := c.k.Load(file.Provider(name), yaml.Parser()); err != nil {
			slog.Info(fmt.Sprintf("error loading config: %s", err.Error()))
		} else {
			loaded = true
		}
	}

	return loaded
}

func (c *AppConfig) LoadEnv(prefix string) error {
	return c.k.Load(env.Provider(prefix, ".", func(s string) string {
		s1 := strings.ToLower(strings.TrimPrefix(s, prefix))

		for _, pr := range []string{"oauth_", "signup_", "admin_"} {
			if strings.HasPrefix(s1, pr) {
				return strings.Replace(s1, "_", ".", 1)
			}
		}

		return s1
	}), nil)
}

func (c *AppConfig) Bool(key string) bool {
	return c.k.Bool(key)
}

func (c *AppConfig) String(key string) string {
	return c.k.String(key)
}

func (c *AppConfig) Int(key string) int {
	return c.k.Int(key)
}

func (c *AppConfig) Duration(key string) time.Duration {
	return c.k.Duration(key)
}

func (c *AppConfig) Set(key string, v any) error {
	return c.k.Set(key, v)
}

func (c *AppConfig) ApiAddr() string {
	return c.k.String("api_addr")
}

func (c *AppConfig) AdminAddr() string {
	return c.k.String("admin_addr")
}

func (c *AppConfig) BaseURL() string {
	return strings.TrimSuffix(c.k.String("base_url"), "/")
}

func (c *AppConfig) DB() string {
	return c.k.String("db")
}

func (c *AppConfig) StoresFile() string {
	return c.k.String("stores_file")
}

func (c *AppConfig) TokenSecret() string {
	return c.k.String("token_secret")
}

func (c *AppConfig) TokenMaxAge() time.Duration {
	return c.k.Duration("token_max_age")
}

func (c *AppConfig) InviteCookieMaxAge() time.Duration {
	return c.k.Duration("signup.invite_cookie_max_age")
}

func (c *AppConfig) OauthClientID() string {
	return c.k.String("oauth.client_id")
}

func (c *AppConfig) OauthClientSecret() string {
	return c.k.String("oauth.client_secret")
}

func (c *AppConfig) OauthStateSecret() string {
	return c.k.String("oauth.state_secret")
}

func (c *AppConfig) AdminLogin() string {
	return c.k.String("admin.login")
}

func (c *AppConfig) AdminPasswordHash() string {
	return c.k.String("admin.password_hash")
}

func (c *AppConfig) Debug() bool {
	return c.k.Bool("debug")
}

func setDefaults(k *koanf.Koanf) {
	k.Set("api_addr", ":8080")
	k.Set("admin_addr", ":8089")
	k.Set("base_url", "http://localhost:8080")

	k.Set("db", "db.sqlite")
	k.Set("stores_file", "stores.yml")

	k.Set("token_max_age", "24h")
	k.Set("signup.invite_cookie_max_age", "300s")

	k.Set("admin.login", "admin")
}
