package main

import (
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"github.com/chickspot/chickspot/internal/auth"
	"github.com/chickspot/chickspot/internal/invite"
	"github.com/chickspot/chickspot/internal/model"
	"github.com/chickspot/chickspot/internal/signup"
	"github.com/chickspot/chickspot/pkg/log"
)

//go:embed templates
var templates embed.FS

// Both the state cookie and the invite carrier are scoped here, so they
// only travel on the OAuth round trip.
const (
	signupPath      = "/auth/google"
	stateCookie     = "oauth_state"
	stateCookieAge  = time.Minute * 5
	recentSightings = 50
)

type PublicAPI struct {
	f    *fiber.App
	addr string
}

func NewPublicAPI(app *App, addr string) *PublicAPI {
	api := &PublicAPI{addr: addr}

	engine := html.NewFileSystem(http.FS(templates), ".html")
	engine.Delims("[[", "]]")

	api.f = fiber.New(fiber.Config{EnablePrintRoutes: false, DisableStartupMessage: true, Views: engine})

	api.f.Use(log.NewFiberLogger(&log.LoggerConfig{Name: "api", UserGetter: username, DoMetrics: true}))
	api.f.Use(app.sessions.Middleware())

	api.f.Get("/", getIndexHandler(app))
	api.f.Get("/sign-up", getSignUpPageHandler(app))
	api.f.Post("/sign-up", getSignUpPostHandler(app))
	api.f.Post("/logout", getLogoutHandler(app))

	api.f.Get(signupPath+"/login", getOauthLoginHandler(app))
	api.f.Get(signupPath+"/callback", getOauthCallbackHandler(app))

	api.f.Get("/api/invites/validate", getValidateHandler(app))
	api.f.Get("/api/user", getUserHandler())
	api.f.Get("/api/stores", getStoresHandler(app))
	api.f.Get("/api/sightings", getSightingsHandler(app))
	api.f.Post("/api/sightings", auth.RequireUser(), getSightingPostHandler(app))

	api.f.Get("/ws", auth.RequireUser(), getWsHandler(app))

	return api
}

func (api *PublicAPI) Address() string {
	return api.addr
}

func (api *PublicAPI) Listen() error {
	return api.f.Listen(api.addr)
}

func username(c *fiber.Ctx) string {
	return auth.User(c).GetID()
}

func getIndexHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := map[string]any{
			"user":      auth.User(c).DTO(),
			"sightings": sightingDTOs(app.dbm.SightingQuery().Full().Limit(recentSightings).Get()),
		}

		return c.Render("templates/index", data)
	}
}

// getSignUpPageHandler runs the pre-signup validation against a snapshot
// of matching invite rows and renders either the rejection message or the
// signup action.
func getSignUpPageHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Query("code")
		res := app.signup.Validate(code)

		return c.Render("templates/sign-up", map[string]any{
			"code":  code,
			"valid": res.Valid,
			"error": res.Error,
		})
	}
}

// getSignUpPostHandler stashes the code in the carrier cookie and hands
// the visitor off to the provider. The cookie, not the provider redirect,
// is what survives the round trip.
func getSignUpPostHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.FormValue("code")

		if code == "" {
			return c.Redirect("/sign-up", fiber.StatusSeeOther)
		}

		app.carrier.Set(c, code)

		return c.Redirect(signupPath+"/login", fiber.StatusSeeOther)
	}
}

func getLogoutHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		app.sessions.Clear(c)

		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

func getOauthLoginHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url, state, err := app.google.LoginURL()
		if err != nil {
			return err
		}

		c.Cookie(&fiber.Cookie{
			Name:     stateCookie,
			Value:    state,
			Path:     signupPath,
			MaxAge:   int(stateCookieAge.Seconds()),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		return c.Redirect(url, fiber.StatusSeeOther)
	}
}

func getOauthCallbackHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := c.Query("state")

		if state == "" || state != c.Cookies(stateCookie) || !app.google.CheckState(state) {
			return fiber.NewError(fiber.StatusBadRequest, "bad oauth state")
		}

		profile, err := app.google.Exchange(c.Context(), c.Query("code"))
		if err != nil {
			app.logger.Error("oauth exchange error", slog.Any("error", err))

			return fiber.NewError(fiber.StatusBadGateway, "oauth error")
		}

		// Existing identity: plain sign-in, no invite needed.
		if acc := app.dbm.GetAccount(auth.ProviderGoogle, profile.ID); acc != nil && acc.User != nil {
			if err := app.sessions.Issue(c, acc.User); err != nil {
				return err
			}

			return c.Redirect("/", fiber.StatusSeeOther)
		}

		code, err := app.carrier.Read(c.Get(fiber.HeaderCookie))
		if err != nil {
			return renderRejection(c, invite.MsgCodeRequired)
		}

		user, err := app.signup.Create(code, &signup.Profile{
			Provider:       auth.ProviderGoogle,
			ProviderUserID: profile.ID,
			Email:          profile.Email,
			EmailVerified:  profile.VerifiedEmail,
			Name:           profile.Name,
			Image:          profile.Picture,
		})

		switch {
		case errors.Is(err, invite.ErrCodeRequired):
			return renderRejection(c, invite.MsgCodeRequired)
		case errors.Is(err, invite.ErrCodeInvalid):
			return renderRejection(c, invite.MsgCodeInvalid)
		case errors.Is(err, invite.ErrRaceLoss):
			// user row is committed; signup still succeeds for the visitor
		case err != nil:
			return err
		}

		if err := app.sessions.Issue(c, user); err != nil {
			return err
		}

		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

func renderRejection(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).Render("templates/sign-up", map[string]any{
		"valid": false,
		"error": msg,
	})
}

func getValidateHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(app.signup.Validate(c.Query("code")))
	}
}

func getUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := auth.User(c)

		if u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "sign in required")
		}

		return c.JSON(u.DTO())
	}
}

func getStoresHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stores := app.dbm.StoreQuery().Active().Get()

		res := make([]*model.StoreDTO, 0, len(stores))

		for _, s := range stores {
			res = append(res, s.DTO())
		}

		return c.JSON(res)
	}
}

func getSightingsHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := app.dbm.SightingQuery().Full().Limit(recentSightings)

		if id := c.QueryInt("store_id"); id > 0 {
			q.Store(uint(id))
		}

		return c.JSON(sightingDTOs(q.Get()))
	}
}

func getSightingPostHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := auth.User(c)

		dto := new(model.SightingPostDTO)

		if err := c.BodyParser(dto); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if dto.StoreID == 0 || dto.LabelTime.IsZero() {
			return fiber.NewError(fiber.StatusBadRequest, "store_id and label_time are required")
		}

		if app.dbm.StoreQuery().Id(dto.StoreID).Active().One() == nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown store")
		}

		s := &model.Sighting{
			UserID:     user.ID,
			StoreID:    dto.StoreID,
			LabelTime:  dto.LabelTime,
			ObservedAt: time.Now(),
			UserLat:    dto.UserLat,
			UserLon:    dto.UserLon,
			Doneness:   dto.Doneness,
			Notes:      dto.Notes,
		}

		if err := app.dbm.Create(s); err != nil {
			return err
		}

		s.User = user

		app.sightingCb.AddMessage(s)

		return c.Status(fiber.StatusCreated).JSON(s.DTO())
	}
}

func sightingDTOs(ss []*model.Sighting) []*model.SightingDTO {
	res := make([]*model.SightingDTO, 0, len(ss))

	for _, s := range ss {
		res = append(res, s.DTO())
	}

	return res
}
