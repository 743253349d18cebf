package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/chickspot/chickspot/internal/model"
	"github.com/chickspot/chickspot/pkg/log"
)

type AdminAPI struct {
	f    *fiber.App
	addr string
}

func NewAdminAPI(app *App, addr string) *AdminAPI {
	api := &AdminAPI{addr: addr}

	api.f = fiber.New(fiber.Config{EnablePrintRoutes: false, DisableStartupMessage: true})

	api.f.Use(log.NewFiberLogger(&log.LoggerConfig{Name: "admin_api", DoMetrics: true}))

	api.f.Get("/metrics", getMetricsHandler())

	api.f.Use(getAdminAuth(app.config.AdminLogin(), app.config.AdminPasswordHash()))

	api.f.Get("/api/invites", getInvitesHandler(app))
	api.f.Post("/api/invites", getInvitePostHandler(app))
	api.f.Post("/api/invites/:code/revoke", getInviteRevokeHandler(app))

	api.f.Get("/api/users", getUsersHandler(app))

	api.f.Get("/api/sightings/pending", getPendingSightingsHandler(app))
	api.f.Post("/api/sightings/:id/review", getSightingReviewHandler(app))

	return api
}

func (api *AdminAPI) Address() string {
	return api.addr
}

func (api *AdminAPI) Listen() error {
	return api.f.Listen(api.addr)
}

func getAdminAuth(login, passwordHash string) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Authorizer: func(user, password string) bool {
			if user != login || passwordHash == "" {
				return false
			}

			return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
		},
	})
}

func getMetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func getInvitesHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		invites := app.dbm.InviteQuery().Order("invite_codes.created_at DESC").Get()

		res := make([]*model.InviteCodeDTO, 0, len(invites))

		for _, ic := range invites {
			res = append(res, ic.DTO())
		}

		return c.JSON(res)
	}
}

type invitePostDTO struct {
	Count     int    `json:"count"`
	CreatedBy string `json:"created_by,omitempty"`
}

func getInvitePostHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dto := new(invitePostDTO)

		if err := c.BodyParser(dto); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		invites, err := app.dbm.NewInvites(dto.Count, dto.CreatedBy)
		if err != nil {
			return err
		}

		res := make([]map[string]any, 0, len(invites))

		for _, ic := range invites {
			res = append(res, map[string]any{
				"code": ic.Code,
				"url":  app.config.BaseURL() + "/sign-up?code=" + ic.Code,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

func getInviteRevokeHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")

		if err := app.dbm.RevokeInvite(code); err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		return c.JSON(app.dbm.InviteQuery().Code(code).One().DTO())
	}
}

func getUsersHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users := app.dbm.UserQuery().Get()

		res := make([]*model.UserDTO, 0, len(users))

		for _, u := range users {
			res = append(res, u.DTO())
		}

		return c.JSON(res)
	}
}

func getPendingSightingsHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(sightingDTOs(app.dbm.SightingQuery().Pending().Full().Get()))
	}
}

func getSightingReviewHandler(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "bad id")
		}

		dto := new(model.SightingReviewDTO)

		if err := c.BodyParser(dto); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		err = app.dbm.SightingQuery().Id(uint(id)).Update(map[string]any{
			"admin_reviewed": true,
			"admin_approved": dto.Approved,
		})

		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no sighting")
		}

		return c.JSON(app.dbm.SightingQuery().Id(uint(id)).Full().One().DTO())
	}
}
