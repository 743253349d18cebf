package main

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/chickspot/chickspot/internal/model"
)

// feedHandler pushes newly reported sightings to one websocket client.
type feedHandler struct {
	log    *slog.Logger
	name   string
	ws     *websocket.Conn
	ch     chan *model.Sighting
	active int32
}

func newFeedHandler(log *slog.Logger, name string, ws *websocket.Conn) *feedHandler {
	return &feedHandler{
		log:    log.With("client", name),
		name:   name,
		ws:     ws,
		ch:     make(chan *model.Sighting, 10),
		active: 1,
	}
}

func (w *feedHandler) IsActive() bool {
	return w != nil && atomic.LoadInt32(&w.active) == 1
}

func (w *feedHandler) stop() {
	if atomic.CompareAndSwapInt32(&w.active, 1, 0) {
		close(w.ch)
		w.ws.Close()
	}
}

func (w *feedHandler) writer() {
	defer w.stop()

	for s := range w.ch {
		if s == nil {
			continue
		}

		b, err := json.Marshal(s.DTO())
		if err != nil {
			return
		}

		if w.ws.WriteMessage(websocket.TextMessage, b) != nil {
			return
		}
	}
}

func (w *feedHandler) SendItem(s *model.Sighting) bool {
	if !w.IsActive() {
		return false
	}

	select {
	case w.ch <- s:
	default:
	}

	return true
}

func (w *feedHandler) Listen() {
	defer w.stop()

	go w.writer()

	for {
		if _, _, err := w.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func getWsHandler(app *App) fiber.Handler {
	return websocket.New(func(ws *websocket.Conn) {
		name := uuid.NewString()

		h := newFeedHandler(app.logger, name, ws)
		app.logger.Info("ws listener connected")
		app.sightingCb.AddCallback(name, h.SendItem)
		h.Listen()
		app.logger.Info("ws listener disconnected")
		app.sightingCb.RemoveCallback(name)
	})
}
