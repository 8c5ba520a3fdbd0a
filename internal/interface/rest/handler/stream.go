package resthandler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// stream pushes the preview of a session every time it changes, starting with
// the current one. The connection is closed along with the session.
func (h *placeLimitHandler) stream(c echo.Context) error {
	id := c.Param("id")

	updates, cancel, err := h.placeLimitSvc.Subscribe(id)
	if err != nil {
		return httpError(err)
	}
	defer cancel()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already replied to the client
		log.WithError(err).Debug("unable to upgrade connection")
		return nil
	}
	defer conn.Close()

	logger := log.WithField("session", id)
	logger.Debug("stream opened")

	// only control frames are expected from the client
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ctx := c.Request().Context()
	send := func() error {
		preview, err := h.placeLimitSvc.GetPreview(ctx, id)
		if err != nil {
			return err
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(newPreview(preview))
	}

	if err := send(); err != nil {
		logger.WithError(err).Debug("stream closed")
		return nil
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			logger.Debug("stream closed by client")
			return nil

		case _, ok := <-updates:
			if !ok {
				conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(writeWait),
				)
				logger.Debug("stream closed along with session")
				return nil
			}
			if err := send(); err != nil {
				logger.WithError(err).Debug("stream closed")
				return nil
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		}
	}
}
