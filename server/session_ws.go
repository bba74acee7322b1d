package server

import (
	"net/http"
	"time"

	"spoty/logger"
	"spoty/model"

	"github.com/gorilla/websocket"
)

var sessionUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

type sessionEvent struct {
	User *model.User `json:"user"`
}

// SessionEventsHandler streams every published session transition to the
// client over a websocket: the subscribe-time value first, then each change
// until the peer disconnects.
func (h *APIHandler) SessionEventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := sessionUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("session events upgrade failed", logger.ErrorField(err))
		return
	}

	events, cancel := h.reconciler.Sessions().Subscribe()
	defer cancel()

	// Drain reads so close frames are processed; clients don't send data.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case user, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(sessionEvent{User: user}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
