package handler

import (
	"net/http"
	"time"

	"webchat/internal/chat"
	"webchat/internal/nlog"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 64 * 1024
)

// WSHandler bridges the websocket transport and the chat core: one read loop
// feeding the router in frame order, one write loop draining the session
// outbox.
type WSHandler struct {
	upgrader  websocket.Upgrader
	router    *chat.Router
	lifecycle *chat.LifecycleManager
	logger    nlog.Logger
}

func NewWSHandler(router *chat.Router, lifecycle *chat.LifecycleManager, logger nlog.Logger) *WSHandler {
	return &WSHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		router:    router,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

func (h *WSHandler) Logf(format string, v ...any) {
	h.logger.Logf(format, v...)
}

func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logf("Upgrade failed: %v", err)
		return
	}

	session := h.lifecycle.Connect()
	go h.writePump(conn, session)
	h.readPump(conn, session)
}

// readPump dispatches frames in arrival order, which is what gives a single
// connection its FIFO processing guarantee.
func (h *WSHandler) readPump(conn *websocket.Conn, session *chat.Session) {
	defer func() {
		h.lifecycle.Disconnect(session)
		conn.Close()
	}()

	conn.SetReadLimit(maxFrameSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		h.lifecycle.Heartbeat(session)
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logf("Read error on {%s}: %v", session.ID, err)
			}
			return
		}
		h.router.Dispatch(session, raw)
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, session *chat.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame := <-session.Outbox():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-session.Done():
			conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
			return
		}
	}
}
