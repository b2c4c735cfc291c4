package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/kwestra/hexfront/internal/auth"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = (pongTimeout * 9) / 10
	readLimit    = 4096
	sendQueue    = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true }, // tighten in production
}

// WSHandler upgrades authenticated spectators onto the hub.
type WSHandler struct {
	hub    *Hub
	jwtMgr *auth.JWTManager
}

func NewWSHandler(hub *Hub, jwtMgr *auth.JWTManager) *WSHandler {
	return &WSHandler{hub: hub, jwtMgr: jwtMgr}
}

// ServeWS handles GET /api/v1/ws. The token rides a query parameter because
// browsers cannot set headers on WebSocket requests.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	claims, err := h.jwtMgr.ValidateToken(r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &WSConn{
		conn:        conn,
		spectatorID: claims.SpectatorID,
		send:        make(chan []byte, sendQueue),
	}
	h.hub.Register(c)

	if hello, err := json.Marshal(WSEvent{Type: "connected", Data: map[string]string{"spectator_id": c.spectatorID}}); err == nil {
		c.send <- hello
	}

	go h.writeLoop(c)
	go h.readLoop(c)

	log.Info().Str("spectatorId", c.spectatorID).Int("connections", h.hub.ConnectionCount()).Msg("Spectator connected")
}

// readLoop consumes subscribe/unsubscribe commands until the peer goes away.
func (h *WSHandler) readLoop(c *WSConn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("spectatorId", c.spectatorID).Msg("Spectator disconnected")
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("spectatorId", c.spectatorID).Msg("WebSocket closed unexpectedly")
			}
			return
		}

		var msg ClientMessage
		if json.Unmarshal(raw, &msg) != nil || msg.BattleID == "" {
			continue
		}
		switch msg.Action {
		case "subscribe":
			h.hub.Subscribe(c, msg.BattleID)
		case "unsubscribe":
			h.hub.Unsubscribe(c, msg.BattleID)
		}
	}
}

// writeLoop flushes queued events and keeps the connection alive with pings.
func (h *WSHandler) writeLoop(c *WSConn) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
