package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/teamkasa/teamkasa/pkg/logger"
)

// The relay is stateless with respect to the domain: it re-broadcasts any
// text message a client sends to every other connected client, and nothing
// else. It never touches the database.

var (
	relayClients   = make(map[*websocket.Conn]bool)
	relayClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	// The relay carries no domain data, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Relay upgrades the connection and joins the broadcast group.
// GET /ws
func Relay(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	relayClientsMu.Lock()
	relayClients[conn] = true
	relayClientsMu.Unlock()

	defer func() {
		relayClientsMu.Lock()
		delete(relayClients, conn)
		relayClientsMu.Unlock()
		conn.Close()
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	// Stop() does not close the ticker channel, so the ping loop needs its
	// own termination signal.
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn().Err(err).Msg("websocket read failed")
			}
			break
		}

		if messageType == websocket.TextMessage {
			broadcast(conn, message)
		}
	}
}

// broadcast sends the message to every connected client except the sender.
func broadcast(sender *websocket.Conn, message []byte) {
	relayClientsMu.RLock()
	targets := make([]*websocket.Conn, 0, len(relayClients))
	for conn := range relayClients {
		if conn != sender {
			targets = append(targets, conn)
		}
	}
	relayClientsMu.RUnlock()

	for _, conn := range targets {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn().Err(err).Msg("websocket broadcast failed")
			relayClientsMu.Lock()
			delete(relayClients, conn)
			relayClientsMu.Unlock()
			conn.Close()
		}
	}
}
