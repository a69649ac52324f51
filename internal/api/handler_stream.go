package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"parm-catalog/internal/mw"
	"parm-catalog/internal/shell"
)

const (
	streamPingInterval = 30 * time.Second
	streamReadTimeout  = 60 * time.Second
	streamWriteTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// GetStream handles GET /api/stream. The connection receives the current
// snapshot of the session and then a new one after every intent, from any
// tab of the same session. Snapshots that pile up while the client is slow are
// coalesced so that only the latest is sent.
func (h *Handler) GetStream(c *gin.Context) {
	s := mw.ShellFrom(c)
	if s == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates := make(chan shell.Snapshot, 1)
	cancel := s.Subscribe(func(snap shell.Snapshot) {
		select {
		case updates <- snap:
			return
		default:
		}
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- snap:
		default:
		}
	})
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		readUntilClosed(conn)
	}()

	sessionID := mw.SessionID(c)
	h.logger.Debug("stream connected", "session_id", sessionID)
	if err := writeSnapshots(conn, s.Snapshot(), updates, closed); err != nil {
		h.logger.Debug("stream closed", "session_id", sessionID, "error", err)
	}
}

func writeSnapshots(conn *websocket.Conn, first shell.Snapshot, updates <-chan shell.Snapshot, closed <-chan struct{}) error {
	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	write := func(snap shell.Snapshot) error {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		return conn.WriteJSON(snap)
	}

	if err := write(first); err != nil {
		return err
	}
	for {
		select {
		case snap := <-updates:
			if err := write(snap); err != nil {
				return err
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteTimeout)); err != nil {
				return err
			}
		case <-closed:
			return nil
		}
	}
}

// readUntilClosed consumes client frames so control messages are handled and
// returns when the connection goes away.
func readUntilClosed(conn *websocket.Conn) {
	conn.SetReadLimit(1 << 12)
	_ = conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
