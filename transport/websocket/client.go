package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one connected player. Its id is the player id used in rooms.
type Client struct {
	ID string

	conn   *websocket.Conn
	send   chan []byte
	server *Server
	logger *slog.Logger

	closeOnce sync.Once
}

func newClient(server *Server, conn *websocket.Conn, id string) *Client {
	return &Client{
		ID:     id,
		conn:   conn,
		send:   make(chan []byte, server.options.SendBuffer),
		server: server,
		logger: server.logger.With("playerID", id),
	}
}

// closeSend stops the write loop, which then closes the connection.
func (that *Client) closeSend() {
	that.closeOnce.Do(func() {
		close(that.send)
	})
}

// readPump forwards every inbound frame to the dispatcher and reports the
// disconnect once the connection is gone.
func (that *Client) readPump() {
	defer func() {
		that.server.post(event{kind: eventDisconnect, client: that})
		_ = that.conn.Close()
	}()

	options := that.server.options

	that.conn.SetReadLimit(options.MaxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(options.PongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(options.PongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.logger.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		if !that.server.post(event{kind: eventMessage, client: that, data: data}) {
			return
		}
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (that *Client) writePump() {
	options := that.server.options

	ticker := time.NewTicker(options.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case data, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(options.WriteWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				that.logger.Debug("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(options.WriteWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
