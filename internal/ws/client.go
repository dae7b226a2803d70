package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// sendQueue is how many messages a client may lag behind before new ones
// are dropped for it.
const sendQueue = 16

// client owns the write side of one socket; only writeLoop writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan []byte, sendQueue)}
}

// enqueue never blocks; it reports false when the message was dropped.
func (c *client) enqueue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// writeLoop runs until send is closed. A failed write closes the socket,
// which ends the reader and unregisters the client.
func (c *client) writeLoop(log zerolog.Logger) {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("websocket write")
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}
