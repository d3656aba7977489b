package server

import (
	"encoding/json"

	"briscola-game/internal/protocol"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client represents a single WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	ID   string // Unique identifier for the connection
	Name string // Player name, set on create/join
}

// ReadPump handles incoming messages from the WebSocket connection.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("unexpected close", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.hub.logger.Warn("malformed message", zap.String("client_id", c.ID), zap.Error(err))
			continue
		}

		if msg.Type != protocol.TypePing {
			c.hub.logger.Debug("message received",
				zap.String("type", msg.Type),
				zap.String("client_id", c.ID),
			)
		}
		select {
		case c.hub.processMessage <- clientMessage{client: c, message: msg}:
		case <-c.hub.quit:
			return
		}
	}
}

// WritePump handles outgoing messages to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.hub.logger.Warn("write failed", zap.String("client_id", c.ID), zap.Error(err))
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
