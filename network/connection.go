// network/connection.go
package network

import (
	"encoding/json"
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

// Envelope is the wire frame for every message in both directions:
// an event name plus an event-specific JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type Connection interface {
	Send(event string, data interface{}) error
	ReadEnvelope() (*Envelope, error)
	Close() error
	RemoteAddr() net.Addr
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) Send(event string, data interface{}) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		env.Data = raw
	}

	return c.conn.WriteJSON(&env)
}

func (c *WSConnection) ReadEnvelope() (*Envelope, error) {
	var env Envelope
	if err := c.conn.ReadJSON(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
