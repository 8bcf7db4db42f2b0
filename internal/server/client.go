package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"delve-server/internal/domain"
	"delve-server/internal/engine"
	"delve-server/pkg/api"
	"delve-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client bridges one websocket connection and the simulation: inbound
// frames become commands for the controlled entity, outbound snapshots
// come off the hub subscription. Reconnecting under the same entity
// closes the previous subscription, so the newest connection wins.
type Client struct {
	service *engine.Service
	conn    *websocket.Conn
	actor   domain.EntityID

	updates chan api.ServerResponse
}

func NewClient(service *engine.Service, conn *websocket.Conn, actor domain.EntityID) *Client {
	return &Client{
		service: service,
		conn:    conn,
		actor:   actor,
	}
}

// run serves the connection until either side closes. The first INIT is
// issued here so the client paints without waiting for its turn. The
// subscription must exist before the INIT lands, or the reply snapshot
// would find nobody listening.
func (c *Client) run() {
	c.updates = c.service.Hub.Register(c.actor)

	if err := c.service.Submit(c.actor, api.ClientCommand{Action: api.ActionInit}); err != nil {
		c.service.Hub.Unregister(c.actor, c.updates)
		c.logger().WithError(err).Warn("Connection refused.")
		c.reject("unknown player")
		return
	}
	c.logger().Info("Client connected.")

	go c.writePump()
	c.readPump()
}

// reject tells the peer why before hanging up on it.
func (c *Client) reject(reason string) {
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
	_ = c.conn.Close()
}

// readPump decodes inbound frames and hands them to the engine.
// Rejected commands are logged and dropped; the simulation publishes
// nothing for them, and the peer simply retries.
func (c *Client) readPump() {
	defer func() {
		c.service.Hub.Unregister(c.actor, c.updates)
		_ = c.conn.Close()
		c.logger().Info("Client disconnected.")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd api.ClientCommand
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger().WithError(err).Warn("Websocket read failed.")
			}
			return
		}
		// Submit already logged the reason for a rejected command.
		_ = c.service.Submit(c.actor, cmd)
	}
}

// writePump forwards hub snapshots to the peer and keeps the
// connection alive with pings. It exits when the subscription closes,
// either on disconnect or when a newer connection takes the entity.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case snap, ok := <-c.updates:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session replaced"))
				return
			}
			if err := c.conn.WriteJSON(snap); err != nil {
				c.logger().WithError(err).Debug("Snapshot write failed.")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) logger() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"system": "gateway",
		"actor":  c.actor,
	})
}
