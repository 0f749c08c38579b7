package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/fleetnav/internal/pkg/constants"
	"github.com/piresc/fleetnav/internal/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var ErrClientClosed = errors.New("websocket client closed")

// Message is the envelope of every frame pushed to the app
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ErrorMessage is the payload of an error frame
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is one connected driver device
type Client struct {
	DriverID string
	// OnMessage receives inbound frames other than ping. It must be set
	// before Run.
	OnMessage func(Message)

	conn      *websocket.Conn
	send      chan Message
	done      chan struct{}
	closeOnce sync.Once
}

// Manager tracks connected drivers. A driver has at most one live
// connection; a new one replaces the old.
type Manager struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	upgrader websocket.Upgrader
}

// NewManager creates a new WebSocket manager
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Upgrade switches an authenticated request to a websocket and registers it
func (m *Manager) Upgrade(c echo.Context, driverID string) (*Client, error) {
	conn, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	client := &Client{
		DriverID: driverID,
		conn:     conn,
		send:     make(chan Message, sendBuffer),
		done:     make(chan struct{}),
	}

	m.mu.Lock()
	prev := m.clients[driverID]
	m.clients[driverID] = client
	m.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return client, nil
}

// Remove unregisters client if it is still the driver's current connection
func (m *Manager) Remove(client *Client) {
	m.mu.Lock()
	if m.clients[client.DriverID] == client {
		delete(m.clients, client.DriverID)
	}
	m.mu.Unlock()
	client.Close()
}

// GetClient returns the driver's live connection
func (m *Manager) GetClient(driverID string) (*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[driverID]
	return client, ok
}

// NotifyClient pushes an event to a driver if connected
func (m *Manager) NotifyClient(driverID, event string, data interface{}) {
	client, ok := m.GetClient(driverID)
	if !ok {
		return
	}
	if err := client.Send(event, data); err != nil {
		logger.Warn("Error sending message to client",
			logger.DriverID(driverID),
			logger.String("event", event),
			logger.Err(err))
	}
}

// CloseAll disconnects every client
func (m *Manager) CloseAll() {
	m.mu.Lock()
	clients := m.clients
	m.clients = make(map[string]*Client)
	m.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}

// Count returns the number of connected drivers
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Send queues an event for the write pump. It never blocks: a client that
// cannot keep up is disconnected.
func (c *Client) Send(event string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error marshaling message data: %w", err)
	}

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- Message{Event: event, Data: raw}:
		return nil
	default:
		c.Close()
		return errors.New("websocket send buffer full")
	}
}

// SendError queues an error frame
func (c *Client) SendError(code, message string) error {
	return c.Send(constants.EventError, ErrorMessage{Code: code, Message: message})
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close terminates the connection
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Run pumps frames until ctx ends or the peer disconnects. A ping event is
// answered with pong; other inbound frames go to OnMessage.
func (c *Client) Run(ctx context.Context) {
	go c.readPump()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(writeWait))
			return
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Debug("WebSocket write failed", logger.DriverID(c.DriverID), logger.Err(err))
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

func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("WebSocket closed unexpectedly", logger.DriverID(c.DriverID), logger.Err(err))
			}
			return
		}
		switch {
		case msg.Event == constants.EventPing:
			_ = c.Send(constants.EventPong, nil)
		case c.OnMessage != nil:
			c.OnMessage(msg)
		}
	}
}
