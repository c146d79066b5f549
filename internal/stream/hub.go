// Package stream pushes completed analyses to websocket subscribers
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"deinfluencer/internal/metrics"
	"deinfluencer/internal/models"
	"deinfluencer/internal/services"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames
	maxMessageSize = 512
)

// Message is the envelope written to subscribers
type Message struct {
	Type      string                 `json:"type"`
	Data      services.AnalysisEvent `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts analyses to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan services.AnalysisEvent
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	upgrader   websocket.Upgrader
	metrics    *metrics.Collector
	log        logrus.FieldLogger
	mutex      sync.RWMutex
}

// Client is a single websocket subscriber
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	// platform limits delivery to one network; empty means all
	platform models.Platform
}

// NewHub creates a new websocket hub
func NewHub(log logrus.FieldLogger, m *metrics.Collector) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan services.AnalysisEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		metrics: m,
		log:     log.WithField("component", "stream_hub"),
	}
}

// Run is the hub's main loop. It closes every client when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.metrics.SetStreamSubscribers(0)
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mutex.Unlock()
			h.metrics.SetStreamSubscribers(count)
			h.log.WithFields(logrus.Fields{
				"client_count": count,
				"platform":     client.platform,
			}).Info("stream client connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mutex.Unlock()
			h.metrics.SetStreamSubscribers(count)
			h.log.WithField("client_count", count).Info("stream client disconnected")

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// Publish queues an event for delivery. It never blocks the caller.
func (h *Hub) Publish(event services.AnalysisEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.log.Warn("broadcast channel full, dropping analysis event")
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) deliver(event services.AnalysisEvent) {
	payload, err := json.Marshal(Message{
		Type:      "analysis_completed",
		Data:      event,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.log.WithError(err).Error("failed to marshal analysis event")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		if client.platform != "" && client.platform != event.Platform {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Slow consumer
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// ServeWS upgrades the request and subscribes the connection. An optional
// platform query parameter filters the events it receives.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	var platform models.Platform
	if raw := r.URL.Query().Get("platform"); raw != "" {
		p, err := models.ParsePlatform(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		platform = p
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("failed to upgrade websocket connection")
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 64),
		platform: platform,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains control frames until the peer goes away
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("websocket connection error")
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
