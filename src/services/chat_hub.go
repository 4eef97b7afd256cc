package services

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/metrics"
	"github.com/apimgr/community/src/middleware"
)

// ChatEvent is the frame pushed to connected chat clients.
type ChatEvent struct {
	// "DIRECT_CHAT_MESSAGE", "GROUP_CHAT_MESSAGE", "ping"
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ChatClient is one connected websocket, keyed by the user's hex ID.
type ChatClient struct {
	UserID   string
	Conn     *websocket.Conn
	Hub      *ChatHub
	Send     chan []byte
	LastPing time.Time
}

// ChatHub fans chat events out to connected clients.
type ChatHub struct {
	clients    map[string]*ChatClient
	clientsMux sync.RWMutex

	register   chan *ChatClient
	unregister chan *ChatClient

	cache *CacheManager
	log   *zap.Logger
	done  chan struct{}
}

const presenceTTL = 2 * time.Minute

func NewChatHub(log *zap.Logger, cache *CacheManager) *ChatHub {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatHub{
		clients:    make(map[string]*ChatClient),
		register:   make(chan *ChatClient, 10),
		unregister: make(chan *ChatClient, 10),
		cache:      cache,
		log:        log,
		done:       make(chan struct{}),
	}
}

// setPresence publishes the user's connection state to the shared cache so
// other instances can see it. Best-effort: errors are ignored.
func (h *ChatHub) setPresence(userID string, online bool) {
	if h.cache == nil || !h.cache.IsEnabled() {
		return
	}
	key := "presence:" + userID
	if online {
		h.cache.Set(key, "1", presenceTTL)
	} else {
		h.cache.Delete(key)
	}
}

// Run processes registrations and keepalives. Run in a goroutine.
func (h *ChatHub) Run() {
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	cleanupTicker := time.NewTicker(5 * time.Minute)
	defer cleanupTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.clientsMux.Lock()
			// A reconnect replaces the previous connection
			if old, ok := h.clients[client.UserID]; ok {
				close(old.Send)
				old.Conn.Close()
			}
			h.clients[client.UserID] = client
			total := len(h.clients)
			h.clientsMux.Unlock()
			metrics.WebsocketConnections.Set(float64(total))
			h.setPresence(client.UserID, true)
			h.log.Debug("chat client connected", zap.String("user", client.UserID), zap.Int("total", total))

		case client := <-h.unregister:
			h.clientsMux.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
				close(client.Send)
			}
			total := len(h.clients)
			h.clientsMux.Unlock()
			metrics.WebsocketConnections.Set(float64(total))
			h.setPresence(client.UserID, false)
			h.log.Debug("chat client disconnected", zap.String("user", client.UserID), zap.Int("total", total))

		case <-pingTicker.C:
			h.pingClients()

		case <-cleanupTicker.C:
			h.cleanupStaleConnections()

		case <-h.done:
			return
		}
	}
}

// Stop shuts the hub down and closes every connection.
func (h *ChatHub) Stop() {
	close(h.done)

	h.clientsMux.Lock()
	for _, client := range h.clients {
		client.Conn.Close()
	}
	h.clientsMux.Unlock()
}

// PublishToUsers pushes an event to each listed user that is connected.
// Offline users are skipped; messages reach them via the query API.
func (h *ChatHub) PublishToUsers(userIDs []string, event string, payload interface{}) {
	data, err := json.Marshal(&ChatEvent{Event: event, Data: payload})
	if err != nil {
		h.log.Error("marshal chat event", zap.Error(err))
		return
	}

	h.clientsMux.RLock()
	targets := make([]*ChatClient, 0, len(userIDs))
	for _, id := range userIDs {
		if client, ok := h.clients[id]; ok {
			targets = append(targets, client)
		}
	}
	h.clientsMux.RUnlock()

	for _, client := range targets {
		h.sendToClient(client, data)
		metrics.RecordWebsocketEvent(event)
	}
}

// IsConnected reports whether the user has a live connection, on this
// instance or (via the shared cache) on any other.
func (h *ChatHub) IsConnected(userID string) bool {
	h.clientsMux.RLock()
	_, ok := h.clients[userID]
	h.clientsMux.RUnlock()
	if ok {
		return true
	}
	if h.cache != nil && h.cache.IsEnabled() {
		if v, err := h.cache.Get("presence:" + userID); err == nil && v == "1" {
			return true
		}
	}
	return false
}

// ConnectedCount returns the number of live connections.
func (h *ChatHub) ConnectedCount() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

func (h *ChatHub) sendToClient(client *ChatClient, data []byte) {
	select {
	case client.Send <- data:
	default:
		// Send buffer full, drop the connection
		h.unregister <- client
		client.Conn.Close()
	}
}

func (h *ChatHub) pingClients() {
	data, _ := json.Marshal(&ChatEvent{Event: "ping", Data: map[string]interface{}{
		"timestamp": time.Now().Unix(),
	}})

	h.clientsMux.RLock()
	clients := make([]*ChatClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.clientsMux.RUnlock()

	for _, client := range clients {
		h.sendToClient(client, data)
		h.setPresence(client.UserID, true)
	}
}

func (h *ChatHub) cleanupStaleConnections() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	now := time.Now()
	for id, client := range h.clients {
		if now.Sub(client.LastPing) > 2*time.Minute {
			delete(h.clients, id)
			close(client.Send)
			client.Conn.Close()
			h.log.Debug("removed stale chat connection", zap.String("user", id))
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients authenticate with a bearer token, not cookies
		return true
	},
}

// ServeWS upgrades an authenticated request to a chat websocket.
func (h *ChatHub) ServeWS(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &ChatClient{
		UserID:   user.ID.Hex(),
		Conn:     conn,
		Hub:      h,
		Send:     make(chan []byte, 64),
		LastPing: time.Now(),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *ChatClient) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Debug("websocket read", zap.Error(err))
			}
			break
		}

		var ev ChatEvent
		if err := json.Unmarshal(message, &ev); err == nil && ev.Event == "pong" {
			c.LastPing = time.Now()
		}
	}
}

func (c *ChatClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Coalesce queued messages
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
