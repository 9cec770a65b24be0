package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

// Connection wraps a websocket connection with serialized writes.
type Connection struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewConnection(conn *websocket.Conn) *Connection {
	return &Connection{conn: conn}
}

// Send writes a message to the peer. Safe for concurrent use.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// ReadMessage blocks for the next client message.
func (c *Connection) ReadMessage() (Message, error) {
	var msg Message
	err := c.conn.ReadJSON(&msg)
	return msg, err
}

// Close closes the underlying connection.
func (c *Connection) Close() error {
	return c.conn.Close()
}

// Hub manages watcher connections and broadcasts session events to
// subscribers (a parent or teacher following a child's quiz run).
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection // watcher_id -> connection
	sessions    map[uuid.UUID][]uuid.UUID // session_id -> []watcher_id
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		sessions:    make(map[uuid.UUID][]uuid.UUID),
		logger:      logger,
	}
}

// RegisterConnection adds a connection for a watcher, closing any previous one.
func (h *Hub) RegisterConnection(watcherID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.connections[watcherID]; exists {
		old.Close()
	}
	h.connections[watcherID] = conn
	h.logger.Info().Str("watcher_id", watcherID.String()).Msg("feed connection registered")
}

// UnregisterConnection removes a connection and all its subscriptions.
func (h *Hub) UnregisterConnection(watcherID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[watcherID]; exists {
		conn.Close()
		delete(h.connections, watcherID)
		h.logger.Info().Str("watcher_id", watcherID.String()).Msg("feed connection unregistered")
	}

	for sessionID, watchers := range h.sessions {
		for i, id := range watchers {
			if id == watcherID {
				h.sessions[sessionID] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
	}
}

// Subscribe adds a watcher to a session's feed.
func (h *Hub) Subscribe(sessionID, watcherID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers := h.sessions[sessionID]
	for _, id := range watchers {
		if id == watcherID {
			return
		}
	}
	h.sessions[sessionID] = append(watchers, watcherID)
}

// Unsubscribe removes a watcher from a session's feed.
func (h *Hub) Unsubscribe(sessionID, watcherID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers := h.sessions[sessionID]
	for i, id := range watchers {
		if id == watcherID {
			h.sessions[sessionID] = append(watchers[:i], watchers[i+1:]...)
			break
		}
	}
}

// BroadcastToSession sends a message to every watcher of a session.
// Send failures are logged and skipped; the read loop reaps dead peers.
func (h *Hub) BroadcastToSession(sessionID uuid.UUID, msg Message) {
	h.mu.RLock()
	watchers := make([]uuid.UUID, len(h.sessions[sessionID]))
	copy(watchers, h.sessions[sessionID])
	h.mu.RUnlock()

	for _, watcherID := range watchers {
		h.mu.RLock()
		conn, ok := h.connections[watcherID]
		h.mu.RUnlock()
		if !ok {
			continue
		}
		if err := conn.Send(msg); err != nil {
			h.logger.Warn().Err(err).Str("watcher_id", watcherID.String()).Msg("feed send failed")
		}
	}
}

// WatcherCount reports how many watchers follow a session.
func (h *Hub) WatcherCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
