package utility

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow CORS for development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub holds live connections waiting on an assessment: Map[AssessmentID] -> Connections
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*websocket.Conn]struct{})}
}

// Register a new client connection
func (h *Hub) Register(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[id] == nil {
		h.clients[id] = make(map[*websocket.Conn]struct{})
	}
	h.clients[id][conn] = struct{}{}
	log.Info().Str("assessment_id", id).Msg("WebSocket Client Connected")
}

// Unregister a client (when they close the tab)
func (h *Hub) Unregister(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(id, conn)
}

func (h *Hub) remove(id string, conn *websocket.Conn) {
	conns, ok := h.clients[id]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		delete(conns, conn)
		log.Info().Str("assessment_id", id).Msg("WebSocket Client Disconnected")
	}
	if len(conns) == 0 {
		delete(h.clients, id)
	}
}

// Count reports how many clients are waiting on id.
func (h *Hub) Count(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[id])
}

// Notify sends payload as JSON to every client waiting on id. Clients that
// fail the write are dropped. Writes happen outside the hub lock.
func (h *Hub) Notify(id string, payload any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients[id]))
	for conn := range h.clients[id] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(payload); err != nil {
			log.Error().Err(err).Str("assessment_id", id).Msg("Failed to send WS message, removing client")
			conn.Close()
			h.Unregister(id, conn)
		}
	}
}

// Serve upgrades the request and keeps the connection registered under id
// until the client goes away.
func (h *Hub) Serve(c echo.Context, id string) error {
	conn, err := Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		GetLogger(c).Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}
	defer conn.Close()

	h.Register(id, conn)
	defer h.Unregister(id, conn)

	// Clients never send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
