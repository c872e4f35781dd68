// Package ws pushes payload-less change notifications to browsers over
// WebSocket. A message carries only an event name; clients re-fetch the
// lobby or round state over HTTP when they receive one, so a dropped or
// coalesced message costs nothing but an extra poll.
package ws

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Lobby codes are the access control; the origin is not.
		return true
	},
}

type client struct {
	conn       *websocket.Conn
	send       chan string
	playerName string
}

// Hub groups connected clients by lobby code and broadcasts event
// names to a whole group at once.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[*client]struct{})}
}

func (h *Hub) register(code string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, exists := h.groups[code]
	if !exists {
		group = make(map[*client]struct{})
		h.groups[code] = group
	}
	group[c] = struct{}{}
	debugLog("ws: client registered lobby=%s player=%s total=%d", code, c.playerName, len(group))
}

func (h *Hub) unregister(code string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, exists := h.groups[code]
	if !exists {
		return
	}
	if _, ok := group[c]; !ok {
		return
	}
	delete(group, c)
	close(c.send)
	if len(group) == 0 {
		delete(h.groups, code)
	}
	debugLog("ws: client unregistered lobby=%s player=%s", code, c.playerName)
}

// Notify broadcasts an event name to every client watching the lobby.
// Sends never block: a client that cannot keep up misses the event and
// catches up on its next poll.
func (h *Hub) Notify(lobbyCode, event string) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.groups[lobbyCode]))
	for c := range h.groups[lobbyCode] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- event:
		default:
			debugLog("ws: dropping event %q for slow client player=%s", event, c.playerName)
		}
	}
}

// ConnectedPlayers returns the names of players with a live connection
// to the lobby. Presence only; game membership lives in the lobby.
func (h *Hub) ConnectedPlayers(lobbyCode string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.groups[lobbyCode]))
	for c := range h.groups[lobbyCode] {
		names = append(names, c.playerName)
	}
	return names
}

// Serve upgrades the request and pumps events until the client goes
// away. Disconnects only drop the socket; lobby membership is never
// touched here, so a page refresh costs nothing.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, lobbyCode, playerName string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed lobby=%s: %v", lobbyCode, err)
		return
	}
	c := &client{conn: conn, send: make(chan string, 16), playerName: playerName}
	h.register(lobbyCode, c)

	go h.writePump(lobbyCode, c)
	h.readPump(lobbyCode, c)
}

func (h *Hub) writePump(code string, c *client) {
	for event := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(event)); err != nil {
			debugLog("ws: write failed lobby=%s player=%s: %v", code, c.playerName, err)
			break
		}
	}
	c.conn.Close()
}

// readPump discards inbound frames; the protocol is one-way. Its real
// job is noticing the close.
func (h *Hub) readPump(code string, c *client) {
	defer h.unregister(code, c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func debugLog(format string, v ...any) {
	if os.Getenv("DEBUG") != "" {
		log.Printf(format, v...)
	}
}
