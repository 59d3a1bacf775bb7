package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runHub is the main Hub loop
func (s *DashboardServer) runHub() {
	for {
		select {
		case client := <-s.register:
			s.addClient(client)

		case client := <-s.unregister:
			s.removeClient(client)

		case event := <-s.broadcast:
			s.fanOut(event)

		case <-s.done:
			// Drain here rather than in Stop: fan-out and channel close
			// must share the Hub goroutine
			for _, client := range s.snapshotClients() {
				s.removeClient(client)
			}
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Connection Registry
// -----------------------------------------------------------------------------

func (s *DashboardServer) addClient(client *Client) {
	s.clientsMu.Lock()
	s.clients[client] = struct{}{}
	count := len(s.clients)
	s.clientsMu.Unlock()
	s.Logger.Info("Client %s connected (%d active)", client.ID, count)
}

// -----------------------------------------------------------------------------

// removeClient unregisters a client. Removing an absent client is a no-op,
// so the disconnect paths (read failure, write failure, hub prune) can all
// call it without coordination.
func (s *DashboardServer) removeClient(client *Client) {
	s.clientsMu.Lock()
	_, ok := s.clients[client]
	if ok {
		delete(s.clients, client)
		close(client.send)
	}
	count := len(s.clients)
	s.clientsMu.Unlock()

	if ok {
		s.Logger.Info("Client %s disconnected (%d active)", client.ID, count)
	}
}

// -----------------------------------------------------------------------------

// snapshotClients returns the current connection set for fan-out iteration.
func (s *DashboardServer) snapshotClients() []*Client {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	snapshot := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		snapshot = append(snapshot, client)
	}
	return snapshot
}

// -----------------------------------------------------------------------------

// ClientCount returns the number of registered connections.
func (s *DashboardServer) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// -----------------------------------------------------------------------------
// Broadcast Engine
// -----------------------------------------------------------------------------

// fanOut delivers one event to every client in a snapshot taken at call
// time. A client whose send buffer is full or already closed is pruned;
// that never blocks delivery to the remaining clients and never fails the
// fan-out itself.
func (s *DashboardServer) fanOut(event map[string]interface{}) {
	for _, client := range s.snapshotClients() {
		select {
		case client.send <- event:
			// Delivered
		default:
			// Client too slow or gone; prune so the Hub never blocks
			s.removeClient(client)
		}
	}
}

// -----------------------------------------------------------------------------

// Broadcast queues one event for fan-out to all connected clients.
// Best effort: it never reports per-client outcomes.
func (s *DashboardServer) Broadcast(event map[string]interface{}) {
	s.broadcast <- event
}

// -----------------------------------------------------------------------------
// WebSocket Handler
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := newClient(s, conn)
	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}
