package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alantheprice/pageforge/pkg/events"
)

// handleWebSocket upgrades the connection and registers it for pipeline
// event broadcasts. The stream is read-only; inbound messages are drained
// solely to detect disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("websocket upgrade failed: %v", err)
		return
	}
	s.connections.Store(conn, time.Now())

	go func() {
		defer func() {
			s.connections.Delete(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcastLoop forwards bus events to every connected client. A single
// goroutine does all writes, so no per-connection write lock is needed.
// Clients that error out are dropped.
func (s *Server) broadcastLoop(ch <-chan events.Event) {
	for event := range ch {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		s.connections.Range(func(key, value interface{}) bool {
			conn, ok := key.(*websocket.Conn)
			if !ok {
				return true
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.connections.Delete(conn)
				conn.Close()
			}
			return true
		})
	}
}
