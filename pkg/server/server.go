// Package server hosts the webhook endpoint and drives the task pipeline:
// authenticate, generate, publish, notify. Each request runs the pipeline
// synchronously on its own handler goroutine; there is no shared task state.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alantheprice/pageforge/pkg/config"
	"github.com/alantheprice/pageforge/pkg/events"
	"github.com/alantheprice/pageforge/pkg/logging"
	"github.com/alantheprice/pageforge/pkg/notify"
	"github.com/alantheprice/pageforge/pkg/publish"
)

// CodeGenerator produces the deliverable file set for a task.
type CodeGenerator interface {
	Generate(ctx context.Context, brief string, attachments map[string]string, checks []string) (map[string]string, error)
}

// Publisher pushes a file set to the hosting service.
type Publisher interface {
	Publish(ctx context.Context, taskID string, files map[string]string, brief string) (*publish.Result, error)
}

// Notifier reports the publication result to the evaluation server.
type Notifier interface {
	Notify(ctx context.Context, evalURL string, payload notify.Payload) notify.Result
}

// Server is the HTTP front end for the task pipeline.
type Server struct {
	cfg      *config.Config
	gen      CodeGenerator
	pub      Publisher
	notifier Notifier
	bus      *events.Bus
	log      *logging.Logger

	httpServer  *http.Server
	upgrader    websocket.Upgrader
	connections sync.Map // map[*websocket.Conn]time.Time
	mutex       sync.RWMutex
	isRunning   bool
	startTime   time.Time

	// now is replaceable in tests; it dates the synthesized license.
	now func() time.Time
}

// New wires the pipeline components into a server.
func New(cfg *config.Config, gen CodeGenerator, pub Publisher, notifier Notifier, bus *events.Bus) *Server {
	return &Server{
		cfg:      cfg,
		gen:      gen,
		pub:      pub,
		notifier: notifier,
		bus:      bus,
		log:      logging.Get(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Routes returns the handler with all endpoints mounted.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api-endpoint", s.handleTask)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start begins serving and returns immediately. The server shuts down when
// the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mutex.Lock()
	if s.isRunning {
		s.mutex.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mutex.Unlock()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Routes(),
	}

	go s.broadcastLoop(s.bus.Subscribe("server"))

	go func() {
		s.log.Infof("pageforge listening on :%d", s.cfg.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown stops the server gracefully and closes all event-stream clients.
func (s *Server) Shutdown() error {
	s.mutex.Lock()
	if !s.isRunning {
		s.mutex.Unlock()
		return nil
	}
	s.isRunning = false
	s.mutex.Unlock()

	s.bus.Unsubscribe("server")

	s.connections.Range(func(conn, value interface{}) bool {
		if wsConn, ok := conn.(*websocket.Conn); ok {
			wsConn.Close()
		}
		return true
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// IsRunning reports whether Start has been called without a later Shutdown.
func (s *Server) IsRunning() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.isRunning
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"uptime": time.Since(s.startTime).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
