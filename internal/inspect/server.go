package inspect

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/phosphor/internal/core/events/bus"
	"github.com/zeusync/phosphor/internal/core/observability/log"
)

// Bus event published when a client connects or disconnects. The payload is
// a Session.
const EventSession = "inspect.session"

// RequestSnapshot is the text message a client sends to get the latest
// snapshot again.
const RequestSnapshot = "snapshot"

const (
	writeWait  = 2 * time.Second
	sendBuffer = 8
)

var ErrServerClosed = errors.New("inspect: server closed")

type Session struct {
	ID     uuid.UUID
	Remote string
	Open   bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

type client struct {
	id     uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	remote string
}

// Server fans snapshots out to websocket clients. A client that cannot keep
// up misses snapshots instead of slowing the driver.
type Server struct {
	logger log.Log
	events bus.EventBus

	mu      sync.Mutex
	clients map[uuid.UUID]*client
	latest  []byte
	closed  bool
}

func NewServer(logger log.Log, events bus.EventBus) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Server{
		logger:  logger,
		events:  events,
		clients: make(map[uuid.UUID]*client),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("inspect upgrade failed", log.Error(err))
		return
	}

	c := &client{
		id:     uuid.New(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		remote: conn.RemoteAddr().String(),
	}
	if err = s.add(c); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()))
		_ = conn.Close()
		return
	}
	go c.writeLoop()

	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if kind == websocket.TextMessage && string(msg) == RequestSnapshot {
			s.resend(c.id)
		}
	}
	s.remove(c.id)
}

func (s *Server) add(c *client) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrServerClosed
	}
	s.clients[c.id] = c
	if s.latest != nil {
		c.send <- s.latest
	}
	s.mu.Unlock()

	s.logger.Info("inspector connected",
		log.Stringer("client", c.id),
		log.String("remote", c.remote),
	)
	s.publish(Session{ID: c.id, Remote: c.remote, Open: true})
	return nil
}

func (s *Server) remove(id uuid.UUID) {
	s.mu.Lock()
	c, ok := s.clients[id]
	if ok {
		delete(s.clients, id)
		close(c.send)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	s.logger.Info("inspector disconnected", log.Stringer("client", id))
	s.publish(Session{ID: id, Remote: c.remote, Open: false})
}

func (s *Server) resend(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[id]; ok && s.latest != nil {
		offer(c, s.latest)
	}
}

// Broadcast queues msg for every client and keeps it for late joiners.
func (s *Server) Broadcast(msg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.latest = msg
	for _, c := range s.clients {
		if !offer(c, msg) {
			s.logger.Debug("inspector lagging, snapshot dropped", log.Stringer("client", c.id))
		}
	}
}

func offer(c *client, msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client and refuses new ones.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	clients := s.clients
	s.clients = make(map[uuid.UUID]*client)
	for _, c := range clients {
		close(c.send)
	}
	s.mu.Unlock()

	for id, c := range clients {
		s.publish(Session{ID: id, Remote: c.remote, Open: false})
	}
}

// ListenAndServe serves the inspector at addr+path until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, s)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("inspector listening", log.String("addr", addr), log.String("path", path))
	err := srv.ListenAndServe()
	s.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) publish(sess Session) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(bus.NewEvent(EventSession, "inspect", sess)); err != nil {
		s.logger.Warn("session handler error", log.Error(err))
	}
}

// writeLoop owns all writes to the connection. It ends when send is closed,
// after telling the peer.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
