// Package realtime pushes pipeline events to websocket subscribers.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"crmdash/internal/metrics"
	"crmdash/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 32
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

// Hub is the board feed. It satisfies services.EventPublisher.
type Hub struct {
	mu       sync.RWMutex
	subs     map[*subscriber]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		subs: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// токен уже проверен middleware
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Subscribers returns the number of open connections.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish sends ev to every subscriber. A subscriber whose buffer is full is dropped.
func (h *Hub) Publish(ev models.PipelineEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("[ws][publish] encode failed", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		select {
		case s.send <- b:
		default:
			h.log.Warn("[ws][publish] slow subscriber dropped", zap.String("remote", s.conn.RemoteAddr().String()))
			s.stop()
		}
	}
}

// ServeWS upgrades the request and blocks until the connection ends.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		return err
	}
	s := &subscriber{conn: conn, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	h.register(s)
	defer h.unregister(s)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writeLoop(s)
	}()
	h.readLoop(s)
	s.stop()
	<-writerDone
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		s.stop()
	}
}

func (h *Hub) register(s *subscriber) {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	metrics.BoardSubscribers.Inc()
	h.log.Info("[ws][connect]", zap.String("remote", s.conn.RemoteAddr().String()))
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
	_ = s.conn.Close()
	metrics.BoardSubscribers.Dec()
	h.log.Info("[ws][disconnect]", zap.String("remote", s.conn.RemoteAddr().String()))
}

// readLoop discards client frames; it only exists to see pongs and close.
func (h *Hub) readLoop(s *subscriber) {
	s.conn.SetReadLimit(4096)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("[ws][read] unexpected close", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writeLoop(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				_ = s.conn.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = s.conn.Close()
				return
			}
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			// закрытие соединения разбудит readLoop
			_ = s.conn.Close()
			return
		}
	}
}
