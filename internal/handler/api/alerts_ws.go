package api

import (
	"net/http"
	"sync"
	"time"

	"NoChurn/internal/domain/models"
	xlogger "NoChurn/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamSendBuffer = 64
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

// AlertStream pushes fired alert events to dashboard clients over
// WebSocket. Slow clients have events dropped rather than blocking the
// evaluation path.
type AlertStream struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan *models.AlertEvent
}

// NewAlertStream creates the stream hub.
func NewAlertStream(logger *xlogger.Logger) *AlertStream {
	return &AlertStream{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan *models.AlertEvent),
	}
}

// Serve upgrades the connection and streams events until the client
// disconnects.
func (s *AlertStream) Serve(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}

	send := make(chan *models.AlertEvent, streamSendBuffer)
	s.mu.Lock()
	s.clients[conn] = send
	n := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("alert stream client connected", xlogger.Int("clients", n))

	go s.writeLoop(conn, send)
	s.readLoop(conn)
	return nil
}

// Broadcast delivers one event to every connected client without blocking.
func (s *AlertStream) Broadcast(e *models.AlertEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, send := range s.clients {
		select {
		case send <- e:
		default:
		}
	}
}

// Close disconnects all clients.
func (s *AlertStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, conn)
	}
	return nil
}

func (s *AlertStream) writeLoop(conn *websocket.Conn, send chan *models.AlertEvent) {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(e); err != nil {
				s.drop(conn)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.drop(conn)
				return
			}
		}
	}
}

// readLoop drains client frames so close and pong control messages are
// processed.
func (s *AlertStream) readLoop(conn *websocket.Conn) {
	defer s.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *AlertStream) drop(conn *websocket.Conn) {
	s.mu.Lock()
	send, ok := s.clients[conn]
	if ok {
		delete(s.clients, conn)
		close(send)
	}
	s.mu.Unlock()
	if ok {
		_ = conn.Close()
		s.logger.Info("alert stream client disconnected")
	}
}
