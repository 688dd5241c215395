package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/canemu/internal/can"
	"github.com/muurk/canemu/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Outbound messages queued per client before updates are dropped
	sendQueueSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Debug tooling runs from arbitrary local origins
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FrameRequest is a bus call submitted by a WebSocket client
type FrameRequest struct {
	Op       string `json:"op,omitempty"` // "send" (default) or "receive"
	ID       uint32 `json:"id"`
	IDMask   uint32 `json:"id_mask,omitempty"`
	Data     []int  `json:"data,omitempty"`
	DataSize *int   `json:"data_size,omitempty"`
	PeriodMs int32  `json:"period_ms,omitempty"`
}

// ReceiveResponse answers a receive request
type ReceiveResponse struct {
	ID      uint32 `json:"id"`
	Present bool   `json:"present"`
}

// ErrorResponse answers a request that failed
type ErrorResponse struct {
	Error string `json:"error"`
}

// payload converts Data to bytes and resolves the data size
func (req *FrameRequest) payload() ([]byte, uint8, error) {
	data := make([]byte, len(req.Data))
	for i, v := range req.Data {
		if v < 0 || v > 255 {
			return nil, 0, fmt.Errorf("data[%d] = %d is not a byte", i, v)
		}
		data[i] = byte(v)
	}

	size := len(data)
	if req.DataSize != nil {
		size = *req.DataSize
	}
	if size < 0 || size > 255 {
		return nil, 0, fmt.Errorf("data_size %d out of range", size)
	}
	return data, uint8(size), nil
}

type client struct {
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	closeOnce  sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// hub fans device updates out to every connected client
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

func (h *hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// deliver queues msg for c unless c has been unregistered
func (h *hub) deliver(c *client, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		logging.Warn("Client queue full, dropping reply",
			zap.String("remote_addr", c.remoteAddr),
		)
	}
}

// DeviceUpdated implements bus.Observer
func (h *hub) DeviceUpdated(dev can.Device) {
	msg := []byte(dev.Serialize())

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			logging.Warn("Client queue full, dropping device update",
				zap.String("remote_addr", c.remoteAddr),
				zap.Uint8("device_id", dev.ID),
			)
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &client{
		conn:       conn,
		send:       make(chan []byte, sendQueueSize),
		remoteAddr: r.RemoteAddr,
	}
	logging.LogConnection(c.remoteAddr, "websocket_upgraded")

	s.subscribe(c)

	go c.writePump()
	s.readPump(c)
}

// subscribe registers c for live updates, then queues the current state.
// The snapshot is queued while the registry is held, so every update
// stored after it reaches c after it.
func (s *Server) subscribe(c *client) {
	s.hub.register(c)
	s.emu.View(func(devs []can.Device) {
		for _, dev := range devs {
			s.hub.deliver(c, []byte(dev.Serialize()))
		}
	})
}

// readPump handles requests from one client until the connection closes
func (s *Server) readPump(c *client) {
	defer func() {
		s.hub.unregister(c)
		_ = c.conn.Close()
		logging.LogConnection(c.remoteAddr, "websocket_closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("Connection closed or error reading message",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}

		if reply := s.handleRequest(data); reply != nil {
			s.hub.deliver(c, reply)
		}
	}
}

// handleRequest runs one client request and returns the reply, if any
func (s *Server) handleRequest(data []byte) []byte {
	var req FrameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorReply(fmt.Errorf("invalid request: %w", err))
	}

	switch req.Op {
	case "", "send":
		payload, size, err := req.payload()
		if err != nil {
			return errorReply(err)
		}
		if err := s.emu.SendMessage(req.ID, payload, size, req.PeriodMs); err != nil {
			return errorReply(err)
		}
		return nil
	case "receive":
		present := s.emu.ReceiveMessage(req.ID, req.IDMask)
		reply, _ := json.Marshal(ReceiveResponse{ID: req.ID, Present: present})
		return reply
	default:
		return errorReply(fmt.Errorf("unknown op %q", req.Op))
	}
}

func errorReply(err error) []byte {
	reply, _ := json.Marshal(ErrorResponse{Error: err.Error()})
	return reply
}

// writePump owns all writes to the connection
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logging.Info("Failed to write message",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
