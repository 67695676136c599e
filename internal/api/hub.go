package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/echo-chamber/internal/engine"
)

const (
	viewerQueue  = 8
	writeTimeout = 5 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second
)

// Hub fans session views out to websocket viewers. It implements
// engine.Renderer; Render never blocks, and a viewer that falls behind
// drops frames rather than stalling the session.
type Hub struct {
	upgrader   websocket.Upgrader
	maxViewers int

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	last    []byte
}

type viewer struct {
	out chan []byte
}

// NewHub creates a hub accepting up to maxViewers connections from the
// given origins. An empty origin list accepts any origin.
func NewHub(maxViewers int, origins []string) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &Hub{
		maxViewers: maxViewers,
		viewers:    make(map[*viewer]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// Render encodes v once and queues it for every viewer.
func (h *Hub) Render(v engine.View) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("view not encoded", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = b
	for vw := range h.viewers {
		select {
		case vw.out <- b:
		default:
		}
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

func (h *Hub) join() (*viewer, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxViewers > 0 && len(h.viewers) >= h.maxViewers {
		return nil, false
	}
	vw := &viewer{out: make(chan []byte, viewerQueue)}
	if h.last != nil {
		vw.out <- h.last
	}
	h.viewers[vw] = struct{}{}
	return vw, true
}

func (h *Hub) leave(vw *viewer) {
	h.mu.Lock()
	delete(h.viewers, vw)
	h.mu.Unlock()
}

// ServeHTTP upgrades the request and streams views until the viewer
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vw, ok := h.join()
	if !ok {
		http.Error(w, "too many viewers", http.StatusServiceUnavailable)
		return
	}
	defer h.leave(vw)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	slog.Info("viewer connected", "remote", clientIP(r), "viewers", h.Viewers())

	done := make(chan struct{})

	// Writer goroutine.
	go func() {
		ping := time.NewTicker(pingInterval)
		defer ping.Stop()
		for {
			select {
			case <-done:
				return
			case b := <-vw.out:
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					conn.Close()
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	// Reader loop; viewers only send control frames.
	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	slog.Info("viewer disconnected", "remote", clientIP(r))
}
