// Package ws pushes board change notifications to connected clients. The
// hub is an in-process broker: the gateway owns the board state, so there
// is no cross-instance fan-out to arrange.
package ws

import (
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Hub manages WebSocket connections per project channel.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{}
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan []byte]struct{})}
}

// Subscribe registers a listener on a project channel. The cleanup func
// must be called when the listener goes away.
func (h *Hub) Subscribe(projectID string) (<-chan []byte, func()) {
	ch := make(chan []byte, 64)

	h.mu.Lock()
	if h.subs[projectID] == nil {
		h.subs[projectID] = make(map[chan []byte]struct{})
	}
	h.subs[projectID][ch] = struct{}{}
	h.mu.Unlock()

	cleanup := func() {
		h.mu.Lock()
		if set, ok := h.subs[projectID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, projectID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cleanup
}

// Publish sends an event payload to every listener on a project channel.
// A slow listener's payload is dropped rather than blocking the publisher.
func (h *Hub) Publish(projectID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[projectID] {
		select {
		case ch <- payload:
		default:
		}
	}
}

// ServeBoard handles WebSocket connections for board updates. Every board
// revision bump and sprint transition for the project is pushed to the
// client as a BoardEvent.
func (h *Hub) ServeBoard(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		http.Error(w, "missing project id", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	messages, cleanup := h.Subscribe(projectID)
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
