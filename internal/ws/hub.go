package ws

import (
	"sync"

	"loteria-service/internal/service/game"
	"loteria-service/pkg/logger"

	"go.uber.org/zap"
)

type Event struct {
	Type string      `json:"type"` // state | closed
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data,omitempty"`
}

// Hub fans game snapshots out to websocket subscribers. It implements
// game.Notifier; the game service publishes after each committed mutation
// and the hub never touches game logic.
type Hub struct {
	mu   sync.Mutex
	seq  int64
	subs map[int64]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[int64]map[chan Event]struct{}),
	}
}

// Subscribe registers a listener for one game. The returned cancel func must
// be called when the connection goes away.
func (h *Hub) Subscribe(gameID int64) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	set, ok := h.subs[gameID]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subs[gameID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[gameID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, gameID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) PublishState(gameID int64, snap *game.StateSnapshot) {
	h.publish(gameID, "state", snap)
}

// PublishClosed tells subscribers the game is gone and drops them.
func (h *Hub) PublishClosed(gameID int64) {
	h.publish(gameID, "closed", nil)

	h.mu.Lock()
	if set, ok := h.subs[gameID]; ok {
		for ch := range set {
			close(ch)
		}
		delete(h.subs, gameID)
	}
	h.mu.Unlock()
}

func (h *Hub) publish(gameID int64, eventType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	event := Event{Type: eventType, Seq: h.seq, Data: data}
	for ch := range h.subs[gameID] {
		select {
		case ch <- event:
		default:
			logger.Log.Warn("ws subscriber channel full", zap.Int64("gameID", gameID))
		}
	}
}
