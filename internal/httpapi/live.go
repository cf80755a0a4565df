package httpapi

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/staplero/staplero/internal/gating"
)

// progressUpdate is one message on the live feed.
type progressUpdate struct {
	Progress   int           `json:"progress"`
	NextAction gating.Action `json:"nextAction"`
}

// Hub fans progress updates out to a learner's open dashboard connections.
// Updates are best-effort: a subscriber that cannot keep up drops messages
// rather than blocking the request that produced them.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan progressUpdate]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan progressUpdate]bool)}
}

func subKey(userID, courseID string) string {
	return userID + "|" + courseID
}

// Subscribe registers a listener for one (user, course) pair. The returned
// cancel func must be called when the connection closes.
func (h *Hub) Subscribe(userID, courseID string) (<-chan progressUpdate, func()) {
	ch := make(chan progressUpdate, 8)
	key := subKey(userID, courseID)

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan progressUpdate]bool)
	}
	h.subs[key][ch] = true
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs[key], ch)
		if len(h.subs[key]) == 0 {
			delete(h.subs, key)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish sends an update to every subscriber of the (user, course) pair.
func (h *Hub) Publish(userID, courseID string, update progressUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[subKey(userID, courseID)] {
		select {
		case ch <- update:
		default:
		}
	}
}

// handleLive upgrades to a websocket and streams progress updates until the
// client disconnects.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	userID := UserID(r.Context())

	if _, err := s.courses.GetCourse(courseID); err != nil {
		writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	updates, cancel := s.hub.Subscribe(userID, courseID)
	defer cancel()

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case update := <-updates:
			if err := wsjson.Write(ctx, conn, update); err != nil {
				slog.Debug("live write failed", "user_id", userID, "error", err)
				return
			}
		}
	}
}
