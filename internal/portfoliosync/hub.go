// Package portfoliosync pushes portfolio snapshots to interested sessions
// and reconciles them with local edits.
//
// Publishing never blocks: a subscriber whose buffer is full misses that
// snapshot and catches up with the next one, since every snapshot carries
// the complete list.
package portfoliosync

import (
	"log/slog"
	"sync"

	"github.com/investifai/investif/internal/model"
)

// DefaultBuffer is the per-subscription channel capacity.
const DefaultBuffer = 8

// Hub fans snapshots out to per-user subscriptions.
type Hub struct {
	buffer int
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// NewHub creates a Hub whose subscriptions buffer up to buffer snapshots.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		buffer: buffer,
		logger: logger,
		subs:   make(map[string]map[*Subscription]struct{}),
	}
}

// Subscription receives the snapshots of one user.
type Subscription struct {
	hub    *Hub
	userID string
	ch     chan model.Snapshot
	once   sync.Once
}

// Subscribe registers a new subscription for userID.
func (h *Hub) Subscribe(userID string) *Subscription {
	s := &Subscription{
		hub:    h,
		userID: userID,
		ch:     make(chan model.Snapshot, h.buffer),
	}
	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Publish delivers snap to every subscription of snap.UserID and returns
// how many received it.
func (h *Hub) Publish(snap model.Snapshot) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for s := range h.subs[snap.UserID] {
		select {
		case s.ch <- snap:
			delivered++
		default:
			h.logger.Warn("dropping portfolio snapshot for slow subscriber", "user_id", snap.UserID)
		}
	}
	return delivered
}

// Subscribers returns the number of open subscriptions of userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// C returns the channel snapshots arrive on. It is closed by Close.
func (s *Subscription) C() <-chan model.Snapshot {
	return s.ch
}

// Drain returns the pending snapshots without blocking.
func (s *Subscription) Drain() []model.Snapshot {
	var out []model.Snapshot
	for {
		select {
		case snap, ok := <-s.ch:
			if !ok {
				return out
			}
			out = append(out, snap)
		default:
			return out
		}
	}
}

// Close unregisters the subscription and closes its channel. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		delete(h.subs[s.userID], s)
		if len(h.subs[s.userID]) == 0 {
			delete(h.subs, s.userID)
		}
		close(s.ch)
		h.mu.Unlock()
	})
}
