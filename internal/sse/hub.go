package sse

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/ReelSpin_Go/internal/event"
	"github.com/osse101/ReelSpin_Go/internal/metrics"
)

// Event is one message on the wire
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Theme     string `json:"theme,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
	Payload   any    `json:"payload"`
}

// Client is one open stream. EventChannel is closed when the client is
// unregistered or the hub stops.
type Client struct {
	ID           string
	EventChannel chan Event

	theme   string          // empty means every machine
	types   map[string]bool // nil means every type
	dropped atomic.Int64
}

func (c *Client) wants(evt Event) bool {
	if c.types != nil && !c.types[evt.Type] {
		return false
	}
	// Theme-less events (history refresh) go to everyone
	return c.theme == "" || evt.Theme == "" || evt.Theme == c.theme
}

// offer never blocks; a full client buffer loses the event
func (c *Client) offer(evt Event) {
	select {
	case c.EventChannel <- evt:
	default:
		c.dropped.Add(1)
		metrics.StreamDropped.WithLabelValues(evt.Type).Inc()
	}
}

// Dropped is how many events this client missed because it read too slowly
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// Hub fans events out to stream clients. Broadcast only enqueues; a single
// goroutine started by Start does the delivery so publishers (reel frame
// loops among them) never wait on a network write.
type Hub struct {
	queue chan Event
	done  chan struct{}

	mu      sync.RWMutex
	clients map[string]*Client
	stopped bool

	// backlog holds the last BacklogSize replayable events, oldest first
	backlog []Event

	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHub creates a hub. Nothing is delivered until Start.
func NewHub() *Hub {
	return &Hub{
		queue:   make(chan Event, BroadcastBufferSize),
		done:    make(chan struct{}),
		clients: make(map[string]*Client),
	}
}

// Start launches the delivery goroutine
func (h *Hub) Start() {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case evt := <-h.queue:
				h.deliver(evt)
			case <-h.done:
				return
			}
		}
	}()
}

// Stop ends delivery and closes every open stream. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		h.mu.Lock()
		defer h.mu.Unlock()
		h.stopped = true
		for id, c := range h.clients {
			close(c.EventChannel)
			delete(h.clients, id)
			metrics.StreamClients.Dec()
		}
	})
}

func (h *Hub) deliver(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if replayable(evt) {
		if len(h.backlog) == BacklogSize {
			copy(h.backlog, h.backlog[1:])
			h.backlog = h.backlog[:BacklogSize-1]
		}
		h.backlog = append(h.backlog, evt)
	}
	for _, c := range h.clients {
		if c.wants(evt) {
			c.offer(evt)
		}
	}
}

// replayable leaves per-frame reel positions out of the backlog; a
// reconnecting client only needs session milestones.
func replayable(evt Event) bool {
	return evt.Type != string(event.ReelFrame)
}

// Register opens a stream. theme narrows it to one machine and eventTypes to
// the listed types. After Stop the returned stream is already closed.
func (h *Hub) Register(theme string, eventTypes []string) *Client {
	return h.RegisterSince(theme, eventTypes, "")
}

// RegisterSince opens a stream and first queues the backlogged events that
// followed lastEventID. An unknown ID replays nothing.
func (h *Hub) RegisterSince(theme string, eventTypes []string, lastEventID string) *Client {
	c := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Event, ClientEventBuffer),
		theme:        theme,
	}
	if len(eventTypes) > 0 {
		c.types = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			c.types[t] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		close(c.EventChannel)
		return c
	}
	if lastEventID != "" {
		for _, evt := range h.backlogAfter(lastEventID) {
			if c.wants(evt) {
				c.offer(evt)
			}
		}
	}
	h.clients[c.ID] = c
	metrics.StreamClients.Inc()
	return c
}

func (h *Hub) backlogAfter(id string) []Event {
	for i := len(h.backlog) - 1; i >= 0; i-- {
		if h.backlog[i].ID == id {
			return h.backlog[i+1:]
		}
	}
	return nil
}

// Unregister closes and forgets a stream
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.EventChannel)
		delete(h.clients, clientID)
		metrics.StreamClients.Dec()
	}
}

// Broadcast queues an event for interested clients. It never blocks and
// reports false when the queue was full and the event was dropped.
func (h *Hub) Broadcast(evt Event) bool {
	if evt.ID == "" {
		evt.ID = uuid.New().String()
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().UnixMilli()
	}

	select {
	case h.queue <- evt:
		return true
	default:
		metrics.StreamDropped.WithLabelValues(evt.Type).Inc()
		return false
	}
}

// ClientCount returns the number of open streams
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders an event in text/event-stream framing
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", evt.Type, err)
	}
	return fmt.Appendf(nil, "id: %s\nevent: %s\ndata: %s\n\n", evt.ID, evt.Type, data), nil
}
