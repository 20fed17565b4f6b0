// Package events is the in-process change feed for the product catalog.
// The catalog service publishes a record per mutation; SSE handlers
// subscribe and replay a short backlog to newly attached clients.
package events

import "sync"

const (
	TypeProductCreated  = "product.created"
	TypeProductUpdated  = "product.updated"
	TypeProductImported = "product.imported"
)

const (
	DefaultBufferSize       = 50
	DefaultSubscriberBuffer = 16
)

// Event is one catalog change notification.
type Event struct {
	Type       string `json:"type"`
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	OccurredAt string `json:"occurred_at"`
}

type Hub struct {
	mu               sync.Mutex
	buffer           []Event
	subs             map[uint64]chan Event
	nextID           uint64
	bufferSize       int
	subscriberBuffer int
}

type Subscription struct {
	hub  *Hub
	id   uint64
	ch   chan Event
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subs:             make(map[uint64]chan Event),
		bufferSize:       DefaultBufferSize,
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

// Publish fans the event out to all subscribers. Slow subscribers drop
// events rather than block the publisher.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}

	h.mu.Lock()
	h.buffer = append(h.buffer, event)
	if len(h.buffer) > h.bufferSize {
		h.buffer = h.buffer[len(h.buffer)-h.bufferSize:]
	}
	subs := make([]chan Event, 0, len(h.subs))
	for _, ch := range h.subs {
		subs = append(subs, ch)
	}
	h.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a listener and returns it together with the
// buffered backlog of recent events.
func (h *Hub) Subscribe() (*Subscription, []Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	ch := make(chan Event, h.subscriberBuffer)
	h.subs[h.nextID] = ch

	backlog := make([]Event, len(h.buffer))
	copy(backlog, h.buffer)

	return &Subscription{hub: h, id: h.nextID, ch: ch}, backlog
}

// SubscriberCount reports how many subscriptions are attached.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Events is the channel of live events for this subscription.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close detaches the subscription from the hub. Safe to call twice.
// The channel is left open: Publish sends outside the hub lock, so
// closing here could race a concurrent send. Readers stop via their
// own context instead of channel close.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}
