package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/kevinaaaquil/library-graphql/metrics"
	"github.com/kevinaaaquil/library-graphql/models"
)

// DefaultSubscriberBuffer is the number of undelivered events a subscriber
// may hold before further events are dropped for it.
const DefaultSubscriberBuffer = 16

var ErrNotifierClosed = errors.New("notifier closed")

// BookAdded is the payload published when a book is created.
type BookAdded struct {
	Book   models.Book
	Author models.Author
}

// BookNotifier fans bookAdded events out to live subscribers. Delivery is
// best effort: Publish never blocks, late subscribers get no replay, and a
// subscriber whose buffer is full misses the event.
type BookNotifier struct {
	mu      sync.RWMutex
	subs    map[uuid.UUID]chan BookAdded
	closed  bool
	buffer  int
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewBookNotifier(buffer int, logger zerolog.Logger, m *metrics.Metrics) *BookNotifier {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &BookNotifier{
		subs:    make(map[uuid.UUID]chan BookAdded),
		buffer:  buffer,
		log:     logger,
		metrics: m,
	}
}

// Subscribe registers a subscriber for the lifetime of ctx. The returned
// channel is closed when ctx ends or the notifier is closed.
func (n *BookNotifier) Subscribe(ctx context.Context) (<-chan BookAdded, error) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil, ErrNotifierClosed
	}
	id := uuid.New()
	ch := make(chan BookAdded, n.buffer)
	n.subs[id] = ch
	count := len(n.subs)
	n.mu.Unlock()

	n.metrics.SetSubscribers(count)
	n.log.Debug().Str("subscriber", id.String()).Int("subscribers", count).Msg("bookAdded subscribed")

	go func() {
		<-ctx.Done()
		n.unsubscribe(id)
	}()
	return ch, nil
}

func (n *BookNotifier) unsubscribe(id uuid.UUID) {
	n.mu.Lock()
	ch, ok := n.subs[id]
	if ok {
		delete(n.subs, id)
		close(ch)
	}
	count := len(n.subs)
	n.mu.Unlock()
	if ok {
		n.metrics.SetSubscribers(count)
		n.log.Debug().Str("subscriber", id.String()).Int("subscribers", count).Msg("bookAdded unsubscribed")
	}
}

// Publish hands ev to every subscriber and returns how many received it.
func (n *BookNotifier) Publish(ev BookAdded) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return 0
	}
	delivered := 0
	for id, ch := range n.subs {
		select {
		case ch <- ev:
			delivered++
		default:
			n.metrics.EventDropped()
			n.log.Warn().Str("subscriber", id.String()).Msg("subscriber buffer full, bookAdded dropped")
		}
	}
	return delivered
}

func (n *BookNotifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Close ends every subscription. Publish after Close is a no-op.
func (n *BookNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
	n.metrics.SetSubscribers(0)
}
