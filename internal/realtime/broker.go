package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Status is the health of the change feed as seen by a subscription.
type Status string

const (
	StatusSubscribed   Status = "SUBSCRIBED"
	StatusChannelError Status = "CHANNEL_ERROR"
	StatusClosed       Status = "CLOSED"
)

// DefaultBufferSize is the per-subscription change buffer.
const DefaultBufferSize = 256

const statusBufferSize = 8

// Broker fans changes out to subscriptions. It never blocks the
// publisher: a subscription whose buffer is full misses that change.
type Broker struct {
	mu      sync.RWMutex
	subs    map[string]*Subscription
	status  Status
	bufSize int
	closed  bool
}

// NewBroker creates a Broker whose subscriptions buffer bufSize changes.
// A non-positive size selects DefaultBufferSize.
func NewBroker(bufSize int) *Broker {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Broker{
		subs:    make(map[string]*Subscription),
		bufSize: bufSize,
	}
}

// Subscribe opens a subscription named name over topics. The current
// feed status, when known, is queued on Statuses immediately.
func (b *Broker) Subscribe(name string, topics ...Topic) *Subscription {
	s := &Subscription{
		ID:       uuid.NewString(),
		Name:     name,
		topics:   topics,
		changes:  make(chan Change, b.bufSize),
		statuses: make(chan Status, statusBufferSize),
		broker:   b,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.closeChannels()
		return s
	}
	b.subs[s.ID] = s
	status := b.status
	b.mu.Unlock()

	if status != "" {
		s.setStatus(status)
	}
	slog.Debug("realtime subscription opened", "subscription", s.ID, "name", name, "topics", len(topics))
	return s
}

// Publish delivers c to every matching subscription and returns how many
// received it.
func (b *Broker) Publish(c Change) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, s := range b.subs {
		if s.matches(c) && s.deliver(c) {
			delivered++
		}
	}
	return delivered
}

// SetStatus records the feed health and forwards it to every subscription.
func (b *Broker) SetStatus(st Status) {
	b.mu.Lock()
	if b.status == st {
		b.mu.Unlock()
		return
	}
	b.status = st
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	slog.Info("realtime feed status", "status", st, "subscriptions", len(subs))
	for _, s := range subs {
		s.setStatus(st)
	}
}

// Status returns the last status set, or "" before the feed connected.
func (b *Broker) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// Len returns the number of open subscriptions.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscription. Later Subscribe calls return
// subscriptions that are already closed.
func (b *Broker) Close() {
	b.mu.Lock()
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}

func (b *Broker) remove(id string) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Subscription is one consumer's view of the feed.
type Subscription struct {
	ID   string
	Name string

	topics   []Topic
	changes  chan Change
	statuses chan Status
	broker   *Broker

	mu     sync.Mutex
	closed bool
	once   sync.Once
}

// Changes streams matching changes in publish order. It is closed by Close.
func (s *Subscription) Changes() <-chan Change { return s.changes }

// Statuses streams feed health updates. CLOSED is the last value sent.
func (s *Subscription) Statuses() <-chan Status { return s.statuses }

// Topics returns the topics the subscription was opened with.
func (s *Subscription) Topics() []Topic { return s.topics }

// Close removes the subscription from its broker. It is safe to call
// more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.remove(s.ID)
		s.finalStatus()
		s.closeChannels()
		slog.Debug("realtime subscription closed", "subscription", s.ID, "name", s.Name)
	})
}

func (s *Subscription) closeChannels() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.changes)
	close(s.statuses)
}

func (s *Subscription) matches(c Change) bool {
	for _, t := range s.topics {
		if t.Matches(c) {
			return true
		}
	}
	return false
}

func (s *Subscription) deliver(c Change) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.changes <- c:
		return true
	default:
		slog.Warn("realtime subscription buffer full, dropping change",
			"subscription", s.ID, "name", s.Name, "table", c.Table, "type", c.Type)
		return false
	}
}

func (s *Subscription) setStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.statuses <- st:
	default:
	}
}

// finalStatus queues CLOSED, evicting the oldest pending status if needed.
func (s *Subscription) finalStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.statuses <- StatusClosed:
			return
		default:
		}
		select {
		case <-s.statuses:
		default:
		}
	}
}
