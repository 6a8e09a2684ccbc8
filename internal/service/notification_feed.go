package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
)

// ToastDuration is how long the console shows a notification toast.
const ToastDuration = 5 * time.Second

const (
	maxNotifications     = 100
	listenerBufferSize   = 16
	notificationFeedName = "admin-notifications"
)

// ChangeSubscriber opens realtime subscriptions. *realtime.Broker implements it.
type ChangeSubscriber interface {
	Subscribe(name string, topics ...realtime.Topic) *realtime.Subscription
}

// NotificationFeed turns new registrations and contact messages into admin
// notifications. State lives in memory for the life of the process.
type NotificationFeed struct {
	subscriber ChangeSubscriber
	now        func() time.Time

	mu        sync.Mutex
	items     []model.Notification
	unread    int
	nextID    int64
	listeners map[int64]chan model.Notification
	nextLis   int64

	sub  *realtime.Subscription
	done chan struct{}
}

// NewNotificationFeed creates a stopped feed.
func NewNotificationFeed(subscriber ChangeSubscriber) *NotificationFeed {
	return &NotificationFeed{
		subscriber: subscriber,
		now:        time.Now,
		listeners:  make(map[int64]chan model.Notification),
	}
}

// Start subscribes to inserts on registrations and messages.
func (f *NotificationFeed) Start() {
	f.mu.Lock()
	if f.sub != nil {
		f.mu.Unlock()
		return
	}
	f.sub = f.subscriber.Subscribe(notificationFeedName,
		realtime.Topic{Table: "registrations", Events: []realtime.EventType{realtime.Insert}},
		realtime.Topic{Table: "messages", Events: []realtime.EventType{realtime.Insert}},
	)
	f.done = make(chan struct{})
	sub, done := f.sub, f.done
	f.mu.Unlock()

	go f.run(sub, done)
}

func (f *NotificationFeed) run(sub *realtime.Subscription, done chan struct{}) {
	defer close(done)
	statuses := sub.Statuses()
	changes := sub.Changes()
	for changes != nil || statuses != nil {
		select {
		case c, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			n, err := notificationFromChange(c)
			if err != nil {
				slog.Warn("notification skipped", "table", c.Table, "error", err)
				continue
			}
			f.push(n)
		case st, ok := <-statuses:
			if !ok {
				statuses = nil
				continue
			}
			slog.Info("notification feed status", "status", st)
		}
	}
}

// Stop tears down the subscription and closes every listener channel.
func (f *NotificationFeed) Stop() {
	f.mu.Lock()
	sub, done := f.sub, f.done
	f.sub = nil
	f.mu.Unlock()
	if sub == nil {
		return
	}
	sub.Close()
	<-done

	f.mu.Lock()
	for id, ch := range f.listeners {
		close(ch)
		delete(f.listeners, id)
	}
	f.mu.Unlock()
}

func notificationFromChange(c realtime.Change) (model.Notification, error) {
	var row map[string]any
	if err := c.Decode(&row); err != nil {
		return model.Notification{}, err
	}
	str := func(key string) string {
		if v, ok := row[key].(string); ok {
			return v
		}
		return ""
	}
	switch c.Table {
	case "registrations":
		return model.Notification{
			Type:    model.NotificationRegistration,
			Title:   "Nova Inscrição!",
			Message: fmt.Sprintf("%s inscreveu-se em %s", str("user_name"), str("event_name")),
		}, nil
	case "messages":
		sender := str("sender")
		if sender == "" {
			sender = str("name")
		}
		return model.Notification{
			Type:    model.NotificationMessage,
			Title:   "Nova Mensagem!",
			Message: fmt.Sprintf("De: %s - %s", sender, str("subject")),
		}, nil
	default:
		return model.Notification{}, fmt.Errorf("no notification for table %q", c.Table)
	}
}

func (f *NotificationFeed) push(n model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	n.ID = f.nextID
	n.Time = f.now()
	n.Read = false
	n.Sound = true

	f.items = append([]model.Notification{n}, f.items...)
	if len(f.items) > maxNotifications {
		f.items = f.items[:maxNotifications]
	}
	f.unread++

	for _, ch := range f.listeners {
		select {
		case ch <- n:
		default:
			slog.Warn("notification listener full, dropping", "notification_id", n.ID)
		}
	}
}

// List returns the notifications newest first.
func (f *NotificationFeed) List() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// Unread returns the unread counter.
func (f *NotificationFeed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// MarkAllRead flags every notification read and zeroes the counter.
func (f *NotificationFeed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i].Read = true
	}
	f.unread = 0
}

// Listen returns a stream of new notifications and a func that stops it.
func (f *NotificationFeed) Listen() (<-chan model.Notification, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextLis++
	id := f.nextLis
	ch := make(chan model.Notification, listenerBufferSize)
	f.listeners[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if c, ok := f.listeners[id]; ok {
				close(c)
				delete(f.listeners, id)
			}
		})
	}
}
