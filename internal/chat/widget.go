// Package chat holds the live chat state machines that sit on top of the
// chat service and the realtime broker: the public visitor widget and the
// admin inbox.
//
// It is a client-side library. The server binary does not import it; an
// embedding front end (or a Go client talking to the same services) drives
// VisitorWidget and AdminInbox, and the package tests exercise them against
// an in-process broker.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

// WelcomeMessage is shown when a conversation has no history yet.
const WelcomeMessage = "Olá! Bem-vindo à Arena Eventos. Como posso ajudar?"

// FailedSuffix is appended to an optimistic message whose insert failed.
const FailedSuffix = " (Falha ao enviar)"

// ErrEmptyMessage is returned for a blank message; nothing is sent.
var ErrEmptyMessage = errors.New("empty message")

// WidgetState is the visitor widget state.
type WidgetState string

const (
	StateNoSession WidgetState = "no-session"
	StateSession   WidgetState = "session"
)

// Entry is one line of a rendered conversation.
type Entry struct {
	ID         string    `json:"id"`
	SenderType string    `json:"sender_type"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Pending    bool      `json:"pending,omitempty"`
	Failed     bool      `json:"failed,omitempty"`
}

func entryFromMessage(m *model.ChatMessage) Entry {
	return Entry{ID: m.ID, SenderType: m.SenderType, Content: m.Content, CreatedAt: m.CreatedAt}
}

// VisitorBackend is the part of service.ChatService the widget needs.
type VisitorBackend interface {
	SendVisitorMessage(ctx context.Context, in service.VisitorMessage) (*model.ChatMessage, error)
	History(ctx context.Context, sessionID string) ([]*model.ChatMessage, error)
}

// VisitorWidget tracks one visitor's conversation.
type VisitorWidget struct {
	backend    VisitorBackend
	subscriber service.ChangeSubscriber
	store      SessionIDStore
	now        func() time.Time

	mu        sync.Mutex
	sessionID string
	entries   []Entry
	localSeq  int
	sub       *realtime.Subscription
	done      chan struct{}
	changed   chan struct{}
}

// NewVisitorWidget creates a widget in the no-session state.
func NewVisitorWidget(backend VisitorBackend, subscriber service.ChangeSubscriber, store SessionIDStore) *VisitorWidget {
	if store == nil {
		store = NewMemoryStore()
	}
	return &VisitorWidget{
		backend:    backend,
		subscriber: subscriber,
		store:      store,
		now:        time.Now,
		changed:    make(chan struct{}, 1),
	}
}

// Open restores a remembered session, loading its history and subscribing
// to admin replies. Without one the widget stays in no-session and shows
// the welcome line.
func (w *VisitorWidget) Open(ctx context.Context) error {
	id := w.store.Load()
	if id == "" {
		w.mu.Lock()
		w.entries = []Entry{w.welcome()}
		w.mu.Unlock()
		w.notify()
		return nil
	}

	history, err := w.backend.History(ctx, id)
	if err != nil {
		slog.Error("chat widget: load history failed", "session_id", id, "error", err)
		return err
	}
	entries := make([]Entry, 0, len(history))
	for _, m := range history {
		entries = append(entries, entryFromMessage(m))
	}
	if len(entries) == 0 {
		entries = append(entries, w.welcome())
	}

	w.mu.Lock()
	w.sessionID = id
	w.entries = entries
	w.mu.Unlock()
	w.subscribe(id)
	w.notify()
	return nil
}

func (w *VisitorWidget) welcome() Entry {
	return Entry{ID: "welcome", SenderType: model.SenderAdmin, Content: WelcomeMessage, CreatedAt: w.now()}
}

// State reports whether the widget has a session.
func (w *VisitorWidget) State() WidgetState {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sessionID == "" {
		return StateNoSession
	}
	return StateSession
}

// SessionID returns the current session id, empty in no-session.
func (w *VisitorWidget) SessionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessionID
}

// Messages returns a snapshot of the conversation.
func (w *VisitorWidget) Messages() []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Changed signals after every change to the conversation.
func (w *VisitorWidget) Changed() <-chan struct{} {
	return w.changed
}

// Send appends the message optimistically and inserts it. A failed insert
// leaves the line in place, flagged, and returns the error. When the
// backend answers with a different session (first message, or the old one
// was closed) the new id is remembered and the subscription moves to it.
func (w *VisitorWidget) Send(ctx context.Context, name, email, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyMessage
	}

	w.mu.Lock()
	w.localSeq++
	localID := fmt.Sprintf("local-%d", w.localSeq)
	sessionID := w.sessionID
	w.entries = append(w.entries, Entry{
		ID:         localID,
		SenderType: model.SenderUser,
		Content:    content,
		CreatedAt:  w.now(),
		Pending:    true,
	})
	w.mu.Unlock()
	w.notify()

	msg, err := w.backend.SendVisitorMessage(ctx, service.VisitorMessage{
		SessionID: sessionID,
		Name:      name,
		Email:     email,
		Content:   content,
	})
	if err != nil {
		slog.Error("chat widget: send failed", "session_id", sessionID, "error", err)
		w.update(localID, func(e *Entry) {
			e.Pending = false
			e.Failed = true
			e.Content += FailedSuffix
		})
		return err
	}

	w.update(localID, func(e *Entry) {
		e.ID = msg.ID
		e.Pending = false
		e.CreatedAt = msg.CreatedAt
	})

	if msg.SessionID != sessionID {
		w.store.Save(msg.SessionID)
		w.mu.Lock()
		w.sessionID = msg.SessionID
		w.mu.Unlock()
		w.subscribe(msg.SessionID)
	}
	return nil
}

func (w *VisitorWidget) update(id string, fn func(*Entry)) {
	w.mu.Lock()
	for i := range w.entries {
		if w.entries[i].ID == id {
			fn(&w.entries[i])
			break
		}
	}
	w.mu.Unlock()
	w.notify()
}

// subscribe replaces the current subscription with one scoped to sessionID.
func (w *VisitorWidget) subscribe(sessionID string) {
	w.unsubscribe()
	sub := w.subscriber.Subscribe("chat:"+sessionID, realtime.Topic{
		Table:  "chat_messages",
		Events: []realtime.EventType{realtime.Insert},
		Filter: &realtime.Filter{Column: "session_id", Value: sessionID},
	})
	done := make(chan struct{})

	w.mu.Lock()
	w.sub, w.done = sub, done
	w.mu.Unlock()

	go w.run(sub, done)
}

func (w *VisitorWidget) run(sub *realtime.Subscription, done chan struct{}) {
	defer close(done)
	for c := range sub.Changes() {
		var m model.ChatMessage
		if err := c.Decode(&m); err != nil {
			slog.Warn("chat widget: bad change", "error", err)
			continue
		}
		// the visitor's own rows are already on screen
		if m.SenderType != model.SenderAdmin {
			continue
		}
		w.appendUnique(entryFromMessage(&m))
	}
}

func (w *VisitorWidget) appendUnique(e Entry) {
	w.mu.Lock()
	for _, have := range w.entries {
		if have.ID == e.ID {
			w.mu.Unlock()
			return
		}
	}
	w.entries = append(w.entries, e)
	w.mu.Unlock()
	w.notify()
}

func (w *VisitorWidget) unsubscribe() {
	w.mu.Lock()
	sub, done := w.sub, w.done
	w.sub, w.done = nil, nil
	w.mu.Unlock()
	if sub == nil {
		return
	}
	sub.Close()
	<-done
}

// Close tears down the subscription. The remembered session id is kept.
func (w *VisitorWidget) Close() {
	w.unsubscribe()
}

func (w *VisitorWidget) notify() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
