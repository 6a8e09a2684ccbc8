package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

// ErrNoSelection is returned by Reply when no session is selected.
var ErrNoSelection = errors.New("no session selected")

// AdminBackend is the part of service.ChatService the inbox needs.
type AdminBackend interface {
	ListActiveSessions(ctx context.Context) ([]*model.ChatSession, error)
	OpenSession(ctx context.Context, sessionID string) (*model.ChatSession, []*model.ChatMessage, error)
	CloseSession(ctx context.Context, sessionID string) error
	SendAdminMessage(ctx context.Context, sessionID, content string) (*model.ChatMessage, error)
}

// AdminInbox keeps the active-session list fresh and follows one selected
// conversation.
type AdminInbox struct {
	backend    AdminBackend
	subscriber service.ChangeSubscriber

	mu       sync.Mutex
	sessions []*model.ChatSession
	selected *model.ChatSession
	entries  []Entry
	listSub  *realtime.Subscription
	listDone chan struct{}
	convSub  *realtime.Subscription
	convDone chan struct{}
	changed  chan struct{}
}

func NewAdminInbox(backend AdminBackend, subscriber service.ChangeSubscriber) *AdminInbox {
	return &AdminInbox{
		backend:    backend,
		subscriber: subscriber,
		changed:    make(chan struct{}, 1),
	}
}

// Start loads the active sessions and reloads the whole list on every
// chat_sessions change. ctx bounds the reloads.
func (a *AdminInbox) Start(ctx context.Context) error {
	if err := a.Reload(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	if a.listSub != nil {
		a.mu.Unlock()
		return nil
	}
	sub := a.subscriber.Subscribe("admin-chat-sessions", realtime.Topic{Table: "chat_sessions"})
	done := make(chan struct{})
	a.listSub, a.listDone = sub, done
	a.mu.Unlock()

	go func() {
		defer close(done)
		for range sub.Changes() {
			if err := a.Reload(ctx); err != nil {
				slog.Error("chat inbox: reload failed", "error", err)
			}
		}
	}()
	return nil
}

// Reload replaces the session list.
func (a *AdminInbox) Reload(ctx context.Context) error {
	sessions, err := a.backend.ListActiveSessions(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.sessions = sessions
	a.mu.Unlock()
	a.notify()
	return nil
}

// Sessions returns the active sessions, most recent first.
func (a *AdminInbox) Sessions() []*model.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*model.ChatSession, len(a.sessions))
	copy(out, a.sessions)
	return out
}

// Selected returns the selected session or nil.
func (a *AdminInbox) Selected() *model.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected
}

// Messages returns the selected conversation.
func (a *AdminInbox) Messages() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Changed signals after every change to the list or the conversation.
func (a *AdminInbox) Changed() <-chan struct{} {
	return a.changed
}

// Select loads the history (marking visitor messages read) and moves the
// conversation subscription to sessionID.
func (a *AdminInbox) Select(ctx context.Context, sessionID string) error {
	session, history, err := a.backend.OpenSession(ctx, sessionID)
	if err != nil {
		return err
	}
	a.closeConversation()

	entries := make([]Entry, 0, len(history))
	for _, m := range history {
		entries = append(entries, entryFromMessage(m))
	}
	sub := a.subscriber.Subscribe("admin-chat:"+sessionID, realtime.Topic{
		Table:  "chat_messages",
		Events: []realtime.EventType{realtime.Insert},
		Filter: &realtime.Filter{Column: "session_id", Value: sessionID},
	})
	done := make(chan struct{})

	a.mu.Lock()
	a.selected = session
	a.entries = entries
	a.convSub, a.convDone = sub, done
	a.mu.Unlock()
	a.notify()

	go func() {
		defer close(done)
		for c := range sub.Changes() {
			var m model.ChatMessage
			if err := c.Decode(&m); err != nil {
				slog.Warn("chat inbox: bad change", "error", err)
				continue
			}
			a.appendUnique(sessionID, entryFromMessage(&m))
		}
	}()
	return nil
}

// Reply sends an admin message to the selected session.
func (a *AdminInbox) Reply(ctx context.Context, content string) error {
	a.mu.Lock()
	selected := a.selected
	a.mu.Unlock()
	if selected == nil {
		return ErrNoSelection
	}
	m, err := a.backend.SendAdminMessage(ctx, selected.ID, content)
	if err != nil {
		return err
	}
	a.appendUnique(selected.ID, entryFromMessage(m))
	return nil
}

// Close closes the session and evicts it from the list.
func (a *AdminInbox) Close(ctx context.Context, sessionID string) error {
	if err := a.backend.CloseSession(ctx, sessionID); err != nil {
		return err
	}
	a.mu.Lock()
	kept := a.sessions[:0:0]
	for _, s := range a.sessions {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	a.sessions = kept
	wasSelected := a.selected != nil && a.selected.ID == sessionID
	a.mu.Unlock()

	if wasSelected {
		a.closeConversation()
		a.mu.Lock()
		a.selected = nil
		a.entries = nil
		a.mu.Unlock()
	}
	a.notify()
	return nil
}

// Stop tears down every subscription the inbox opened.
func (a *AdminInbox) Stop() {
	a.closeConversation()
	a.mu.Lock()
	sub, done := a.listSub, a.listDone
	a.listSub, a.listDone = nil, nil
	a.mu.Unlock()
	if sub != nil {
		sub.Close()
		<-done
	}
}

func (a *AdminInbox) closeConversation() {
	a.mu.Lock()
	sub, done := a.convSub, a.convDone
	a.convSub, a.convDone = nil, nil
	a.mu.Unlock()
	if sub != nil {
		sub.Close()
		<-done
	}
}

func (a *AdminInbox) appendUnique(sessionID string, e Entry) {
	a.mu.Lock()
	if a.selected == nil || a.selected.ID != sessionID {
		a.mu.Unlock()
		return
	}
	for _, have := range a.entries {
		if have.ID == e.ID {
			a.mu.Unlock()
			return
		}
	}
	a.entries = append(a.entries, e)
	a.mu.Unlock()
	a.notify()
}

func (a *AdminInbox) notify() {
	select {
	case a.changed <- struct{}{}:
	default:
	}
}
