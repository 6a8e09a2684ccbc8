package chat

import "sync"

// SessionIDKey is the key the public site stores the chat session id under.
const SessionIDKey = "chat_session_id"

// SessionIDStore remembers the visitor's session id across visits.
type SessionIDStore interface {
	Load() string
	Save(id string)
	Clear()
}

// MemoryStore is a SessionIDStore kept in process memory.
type MemoryStore struct {
	mu sync.Mutex
	id string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *MemoryStore) Save(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

func (s *MemoryStore) Clear() {
	s.Save("")
}
