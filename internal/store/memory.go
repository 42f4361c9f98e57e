package store

import (
	"context"
	"sync"
	"time"

	"github.com/octobees/foodbot/internal/entity"
)

type memoryEntry struct {
	conv      entity.Conversation
	expiresAt time.Time
}

// MemoryStore is the default in-process store. Entries expire after the
// configured TTL so abandoned dialogues do not accumulate.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore builds an in-memory store. A non-positive TTL disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func conversationKey(channel, user string) string {
	return channel + ":" + user
}

// Get returns the live conversation for the pair, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, channel, user string) (*entity.Conversation, error) {
	s.mu.RLock()
	entry, ok := s.entries[conversationKey(channel, user)]
	s.mu.RUnlock()

	if !ok || s.expired(entry) {
		return nil, ErrNotFound
	}
	conv := entry.conv
	return &conv, nil
}

// Put stores or replaces the conversation and refreshes its expiry.
func (s *MemoryStore) Put(_ context.Context, conv *entity.Conversation) error {
	entry := memoryEntry{conv: *conv}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[conversationKey(conv.Channel, conv.User)] = entry
	s.sweepLocked()
	s.mu.Unlock()
	return nil
}

// Delete removes the conversation; deleting a missing key is not an error.
func (s *MemoryStore) Delete(_ context.Context, channel, user string) error {
	s.mu.Lock()
	delete(s.entries, conversationKey(channel, user))
	s.mu.Unlock()
	return nil
}

// List snapshots the live conversations, for the admin surface.
func (s *MemoryStore) List(_ context.Context) ([]entity.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Conversation, 0, len(s.entries))
	for _, entry := range s.entries {
		if s.expired(entry) {
			continue
		}
		out = append(out, entry.conv)
	}
	return out, nil
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)
}

func (s *MemoryStore) sweepLocked() {
	for key, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, key)
		}
	}
}

var _ ConversationStore = (*MemoryStore)(nil)
