package store

import (
	"context"
	"errors"

	"github.com/octobees/foodbot/internal/entity"
)

// ErrNotFound is returned when no conversation exists for the key.
var ErrNotFound = errors.New("conversation not found")

// ConversationStore keeps the single in-flight dialogue per
// (channel, user) pair between webhook deliveries.
type ConversationStore interface {
	Get(ctx context.Context, channel, user string) (*entity.Conversation, error)
	Put(ctx context.Context, conv *entity.Conversation) error
	Delete(ctx context.Context, channel, user string) error
	List(ctx context.Context) ([]entity.Conversation, error)
}
