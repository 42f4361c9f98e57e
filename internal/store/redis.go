package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/octobees/foodbot/internal/entity"
)

const redisKeyPrefix = "foodbot:conv:"

// RedisStore keeps conversations in Redis so dialogues survive process
// restarts and multiple bot replicas see the same state.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(channel, user string) string {
	return redisKeyPrefix + channel + ":" + user
}

// Get loads and decodes the conversation for the pair.
func (s *RedisStore) Get(ctx context.Context, channel, user string) (*entity.Conversation, error) {
	raw, err := s.client.Get(ctx, redisKey(channel, user)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	var conv entity.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return &conv, nil
}

// Put stores the conversation with the configured expiry.
func (s *RedisStore) Put(ctx context.Context, conv *entity.Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(conv.Channel, conv.User), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store conversation: %w", err)
	}
	return nil
}

// Delete removes the conversation; missing keys are fine.
func (s *RedisStore) Delete(ctx context.Context, channel, user string) error {
	if err := s.client.Del(ctx, redisKey(channel, user)).Err(); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// List scans the conversation keyspace, for the admin surface.
func (s *RedisStore) List(ctx context.Context) ([]entity.Conversation, error) {
	var (
		out    []entity.Conversation
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan conversations: %w", err)
		}
		for _, key := range keys {
			raw, err := s.client.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("get conversation %s: %w", key, err)
			}
			var conv entity.Conversation
			if err := json.Unmarshal(raw, &conv); err != nil {
				continue
			}
			out = append(out, conv)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

var _ ConversationStore = (*RedisStore)(nil)
