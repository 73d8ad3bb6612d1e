package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"registrationBot/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "regbot:conversation:"

// Store хранит диалоги в Redis; брошенные диалоги удаляются по TTL ключа.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(tgUserID int64) string {
	return keyPrefix + strconv.FormatInt(tgUserID, 10)
}

func (s *Store) Get(ctx context.Context, tgUserID int64) (*models.Conversation, error) {
	data, err := s.client.Get(ctx, key(tgUserID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var conv models.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}

	return &conv, nil
}

// Save перезаписывает диалог целиком и продлевает TTL
func (s *Store) Save(ctx context.Context, conv *models.Conversation) error {
	conv.UpdatedAt = time.Now()

	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}

	if err := s.client.Set(ctx, key(conv.TgUserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, tgUserID int64) error {
	if err := s.client.Del(ctx, key(tgUserID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
