package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"prescription-chatbot/pkg"
)

// pendingTTL bounds how long an unconfirmed prescription survives an
// abandoned session.
const pendingTTL = 24 * time.Hour

// RedisStore keeps pending prescriptions in Redis so sessions survive
// process restarts and multiple replicas.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func pendingKey(sessionID string) string { return "pending_prescription:" + sessionID }

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*pkg.PrescriptionRecord, bool, error) {
	data, err := s.client.Get(ctx, pendingKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var rec pkg.PrescriptionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("corrupt pending prescription for session %s: %w", sessionID, err)
	}
	return &rec, true, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, rec *pkg.PrescriptionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, pendingKey(sessionID), data, pendingTTL).Err()
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, pendingKey(sessionID)).Err()
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }
