package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ormatov/chatkeeper/types"
)

// RedisSessionStore keeps pending-input state in Redis so a restart does not
// forget half-finished admin dialogs. Entries expire on their own.
type RedisSessionStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisSessionStore(redisClient *RedisClient, ttlHours int) *RedisSessionStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{
		client: redisClient,
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) pendingKey(userID int64) string {
	return s.client.generateKey("pending", fmt.Sprintf("%d", userID))
}

func (s *RedisSessionStore) GetPending(userID int64) (*types.PendingOp, error) {
	var op types.PendingOp
	if err := s.client.Get(s.pendingKey(userID), &op); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	if op.Kind == "" {
		return nil, nil
	}
	return &op, nil
}

func (s *RedisSessionStore) SetPending(userID int64, op *types.PendingOp) error {
	return s.client.Set(s.pendingKey(userID), op, s.ttl)
}

func (s *RedisSessionStore) ClearPending(userID int64) error {
	return s.client.Del(s.pendingKey(userID))
}

// MemorySessionStore is the fallback when Redis is not configured; pending
// dialogs do not survive a restart, which is acceptable for a single admin.
type MemorySessionStore struct {
	mu      sync.Mutex
	pending map[int64]*types.PendingOp
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		pending: make(map[int64]*types.PendingOp),
	}
}

func (s *MemorySessionStore) GetPending(userID int64) (*types.PendingOp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.pending[userID]
	if !ok {
		return nil, nil
	}
	c := *op
	return &c, nil
}

func (s *MemorySessionStore) SetPending(userID int64, op *types.PendingOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *op
	s.pending[userID] = &c
	return nil
}

func (s *MemorySessionStore) ClearPending(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
	return nil
}
