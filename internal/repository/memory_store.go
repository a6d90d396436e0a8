package repository

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore 进程内键值存储，用于开发和测试
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 0)}
}

// Get 读取键值
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v.([]byte)...), nil
}

// Put 整体覆盖写入
func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.c.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}
