package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// TTLCache go-cache 的泛型封装
type TTLCache[T any] struct {
	storage *cache.Cache
}

// NewTTLCache 创建缓存，ttl 为默认过期时间，cache.NoExpiration 表示永不过期
func NewTTLCache[T any](ttl, cleanupInterval time.Duration) *TTLCache[T] {
	return &TTLCache[T]{storage: cache.New(ttl, cleanupInterval)}
}

// Get 获取缓存值
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	v, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	value, ok := v.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// Set 使用默认过期时间设置缓存值
func (c *TTLCache[T]) Set(key string, value T) {
	c.storage.SetDefault(key, value)
}

// Touch 重新设置值以刷新过期时间
func (c *TTLCache[T]) Touch(key string) {
	if v, ok := c.storage.Get(key); ok {
		c.storage.SetDefault(key, v)
	}
}

// Delete 删除缓存
func (c *TTLCache[T]) Delete(key string) {
	c.storage.Delete(key)
}

// OnEvicted 设置淘汰回调（过期或删除时触发）
func (c *TTLCache[T]) OnEvicted(fn func(key string, value T)) {
	c.storage.OnEvicted(func(key string, v interface{}) {
		if value, ok := v.(T); ok {
			fn(key, value)
		}
	})
}

// Items 未过期条目的拷贝
func (c *TTLCache[T]) Items() map[string]T {
	out := make(map[string]T)
	for key, item := range c.storage.Items() {
		if value, ok := item.Object.(T); ok {
			out[key] = value
		}
	}
	return out
}

// Len 当前条数（含已过期未清理的）
func (c *TTLCache[T]) Len() int {
	return c.storage.ItemCount()
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// SearchCache 搜索结果缓存封装（LRU + TTL）
type SearchCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewSearchCache 初始化，size 是最大缓存条数（如 1000），ttl 是数据有效期（如 10 分钟）
func NewSearchCache[T any](size int, ttl time.Duration) *SearchCache[T] {
	// lru.New 是线程安全的
	c, _ := lru.New[string, CacheItem[T]](size)
	return &SearchCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 添加或更新
func (c *SearchCache[T]) Set(key string, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get 获取（带过期检查）
func (c *SearchCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Delete 删除
func (c *SearchCache[T]) Delete(key string) {
	c.storage.Remove(key)
}

// PurgeExpired 清理所有已过期条目，返回清理数量
func (c *SearchCache[T]) PurgeExpired() int {
	now := time.Now()
	purged := 0
	for _, key := range c.storage.Keys() {
		item, ok := c.storage.Peek(key)
		if ok && now.After(item.ExpiredAt) {
			c.storage.Remove(key)
			purged++
		}
	}
	return purged
}

// Clear 清空
func (c *SearchCache[T]) Clear() {
	c.storage.Purge()
}

// Len 当前长度
func (c *SearchCache[T]) Len() int {
	return c.storage.Len()
}
