package cache

import (
	"sync"
)

// Cache 通用缓存接口
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Merge(items map[K]V)
	Snapshot() map[K]V
	Size() int
}

// Store 并发安全的键值存储，只增不删，没有过期
type Store[K comparable, V any] struct {
	items map[K]V
	mu    sync.RWMutex
}

// NewStore 创建新的存储
func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		items: make(map[K]V),
	}
}

// Get 获取缓存值
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	return v, ok
}

// Set 设置缓存值（覆盖）
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Merge 在同一把锁内按 key 覆盖写入一批数据，已有的其它 key 保留
func (s *Store[K, V]) Merge(items map[K]V) {
	if len(items) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range items {
		s.items[k] = v
	}
}

// MergeFunc 对切片按 keyFn 取 key 后合并
func MergeFunc[K comparable, V any](s *Store[K, V], values []V, keyFn func(V) K) {
	if len(values) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		s.items[keyFn(v)] = v
	}
}

// Snapshot 返回当前内容的拷贝
func (s *Store[K, V]) Snapshot() map[K]V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[K]V, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

// Size 获取缓存大小
func (s *Store[K, V]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

var _ Cache[string, int] = (*Store[string, int])(nil)
