package cache

import (
	"sync"
	"time"
)

type basicCacheEntry[T any] struct {
	data  T
	valid bool
}

// basicCache never expires entries
type basicCache[T any] struct {
	entries map[string]basicCacheEntry[T]
	lock    sync.Mutex
}

func (c *basicCache[T]) getOrClaim(key string) hitResult[T] {
	c.lock.Lock()
	defer c.lock.Unlock()

	entry, ok := c.entries[key]
	if ok {
		return hitResult[T]{data: entry.data, valid: entry.valid}
	}

	c.entries[key] = basicCacheEntry[T]{valid: false}
	return hitResult[T]{claimed: true}
}

func (c *basicCache[T]) set(key string, data T) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.entries[key] = basicCacheEntry[T]{data: data, valid: true}
}

func (c *basicCache[T]) delete(key string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.entries, key)
}

func (c *basicCache[T]) wait() {
	time.Sleep(10 * time.Millisecond)
}

func NewBasicCache[T any]() *basicCache[T] {
	return &basicCache[T]{
		entries: make(map[string]basicCacheEntry[T]),
	}
}
