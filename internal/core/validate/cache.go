package validate

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/agenthands/mediascreen/internal/core/model"
)

// Cache is a bounded LRU memoization layer over remote validation, keyed
// by (candidate profile, excerpt). It is shared across all concurrent
// requests; a hit is bit-identical to what a fresh validation would have
// returned. Concurrent misses for one key collapse to a single remote
// call and a single authoritative write.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recent, back = least recent
	group    singleflight.Group
}

type cacheEntry struct {
	key   string
	value model.Stage2Result
}

func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Key derives the cache key from the candidate profile and the excerpt.
func Key(candidate model.Candidate, excerpt string) string {
	profile, _ := json.Marshal(candidate)
	h := sha256.New()
	h.Write(profile)
	h.Write([]byte{0})
	h.Write([]byte(excerpt))
	return hex.EncodeToString(h.Sum(nil))
}

// GetOrValidate returns the cached result for key, or runs fn once and
// caches its result. Errors are not cached; a later call retries.
func (c *Cache) GetOrValidate(key string, fn func() (model.Stage2Result, error)) (model.Stage2Result, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another flight may have filled the entry between the miss
		// and the singleflight acquisition.
		if v, ok := c.get(key); ok {
			return v, nil
		}
		result, err := fn()
		if err != nil {
			return nil, err
		}
		c.put(key, result)
		return result, nil
	})
	if err != nil {
		return model.Stage2Result{}, err
	}
	return v.(model.Stage2Result), nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) get(key string) (model.Stage2Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return model.Stage2Result{}, false
}

func (c *Cache) put(key string, value model.Stage2Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry).value = value
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}
