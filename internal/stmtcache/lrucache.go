package stmtcache

import (
	"container/list"
	"sync"
)

type lruCache[K comparable, V any] struct {
	cap     int
	mutex   sync.Mutex
	m       map[K]*list.Element
	l       *list.List
	onEvict func(K, V)
}

func newLRUCache[K comparable, V any](cap int, onEvict func(K, V)) *lruCache[K, V] {
	return &lruCache[K, V]{
		cap:     cap,
		m:       make(map[K]*list.Element),
		l:       list.New(),
		onEvict: onEvict,
	}
}

type entry[K comparable, V any] struct {
	key K
	val V
}

func (c *lruCache[K, V]) get(key K) (val V, ok bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if el, ok := c.m[key]; ok {
		c.l.MoveToFront(el)
		return el.Value.(entry[K, V]).val, true
	}

	return val, false
}

// put stores val under key, onEvict is called with the previous value
// of an existing key.
func (c *lruCache[K, V]) put(key K, val V) (evicted bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if el, ok := c.m[key]; ok {
		prev := el.Value.(entry[K, V])
		el.Value = entry[K, V]{key, val}
		c.l.MoveToFront(el)
		if c.onEvict != nil {
			c.onEvict(prev.key, prev.val)
		}
		return false
	}

	if c.l.Len() >= c.cap {
		evicted = true
		c.removeElement(c.l.Back())
	}

	c.m[key] = c.l.PushFront(entry[K, V]{key, val})

	return evicted
}

// remove deletes key, calling onEvict if it was present.
func (c *lruCache[K, V]) remove(key K) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	el, ok := c.m[key]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

// clear removes every entry, calling onEvict for each of them.
func (c *lruCache[K, V]) clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for c.l.Len() > 0 {
		c.removeElement(c.l.Back())
	}
}

func (c *lruCache[K, V]) len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.l.Len()
}

// removeElement must be called with the mutex held.
func (c *lruCache[K, V]) removeElement(el *list.Element) {
	e := c.l.Remove(el).(entry[K, V])
	delete(c.m, e.key)
	if c.onEvict != nil {
		c.onEvict(e.key, e.val)
	}
}
