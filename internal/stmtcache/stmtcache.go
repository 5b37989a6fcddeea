// Package stmtcache keeps prepared statements keyed by their query text,
// so statements sharing a rewritten query share one server-side handle.
package stmtcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"sync"
)

// Stmt is satisfied by [sql.Stmt].
type Stmt interface {
	Close() error
	ExecContext(ctx context.Context, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, args ...any) (*sql.Rows, error)
}

// PrepareFunc prepares query, usually wrapping [sql.DB.PrepareContext].
type PrepareFunc func(ctx context.Context, query string) (Stmt, error)

// cachedStmt counts the callers using stmt, an evicted statement is
// closed by the last of them.
type cachedStmt struct {
	stmt    Stmt
	refs    int
	evicted bool
}

// StmtCache is safe for concurrent use. A statement returned by
// [StmtCache.Acquire] stays open until released, even if evicted meanwhile.
type StmtCache struct {
	// mutex guards the refs and evicted fields of every entry,
	// and is held around every lru call.
	mutex sync.Mutex
	lru   *lruCache[string, *cachedStmt]
}

// New returns a new [StmtCache] with n maximum capacity, panics if capacity <= 0.
// Evicted statements are closed once no longer in use.
func New(cap int) *StmtCache {
	if cap <= 0 {
		panic("namedstmt/stmtcache: capacity must be > 0")
	}

	return &StmtCache{
		lru: newLRUCache(cap, func(_ string, cs *cachedStmt) {
			cs.evicted = true
			if cs.refs == 0 {
				cs.close()
			}
		}),
	}
}

func (cs *cachedStmt) close() {
	if cs.stmt != nil {
		_ = cs.stmt.Close()
	}
}

// Get return the statement cached for query, without acquiring it.
func (c *StmtCache) Get(query string) (Stmt, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cs, ok := c.lru.get(hashKey(query))
	if !ok {
		return nil, false
	}
	return cs.stmt, true
}

// Put adds a new entry to cache, returns whether an item was evicted,
// panics if query is blank. A different statement previously cached for
// query is closed once no longer in use.
func (c *StmtCache) Put(query string, stmt Stmt) (evicted bool) {
	if query == "" {
		panic("namedstmt/stmtcache: query must not be blank")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	key := hashKey(query)
	if cs, ok := c.lru.get(key); ok && cs.stmt == stmt {
		return false
	}

	return c.lru.put(key, &cachedStmt{stmt: stmt})
}

// Acquire return the cached statement for query, or prepares and caches
// a new one using fn. The statement is not closed before release is
// called, release can be called more than once.
func (c *StmtCache) Acquire(ctx context.Context, query string, fn PrepareFunc) (stmt Stmt, release func(), err error) {
	key := hashKey(query)

	c.mutex.Lock()
	if cs, ok := c.lru.get(key); ok {
		cs.refs++
		c.mutex.Unlock()
		return cs.stmt, c.releaser(cs), nil
	}
	c.mutex.Unlock()

	stmt, err = fn(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// prepared concurrently by another caller
	if cs, ok := c.lru.get(key); ok {
		_ = stmt.Close()
		cs.refs++
		return cs.stmt, c.releaser(cs), nil
	}

	cs := &cachedStmt{stmt: stmt, refs: 1}
	c.lru.put(key, cs)
	return stmt, c.releaser(cs), nil
}

func (c *StmtCache) releaser(cs *cachedStmt) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mutex.Lock()
			defer c.mutex.Unlock()

			cs.refs--
			if cs.evicted && cs.refs == 0 {
				cs.close()
			}
		})
	}
}

// Prepare makes sure query is prepared and cached, returning its statement.
// The statement may be closed by a later eviction, use [StmtCache.Acquire]
// to execute it.
func (c *StmtCache) Prepare(ctx context.Context, query string, fn PrepareFunc) (Stmt, error) {
	stmt, release, err := c.Acquire(ctx, query, fn)
	if err != nil {
		return nil, err
	}
	release()
	return stmt, nil
}

// Remove closes and drops the statement cached for query, if any.
// A statement in use is closed once released.
func (c *StmtCache) Remove(query string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.lru.remove(hashKey(query))
}

// Len return how many statements are cached.
func (c *StmtCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.lru.len()
}

// Clear closes all cached statements, if any.
// Statements in use are closed once released.
func (c *StmtCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.lru.clear()
}

// hashKey hashes s using SHA256, it's deterministic, and it's a consistent
// way to store a query as a key.
func hashKey(s string) string {
	digest := sha256.Sum256([]byte(s))
	return hex.EncodeToString(digest[0:24])
}
