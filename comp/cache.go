package comp

import (
	"sync"

	"comprehend/lang"
)

// Cache memoizes built callables per expression string, scoped to one
// environment. It is safe for concurrent use; two callers missing on the
// same string may both build, which is harmless since builds are pure and
// the second store simply overwrites the first.
type Cache struct {
	env   *lang.Env
	mu    sync.Mutex
	procs map[string]*Callable
}

// NewCache creates a cache whose callables resolve free identifiers
// against env.
func NewCache(env *lang.Env) *Cache {
	return &Cache{
		env:   env,
		procs: make(map[string]*Callable),
	}
}

// Get returns the callable for src, building it on first request. Failed
// builds are not cached.
func (c *Cache) Get(src string) (*Callable, error) {
	c.mu.Lock()
	proc, ok := c.procs[src]
	c.mu.Unlock()
	if ok {
		return proc, nil
	}
	proc, err := Compile(src, c.env)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.procs[src] = proc
	c.mu.Unlock()
	return proc, nil
}

// Env returns the environment this cache is scoped to.
func (c *Cache) Env() *lang.Env {
	return c.env
}
