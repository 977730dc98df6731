package view

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vango-dev/routetable/pkg/router"
)

// Cache keeps resolved views by key. Concurrent loads of the same key share
// one loader call. Failed loads and nil views are not cached, so a later
// call retries.
type Cache struct {
	mu    sync.RWMutex
	views map[string]router.View

	// gen is bumped by Reset and Forget. A load only stores its view if
	// gen has not moved since the load started.
	gen   uint64
	group singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{views: make(map[string]router.View)}
}

// Load returns the cached view for key or runs load. The shared call is
// detached from ctx cancellation so one caller giving up does not fail the
// others; each caller still stops waiting when its own ctx ends.
func (c *Cache) Load(ctx context.Context, key string, load router.ViewLoader) (router.View, error) {
	c.mu.RLock()
	v, ok := c.views[key]
	gen := c.gen
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	// Loads started before a Reset or Forget do not share with later ones.
	flight := strconv.FormatUint(gen, 10) + ":" + key
	ch := c.group.DoChan(flight, func() (any, error) {
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, router.ErrNilView
		}
		c.mu.Lock()
		if c.gen == gen {
			c.views[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		v, ok := res.Val.(router.View)
		if !ok || v == nil {
			return nil, router.ErrNilView
		}
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Forget drops a cached view. A load of any key already in flight will not
// be stored.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	delete(c.views, key)
	c.gen++
	c.mu.Unlock()
}

// Reset drops every cached view. Loads already in flight will not be
// stored.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.views = make(map[string]router.View)
	c.gen++
	c.mu.Unlock()
}

// Len returns the number of cached views.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.views)
}

// Middleware caches every route's view under the route name.
func (c *Cache) Middleware() router.Middleware {
	return func(route *router.RouteNode, next router.ViewLoader) router.ViewLoader {
		return func(ctx context.Context) (router.View, error) {
			return c.Load(ctx, route.Name, next)
		}
	}
}
