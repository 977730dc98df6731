package router

import (
	"context"
	"errors"
	"fmt"
)

// Load errors.
var (
	ErrNilRoute = errors.New("nil route")
	ErrNoLoader = errors.New("route has no view loader")
	ErrNilView  = errors.New("loader returned nil view")
	ErrPending  = errors.New("view load still pending")
)

// LoadError reports a failed view load. The registry never retries; callers
// may call ResolveView again.
type LoadError struct {
	// Route is the name of the route whose loader failed.
	Route string

	// Err is the underlying cause.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load view for route %q: %v", e.Route, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Pending is the handle for one in-flight view load.
type Pending struct {
	route *RouteNode
	done  chan struct{}
	view  View
	err   error
}

// Route returns the route being loaded.
func (p *Pending) Route() *RouteNode {
	return p.route
}

// Done is closed once the load has finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the load finishes or ctx is done. Giving up on ctx does
// not stop the load; its result is dropped.
func (p *Pending) Wait(ctx context.Context) (View, error) {
	select {
	case <-p.done:
		return p.view, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome without blocking, or ErrPending.
func (p *Pending) Result() (View, error) {
	select {
	case <-p.done:
		return p.view, p.err
	default:
		return nil, ErrPending
	}
}

func (p *Pending) complete(v View, err error) {
	p.view, p.err = v, err
	close(p.done)
}

// ResolveView starts loading the view of route and returns immediately.
// The loader runs on its own goroutine with ctx, wrapped by the registry's
// middleware. Every call starts a fresh, independent load.
func (r *Registry) ResolveView(ctx context.Context, route *RouteNode) *Pending {
	p := &Pending{route: route, done: make(chan struct{})}

	if route == nil {
		p.complete(nil, ErrNilRoute)
		return p
	}
	if route.Loader == nil {
		p.complete(nil, &LoadError{Route: route.Name, Err: ErrNoLoader})
		return p
	}

	load := route.Loader
	for i := len(r.middleware) - 1; i >= 0; i-- {
		load = r.middleware[i](route, load)
	}

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				p.complete(nil, &LoadError{Route: route.Name, Err: fmt.Errorf("loader panic: %v", rec)})
			}
		}()

		v, err := load(ctx)
		switch {
		case err != nil:
			var le *LoadError
			if !errors.As(err, &le) {
				err = &LoadError{Route: route.Name, Err: err}
			}
			p.complete(nil, err)
		case v == nil:
			p.complete(nil, &LoadError{Route: route.Name, Err: ErrNilView})
		default:
			p.complete(v, nil)
		}
	}()

	return p
}
