// Package navigation tracks which screen of the client is active.
package navigation

import "sync"

const (
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteDashboard = "/dashboard"
)

// Change is passed to observers after the location moved.
type Change struct {
	From, To string
}

// Router holds the current location. It is safe for concurrent use;
// observers run synchronously on the navigating goroutine.
type Router struct {
	mu        sync.Mutex
	location  string
	observers map[int]func(Change)
	next      int
}

func NewRouter(initial string) *Router {
	return &Router{location: initial, observers: make(map[int]func(Change))}
}

func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Navigate moves to route. Navigating to the current location is a no-op.
func (r *Router) Navigate(route string) {
	r.mu.Lock()
	if r.location == route {
		r.mu.Unlock()
		return
	}
	c := Change{From: r.location, To: route}
	r.location = route
	obs := make([]func(Change), 0, len(r.observers))
	for _, fn := range r.observers {
		obs = append(obs, fn)
	}
	r.mu.Unlock()

	for _, fn := range obs {
		fn(c)
	}
}

// Observe registers fn and returns a function that removes it.
func (r *Router) Observe(fn func(Change)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.observers[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.observers, id)
	}
}
