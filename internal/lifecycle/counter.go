package lifecycle

import (
	"fmt"
	"sync"
)

// Counter tracks live guards for a shared subsystem.
type Counter struct {
	// Init runs on the 0→1 transition. A non-nil error fails the acquisition
	// and leaves the count unchanged.
	Init func() error
	// Teardown runs on the 1→0 transition.
	Teardown func()

	mu    sync.Mutex
	count int
}

// Guard is an owned token returned by Acquire. Release must be called exactly once.
type Guard struct {
	counter  *Counter
	released bool
}

// Acquire registers a new live instance, initializing the subsystem when this
// is the first one.
func (c *Counter) Acquire() (*Guard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count == 0 && c.Init != nil {
		if err := c.Init(); err != nil {
			return nil, fmt.Errorf("initialize subsystem: %w", err)
		}
	}
	c.count++
	return &Guard{counter: c}, nil
}

// Release drops the guard's reference and tears the subsystem down when it was
// the last one. Releasing a guard twice panics.
func (g *Guard) Release() {
	if g == nil || g.counter == nil {
		panic("lifecycle: release of nil guard")
	}
	c := g.counter
	c.mu.Lock()
	defer c.mu.Unlock()

	if g.released {
		panic("lifecycle: guard released twice")
	}
	if c.count <= 0 {
		panic("lifecycle: release without matching acquire")
	}
	g.released = true
	c.count--
	if c.count == 0 && c.Teardown != nil {
		c.Teardown()
	}
}

// Active reports whether at least one guard is held.
func (c *Counter) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count > 0
}

// Count returns the number of live guards.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
