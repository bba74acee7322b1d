package session

import (
	"sync"

	"spoty/model"
)

// Cell is the single shared "current session" value: one writer (the
// Reconciler), any number of readers. Observers get the value at subscribe
// time plus every later transition.
type Cell struct {
	mu      sync.RWMutex
	current *model.User
	subs    map[int]chan *model.User
	nextID  int
}

// NewCell creates an empty cell (no session).
func NewCell() *Cell {
	return &Cell{subs: make(map[int]chan *model.User)}
}

// Current returns the latest published session value, which may be nil.
func (c *Cell) Current() *model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Subscribe registers an observer. The returned channel immediately carries
// the current value, then every transition until cancel is called.
func (c *Cell) Subscribe() (<-chan *model.User, func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	ch := make(chan *model.User, 8)
	ch <- c.current
	c.subs[id] = ch
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// publish replaces the current value and notifies observers. Slow observers
// miss intermediate transitions rather than blocking the writer.
func (c *Cell) publish(user *model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = user
	for _, ch := range c.subs {
		select {
		case ch <- user:
		default:
		}
	}
}
