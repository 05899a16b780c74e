// Package mutation holds the in-memory entity collections of a workspace and
// applies create, update and delete calls to them once the remote side has
// answered.
package mutation

import (
	"errors"
	"slices"
	"sync"
)

var (
	ErrLoadFailed         = errors.New("load failed")
	ErrCreateFailed       = errors.New("create failed")
	ErrUpdateFailed       = errors.New("update failed")
	ErrDeleteFailed       = errors.New("delete failed")
	ErrStatusChangeFailed = errors.New("status change failed")
)

// Entity is anything with a stable identifier.
type Entity interface {
	EntityID() string
}

// Collection is the held copy of one store's entities. Only the coordinators
// in this package write it.
//
// Every dispatch for an entity takes a generation number; a response is
// applied only when it answers the latest dispatch for that entity, and
// responses for entities deleted in the meantime are dropped.
type Collection[E Entity] struct {
	mu        sync.Mutex
	items     []E
	gen       map[string]uint64
	deleted   map[string]struct{}
	observers map[int]func([]E)
	nextObs   int
}

func newCollection[E Entity]() *Collection[E] {
	return &Collection[E]{
		gen:       make(map[string]uint64),
		deleted:   make(map[string]struct{}),
		observers: make(map[int]func([]E)),
	}
}

// Items returns a copy of the held entities in display order.
func (c *Collection[E]) Items() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Get returns the held entity with id.
func (c *Collection[E]) Get(id string) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		var zero E
		return zero, false
	}
	return c.items[i], true
}

func (c *Collection[E]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Subscribe registers o and calls it once with the current items. Observers
// receive the full collection after every change. They run while the
// collection lock is held and must not call back into the collection.
func (c *Collection[E]) Subscribe(o func(items []E)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = o
	o(slices.Clone(c.items))
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// replace swaps in a freshly loaded list.
func (c *Collection[E]) replace(items []E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = slices.Clone(items)
	clear(c.deleted)
	c.publish()
}

// begin starts a dispatch for id and returns its generation.
func (c *Collection[E]) begin(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[id]++
	return c.gen[id]
}

// insert puts a created entity at the front.
func (c *Collection[E]) insert(e E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := e.EntityID()
	delete(c.deleted, id)
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = e
	} else {
		c.items = slices.Insert(c.items, 0, e)
	}
	c.publish()
}

// upsert applies an update response. It reports false when the response was
// stale and discarded.
func (c *Collection[E]) upsert(gen uint64, e E) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := e.EntityID()
	if c.gen[id] != gen {
		return false
	}
	if _, gone := c.deleted[id]; gone {
		return false
	}
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = e
	} else {
		c.items = slices.Insert(c.items, 0, e)
	}
	c.publish()
	return true
}

// remove prunes id and invalidates any update still in flight for it.
func (c *Collection[E]) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[id]++
	c.deleted[id] = struct{}{}
	c.items = slices.DeleteFunc(c.items, func(e E) bool { return e.EntityID() == id })
	c.publish()
}

func (c *Collection[E]) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(e E) bool { return e.EntityID() == id })
}

func (c *Collection[E]) publish() {
	if len(c.observers) == 0 {
		return
	}
	snapshot := slices.Clone(c.items)
	for _, o := range c.observers {
		o(snapshot)
	}
}
