// Package view derives what a page shows from the held collections.
package view

import (
	"slices"
	"sync"

	dom "taskflow/internal/domain"
	"taskflow/internal/query"
)

// Source is a collection that publishes its items on every change.
type Source[E any] interface {
	Subscribe(fn func(items []E)) (unsubscribe func())
}

// Composer keeps a derived view of a source. The view is recomputed
// whenever the source items or the criteria change.
type Composer[E, C any] struct {
	mu       sync.RWMutex
	derive   func([]E, C) []E
	items    []E
	criteria C
	visible  []E
	stop     func()
}

// NewComposer attaches to src. derive must be pure.
func NewComposer[E, C any](src Source[E], derive func([]E, C) []E) *Composer[E, C] {
	c := &Composer[E, C]{derive: derive}
	c.stop = src.Subscribe(c.setItems)
	return c
}

// NewTaskComposer filters tasks by FilterCriteria.
func NewTaskComposer(src Source[dom.Task]) *Composer[dom.Task, dom.FilterCriteria] {
	return NewComposer(src, query.Tasks)
}

// NewArticleComposer searches articles by free text.
func NewArticleComposer(src Source[dom.Article]) *Composer[dom.Article, string] {
	return NewComposer(src, query.Articles)
}

// Visible returns the current derived view.
func (c *Composer[E, C]) Visible() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.visible)
}

func (c *Composer[E, C]) Criteria() C {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.criteria
}

// SetCriteria replaces the criteria and recomputes the view.
func (c *Composer[E, C]) SetCriteria(criteria C) []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria
	c.recompute()
	return slices.Clone(c.visible)
}

// Close detaches the composer from its source.
func (c *Composer[E, C]) Close() {
	if c.stop != nil {
		c.stop()
	}
}

func (c *Composer[E, C]) setItems(items []E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.recompute()
}

func (c *Composer[E, C]) recompute() {
	c.visible = c.derive(c.items, c.criteria)
	if c.visible == nil {
		c.visible = []E{}
	}
}
