package remote

import (
	"context"
	"reflect"
	"slices"
	"sync"
)

// Memory is an in-process Database with the same semantics as Postgres.
type Memory struct {
	mu        sync.Mutex
	schema    Schema
	cols      map[string]*memCollection
	intercept func(collection, op string) error
}

func NewMemory(schema Schema) *Memory {
	return &Memory{schema: schema, cols: make(map[string]*memCollection)}
}

// Intercept installs a hook run before every call; a non-nil result is
// returned instead of performing the call. Pass nil to remove it.
func (m *Memory) Intercept(f func(collection, op string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intercept = f
}

func (m *Memory) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cols[name]
	if !ok {
		c = &memCollection{db: m, name: name, newID: m.schema.idFunc(name), rows: make(map[string]Record)}
		m.cols[name] = c
	}
	return c
}

func (m *Memory) check(collection, op string) error {
	m.mu.Lock()
	f := m.intercept
	m.mu.Unlock()
	if f == nil {
		return nil
	}
	return f(collection, op)
}

type memCollection struct {
	db    *Memory
	name  string
	newID IDFunc

	mu    sync.RWMutex
	order []string
	rows  map[string]Record
}

func (c *memCollection) Select(ctx context.Context, q Query) ([]Record, error) {
	if err := c.db.check(c.name, "select"); err != nil {
		return nil, err
	}
	preds, err := normalizeFilters(q.Filters)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	out := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		rec := c.rows[id]
		if matches(rec, preds) {
			cp, err := normalize(rec)
			if err != nil {
				c.mu.RUnlock()
				return nil, err
			}
			out = append(out, cp)
		}
	}
	c.mu.RUnlock()

	if len(q.Order) > 0 {
		slices.SortStableFunc(out, func(a, b Record) int {
			for _, o := range q.Order {
				if r := compareOrdered(a[o.Field], b[o.Field], o.Desc); r != 0 {
					return r
				}
			}
			return 0
		})
	}
	return out, nil
}

func (c *memCollection) Insert(ctx context.Context, rec Record) (Record, error) {
	if err := c.db.check(c.name, "insert"); err != nil {
		return nil, err
	}
	row, err := normalize(rec)
	if err != nil {
		return nil, err
	}
	if row.ID() == "" {
		row["id"] = c.newID()
	}
	id := row.ID()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.rows[id]; exists {
		return nil, errorf(CodeInvalid, nil, "%s: duplicate id %q", c.name, id)
	}
	c.rows[id] = row
	c.order = append(c.order, id)
	return normalize(row)
}

func (c *memCollection) Update(ctx context.Context, id string, patch Record) (Record, error) {
	if err := c.db.check(c.name, "update"); err != nil {
		return nil, err
	}
	p, err := normalize(patch)
	if err != nil {
		return nil, err
	}
	delete(p, "id")

	c.mu.Lock()
	defer c.mu.Unlock()
	row, ok := c.rows[id]
	if !ok {
		return nil, errorf(CodeNotFound, nil, "%s: %q", c.name, id)
	}
	for k, v := range p {
		row[k] = v
	}
	return normalize(row)
}

func (c *memCollection) Delete(ctx context.Context, id string) error {
	if err := c.db.check(c.name, "delete"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rows[id]; !ok {
		return errorf(CodeNotFound, nil, "%s: %q", c.name, id)
	}
	delete(c.rows, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
	return nil
}

type predicate struct {
	field  string
	values []any
}

func normalizeFilters(fs []Filter) ([]predicate, error) {
	out := make([]predicate, 0, len(fs))
	for _, f := range fs {
		var raw []any
		if f.Op == OpEq {
			raw = []any{f.Value}
		} else {
			raw = f.Values
		}
		p := predicate{field: f.Field}
		for _, v := range raw {
			nv, err := normalizeValue(v)
			if err != nil {
				return nil, err
			}
			p.values = append(p.values, nv)
		}
		out = append(out, p)
	}
	return out, nil
}

func matches(rec Record, preds []predicate) bool {
	for _, p := range preds {
		v, ok := rec[p.field]
		if !ok {
			return false
		}
		hit := false
		for _, want := range p.values {
			if reflect.DeepEqual(v, want) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// compareOrdered orders JSON values; nulls and missing values sort last in
// both directions.
func compareOrdered(a, b any, desc bool) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return 1
		default:
			return -1
		}
	}
	r := compareValues(a, b)
	if desc {
		return -r
	}
	return r
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return typeRank(a) - typeRank(b)
}

func typeRank(v any) int {
	switch v.(type) {
	case string:
		return 1
	case float64:
		return 2
	case bool:
		return 3
	case []any:
		return 4
	case map[string]any:
		return 5
	}
	return 6
}
