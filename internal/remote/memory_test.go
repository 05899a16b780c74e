package remote

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func seed(t *testing.T, c Collection, recs ...Record) []Record {
	t.Helper()
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		got, err := c.Insert(context.Background(), r)
		if err != nil {
			t.Fatalf("failed to seed record: %v", err)
		}
		out = append(out, got)
	}
	return out
}

func TestMemoryInsertAssignsIDs(t *testing.T) {
	db := NewMemory(Schema{"tasks": ULIDs("task_")})
	got := seed(t, db.Collection("tasks"), Record{"title": "a"}, Record{"id": "fixed", "title": "b"})

	assert.Equal(t, strings.HasPrefix(got[0].ID(), "task_"), true)
	assert.Equal(t, got[1].ID(), "fixed")

	_, err := db.Collection("tasks").Insert(context.Background(), Record{"id": "fixed"})
	assert.Equal(t, CodeOf(err), CodeInvalid)
}

func TestMemorySelectFilters(t *testing.T) {
	db := NewMemory(nil)
	c := db.Collection("articles")
	seed(t, c,
		Record{"id": "1", "kind": "news", "public": true},
		Record{"id": "2", "kind": "post", "public": true},
		Record{"id": "3", "kind": "news", "public": false},
		Record{"id": "4", "kind": "memo", "public": true},
	)

	got, err := c.Select(context.Background(), Query{}.Where(Eq("kind", "news"), Eq("public", true)))
	assert.Equal(t, err, nil)
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].ID(), "1")

	got, err = c.Select(context.Background(), Query{}.Where(In("kind", "post", "memo")))
	assert.Equal(t, err, nil)
	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].ID(), "2")
	assert.Equal(t, got[1].ID(), "4")
}

func TestMemorySelectOrderNullsLast(t *testing.T) {
	db := NewMemory(nil)
	c := db.Collection("articles")
	seed(t, c,
		Record{"id": "a", "at": "2026-01-01"},
		Record{"id": "b", "at": nil},
		Record{"id": "c", "at": "2026-03-01"},
		Record{"id": "d"},
		Record{"id": "e", "at": "2026-02-01"},
	)

	desc, err := c.Select(context.Background(), Query{}.OrderBy("at", true))
	assert.Equal(t, err, nil)
	ids := make([]string, 0, len(desc))
	for _, r := range desc {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, ids, []string{"c", "e", "a", "b", "d"})

	asc, err := c.Select(context.Background(), Query{}.OrderBy("at", false))
	assert.Equal(t, err, nil)
	assert.Equal(t, asc[0].ID(), "a")
	assert.Equal(t, asc[3].ID(), "b")
}

func TestMemoryUpdateMerges(t *testing.T) {
	db := NewMemory(nil)
	c := db.Collection("tasks")
	seed(t, c, Record{"id": "1", "title": "old", "note": "keep", "due": "soon"})

	got, err := c.Update(context.Background(), "1", Record{"id": "hijack", "title": "new", "due": nil})
	assert.Equal(t, err, nil)
	assert.Equal(t, got.ID(), "1")
	assert.Equal(t, got["title"], "new")
	assert.Equal(t, got["note"], "keep")
	v, present := got["due"]
	assert.Equal(t, present, true)
	assert.Equal(t, v == nil, true)

	_, err = c.Update(context.Background(), "nope", Record{"title": "x"})
	assert.Equal(t, CodeOf(err), CodeNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	db := NewMemory(nil)
	c := db.Collection("tasks")
	got := seed(t, c, Record{"id": "1", "title": "a"})
	got[0]["title"] = "mutated"

	again, err := c.Select(context.Background(), Query{})
	assert.Equal(t, err, nil)
	assert.Equal(t, again[0]["title"], "a")
}

func TestMemoryDeleteAndIntercept(t *testing.T) {
	db := NewMemory(nil)
	c := db.Collection("tasks")
	seed(t, c, Record{"id": "1"})

	assert.Equal(t, c.Delete(context.Background(), "1"), nil)
	assert.Equal(t, CodeOf(c.Delete(context.Background(), "1")), CodeNotFound)

	boom := &Error{Code: CodeUnavailable, Message: "offline"}
	db.Intercept(func(collection, op string) error {
		if op == "select" {
			return boom
		}
		return nil
	})
	_, err := c.Select(context.Background(), Query{})
	assert.Equal(t, errors.Is(err, boom), true)
	_, err = c.Insert(context.Background(), Record{"id": "2"})
	assert.Equal(t, err, nil)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeOf(nil), Code(""))
	assert.Equal(t, CodeOf(errors.New("plain")), CodeUnavailable)
	assert.Equal(t, CodeOf(errorf(CodeInvalid, nil, "x")), CodeInvalid)
}
