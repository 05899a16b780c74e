package remote

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestBuildSelect(t *testing.T) {
	q := Query{}.
		Where(Eq("isNews", true), In("status", "todo", "done")).
		OrderBy("publishedAt", true)

	sql, args, err := buildSelect("articles", q)
	assert.Equal(t, err, nil)
	assert.Equal(t, sql, `SELECT data::text FROM records WHERE collection = $1`+
		` AND data -> $2 = $3::text::jsonb`+
		` AND data -> $4 IN ($5::text::jsonb, $6::text::jsonb)`+
		` ORDER BY NULLIF(data -> $7, 'null'::jsonb) DESC NULLS LAST, seq ASC`)
	assert.Equal(t, args, []any{"articles", "isNews", "true", "status", `"todo"`, `"done"`, "publishedAt"})
}

func TestBuildSelectEmptyMembership(t *testing.T) {
	sql, args, err := buildSelect("tasks", Query{}.Where(In("status")))
	assert.Equal(t, err, nil)
	assert.Equal(t, sql, `SELECT data::text FROM records WHERE collection = $1 AND FALSE ORDER BY seq ASC`)
	assert.Equal(t, args, []any{"tasks"})
}
