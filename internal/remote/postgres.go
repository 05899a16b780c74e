package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"taskflow/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores every collection in the jsonb "records" table.
type Postgres struct {
	db     *pgxpool.Pool
	schema Schema
}

func NewPostgres(db *pgxpool.Pool, schema Schema) *Postgres {
	return &Postgres{db: db, schema: schema}
}

func (p *Postgres) Collection(name string) Collection {
	return &pgCollection{db: p.db, name: name, newID: p.schema.idFunc(name)}
}

type pgCollection struct {
	db    *pgxpool.Pool
	name  string
	newID IDFunc
}

func (c *pgCollection) Select(ctx context.Context, q Query) ([]Record, error) {
	query, args, err := buildSelect(c.name, q)
	if err != nil {
		return nil, err
	}
	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, pgError(err, "select %s", c.name)
	}
	defer rows.Close()
	var list []Record
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, pgError(err, "scan %s", c.name)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError(err, "select %s", c.name)
	}
	return list, nil
}

func (c *pgCollection) Insert(ctx context.Context, rec Record) (Record, error) {
	row, err := normalize(rec)
	if err != nil {
		return nil, err
	}
	if row.ID() == "" {
		row["id"] = c.newID()
	}
	data, err := json.Marshal(row)
	if err != nil {
		return nil, errorf(CodeInvalid, err, "encode record")
	}
	query := `
		INSERT INTO records (collection, id, data)
		VALUES ($1, $2, $3::text::jsonb)
		RETURNING data::text`
	var raw string
	if err := c.db.QueryRow(ctx, query, c.name, row.ID(), string(data)).Scan(&raw); err != nil {
		return nil, pgError(err, "insert %s", c.name)
	}
	return decodeRecord(raw)
}

func (c *pgCollection) Update(ctx context.Context, id string, patch Record) (Record, error) {
	p, err := normalize(patch)
	if err != nil {
		return nil, err
	}
	delete(p, "id")
	data, err := json.Marshal(p)
	if err != nil {
		return nil, errorf(CodeInvalid, err, "encode patch")
	}
	query := `
		UPDATE records SET data = data || $3::text::jsonb
		WHERE collection = $1 AND id = $2
		RETURNING data::text`
	var raw string
	if err := c.db.QueryRow(ctx, query, c.name, id, string(data)).Scan(&raw); err != nil {
		return nil, pgError(err, "update %s %q", c.name, id)
	}
	return decodeRecord(raw)
}

func (c *pgCollection) Delete(ctx context.Context, id string) error {
	tag, err := c.db.Exec(ctx, `DELETE FROM records WHERE collection = $1 AND id = $2`, c.name, id)
	if err != nil {
		return pgError(err, "delete %s %q", c.name, id)
	}
	if tag.RowsAffected() == 0 {
		return errorf(CodeNotFound, nil, "%s: %q", c.name, id)
	}
	return nil
}

// buildSelect renders q as SQL. Field names and values are always passed as
// parameters; jsonb values are compared in their JSON encoding.
func buildSelect(collection string, q Query) (string, []any, error) {
	var sb strings.Builder
	args := []any{collection}
	param := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	jsonParam := func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", errorf(CodeInvalid, err, "encode filter value")
		}
		return param(string(b)) + "::text::jsonb", nil
	}

	sb.WriteString(`SELECT data::text FROM records WHERE collection = $1`)
	for _, f := range q.Filters {
		switch f.Op {
		case OpEq:
			field := param(f.Field)
			v, err := jsonParam(f.Value)
			if err != nil {
				return "", nil, err
			}
			fmt.Fprintf(&sb, " AND data -> %s = %s", field, v)
		case OpIn:
			if len(f.Values) == 0 {
				sb.WriteString(" AND FALSE")
				continue
			}
			field := param(f.Field)
			vals := make([]string, 0, len(f.Values))
			for _, item := range f.Values {
				v, err := jsonParam(item)
				if err != nil {
					return "", nil, err
				}
				vals = append(vals, v)
			}
			fmt.Fprintf(&sb, " AND data -> %s IN (%s)", field, strings.Join(vals, ", "))
		default:
			return "", nil, errorf(CodeInvalid, nil, "unknown filter op %d", f.Op)
		}
	}
	sb.WriteString(" ORDER BY ")
	for _, o := range q.Order {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		// json null sorts below every other jsonb value, NULLIF makes it SQL NULL.
		fmt.Fprintf(&sb, "NULLIF(data -> %s, 'null'::jsonb) %s NULLS LAST, ", param(o.Field), dir)
	}
	sb.WriteString("seq ASC")
	return sb.String(), args, nil
}

func decodeRecord(raw string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, errorf(CodeInvalid, err, "decode record")
	}
	return rec, nil
}

func pgError(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errorf(CodeNotFound, err, format, args...)
	}
	if utils.IsPGUniqueViolation(err) {
		return errorf(CodeInvalid, err, format, args...)
	}
	var pge *pgconn.PgError
	// 22xxx data exceptions and 23xxx integrity violations are the caller's fault.
	if errors.As(err, &pge) && (strings.HasPrefix(pge.Code, "22") || strings.HasPrefix(pge.Code, "23")) {
		return errorf(CodeInvalid, err, format, args...)
	}
	return errorf(CodeUnavailable, err, format, args...)
}
