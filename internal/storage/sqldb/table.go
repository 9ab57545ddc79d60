package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/restaurante/backend/internal/storage"
)

// table describes how a model maps onto one table. Column names match the
// `db` tags of the model.
type table struct {
	name string
	keys []string
	// columns are the non-key columns, in insert order.
	columns []string
	// mutable are the columns written by an update. Empty means all columns.
	mutable []string
}

func (t table) all() []string {
	return append(slices.Clone(t.keys), t.columns...)
}

func (t table) insertQuery() string {
	cols := t.all()
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)",
		t.name, strings.Join(cols, ", "), strings.Join(cols, ", :"))
}

func (t table) selectQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.all(), ", "), t.name)
}

// keyClause matches the key columns with positional placeholders.
func (t table) keyClause() string {
	parts := make([]string, len(t.keys))
	for i, k := range t.keys {
		parts[i] = k + " = ?"
	}
	return strings.Join(parts, " AND ")
}

func (t table) updateQuery() string {
	cols := t.mutable
	if len(cols) == 0 {
		cols = t.columns
	}
	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = c + " = :" + c
	}
	where := make([]string, len(t.keys))
	for i, k := range t.keys {
		where[i] = k + " = :" + k
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		t.name, strings.Join(set, ", "), strings.Join(where, " AND "))
}

func (t table) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s", t.name, t.keyClause())
}

func insertRow(ctx context.Context, ext sqlx.ExtContext, t table, row any) error {
	if _, err := sqlx.NamedExecContext(ctx, ext, t.insertQuery(), row); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", t.name, classify(err))
	}
	return nil
}

// listRows selects every row matching filter (all rows when empty),
// ordered by key. It never returns a nil slice.
func listRows[T any](ctx context.Context, ext sqlx.ExtContext, t table, filter string, args ...any) ([]T, error) {
	query := t.selectQuery()
	if filter != "" {
		query += " WHERE " + filter
	}
	query += " ORDER BY " + strings.Join(t.keys, ", ")

	rows := []T{}
	if err := sqlx.SelectContext(ctx, ext, &rows, ext.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name, err)
	}
	return rows, nil
}

func getRow[T any](ctx context.Context, ext sqlx.ExtContext, t table, keys ...any) (*T, error) {
	var row T
	query := t.selectQuery() + " WHERE " + t.keyClause()
	err := sqlx.GetContext(ctx, ext, &row, ext.Rebind(query), keys...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %v %w", t.name, keys, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", t.name, err)
	}
	return &row, nil
}

func updateRow(ctx context.Context, ext sqlx.ExtContext, t table, row any) error {
	res, err := sqlx.NamedExecContext(ctx, ext, t.updateQuery(), row)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", t.name, classify(err))
	}
	return expectAffected(res, t)
}

func deleteRow(ctx context.Context, ext sqlx.ExtContext, t table, keys ...any) error {
	res, err := ext.ExecContext(ctx, ext.Rebind(t.deleteQuery()), keys...)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", t.name, classify(err))
	}
	return expectAffected(res, t)
}

func expectAffected(res sql.Result, t table) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows of %s: %w", t.name, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %w", t.name, storage.ErrNotFound)
	}
	return nil
}
