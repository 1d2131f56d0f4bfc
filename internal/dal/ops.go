package dal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

var ErrNoRecord = errors.New("dal: no record")

// Table names a relation and the columns scanned into its row type. Columns
// must match the db tags of that type one to one.
type Table struct {
	Name    string
	Columns []string
	// Constraints maps constraint names to the field reported in
	// validation errors. Unlisted constraints fall back to the name with the
	// table prefix and the key/fkey/check suffix removed.
	Constraints map[string]string
}

// Fields is a column to value map for inserts and updates.
type Fields map[string]any

type DeleteResult struct {
	RowsDeleted int64
	Success     bool
}

func (t Table) selectList() string {
	return strings.Join(t.Columns, ", ")
}

func FindOne[T any](ctx context.Context, q Querier, t Table, where Predicate, order ...string) (T, error) {
	var zero T
	sql, args, err := selectSQL(t, where, order, 1)
	if err != nil {
		return zero, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, fmt.Errorf("find %s: %w", t.Name, err)
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrNoRecord
		}
		return zero, fmt.Errorf("find %s: %w", t.Name, err)
	}
	return rec, nil
}

func FindAll[T any](ctx context.Context, q Querier, t Table, where Predicate, order ...string) ([]T, error) {
	sql, args, err := selectSQL(t, where, order, 0)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", t.Name, err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", t.Name, err)
	}
	return recs, nil
}

func Insert[T any](ctx context.Context, q Querier, t Table, fields Fields) (T, error) {
	var zero T
	recs, err := BulkInsert[T](ctx, q, t, []Fields{fields})
	if err != nil {
		return zero, err
	}
	if len(recs) == 0 {
		return zero, fmt.Errorf("insert %s: no row returned", t.Name)
	}
	return recs[0], nil
}

// BulkInsert writes every row in one statement. All rows must carry the same
// set of columns.
func BulkInsert[T any](ctx context.Context, q Querier, t Table, rows []Fields) ([]T, error) {
	if len(rows) == 0 {
		return []T{}, nil
	}
	cols := sortedKeys(rows[0])
	if len(cols) == 0 {
		return nil, fmt.Errorf("insert %s: no fields", t.Name)
	}
	for _, c := range cols {
		if err := checkIdent(c); err != nil {
			return nil, err
		}
	}

	b := &argBuilder{}
	tuples := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("insert %s: row %d has %d fields, want %d", t.Name, i, len(row), len(cols))
		}
		ph := make([]string, 0, len(cols))
		for _, c := range cols {
			v, ok := row[c]
			if !ok {
				return nil, fmt.Errorf("insert %s: row %d is missing %s", t.Name, i, c)
			}
			ph = append(ph, b.add(v))
		}
		tuples = append(tuples, "("+strings.Join(ph, ", ")+")")
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s RETURNING %s",
		t.Name, strings.Join(cols, ", "), strings.Join(tuples, ", "), t.selectList())
	return queryWrite[T](ctx, q, t, sql, b.args)
}

// Upsert inserts fields or, when a row already holds the conflict columns,
// overwrites updateCols from the proposed row.
func Upsert[T any](ctx context.Context, q Querier, t Table, fields Fields, conflictCols []string, updateCols []string) (T, error) {
	var zero T
	if len(fields) == 0 || len(conflictCols) == 0 || len(updateCols) == 0 {
		return zero, fmt.Errorf("upsert %s: fields, conflict and update columns are required", t.Name)
	}
	cols := sortedKeys(fields)
	for _, c := range append(append(append([]string{}, cols...), conflictCols...), updateCols...) {
		if err := checkIdent(c); err != nil {
			return zero, err
		}
	}

	b := &argBuilder{}
	ph := make([]string, 0, len(cols))
	for _, c := range cols {
		ph = append(ph, b.add(fields[c]))
	}
	sets := make([]string, 0, len(updateCols))
	for _, c := range updateCols {
		sets = append(sets, c+" = EXCLUDED."+c)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s RETURNING %s",
		t.Name, strings.Join(cols, ", "), strings.Join(ph, ", "),
		strings.Join(conflictCols, ", "), strings.Join(sets, ", "), t.selectList())

	recs, err := queryWrite[T](ctx, q, t, sql, b.args)
	if err != nil {
		return zero, err
	}
	if len(recs) == 0 {
		return zero, fmt.Errorf("upsert %s: no row returned", t.Name)
	}
	return recs[0], nil
}

// Update sets fields on every row matching where and reports how many rows
// changed.
func Update(ctx context.Context, q Querier, t Table, fields Fields, where Predicate) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("update %s: no fields", t.Name)
	}

	b := &argBuilder{}
	cols := sortedKeys(fields)
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if err := checkIdent(c); err != nil {
			return 0, err
		}
		sets = append(sets, c+" = "+b.add(fields[c]))
	}
	w, err := whereClause(b, where)
	if err != nil {
		return 0, err
	}

	sql := "UPDATE " + t.Name + " SET " + strings.Join(sets, ", ") + w
	tag, err := q.Exec(ctx, sql, b.args...)
	if err != nil {
		return 0, translate(t, "update", err)
	}
	return tag.RowsAffected(), nil
}

func Delete(ctx context.Context, q Querier, t Table, where Predicate) (DeleteResult, error) {
	b := &argBuilder{}
	w, err := whereClause(b, where)
	if err != nil {
		return DeleteResult{}, err
	}

	tag, err := q.Exec(ctx, "DELETE FROM "+t.Name+w, b.args...)
	if err != nil {
		return DeleteResult{}, translate(t, "delete", err)
	}
	return DeleteResult{RowsDeleted: tag.RowsAffected(), Success: true}, nil
}

// Query runs a hand-written statement and maps every row by column name.
func Query[T any](ctx context.Context, q Querier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return recs, nil
}

func selectSQL(t Table, where Predicate, order []string, limit int) (string, []any, error) {
	b := &argBuilder{}
	w, err := whereClause(b, where)
	if err != nil {
		return "", nil, err
	}
	o, err := orderClause(order)
	if err != nil {
		return "", nil, err
	}

	sql := "SELECT " + t.selectList() + " FROM " + t.Name + w + o
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	return sql, b.args, nil
}

func queryWrite[T any](ctx context.Context, q Querier, t Table, sql string, args []any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(t, "insert", err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, translate(t, "insert", err)
	}
	return recs, nil
}
