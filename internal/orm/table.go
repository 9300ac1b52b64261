package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidArgument is returned for a limit that is neither a row cap nor an
// (offset, count) pair.
var ErrInvalidArgument = errors.New("orm: invalid argument")

// Executor runs parameterized SQL written with ? placeholders.
type Executor interface {
	Select(ctx context.Context, query string, args []any, size int) ([]map[string]any, error)
	Execute(ctx context.Context, query string, args []any) (int64, error)
}

// Record is a typed model wrapping an Entity.
type Record interface {
	Entity() *Entity
}

// FindOptions narrows FindAll. Limit is nil, an int, or an (offset, count)
// pair given as [2]int or a two element []int.
type FindOptions struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   any
}

// Table runs CRUD statements for one schema and wraps rows as T.
type Table[T Record] struct {
	schema *Schema
	db     Executor
	wrap   func(*Entity) T
	logger *zap.Logger
}

func NewTable[T Record](schema *Schema, db Executor, wrap func(*Entity) T, logger *zap.Logger) *Table[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table[T]{schema: schema, db: db, wrap: wrap, logger: logger}
}

func (t *Table[T]) Schema() *Schema {
	return t.schema
}

// New wraps values as an unsaved record.
func (t *Table[T]) New(values map[string]any) T {
	return t.wrap(NewEntity(t.schema, values))
}

func (t *Table[T]) FindAll(ctx context.Context, opts FindOptions) ([]T, error) {
	sql := []string{t.schema.SelectSQL}
	args := append([]any{}, opts.Args...)

	if opts.Where != "" {
		sql = append(sql, "where", opts.Where)
	}
	if opts.OrderBy != "" {
		sql = append(sql, "order by", opts.OrderBy)
	}
	if opts.Limit != nil {
		clause, limitArgs, err := limitClause(opts.Limit)
		if err != nil {
			return nil, err
		}
		sql = append(sql, clause)
		args = append(args, limitArgs...)
	}

	rows, err := t.db.Select(ctx, strings.Join(sql, " "), args, 0)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", t.schema.Table, err)
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, t.fromRow(row))
	}
	return out, nil
}

func limitClause(limit any) (string, []any, error) {
	switch v := limit.(type) {
	case int:
		return "limit ?", []any{v}, nil
	case [2]int:
		return "limit ? offset ?", []any{v[1], v[0]}, nil
	case []int:
		if len(v) == 2 {
			return "limit ? offset ?", []any{v[1], v[0]}, nil
		}
	}
	return "", nil, fmt.Errorf("%w: limit %v", ErrInvalidArgument, limit)
}

// FindNumber selects a single aggregate, e.g. "count(`id`)". It returns nil
// when the query yields no row.
func (t *Table[T]) FindNumber(ctx context.Context, expr, where string, args ...any) (any, error) {
	sql := []string{fmt.Sprintf("select %s as count from %s", expr, quote(t.schema.Table))}
	if where != "" {
		sql = append(sql, "where", where)
	}

	rows, err := t.db.Select(ctx, strings.Join(sql, " "), args, 1)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", t.schema.Table, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0]["count"], nil
}

// Find loads a record by primary key. found is false when no row matches.
func (t *Table[T]) Find(ctx context.Context, pk any) (rec T, found bool, err error) {
	pkCol := t.schema.mappings[t.schema.PrimaryKey].ColumnName()
	sql := fmt.Sprintf("%s where %s=?", t.schema.SelectSQL, quote(pkCol))

	rows, err := t.db.Select(ctx, sql, []any{pk}, 1)
	if err != nil {
		return rec, false, fmt.Errorf("find %s by %s: %w", t.schema.Table, t.schema.PrimaryKey, err)
	}
	if len(rows) == 0 {
		return rec, false, nil
	}
	return t.fromRow(rows[0]), true, nil
}

// Save inserts the record, filling every unset field from its default first.
func (t *Table[T]) Save(ctx context.Context, rec T) error {
	e := rec.Entity()
	args := make([]any, 0, len(t.schema.Fields)+1)
	for _, name := range t.schema.Fields {
		args = append(args, e.ValueOrDefault(name))
	}
	args = append(args, e.ValueOrDefault(t.schema.PrimaryKey))

	rows, err := t.db.Execute(ctx, t.schema.InsertSQL, args)
	if err != nil {
		return fmt.Errorf("insert %s: %w", t.schema.Table, err)
	}
	if rows != 1 {
		t.logger.Warn("failed to insert record", zap.String("table", t.schema.Table), zap.Int64("affected_rows", rows))
	}
	return nil
}

// Update writes the current non-key values by primary key. Unset fields are
// written as NULL; defaults are not applied.
func (t *Table[T]) Update(ctx context.Context, rec T) error {
	e := rec.Entity()
	args := make([]any, 0, len(t.schema.Fields)+1)
	for _, name := range t.schema.Fields {
		args = append(args, e.Value(name))
	}
	args = append(args, e.Value(t.schema.PrimaryKey))

	rows, err := t.db.Execute(ctx, t.schema.UpdateSQL, args)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.schema.Table, err)
	}
	if rows != 1 {
		t.logger.Warn("failed to update by primary key", zap.String("table", t.schema.Table), zap.Int64("affected_rows", rows))
	}
	return nil
}

func (t *Table[T]) Remove(ctx context.Context, rec T) error {
	e := rec.Entity()
	rows, err := t.db.Execute(ctx, t.schema.DeleteSQL, []any{e.Value(t.schema.PrimaryKey)})
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.schema.Table, err)
	}
	if rows != 1 {
		t.logger.Warn("failed to remove by primary key", zap.String("table", t.schema.Table), zap.Int64("affected_rows", rows))
	}
	return nil
}

func (t *Table[T]) fromRow(row map[string]any) T {
	values := make(map[string]any, len(row))
	for col, v := range row {
		values[t.schema.FieldForColumn(col)] = v
	}
	return t.wrap(NewEntity(t.schema, values))
}
