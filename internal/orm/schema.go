package orm

import (
	"fmt"
	"strings"
	"sync"
)

// SchemaError reports a model whose field descriptors cannot be mapped.
type SchemaError struct {
	Table   string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %s", e.Table, e.Message)
}

// Schema is the derived mapping of one model to its table. It is built once
// and never modified afterwards.
type Schema struct {
	Table      string
	PrimaryKey string
	Fields     []string

	mappings map[string]Field
	columns  map[string]string

	SelectSQL string
	InsertSQL string
	UpdateSQL string
	DeleteSQL string
}

// NewSchema derives table metadata and the four statement templates from the
// field descriptors. Field order is declaration order.
func NewSchema(table string, fields ...Field) (*Schema, error) {
	if table == "" {
		return nil, &SchemaError{Table: table, Message: "table name is empty"}
	}

	s := &Schema{
		Table:    table,
		mappings: make(map[string]Field, len(fields)),
		columns:  make(map[string]string, len(fields)),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, &SchemaError{Table: table, Message: "field without name"}
		}
		if _, exists := s.mappings[f.Name]; exists {
			return nil, &SchemaError{Table: table, Message: "duplicate field: " + f.Name}
		}
		s.mappings[f.Name] = f
		s.columns[f.ColumnName()] = f.Name

		if f.PrimaryKey {
			if s.PrimaryKey != "" {
				return nil, &SchemaError{Table: table, Message: "duplicate primary key for field: " + f.Name}
			}
			s.PrimaryKey = f.Name
			continue
		}
		s.Fields = append(s.Fields, f.Name)
	}

	if s.PrimaryKey == "" {
		return nil, &SchemaError{Table: table, Message: "primary key not found"}
	}

	pk := quote(s.mappings[s.PrimaryKey].ColumnName())
	escaped := make([]string, len(s.Fields))
	assignments := make([]string, len(s.Fields))
	for i, name := range s.Fields {
		escaped[i] = quote(s.mappings[name].ColumnName())
		assignments[i] = escaped[i] + "=?"
	}

	selectCols := append([]string{pk}, escaped...)
	s.SelectSQL = fmt.Sprintf("select %s from %s", strings.Join(selectCols, ", "), quote(table))
	s.InsertSQL = fmt.Sprintf("insert into %s (%s) values (%s)",
		quote(table), strings.Join(append(escaped, pk), ", "), placeholders(len(escaped)+1))
	s.UpdateSQL = fmt.Sprintf("update %s set %s where %s=?", quote(table), strings.Join(assignments, ", "), pk)
	s.DeleteSQL = fmt.Sprintf("delete from %s where %s=?", quote(table), pk)

	return s, nil
}

// MustSchema is NewSchema for package-level model declarations.
func MustSchema(table string, fields ...Field) *Schema {
	s, err := NewSchema(table, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Field returns the descriptor registered under name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.mappings[name]
	return f, ok
}

// FieldForColumn maps a result-set column back to its field name.
func (s *Schema) FieldForColumn(column string) string {
	if name, ok := s.columns[column]; ok {
		return name
	}
	return column
}

// AllFields lists the primary key followed by the non-key fields.
func (s *Schema) AllFields() []string {
	return append([]string{s.PrimaryKey}, s.Fields...)
}

// DDL renders create statements for the table and its indexes. tableOptions is
// appended after the closing parenthesis (e.g. an engine clause).
func (s *Schema) DDL(tableOptions string) []string {
	lines := make([]string, 0, len(s.Fields)+2)
	for _, name := range s.AllFields() {
		f := s.mappings[name]
		line := fmt.Sprintf("  %s %s", quote(f.ColumnName()), f.ColumnType)
		if f.PrimaryKey || f.Unique {
			line += " not null"
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("  primary key (%s)", quote(s.mappings[s.PrimaryKey].ColumnName())))

	create := fmt.Sprintf("create table if not exists %s (\n%s\n)", quote(s.Table), strings.Join(lines, ",\n"))
	if tableOptions != "" {
		create += " " + tableOptions
	}

	stmts := []string{create}
	for _, name := range s.Fields {
		f := s.mappings[name]
		if !f.Unique && !f.Indexed {
			continue
		}
		kind := "index"
		if f.Unique {
			kind = "unique index"
		}
		stmts = append(stmts, fmt.Sprintf("create %s %s on %s (%s)",
			kind, quote("idx_"+s.Table+"_"+f.ColumnName()), quote(s.Table), quote(f.ColumnName())))
	}
	return stmts
}

func quote(ident string) string {
	return "`" + ident + "`"
}

func placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "?"
	}
	return strings.Join(marks, ", ")
}

// Registry keeps model schemas in registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	schemas map[string]*Schema
}

func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

func (r *Registry) Register(s *Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.Table]; exists {
		return &SchemaError{Table: s.Table, Message: "already registered"}
	}
	r.schemas[s.Table] = s
	r.order = append(r.order, s.Table)
	return nil
}

func (r *Registry) Get(table string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[table]
	return s, ok
}

// All returns the schemas in registration order.
func (r *Registry) All() []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Schema, 0, len(r.order))
	for _, table := range r.order {
		out = append(out, r.schemas[table])
	}
	return out
}
