package orm

import "fmt"

type defaultKind int

const (
	defaultNone defaultKind = iota
	defaultStatic
	defaultComputed
)

// Default is the value policy applied to an unset field on Save.
type Default struct {
	kind  defaultKind
	value any
	fn    func() any
}

// NoDefault leaves an unset field as NULL.
func NoDefault() Default {
	return Default{kind: defaultNone}
}

// Static always yields the same value.
func Static(value any) Default {
	return Default{kind: defaultStatic, value: value}
}

// Computed calls fn every time a default is materialized.
func Computed(fn func() any) Default {
	if fn == nil {
		return NoDefault()
	}
	return Default{kind: defaultComputed, fn: fn}
}

// Resolve returns the default value and whether the field has one.
func (d Default) Resolve() (any, bool) {
	switch d.kind {
	case defaultStatic:
		return d.value, true
	case defaultComputed:
		return d.fn(), true
	default:
		return nil, false
	}
}

// Field describes one column of a model.
type Field struct {
	Name       string
	Column     string
	ColumnType string
	PrimaryKey bool
	Default    Default
	Unique     bool
	Indexed    bool
}

func StringField(name, ddl string) Field {
	if ddl == "" {
		ddl = "varchar(100)"
	}
	return Field{Name: name, ColumnType: ddl}
}

func BooleanField(name string) Field {
	return Field{Name: name, ColumnType: "boolean", Default: Static(false)}
}

func IntegerField(name string) Field {
	return Field{Name: name, ColumnType: "bigint", Default: Static(int64(0))}
}

func FloatField(name string) Field {
	return Field{Name: name, ColumnType: "real", Default: Static(0.0)}
}

func TextField(name string) Field {
	return Field{Name: name, ColumnType: "text"}
}

// Key marks the field as the primary key.
func (f Field) Key() Field {
	f.PrimaryKey = true
	return f
}

func (f Field) WithDefault(d Default) Field {
	f.Default = d
	return f
}

// WithColumn maps the field to a column whose name differs from the field name.
func (f Field) WithColumn(column string) Field {
	f.Column = column
	return f
}

func (f Field) WithUnique() Field {
	f.Unique = true
	return f
}

func (f Field) WithIndex() Field {
	f.Indexed = true
	return f
}

// ColumnName is the column the field is stored in.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

func (f Field) String() string {
	return fmt.Sprintf("<%s:%s>", f.ColumnType, f.ColumnName())
}
