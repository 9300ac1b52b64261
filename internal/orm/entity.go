package orm

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// Entity is one in-memory row of a model. Values are keyed by field name;
// keys outside the schema are allowed and never persisted.
type Entity struct {
	schema *Schema
	values map[string]any
}

func NewEntity(schema *Schema, values map[string]any) *Entity {
	e := &Entity{schema: schema, values: make(map[string]any, len(values))}
	for k, v := range values {
		e.values[k] = v
	}
	return e
}

func (e *Entity) Schema() *Schema {
	return e.schema
}

// Get returns the stored value. A nil value counts as unset.
func (e *Entity) Get(name string) (any, bool) {
	v, ok := e.values[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Value returns the stored value or nil.
func (e *Entity) Value(name string) any {
	v, _ := e.Get(name)
	return v
}

func (e *Entity) Set(name string, value any) {
	e.values[name] = value
}

func (e *Entity) Unset(name string) {
	delete(e.values, name)
}

// ValueOrDefault returns the stored value, materializing and caching the
// field's default the first time an unset field is read.
func (e *Entity) ValueOrDefault(name string) any {
	if v, ok := e.Get(name); ok {
		return v
	}
	f, ok := e.schema.Field(name)
	if !ok {
		return nil
	}
	v, ok := f.Default.Resolve()
	if !ok {
		return nil
	}
	e.values[name] = v
	return v
}

func (e *Entity) String(name string) string {
	return cast.ToString(e.Value(name))
}

func (e *Entity) Bool(name string) bool {
	return cast.ToBool(e.Value(name))
}

func (e *Entity) Float(name string) float64 {
	return cast.ToFloat64(e.Value(name))
}

func (e *Entity) Int(name string) int64 {
	return cast.ToInt64(e.Value(name))
}

// Map returns a copy of the stored values.
func (e *Entity) Map() map[string]any {
	out := make(map[string]any, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.values)
}
