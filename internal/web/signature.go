package web

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

// InvalidHandlerSignatureError is raised at route registration when a
// handler's parameter struct cannot be bound.
type InvalidHandlerSignatureError struct {
	Handler string
	Reason  string
}

func (e *InvalidHandlerSignatureError) Error() string {
	return fmt.Sprintf("invalid handler signature %s: %s", e.Handler, e.Reason)
}

type paramKind int

const (
	paramPositional paramKind = iota
	paramKeyword
)

type param struct {
	name       string
	kind       paramKind
	def        string
	hasDefault bool
}

// Signature is the classification of a handler's parameter struct. It is
// computed once when the route is registered.
//
// Parameters are declared with struct tags:
//
//	ID      string         `param:"id,path"`            // positional
//	Content string         `param:"content"`            // required keyword
//	Page    int            `param:"page" default:"1"`   // optional keyword
//	Extra   map[string]any `param:",remain"`           // keyword sink
//	Request *http.Request                              // the request itself
type Signature struct {
	HasRequestParam       bool
	HasVarKeywordSink     bool
	NamedKeywordParams    []string
	RequiredKeywordParams []string
	PositionalParams      []string

	params       []param
	requestField []int
}

var requestType = reflect.TypeOf((*http.Request)(nil))

// Analyze classifies the fields of the struct type t.
func Analyze(t reflect.Type) (*Signature, error) {
	invalid := func(format string, args ...any) error {
		return &InvalidHandlerSignatureError{Handler: t.String(), Reason: fmt.Sprintf(format, args...)}
	}

	if t.Kind() != reflect.Struct {
		return nil, invalid("parameters must be a struct, got %s", t.Kind())
	}

	s := &Signature{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag, tagged := f.Tag.Lookup("param")

		if f.Type == requestType {
			if tagged {
				return nil, invalid("request field %s must not carry a param tag", f.Name)
			}
			if s.HasRequestParam {
				return nil, invalid("more than one request field")
			}
			s.HasRequestParam = true
			s.requestField = f.Index
			continue
		}

		if !tagged || tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		switch opts {
		case "remain":
			if f.Type != reflect.TypeOf(map[string]any(nil)) {
				return nil, invalid("keyword sink %s must be map[string]any", f.Name)
			}
			if s.HasVarKeywordSink {
				return nil, invalid("more than one keyword sink")
			}
			s.HasVarKeywordSink = true
			continue
		case "path":
			if name == "" {
				return nil, invalid("positional field %s has no name", f.Name)
			}
			if s.HasRequestParam {
				return nil, invalid("request parameter must be the last positional parameter, found %s after it", name)
			}
			s.PositionalParams = append(s.PositionalParams, name)
			s.params = append(s.params, param{name: name, kind: paramPositional})
			continue
		case "":
		default:
			return nil, invalid("unknown param option %q on %s", opts, f.Name)
		}

		if name == "" {
			return nil, invalid("keyword field %s has no name", f.Name)
		}
		def, hasDefault := f.Tag.Lookup("default")
		s.NamedKeywordParams = append(s.NamedKeywordParams, name)
		if !hasDefault {
			s.RequiredKeywordParams = append(s.RequiredKeywordParams, name)
		}
		s.params = append(s.params, param{name: name, kind: paramKeyword, def: def, hasDefault: hasDefault})
	}

	return s, nil
}

// needsKeywords reports whether the request body or query must be parsed.
func (s *Signature) needsKeywords() bool {
	return s.HasVarKeywordSink || len(s.NamedKeywordParams) > 0
}

func (s *Signature) defaults() map[string]any {
	out := make(map[string]any)
	for _, p := range s.params {
		if p.hasDefault {
			out[p.name] = p.def
		}
	}
	return out
}

func (s *Signature) isNamedKeyword(name string) bool {
	for _, n := range s.NamedKeywordParams {
		if n == name {
			return true
		}
	}
	return false
}

func (s *Signature) String() string {
	names := make([]string, 0, len(s.params)+2)
	for _, p := range s.params {
		switch {
		case p.kind == paramPositional:
			names = append(names, "{"+p.name+"}")
		case p.hasDefault:
			names = append(names, p.name+"="+p.def)
		default:
			names = append(names, p.name)
		}
	}
	if s.HasRequestParam {
		names = append(names, "request")
	}
	if s.HasVarKeywordSink {
		names = append(names, "...")
	}
	return strings.Join(names, ", ")
}
