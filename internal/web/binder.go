package web

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
)

const maxMultipartMemory = 32 << 20

// BadRequestError is a request that could not be bound to a handler. It is
// answered with a plain text 400.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func badRequest(format string, args ...any) *BadRequestError {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// Bind collects the handler's arguments from the request: body or query,
// then path parameters. It fails when a required argument is absent.
func (s *Signature) Bind(r *http.Request, logger *zap.Logger) (map[string]any, error) {
	var kw map[string]any

	if s.needsKeywords() {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			body, err := parseBody(r)
			if err != nil {
				return nil, err
			}
			kw = body
		case http.MethodGet, http.MethodHead:
			if r.URL.RawQuery != "" {
				kw = firstValues(r.URL.Query())
			}
		}
	}

	pathParams := routeParams(r)
	if kw == nil {
		kw = pathParams
	} else {
		if !s.HasVarKeywordSink && len(s.NamedKeywordParams) > 0 {
			filtered := make(map[string]any, len(s.NamedKeywordParams))
			for name, v := range kw {
				if s.isNamedKeyword(name) {
					filtered[name] = v
				}
			}
			kw = filtered
		}
		for k, v := range pathParams {
			if _, dup := kw[k]; dup {
				logger.Warn("duplicate arg name in path and keyword args", zap.String("name", k))
			}
			kw[k] = v
		}
	}

	for _, name := range s.RequiredKeywordParams {
		if _, ok := kw[name]; !ok {
			return nil, badRequest("Missing argument: %s", name)
		}
	}
	for _, name := range s.PositionalParams {
		if _, ok := kw[name]; !ok {
			return nil, badRequest("Missing argument: %s", name)
		}
	}

	return kw, nil
}

// Decode fills target, a pointer to the analyzed struct, from kw and the
// declared defaults.
func (s *Signature) Decode(kw map[string]any, r *http.Request, target any) error {
	input := s.defaults()
	for k, v := range kw {
		input[k] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:              "param",
		WeaklyTypedInput:     true,
		IgnoreUntaggedFields: true,
		Result:               target,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return badRequest("Invalid argument: %v", err)
	}

	if s.HasRequestParam {
		reflect.ValueOf(target).Elem().FieldByIndex(s.requestField).Set(reflect.ValueOf(r))
	}
	return nil
}

func parseBody(r *http.Request) (map[string]any, error) {
	raw := r.Header.Get("Content-Type")
	if raw == "" {
		return nil, badRequest("Missing Content-Type.")
	}

	ct := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(ct, "application/json"):
		var body any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, badRequest("Invalid JSON body.")
		}
		obj, ok := body.(map[string]any)
		if !ok {
			return nil, badRequest("JSON body must be object.")
		}
		return obj, nil

	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return nil, badRequest("Invalid form body.")
		}
		return firstValues(r.PostForm), nil

	case strings.HasPrefix(ct, "multipart/form-data"):
		if _, _, err := mime.ParseMediaType(raw); err != nil {
			return nil, badRequest("Invalid form body.")
		}
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, badRequest("Invalid form body.")
		}
		return firstValues(r.MultipartForm.Value), nil
	}

	return nil, badRequest("Unsupported Content-Type: %s", raw)
}

func firstValues(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func routeParams(r *http.Request) map[string]any {
	out := make(map[string]any)
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return out
	}
	for i, k := range rctx.URLParams.Keys {
		if k == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		out[k] = rctx.URLParams.Values[i]
	}
	return out
}
