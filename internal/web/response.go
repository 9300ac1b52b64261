package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"awesomeblog/internal/apis"
)

const (
	// TemplateKey names the template a handler's map result is rendered with.
	TemplateKey = "__template__"
	// UserKey carries the signed-in user into template data.
	UserKey = "__user__"

	redirectPrefix = "redirect:"
)

// Response is a fully specified result. It is written as is.
type Response struct {
	Status  int
	Header  http.Header
	Cookies []*http.Cookie
	Body    []byte
}

func (resp *Response) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	for _, c := range resp.Cookies {
		http.SetCookie(w, c)
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	w.Write(resp.Body)
}

// JSON builds a 200 response with v encoded as JSON.
func JSON(v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json;charset=utf-8")
	return &Response{Status: http.StatusOK, Header: h, Body: body}, nil
}

// Status is a status code with a text body.
type Status struct {
	Code    int
	Message string
}

// Renderer executes a named template.
type Renderer interface {
	Render(w io.Writer, name string, data map[string]any) error
}

// Responder turns handler results into HTTP responses.
type Responder struct {
	renderer    Renderer
	currentUser func(*http.Request) any
	logger      *zap.Logger
}

func NewResponder(renderer Renderer, currentUser func(*http.Request) any, logger *zap.Logger) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{renderer: renderer, currentUser: currentUser, logger: logger}
}

func (rs *Responder) Respond(w http.ResponseWriter, r *http.Request, result any) {
	switch v := result.(type) {
	case nil:
		writeBody(w, http.StatusOK, "text/plain;charset=utf-8", nil)
	case http.Handler:
		v.ServeHTTP(w, r)
	case []byte:
		writeBody(w, http.StatusOK, "application/octet-stream", v)
	case string:
		if target, ok := strings.CutPrefix(v, redirectPrefix); ok {
			w.Header().Set("Location", target)
			w.WriteHeader(http.StatusFound)
			return
		}
		writeBody(w, http.StatusOK, "text/html;charset=utf-8", []byte(v))
	case map[string]any:
		if name, ok := v[TemplateKey].(string); ok {
			rs.render(w, r, name, v)
			return
		}
		rs.json(w, v)
	case Status:
		rs.status(w, v)
	case *Status:
		rs.status(w, *v)
	default:
		if code, ok := integer(result); ok {
			if code >= 100 && code < 600 {
				w.WriteHeader(int(code))
				return
			}
			rs.text(w, result)
			return
		}
		if isRecord(result) {
			rs.json(w, result)
			return
		}
		rs.text(w, result)
	}
}

// integer reports the value of any signed or unsigned integer kind.
// Unsigned values past the int64 range come back as -1.
func integer(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return rv.Int(), true
	case rv.CanUint():
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), true
		}
		return -1, true
	}
	return 0, false
}

func (rs *Responder) status(w http.ResponseWriter, s Status) {
	if s.Code < 100 || s.Code >= 600 {
		rs.text(w, s)
		return
	}
	writeBody(w, s.Code, "text/plain;charset=utf-8", []byte(s.Message))
}

func (rs *Responder) text(w http.ResponseWriter, v any) {
	writeBody(w, http.StatusOK, "text/plain;charset=utf-8", []byte(fmt.Sprint(v)))
}

func (rs *Responder) json(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		rs.InternalError(w, fmt.Errorf("encode response: %w", err))
		return
	}
	writeBody(w, http.StatusOK, "application/json;charset=utf-8", body)
}

func (rs *Responder) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if rs.renderer == nil {
		rs.InternalError(w, errors.New("no template renderer configured"))
		return
	}

	vars := make(map[string]any, len(data)+1)
	for k, v := range data {
		vars[k] = v
	}
	if rs.currentUser != nil {
		vars[UserKey] = rs.currentUser(r)
	}

	var buf bytes.Buffer
	if err := rs.renderer.Render(&buf, name, vars); err != nil {
		rs.InternalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	writeBody(w, http.StatusOK, "text/html;charset=utf-8", buf.Bytes())
}

// Error answers a failed handler. API errors become a JSON body; anything
// else is logged and hidden behind a 500.
func (rs *Responder) Error(w http.ResponseWriter, err error) {
	var apiErr *apis.APIError
	if errors.As(err, &apiErr) {
		body, _ := json.Marshal(apiErr)
		writeBody(w, apiErr.Status(), "application/json;charset=utf-8", body)
		return
	}

	var badReq *BadRequestError
	if errors.As(err, &badReq) {
		writeBody(w, http.StatusBadRequest, "text/plain;charset=utf-8", []byte(badReq.Message))
		return
	}

	rs.InternalError(w, err)
}

func (rs *Responder) InternalError(w http.ResponseWriter, err error) {
	rs.logger.Error("request failed", zap.Error(err))
	writeBody(w, http.StatusInternalServerError, "application/json;charset=utf-8",
		[]byte(`{"error":"internal:error","data":"","message":""}`))
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(body)
}

// isRecord reports whether v serializes as a JSON object or list.
func isRecord(v any) bool {
	if _, ok := v.(json.Marshaler); ok {
		return true
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map:
		return true
	}
	return false
}
