package web

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"runtime"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandlerFunc is a route handler. P is a struct whose tagged fields declare
// the handler's parameters; see Signature.
type HandlerFunc[P any] func(ctx context.Context, p *P) (any, error)

// Router registers handlers on a chi router. Registration errors are
// collected and reported by Err.
type Router struct {
	mux       chi.Router
	responder *Responder
	logger    *zap.Logger
	errs      []error
}

func NewRouter(mux chi.Router, responder *Responder, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{mux: mux, responder: responder, logger: logger}
}

func (rt *Router) Mux() chi.Router {
	return rt.mux
}

// Err joins every registration error.
func (rt *Router) Err() error {
	return errors.Join(rt.errs...)
}

func Get[P any](rt *Router, pattern string, h HandlerFunc[P]) {
	Handle(rt, http.MethodGet, pattern, h)
}

func Post[P any](rt *Router, pattern string, h HandlerFunc[P]) {
	Handle(rt, http.MethodPost, pattern, h)
}

// Handle analyzes h's parameters and mounts it at method and pattern.
func Handle[P any](rt *Router, method, pattern string, h HandlerFunc[P]) {
	name := handlerName(h)
	if method == "" || pattern == "" || h == nil {
		rt.errs = append(rt.errs, &InvalidHandlerSignatureError{
			Handler: name,
			Reason:  "method, path and handler are required",
		})
		return
	}

	sig, err := Analyze(reflect.TypeOf((*P)(nil)).Elem())
	if err != nil {
		rt.errs = append(rt.errs, err)
		return
	}

	rt.logger.Info("add route",
		zap.String("method", method),
		zap.String("path", pattern),
		zap.String("handler", name),
		zap.Stringer("params", sig),
	)

	rt.mux.Method(method, pattern, &routeHandler[P]{
		sig:       sig,
		fn:        h,
		responder: rt.responder,
		logger:    rt.logger,
	})
}

type routeHandler[P any] struct {
	sig       *Signature
	fn        HandlerFunc[P]
	responder *Responder
	logger    *zap.Logger
}

func (h *routeHandler[P]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kw, err := h.sig.Bind(r, h.logger)
	if err != nil {
		h.responder.Error(w, err)
		return
	}

	var p P
	if err := h.sig.Decode(kw, r, &p); err != nil {
		h.responder.Error(w, err)
		return
	}

	h.logger.Debug("call with args", zap.String("path", r.URL.Path), zap.Any("args", kw))

	result, err := h.fn(r.Context(), &p)
	if err != nil {
		h.responder.Error(w, err)
		return
	}
	h.responder.Respond(w, r, result)
}

func handlerName(h any) string {
	v := reflect.ValueOf(h)
	if !v.IsValid() || v.IsNil() {
		return "<nil>"
	}
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		return fn.Name()
	}
	return v.Type().String()
}
