package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/reqguard/pkg/logging"
)

// RequestIDHeader carries the request id in and out of the middleware.
const RequestIDHeader = "X-Request-ID"

// DefaultMaxBodyBytes caps how much of a request body is decoded.
const DefaultMaxBodyBytes = 1 << 20

// MiddlewareConfig controls the HTTP adapter.
type MiddlewareConfig struct {
	// MountPrefix is stripped from the request path before route matching.
	MountPrefix string

	// MaxBodyBytes limits the decoded body. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// AllowUnmatched passes requests without a matching route through
	// instead of rejecting them.
	AllowUnmatched bool

	// Logger receives one entry per rejected request. Defaults to a no-op logger.
	Logger *slog.Logger

	// Observer, when set, is told the outcome of every checked request.
	Observer Observer
}

// Observer receives the outcome of every request the middleware checks.
// route is "" when no route matched; kind is "" when the request passed,
// otherwise a failure kind code or a body error type such as "invalid_json".
type Observer interface {
	ObserveRequest(route, kind string, elapsed time.Duration)
}

// Middleware validates requests with an Engine before handing them on.
type Middleware struct {
	handler http.Handler
	engine  *Engine
	config  MiddlewareConfig
}

// NewMiddleware creates a new validation middleware
func NewMiddleware(handler http.Handler, engine *Engine, config MiddlewareConfig) *Middleware {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.Logger == nil {
		config.Logger = logging.Nop()
	}
	return &Middleware{
		handler: handler,
		engine:  engine,
		config:  config,
	}
}

// NewMiddlewareFunc creates a middleware function for use with routers
func NewMiddlewareFunc(engine *Engine, config MiddlewareConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return NewMiddleware(next, engine, config)
	}
}

// Middleware returns e wrapped as router middleware.
func (e *Engine) Middleware(config MiddlewareConfig) func(http.Handler) http.Handler {
	return NewMiddlewareFunc(e, config)
}

// ServeHTTP implements http.Handler
func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		r.Header.Set(RequestIDHeader, requestID)
	}
	w.Header().Set(RequestIDHeader, requestID)
	log := m.config.Logger.With("request_id", requestID, "method", r.Method)
	start := time.Now()

	path := m.stripPrefix(r.URL.Path)
	log = log.With("path", path)

	route, params, ok := m.engine.Match(path)
	if !ok {
		m.observe("", "", start)
		if m.config.AllowUnmatched {
			m.handler.ServeHTTP(w, r)
			return
		}
		log.Info("request rejected", "reason", "route_not_found")
		newProblem("route_not_found", "Request Validation Failed", http.StatusBadRequest,
			ErrRouteNotFound.Error()).WriteResponse(w)
		return
	}

	body, problem := m.readBody(w, r)
	if problem != nil {
		m.observe(route.Pattern, problem.Type, start)
		log.Info("request rejected", "reason", problem.Type)
		problem.WriteResponse(w)
		return
	}

	input := MergeInput(body, QueryValues(r.URL.Query()), params)
	failure := m.engine.Validate(route, input)
	if failure != nil {
		m.observe(route.Pattern, failure.Kind.String(), start)
		log.Info("request rejected",
			"route", route.Pattern, "field", failure.Field, "kind", failure.Kind.String())
		NewErrorResponse(failure, http.StatusBadRequest).WriteResponse(w)
		return
	}

	m.observe(route.Pattern, "", start)
	m.handler.ServeHTTP(w, r)
}

func (m *Middleware) observe(route, kind string, start time.Time) {
	if m.config.Observer != nil {
		m.config.Observer.ObserveRequest(route, kind, time.Since(start))
	}
}

func (m *Middleware) stripPrefix(path string) string {
	prefix := strings.TrimSuffix(m.config.MountPrefix, "/")
	if prefix == "" {
		return path
	}
	if path == prefix {
		return "/"
	}
	if strings.HasPrefix(path, prefix+"/") {
		return path[len(prefix):]
	}
	return path
}

// readBody decodes a JSON or form body and restores r.Body for the next handler.
func (m *Middleware) readBody(w http.ResponseWriter, r *http.Request) (map[string]any, *ErrorResponse) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, m.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, newProblem("body_too_large", "Request Body Too Large",
				http.StatusRequestEntityTooLarge, err.Error())
		}
		return nil, newProblem("read_error", "Request Validation Failed",
			http.StatusBadRequest, "failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(data))
		if err != nil {
			return nil, newProblem("invalid_form", "Request Validation Failed",
				http.StatusBadRequest, "invalid form body: "+err.Error())
		}
		return QueryValues(values), nil
	}

	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, newProblem("invalid_json", "Request Validation Failed",
			http.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, newProblem("invalid_json", "Request Validation Failed",
			http.StatusBadRequest, "request body must be a JSON object")
	}
	return obj, nil
}
