package validation

import (
	"fmt"
	"log/slog"

	"github.com/getmockd/reqguard/internal/matching"
	"github.com/getmockd/reqguard/pkg/checks"
	"github.com/getmockd/reqguard/pkg/logging"
	"github.com/getmockd/reqguard/pkg/schema"
)

// Route is a compiled schema route.
type Route struct {
	Pattern string
	Tree    schema.RuleTree
	Checks  []FieldCheck
}

// Engine validates request input against a compiled schema. It is immutable
// once New returns and safe for concurrent use.
type Engine struct {
	routes   *matching.Registry[*Route]
	provider checks.Provider
	custom   []CustomCheck
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithProvider replaces the primitive check provider.
func WithProvider(p checks.Provider) Option {
	return func(e *Engine) {
		if p != nil {
			e.provider = p
		}
	}
}

// WithCustomChecks appends whole-input checks run after the schema checks.
func WithCustomChecks(c ...CustomCheck) Option {
	return func(e *Engine) {
		e.custom = append(e.custom, c...)
	}
}

// WithLogger sets the logger used for registration messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New checks s, compiles every route and registers them in order.
func New(s schema.Schema, opts ...Option) (*Engine, error) {
	e := &Engine{
		routes:   matching.NewRegistry[*Route](),
		provider: checks.New(),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := s.Check(); err != nil {
		return nil, err
	}

	for _, r := range s {
		route := &Route{
			Pattern: r.Pattern,
			Tree:    r.Tree,
			Checks:  Compile(r.Tree, "", e.provider),
		}
		if err := e.routes.Register(r.Pattern, route); err != nil {
			return nil, fmt.Errorf("register route: %w", err)
		}
		e.logger.Debug("registered validation route",
			"pattern", r.Pattern, "fields", len(route.Checks))
	}
	return e, nil
}

// NewFromDocument meta-validates and builds doc, then calls New.
func NewFromDocument(doc *schema.Object, opts ...Option) (*Engine, error) {
	s, err := schema.Build(doc)
	if err != nil {
		return nil, err
	}
	return New(s, opts...)
}

// Routes returns the compiled routes in registration order.
func (e *Engine) Routes() []*Route {
	entries := e.routes.Entries()
	routes := make([]*Route, len(entries))
	for i, entry := range entries {
		routes[i] = entry.Value
	}
	return routes
}

// Match resolves path to the first matching route and its path params.
func (e *Engine) Match(path string) (*Route, map[string]string, bool) {
	route, params, ok := e.routes.Resolve(path)
	if !ok {
		return nil, nil, false
	}
	return route, params, true
}

// Validate evaluates input against a matched route and the custom checks.
func (e *Engine) Validate(route *Route, input Input) *Failure {
	return Evaluate(route.Checks, input, e.custom...)
}

// Check resolves path and validates input against its route. Params captured
// from path are layered over input, as MergeInput does; input is not modified.
// It returns ErrRouteNotFound when no route matches.
func (e *Engine) Check(path string, input Input) (*Failure, error) {
	route, params, ok := e.Match(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
	}
	if len(params) > 0 {
		input = MergeInput(input, nil, params)
	}
	return e.Validate(route, input), nil
}
