// Package evaluator compiles and evaluates query expression trees.
//
// The evaluator receives a parsed tree from the parser, builds an expression tree with static
// function and arity checks, compiles it (pre-evaluating constant subexpressions and rewriting
// index requests into index scans) and evaluates it lazily against a database:
//   - Compile once, evaluate many times (a compiled Query is safe for concurrent use)
//   - Built-in and custom functions
//   - Nested queries through eval() and run()
//   - Concurrent evaluation of independent queries on a worker pool
//   - Timeout and cancellation via context.Context
//
// # Example
//
//	ev := evaluator.New(evaluator.WithCatalog(catalog))
//	result, err := ev.Eval(ctx, expr, db)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Independent queries can be evaluated concurrently:
//
//	results, err := ev.EvalMany(ctx, exprs, db)
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandrolain/goxq/pkg/cache"
	"github.com/sandrolain/goxq/pkg/functions"
	"github.com/sandrolain/goxq/pkg/metrics"
	"github.com/sandrolain/goxq/pkg/parser"
	"github.com/sandrolain/goxq/pkg/resource"
	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// defaultConcurrency is the Concurrency default of New. WebAssembly builds turn it off.
var defaultConcurrency = true

// Evaluator compiles and evaluates queries.
type Evaluator struct {
	opts      EvalOptions
	logger    *slog.Logger
	cache     *cache.Cache       // non-nil when Caching is enabled
	metrics   *metrics.Metrics   // nil records nothing
	customFns map[string]*FunDef // user-registered custom functions
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Caching enables parse caching of query strings passed to Compile and to nested queries.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached expressions.
	// Only used when Caching is true and no explicit Cache is provided.
	CacheSize int
	// Cache is a custom expression cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// Concurrency enables concurrent evaluation in EvalMany.
	Concurrency bool
	// Workers bounds the worker pool of EvalMany. Defaults to 8.
	Workers int
	// MaxDepth limits the nesting of eval() and run() queries.
	MaxDepth int
	// Timeout sets the evaluation timeout.
	Timeout time.Duration
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// Catalog resolves database names for db().
	Catalog storage.Catalog
	// Fetcher reads resources for read() and run(). Defaults to resource.Default().
	Fetcher resource.Fetcher
	// Metrics records compilation and evaluation metrics.
	Metrics *metrics.Metrics
	// CustomFunctions holds user-defined functions to register with the evaluator.
	CustomFunctions []functions.CustomFunctionDef
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		Caching:     false,
		Concurrency: defaultConcurrency,
		Workers:     8,
		MaxDepth:    32,
		Timeout:     30 * time.Second,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Fetcher == nil {
		options.Fetcher = resource.Default()
	}

	// Initialise expression cache when caching is enabled.
	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New(options.CacheSize)
	}

	// Build custom function lookup map.
	customFns := make(map[string]*FunDef, len(options.CustomFunctions))
	for _, cfd := range options.CustomFunctions {
		customFns[cfd.Name] = customFunDef(cfd)
	}

	return &Evaluator{
		opts:      options,
		logger:    options.Logger,
		cache:     c,
		metrics:   options.Metrics,
		customFns: customFns,
	}
}

// customFunDef wraps a user-defined function into a signature. Arguments are passed as
// materialized sequences.
func customFunDef(cfd functions.CustomFunctionDef) *FunDef {
	def := &FunDef{
		Name:    cfd.Name,
		MinArgs: cfd.MinArgs,
		MaxArgs: cfd.MaxArgs,
		Ret:     cfd.ReturnType(),
	}
	if cfd.Nondeterministic {
		def.Flags |= FlagNondeterministic
	}
	def.iter = func(qc *QueryContext, f *FunCall) (value.Iter, error) {
		args := make([]value.Value, len(f.args))
		for i := range f.args {
			v, err := f.valueArg(qc, i)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		res, err := cfd.Fn(qc.ctx, args...)
		if err != nil {
			return nil, err
		}
		if res == nil {
			res = value.Empty
		}
		return value.IterOf(res), nil
	}
	return def
}

// Cache returns the expression cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// getCustomFunction returns a user-defined custom function by name, or (nil, false).
func (e *Evaluator) getCustomFunction(name string) (*FunDef, bool) {
	if len(e.customFns) == 0 {
		return nil, false
	}
	fn, ok := e.customFns[name]
	return fn, ok
}

// parse parses a query string, through the cache when enabled.
func (e *Evaluator) parse(query string) (*types.Expression, error) {
	if e.cache == nil {
		return parser.Compile(query)
	}
	return e.cache.GetOrCompile(query, func() (*types.Expression, error) {
		return parser.Compile(query)
	})
}

// Compile parses and compiles a query against data. data may be nil for queries that do not
// access an ambient database.
func (e *Evaluator) Compile(ctx context.Context, query string, data storage.Data) (*Query, error) {
	expr, err := e.parse(query)
	if err != nil {
		return nil, err
	}
	return e.prepare(ctx, expr, data, 0)
}

// Prepare compiles a parsed expression against data.
func (e *Evaluator) Prepare(ctx context.Context, expr *types.Expression, data storage.Data) (*Query, error) {
	return e.prepare(ctx, expr, data, 0)
}

func (e *Evaluator) prepare(ctx context.Context, expr *types.Expression, data storage.Data, depth int) (*Query, error) {
	if expr == nil || expr.AST() == nil {
		return nil, fmt.Errorf("invalid expression")
	}
	root, err := e.build(expr.AST())
	if err != nil {
		return nil, err
	}
	qc := newQueryContext(ctx, e, data, depth)
	root, err = root.Compile(qc)
	if err != nil {
		return nil, err
	}
	e.metrics.Compiled()
	qc.debug("compiled", "source", expr.Source(), "plan", root.String())
	return &Query{ev: e, expr: expr, root: root, data: data, depth: depth}, nil
}

// Eval compiles and evaluates an expression against data and returns the materialized result.
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression, data storage.Data) (value.Value, error) {
	// Apply timeout if configured
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	q, err := e.Prepare(ctx, expr, data)
	if err != nil {
		return nil, err
	}
	return q.Value(ctx)
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithCaching enables or disables expression caching.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached expressions.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external expression cache.
// The evaluator will use this cache regardless of the Caching flag.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithConcurrency enables or disables concurrent evaluation.
func WithConcurrency(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Concurrency = enabled
	}
}

// WithWorkers sets the size of the EvalMany worker pool.
func WithWorkers(n int) EvalOption {
	return func(opts *EvalOptions) {
		opts.Workers = n
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum nesting depth of eval() and run().
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithCatalog sets the catalog used by db().
func WithCatalog(c storage.Catalog) EvalOption {
	return func(opts *EvalOptions) {
		opts.Catalog = c
	}
}

// WithFetcher sets the resource fetcher used by read() and run().
func WithFetcher(f resource.Fetcher) EvalOption {
	return func(opts *EvalOptions) {
		opts.Fetcher = f
	}
}

// WithMetrics records metrics in m.
func WithMetrics(m *metrics.Metrics) EvalOption {
	return func(opts *EvalOptions) {
		opts.Metrics = m
	}
}

// WithCustomFunction registers a user-defined function with the evaluator.
// minArgs and maxArgs bound the arity (maxArgs -1 for unlimited). Custom functions are
// assumed deterministic and may be evaluated at compile time when all arguments are
// constant; register a functions.CustomFunctionDef with Nondeterministic set via
// WithFunctions to prevent that.
//
// Example:
//
//	goxq.Eval(`greet("World")`, nil, goxq.WithCustomFunction("greet", 1, 1,
//	    func(ctx context.Context, args ...value.Value) (value.Value, error) {
//	        s, _ := args[0].ItemAt(0).Text()
//	        return value.Str("Hello, " + s + "!"), nil
//	    }))
func WithCustomFunction(name string, minArgs, maxArgs int, fn functions.CustomFunc) EvalOption {
	return WithFunctions(functions.CustomFunctionDef{
		Name:    name,
		MinArgs: minArgs,
		MaxArgs: maxArgs,
		Fn:      fn,
	})
}

// WithFunctions registers user-defined functions with the evaluator.
func WithFunctions(defs ...functions.CustomFunctionDef) EvalOption {
	return func(opts *EvalOptions) {
		opts.CustomFunctions = append(opts.CustomFunctions, defs...)
	}
}
