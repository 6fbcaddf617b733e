package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/s0up4200/qbitctl/qbittorrent"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression  string
	program     *vm.Program
	helperFuncs map[string]any
	logger      zerolog.Logger
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// WithLogger sets the logger used to report evaluation errors
func WithLogger(logger zerolog.Logger) ExprCompilerOption {
	return func(c *exprCompiler) {
		c.logger = logger
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: make(map[string]any),
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
	logger      zerolog.Logger
}

// Compile compiles an expression into an executable filter. Shorthand
// syntax (tag:"x" AND ...) is rewritten first.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	source := expression
	if IsShorthand(expression) {
		source = ConvertShorthand(expression)
	}

	// A zero torrent gives the checker the types of every field and helper.
	program, err := expr.Compile(source,
		expr.Env(c.environment(qbittorrent.Torrent{})),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression:  expression,
		program:     program,
		helperFuncs: c.helperFuncs,
		logger:      c.logger,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

func (c *exprCompiler) environment(t qbittorrent.Torrent) map[string]any {
	env := createRuntimeEnvironment(t)
	maps.Copy(env, c.helperFuncs)
	return env
}

// Evaluate evaluates the filter against a torrent. Runtime errors count as
// no match.
func (f *exprFilter) Evaluate(torrent qbittorrent.Torrent) bool {
	env := createRuntimeEnvironment(torrent)
	maps.Copy(env, f.helperFuncs)

	result, err := expr.Run(f.program, env)
	if err != nil {
		f.logger.Debug().
			Err(&EvaluationError{Expression: f.expression, TorrentHash: torrent.Hash, Err: err}).
			Msg("Filter evaluation failed")
		return false
	}

	// AsBool guarantees the type
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// addHelperFunctions adds the torrent independent helpers to env
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		if t.IsZero() {
			return 0
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["hoursAgo"] = func(hours int) time.Time {
		return time.Now().Add(-time.Duration(hours) * time.Hour)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// Size helpers
	env["parseSize"] = func(size string) int64 {
		n, err := units.FromHumanSize(size)
		if err != nil {
			return 0
		}
		return n
	}
	env["gb"] = func(n float64) int64 {
		return int64(n * units.GB)
	}
	// Case-insensitive string helpers. contains, startsWith and endsWith are
	// expr operators; lower, upper, hasPrefix and hasSuffix are builtins.
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["ihasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["ihasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
}

// createRuntimeEnvironment exposes the torrent fields and helpers bound to it
func createRuntimeEnvironment(t qbittorrent.Torrent) map[string]any {
	env := make(map[string]any, 40)

	addHelperFunctions(env)

	env["Torrent"] = t

	tags := t.TagList()
	env["hasTag"] = createHasTagFunc(tags)
	env["isSeeding"] = func() bool { return t.IsSeeding() }
	env["isComplete"] = func() bool { return t.IsComplete() }
	env["isPaused"] = func() bool { return t.State.IsPaused() }

	env["Name"] = t.Name
	env["Hash"] = t.Hash
	env["State"] = string(t.State)
	env["Category"] = t.Category
	env["Tags"] = tags
	env["Size"] = t.Size
	env["Progress"] = t.Progress
	env["Ratio"] = t.Ratio
	env["AddedOn"] = unixTime(t.AddedOn)
	env["CompletionOn"] = unixTime(t.CompletionOn)
	env["SeedingTime"] = time.Duration(t.SeedingTime) * time.Second
	env["Tracker"] = t.Tracker
	env["SavePath"] = t.SavePath
	env["NumSeeds"] = t.NumSeeds
	env["NumLeechs"] = t.NumLeechs

	return env
}

// unixTime maps the remote's "never" values (0 and -1) to the zero time
func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

func createHasTagFunc(tags []string) func(string) bool {
	lowerTags := make([]string, len(tags))
	for i, tag := range tags {
		lowerTags[i] = strings.ToLower(tag)
	}
	return func(tag string) bool {
		return slices.Contains(lowerTags, strings.ToLower(tag))
	}
}
