package storefront

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const engineJS = "js"

// RuleContext is the input of a single rule evaluation.
type RuleContext struct {
	// Fields holds the order draft keyed by field name.
	Fields map[string]any
	// Pass names the validation pass running the rule.
	Pass string
}

func (ctx RuleContext) passName() string {
	if ctx.Pass == "" {
		return "adhoc"
	}
	return ctx.Pass
}

// bindings returns the variables a rule can reference: every draft field
// plus pass.
func (ctx RuleContext) bindings() map[string]any {
	out := make(map[string]any, len(ctx.Fields)+1)
	for name, value := range ctx.Fields {
		out[name] = value
	}
	out["pass"] = ctx.passName()
	return out
}

func (ctx RuleContext) fieldNames() []string {
	names := make([]string, 0, len(ctx.Fields))
	for name := range ctx.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluator compiles and runs rule expressions.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule is a rule ready to run against many drafts.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

type compiledFunc func(ctx RuleContext) (any, error)

func (fn compiledFunc) Evaluate(ctx RuleContext) (any, error) {
	return fn(ctx)
}

// CompileOption configures Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	variables []string
}

// WithVariables declares the draft fields a rule may reference. Declared
// fields are typed as strings, so misspelled names fail at compile time.
func WithVariables(names ...string) CompileOption {
	return func(cfg *compileConfig) {
		cfg.variables = append(cfg.variables, names...)
	}
}

func applyCompileOptions(opts []CompileOption) compileConfig {
	cfg := compileConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	seen := map[string]struct{}{}
	variables := cfg.variables[:0]
	for _, name := range cfg.variables {
		name = strings.TrimSpace(name)
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		variables = append(variables, name)
	}
	sort.Strings(variables)
	cfg.variables = variables
	return cfg
}

// EngineOption configures the bundled evaluators.
type EngineOption func(*engineConfig)

type engineConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// WithEngineCache shares compiled programs through cache.
func WithEngineCache(cache ProgramCache) EngineOption {
	return func(cfg *engineConfig) {
		cfg.cache = cache
	}
}

// WithEngineFunctions exposes the functions in registry to rules. The
// registry is copied.
func WithEngineFunctions(registry *FunctionRegistry) EngineOption {
	return func(cfg *engineConfig) {
		cfg.registry = registry.Clone()
	}
}

func newEngineConfig(opts []EngineOption) engineConfig {
	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg engineConfig) cached(key string) (any, bool) {
	if cfg.cache == nil {
		return nil, false
	}
	return cfg.cache.Get(key)
}

func (cfg engineConfig) remember(key string, program any) {
	if cfg.cache != nil {
		cfg.cache.Set(key, program)
	}
}

func (cfg engineConfig) functionNames() []string {
	return cfg.registry.Names()
}

// dispatch backs call("name", args...), the by-name form every engine
// accepts next to direct calls.
func (cfg engineConfig) dispatch(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, errors.New("call: missing function name")
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("call: function name must be a string, got %T", args[0])
	}
	return cfg.registry.Call(name, args[1:]...)
}

func (cfg engineConfig) function(name string) Function {
	return func(args ...any) (any, error) {
		return cfg.registry.Call(name, args...)
	}
}

// cacheKey scopes a program by engine and declared variables, since the same
// text compiles differently under each.
func cacheKey(engine, expr string, variables []string) string {
	return engine + "|" + strings.Join(variables, ",") + "|" + expr
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return engineExpr
	case *celEvaluator:
		return engineCEL
	default:
		if isJSEvaluator(e) {
			return engineJS
		}
		return "custom"
	}
}
