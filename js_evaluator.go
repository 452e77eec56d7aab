//go:build js_eval

package storefront

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	engineConfig
}

// NewJSEvaluator returns an Evaluator backed by goja. Rules are single
// JavaScript expressions; registry functions are globals.
func NewJSEvaluator(opts ...EngineOption) Evaluator {
	return &jsEvaluator{engineConfig: newEngineConfig(opts)}
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

// Compile ignores declared variables; JavaScript resolves names at run time.
func (e *jsEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, ruleError(engineJS, "", "", errEmptyExpression)
	}
	key := cacheKey(engineJS, expression, nil)
	program, ok := e.lookup(key)
	if !ok {
		var err error
		program, err = goja.Compile("rule", "(function(){ return ("+expression+"); })()", true)
		if err != nil {
			return nil, ruleError(engineJS, expression, "", err)
		}
		e.remember(key, program)
	}
	return compiledFunc(func(ctx RuleContext) (any, error) {
		return e.run(program, expression, ctx)
	}), nil
}

func (e *jsEvaluator) lookup(key string) (*goja.Program, bool) {
	cached, ok := e.cached(key)
	if !ok {
		return nil, false
	}
	program, ok := cached.(*goja.Program)
	return program, ok
}

// run uses a fresh runtime per call since goja runtimes are not safe for
// concurrent use.
func (e *jsEvaluator) run(program *goja.Program, expression string, ctx RuleContext) (any, error) {
	vm := goja.New()
	globals := ctx.bindings()
	for _, name := range e.functionNames() {
		globals[name] = e.function(name)
	}
	if len(e.functionNames()) > 0 {
		globals["call"] = e.dispatch
	}
	for name, value := range globals {
		if err := vm.Set(name, value); err != nil {
			return nil, ruleError(engineJS, expression, ctx.passName(), fmt.Errorf("bind %s: %w", name, err))
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, ruleError(engineJS, expression, ctx.passName(), err)
	}
	return value.Export(), nil
}

func isJSEvaluator(e Evaluator) bool {
	_, ok := e.(*jsEvaluator)
	return ok
}
