package storefront

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

const engineExpr = "expr"

type exprEvaluator struct {
	engineConfig
}

// NewExprEvaluator returns the default rule engine, backed by
// expr-lang/expr. Registry functions are called by name, as in
// valid_email(email).
func NewExprEvaluator(opts ...EngineOption) Evaluator {
	return &exprEvaluator{engineConfig: newEngineConfig(opts)}
}

// Evaluate compiles against the values in ctx. Unknown names resolve to nil.
func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	bindings := ctx.bindings()
	key := cacheKey(engineExpr+":adhoc", expression, ctx.fieldNames())
	program, err := e.program(key, expression, exprlang.Env(bindings), exprlang.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx.passName(), bindings)
}

func (e *exprEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	cfg := applyCompileOptions(opts)
	options := []exprlang.Option{exprlang.Env(declaredStrings(cfg.variables))}
	if len(cfg.variables) == 0 {
		options = append(options, exprlang.AllowUndefinedVariables())
	}
	program, err := e.program(cacheKey(engineExpr, expression, cfg.variables), expression, options...)
	if err != nil {
		return nil, err
	}
	return compiledFunc(func(ctx RuleContext) (any, error) {
		return e.run(program, expression, ctx.passName(), ctx.bindings())
	}), nil
}

func (e *exprEvaluator) program(key, expression string, options ...exprlang.Option) (*exprvm.Program, error) {
	if expression == "" {
		return nil, ruleError(engineExpr, "", "", errEmptyExpression)
	}
	if cached, ok := e.cached(key); ok {
		if program, ok := cached.(*exprvm.Program); ok {
			return program, nil
		}
	}
	names := e.functionNames()
	for _, name := range names {
		options = append(options, exprlang.Function(name, e.function(name)))
	}
	if len(names) > 0 {
		options = append(options, exprlang.Function("call", e.dispatch))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, ruleError(engineExpr, expression, "", err)
	}
	e.remember(key, program)
	return program, nil
}

func (e *exprEvaluator) run(program *exprvm.Program, expression, pass string, bindings map[string]any) (any, error) {
	result, err := exprlang.Run(program, bindings)
	if err != nil {
		return nil, ruleError(engineExpr, expression, pass, err)
	}
	return result, nil
}

// declaredStrings builds a type-only env: every declared field is a string.
func declaredStrings(variables []string) map[string]any {
	env := make(map[string]any, len(variables)+1)
	for _, name := range variables {
		env[name] = ""
	}
	env["pass"] = ""
	return env
}
