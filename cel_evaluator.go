package storefront

import (
	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

const engineCEL = "cel"

type celEvaluator struct {
	engineConfig
}

// NewCELEvaluator returns an Evaluator backed by cel-go. Registry functions
// take one argument and can be called by name, as in valid_phone(phone), or
// through call("name", arg).
func NewCELEvaluator(opts ...EngineOption) Evaluator {
	return &celEvaluator{engineConfig: newEngineConfig(opts)}
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	program, err := e.program(expression, ctx.fieldNames(), celgo.DynType)
	if err != nil {
		return nil, err
	}
	return e.eval(program, expression, ctx)
}

// Compile type-checks expression up front; declared fields are strings.
func (e *celEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	cfg := applyCompileOptions(opts)
	program, err := e.program(expression, cfg.variables, celgo.StringType)
	if err != nil {
		return nil, err
	}
	return compiledFunc(func(ctx RuleContext) (any, error) {
		return e.eval(program, expression, ctx)
	}), nil
}

func (e *celEvaluator) program(expression string, variables []string, fieldType *celgo.Type) (celgo.Program, error) {
	if expression == "" {
		return nil, ruleError(engineCEL, "", "", errEmptyExpression)
	}
	key := cacheKey(engineCEL+":"+fieldType.String(), expression, variables)
	if cached, ok := e.cached(key); ok {
		if program, ok := cached.(celgo.Program); ok {
			return program, nil
		}
	}

	env, err := celgo.NewEnv(e.envOptions(variables, fieldType)...)
	if err != nil {
		return nil, ruleError(engineCEL, expression, "", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, ruleError(engineCEL, expression, "", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, ruleError(engineCEL, expression, "", err)
	}
	e.remember(key, program)
	return program, nil
}

func (e *celEvaluator) envOptions(variables []string, fieldType *celgo.Type) []celgo.EnvOption {
	opts := []celgo.EnvOption{celgo.Variable("pass", celgo.StringType)}
	for _, name := range variables {
		opts = append(opts, celgo.Variable(name, fieldType))
	}
	names := e.functionNames()
	if len(names) == 0 {
		return opts
	}
	opts = append(opts, celgo.Function("call", celgo.Overload(
		"call_string_dyn",
		[]*celgo.Type{celgo.StringType, celgo.DynType},
		celgo.DynType,
		celgo.BinaryBinding(func(name, arg ref.Val) ref.Val {
			return e.invoke(e.dispatch, name, arg)
		}),
	)))
	for _, name := range names {
		fn := name
		opts = append(opts, celgo.Function(fn, celgo.Overload(
			fn+"_dyn",
			[]*celgo.Type{celgo.DynType},
			celgo.DynType,
			celgo.UnaryBinding(func(arg ref.Val) ref.Val {
				return e.invoke(e.function(fn), arg)
			}),
		)))
	}
	return opts
}

func (e *celEvaluator) invoke(fn Function, args ...ref.Val) ref.Val {
	native := make([]any, len(args))
	for i, arg := range args {
		native[i] = arg.Value()
	}
	result, err := fn(native...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

func (e *celEvaluator) eval(program celgo.Program, expression string, ctx RuleContext) (any, error) {
	out, _, err := program.Eval(ctx.bindings())
	if err != nil {
		return nil, ruleError(engineCEL, expression, ctx.passName(), err)
	}
	return out.Value(), nil
}
