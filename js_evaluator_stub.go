//go:build !js_eval

package storefront

// NewJSEvaluator returns nil unless the binary is built with -tags js_eval.
func NewJSEvaluator(...EngineOption) Evaluator { return nil }

func isJSEvaluator(Evaluator) bool { return false }
