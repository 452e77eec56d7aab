package storefront

import (
	"errors"
	"fmt"
)

var errEmptyExpression = errors.New("expression must not be empty")

// EvaluationError reports a rule that failed to compile or run.
type EvaluationError struct {
	Engine string
	Expr   string
	Pass   string
	Field  OrderField
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	subject := "rule"
	if e.Pass != "" {
		subject = e.Pass + " rule"
	}
	if e.Field != "" {
		subject += " for " + string(e.Field)
	}
	if e.Expr == "" {
		return fmt.Sprintf("storefront: %s %s: %v", e.Engine, subject, e.Err)
	}
	return fmt.Sprintf("storefront: %s %s %q: %v", e.Engine, subject, e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ruleError attaches rule metadata to err. An EvaluationError already in
// the chain has its blank fields filled in rather than being wrapped again.
func ruleError(engine, expr, pass string, err error) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if !errors.As(err, &existing) {
		return &EvaluationError{Engine: engine, Expr: expr, Pass: pass, Err: err}
	}
	if existing.Engine == "" {
		existing.Engine = engine
	}
	if existing.Expr == "" {
		existing.Expr = expr
	}
	if existing.Pass == "" {
		existing.Pass = pass
	}
	return existing
}
