package storefront

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Validation pass names.
const (
	PassOrder    = "order"
	PassContacts = "contacts"
)

// Default validation messages.
const (
	MessageAddressRequired = "Необходимо указать адрес"
	MessageEmailRequired   = "Необходимо указать email"
	MessageEmailFormat     = "Неверный формат email"
	MessagePhoneRequired   = "Необходимо указать телефон"
	MessagePhoneFormat     = "Неверный формат телефона"
)

// Default contact patterns. Both are loose: the remote side performs the
// authoritative check. PhonePattern only checks the shape, digit groups
// split by single separators with optional brackets, as in
// +7 (999) 123-45-67; valid_phone also bounds the digit count.
var (
	EmailPattern = regexp.MustCompile(`(?i)^[^\s@"<>()\[\],;:]+@[^\s@"<>()\[\],;:]+\.[^\s@"<>()\[\],;:]+$`)
	PhonePattern = regexp.MustCompile(`^\+?[0-9]{1,4}(?:[-\s.]?\(?[0-9]+\)?)*$`)
)

// Phone numbers carry between MinPhoneDigits and MaxPhoneDigits digits,
// separators excluded.
const (
	MinPhoneDigits = 7
	MaxPhoneDigits = 15
)

// Rule is a single predicate over the order draft. Expr must evaluate to a
// bool; false (or an evaluation error) reports Message for Field.
type Rule struct {
	Field   OrderField
	Expr    string
	Message string
}

// Pass groups the rules validated together. Within a pass the first failing
// rule of each field wins.
type Pass struct {
	Name  string
	Rules []Rule
}

// Fields lists the distinct fields covered by the pass, in rule order.
func (p Pass) Fields() []OrderField {
	seen := map[OrderField]struct{}{}
	var fields []OrderField
	for _, rule := range p.Rules {
		if _, ok := seen[rule.Field]; ok {
			continue
		}
		seen[rule.Field] = struct{}{}
		fields = append(fields, rule.Field)
	}
	return fields
}

// DefaultOrderPass checks the address form.
func DefaultOrderPass() Pass {
	return Pass{
		Name: PassOrder,
		Rules: []Rule{
			{Field: FieldAddress, Expr: `address != ""`, Message: MessageAddressRequired},
		},
	}
}

// DefaultContactsPass checks the email and phone form.
func DefaultContactsPass() Pass {
	return Pass{
		Name: PassContacts,
		Rules: []Rule{
			{Field: FieldEmail, Expr: `email != ""`, Message: MessageEmailRequired},
			{Field: FieldEmail, Expr: `valid_email(email)`, Message: MessageEmailFormat},
			{Field: FieldPhone, Expr: `phone != ""`, Message: MessagePhoneRequired},
			{Field: FieldPhone, Expr: `valid_phone(phone)`, Message: MessagePhoneFormat},
		},
	}
}

// DefaultFunctions returns a registry holding the valid_email and
// valid_phone predicates backed by EmailPattern and ValidPhone.
func DefaultFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	registerDefaultFunctions(registry)
	return registry
}

func registerDefaultFunctions(registry *FunctionRegistry) {
	registry.add("valid_email", predicate("valid_email", EmailPattern.MatchString))
	registry.add("valid_phone", predicate("valid_phone", ValidPhone))
}

// ValidPhone reports whether value is shaped like a phone number and holds
// a plausible number of digits.
func ValidPhone(value string) bool {
	if !PhonePattern.MatchString(value) {
		return false
	}
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= MinPhoneDigits && digits <= MaxPhoneDigits
}

func predicate(name string, match func(string) bool) Function {
	return func(args ...any) (any, error) {
		value, err := stringArg(name, args)
		if err != nil {
			return nil, err
		}
		return match(value), nil
	}
}

type compiledRule struct {
	Rule
	program CompiledRule
}

type compiledPass struct {
	name   string
	fields []OrderField
	rules  []compiledRule
}

// Validator runs compiled validation passes against an order draft.
type Validator struct {
	evaluator Evaluator
	engine    string
	logger    EvaluatorLogger
	order     compiledPass
	contacts  compiledPass
}

// NewValidator compiles the order and contacts passes with evaluator.
func NewValidator(evaluator Evaluator, order, contacts Pass, logger EvaluatorLogger) (*Validator, error) {
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	if logger == nil {
		logger = noopEvaluatorLogger{}
	}
	v := &Validator{
		evaluator: evaluator,
		engine:    evaluatorEngineName(evaluator),
		logger:    logger,
	}
	var err error
	if v.order, err = v.compile(order); err != nil {
		return nil, err
	}
	if v.contacts, err = v.compile(contacts); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Validator) compile(pass Pass) (compiledPass, error) {
	variables := []string{
		string(FieldEmail), string(FieldPhone), string(FieldAddress), string(FieldPayment),
	}
	out := compiledPass{name: pass.Name, fields: pass.Fields()}
	for _, rule := range pass.Rules {
		program, err := v.evaluator.Compile(rule.Expr, WithVariables(variables...))
		if err != nil {
			return compiledPass{}, fmt.Errorf("storefront: compile %s rule for %s: %w", pass.Name, rule.Field, err)
		}
		out.rules = append(out.rules, compiledRule{Rule: rule, program: program})
	}
	return out, nil
}

// ValidateOrder runs the address pass against draft.
func (v *Validator) ValidateOrder(draft OrderDraft) FormErrors {
	return v.run(v.order, draft)
}

// ValidateContacts runs the email and phone pass against draft.
func (v *Validator) ValidateContacts(draft OrderDraft) FormErrors {
	return v.run(v.contacts, draft)
}

// OrderFields lists the fields owned by the order pass.
func (v *Validator) OrderFields() []OrderField {
	return append([]OrderField(nil), v.order.fields...)
}

// ContactFields lists the fields owned by the contacts pass.
func (v *Validator) ContactFields() []OrderField {
	return append([]OrderField(nil), v.contacts.fields...)
}

func (v *Validator) run(pass compiledPass, draft OrderDraft) FormErrors {
	errs := FormErrors{}
	ctx := RuleContext{Fields: draft.fields(), Pass: pass.name}
	for _, rule := range pass.rules {
		if _, failed := errs[rule.Field]; failed {
			continue
		}
		if !v.check(ctx, pass.name, rule) {
			errs[rule.Field] = rule.Message
		}
	}
	return errs
}

func (v *Validator) check(ctx RuleContext, pass string, rule compiledRule) bool {
	start := time.Now()
	result, err := rule.program.Evaluate(ctx)
	passed := false
	if err == nil {
		var ok bool
		if passed, ok = result.(bool); !ok {
			err = fmt.Errorf("rule returned %T, want bool", result)
		}
	}
	if err != nil {
		passed = false
		err = ruleError(v.engine, rule.Expr, pass, err)
		var evalErr *EvaluationError
		if errors.As(err, &evalErr) && evalErr.Field == "" {
			evalErr.Field = rule.Field
		}
	}
	v.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   v.engine,
		Expr:     rule.Expr,
		Pass:     pass,
		Field:    rule.Field,
		Passed:   passed,
		Duration: time.Since(start),
		Err:      err,
	})
	return passed
}
