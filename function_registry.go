package storefront

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Function is a helper callable from validation rules, such as valid_email.
type Function func(args ...any) (any, error)

// ErrUnknownFunction is returned by Call for names nothing was registered
// under.
var ErrUnknownFunction = errors.New("storefront: unknown function")

// FunctionRegistry maps case-insensitive names to Functions. It is safe for
// concurrent use.
type FunctionRegistry struct {
	mu  sync.RWMutex
	fns map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{fns: map[string]Function{}}
}

func functionKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds fn under name. Names are unique.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := functionKey(name)
	switch {
	case key == "":
		return errors.New("storefront: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("storefront: function %q is nil", key)
	}
	if !r.add(key, fn) {
		return fmt.Errorf("storefront: function %q already registered", key)
	}
	return nil
}

// add stores fn unless key is taken and reports whether it did.
func (r *FunctionRegistry) add(key string, fn Function) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.fns[key]; taken {
		return false
	}
	if r.fns == nil {
		r.fns = map[string]Function{}
	}
	r.fns[key] = fn
	return true
}

// Call runs the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	var fn Function
	if r != nil {
		r.mu.RLock()
		fn = r.fns[functionKey(name)]
		r.mu.RUnlock()
	}
	if fn == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownFunction, name)
	}
	return fn(args...)
}

func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{fns: maps.Clone(r.fns)}
}

// Names lists the registered names, lower-cased and sorted. Rule engines
// expose functions under these names.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.fns))
}

// WithFunctionRegistry hands a copy of registry to the default evaluator.
// valid_email and valid_phone are added unless registry overrides them.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *storeConfig) {
		if registry != nil {
			cfg.functions = registry.Clone()
		}
	}
}

// WithCustomFunction registers fn under name for the default evaluator.
// Invalid or duplicate registrations are ignored.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *storeConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// stringArg unpacks the single string argument of a predicate.
func stringArg(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("storefront: %s takes 1 argument, got %d", name, len(args))
	}
	if value, ok := args[0].(string); ok {
		return value, nil
	}
	return "", fmt.Errorf("storefront: %s takes a string, got %T", name, args[0])
}
