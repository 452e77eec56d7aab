package storefront

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/pkg/activity"
)

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	listener       Listener
	validator      *Validator
	evaluator      Evaluator
	programCache   ProgramCache
	functions      *FunctionRegistry
	logger         EvaluatorLogger
	order          *Pass
	contacts       *Pass
	activityHooks  activity.Hooks
	activityConfig *activity.Config
	sessionID      string
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithListener fills the store's notification slot at construction.
func WithListener(listener Listener) Option {
	return func(cfg *storeConfig) {
		cfg.listener = listener
	}
}

// WithValidator uses a prebuilt validator, bypassing evaluator resolution.
func WithValidator(validator *Validator) Option {
	return func(cfg *storeConfig) {
		cfg.validator = validator
	}
}

// WithEvaluator compiles validation rules with e instead of the default expr
// evaluator. Program cache and function registry options are ignored; wire
// them into e directly.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *storeConfig) {
		cfg.evaluator = e
	}
}

// WithValidationPasses replaces the default order and contacts rules.
func WithValidationPasses(order, contacts Pass) Option {
	return func(cfg *storeConfig) {
		cfg.order = &order
		cfg.contacts = &contacts
	}
}

// WithActivityHooks attaches activity hooks notified on basket mutations.
// Nil entries are dropped. Emission is enabled unless WithActivityConfig
// says otherwise.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := hooks.Compact()
	return func(cfg *storeConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityConfig overrides the activity emitter configuration.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *storeConfig) {
		cfg.activityConfig = &config
	}
}

// WithSessionID sets the id reported as actor on activity events. A random
// UUID is used otherwise.
func WithSessionID(id string) Option {
	return func(cfg *storeConfig) {
		cfg.sessionID = strings.TrimSpace(id)
	}
}

func (cfg storeConfig) resolveEvaluator() (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	cache := cfg.programCache
	if cache == nil {
		cache = NewLRUProgramCache(DefaultProgramCacheSize)
	}
	registry := cfg.functions.Clone()
	if registry == nil {
		registry = NewFunctionRegistry()
	}
	registerDefaultFunctions(registry)
	evaluator := NewExprEvaluator(WithEngineCache(cache), WithEngineFunctions(registry))
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

func (cfg storeConfig) orderPass() Pass {
	if cfg.order != nil {
		return *cfg.order
	}
	return DefaultOrderPass()
}

func (cfg storeConfig) contactsPass() Pass {
	if cfg.contacts != nil {
		return *cfg.contacts
	}
	return DefaultContactsPass()
}

func (cfg storeConfig) evaluatorLogger() EvaluatorLogger {
	if cfg.logger == nil {
		return noopEvaluatorLogger{}
	}
	return cfg.logger
}

func (cfg storeConfig) activityEmitterConfig() activity.Config {
	if cfg.activityConfig != nil {
		return *cfg.activityConfig
	}
	return activity.Config{Enabled: len(cfg.activityHooks) > 0, Channel: activity.DefaultChannel}
}

func (cfg storeConfig) sessionIDOrNew() string {
	if cfg.sessionID != "" {
		return cfg.sessionID
	}
	return uuid.NewString()
}
