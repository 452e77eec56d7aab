package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/activity"
)

// DefaultPreviewCloseDelay is how long the detail view stays open after the
// basket button was pressed.
const DefaultPreviewCloseDelay = 300 * time.Millisecond

// Option configures an Orchestrator.
type Option func(*config)

type config struct {
	logger     *zap.Logger
	closeDelay time.Duration
	hooks      activity.Hooks
	ctx        context.Context
}

func defaultConfig() config {
	return config{
		logger:     zap.NewNop(),
		closeDelay: DefaultPreviewCloseDelay,
		ctx:        context.Background(),
	}
}

// WithLogger sets the logger used for remote failures and rejected input.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithPreviewCloseDelay overrides DefaultPreviewCloseDelay. Zero or a
// negative value closes the detail view immediately.
func WithPreviewCloseDelay(delay time.Duration) Option {
	return func(cfg *config) {
		cfg.closeDelay = delay
	}
}

// WithActivityHooks receives order.submitted and order.failed events.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(cfg *config) {
		for _, hook := range hooks {
			if hook != nil {
				cfg.hooks = append(cfg.hooks, hook)
			}
		}
	}
}

// WithContext sets the context remote calls run under until Start replaces
// it.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		if ctx != nil {
			cfg.ctx = ctx
		}
	}
}
