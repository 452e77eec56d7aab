package activity

import (
	"context"
	"strings"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "storefront"

// Config controls activity emission.
type Config struct {
	// Enabled gates every emission. With no hooks nothing is emitted either
	// way.
	Enabled bool
	Channel string
}

// Emitter builds storefront events and delivers them to hooks. A nil
// Emitter is disabled.
type Emitter struct {
	hooks   Hooks
	channel string
}

// NewEmitter returns an emitter over hooks, or a disabled one when cfg is
// not enabled.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{channel: strings.TrimSpace(cfg.Channel)}
	if e.channel == "" {
		e.channel = DefaultChannel
	}
	if cfg.Enabled {
		e.hooks = hooks.Compact()
	}
	return e
}

// Enabled reports whether Emit reaches any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit delivers event, filling in the emitter channel when it has none.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}

// Basket emits a basket event for verb.
func (e *Emitter) Basket(ctx context.Context, verb string, input BasketEventInput) error {
	if !e.Enabled() {
		return nil
	}
	return e.Emit(ctx, BuildBasketEvent(verb, input))
}

// Order emits order.submitted, or order.failed when input carries an error.
func (e *Emitter) Order(ctx context.Context, input OrderEventInput) error {
	if !e.Enabled() {
		return nil
	}
	if input.Err != nil {
		return e.Emit(ctx, BuildOrderFailedEvent(input))
	}
	return e.Emit(ctx, BuildOrderSubmittedEvent(input))
}
