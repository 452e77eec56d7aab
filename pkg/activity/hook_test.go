package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeTrimsAndCopies(t *testing.T) {
	meta := map[string]any{"product_id": "p-1"}
	recipients := []string{" ops ", "audit "}
	evt := Event{
		Verb:           " basket.item_added ",
		ActorID:        " session ",
		UserID:         " user ",
		TenantID:       " tenant ",
		ObjectType:     " basket ",
		ObjectID:       " session ",
		Channel:        " storefront ",
		DefinitionCode: " basket:add ",
		Recipients:     recipients,
		Metadata:       meta,
	}

	got := evt.Normalize()

	if got.Verb != VerbBasketItemAdded || got.ObjectType != ObjectBasket || got.ObjectID != "session" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "session" || got.UserID != "user" || got.TenantID != "tenant" || got.Channel != "storefront" || got.DefinitionCode != "basket:add" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatal("expected OccurredAt to be set")
	}
	got.Metadata["product_id"] = "changed"
	got.Recipients[0] = "changed"
	if meta["product_id"] != "p-1" || recipients[0] != " ops " {
		t.Fatalf("normalize must not alias the input: %+v %+v", meta, recipients)
	}
	if evt.Verb != " basket.item_added " {
		t.Fatal("normalize must not modify the receiver")
	}
}

func TestHooksDropUnroutableEvents(t *testing.T) {
	capture := &Recorder{}
	if err := (Hooks{capture}).Notify(context.Background(), Event{Verb: VerbBasketCleared}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events recorded, got %d", len(capture.Events()))
	}
}

func TestHooksNotifyEveryHookAndJoinErrors(t *testing.T) {
	capture := &Recorder{}
	boom1 := errors.New("boom1")
	boom2 := &Recorder{Fail: errors.New("boom2")}
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(context.Context, Event) error { return boom1 }),
		nil,
		boom2,
	}

	err := hooks.Notify(nil, Event{Verb: VerbOrderFailed, ObjectType: ObjectOrder, ObjectID: "s-1"})
	if !errors.Is(err, boom1) || !errors.Is(err, boom2.Fail) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatal("expected a non-nil context")
	}
	if len(capture.Events()) != 1 || len(boom2.Events()) != 1 {
		t.Fatalf("expected every hook to see the event once")
	}
}

func TestHooksCompact(t *testing.T) {
	if (Hooks{nil, nil}).Compact() != nil {
		t.Fatal("expected all-nil hooks to compact to nil")
	}
	capture := &Recorder{}
	if got := (Hooks{nil, capture}).Compact(); len(got) != 1 || got[0] != capture {
		t.Fatalf("unexpected compacted hooks %v", got)
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &Recorder{}
	event := Event{Verb: VerbBasketCleared, ObjectType: ObjectBasket, ObjectID: "s-1"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatal("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatal("expected no events recorded when disabled")
	}
	if NewEmitter(nil, Config{Enabled: true}).Enabled() {
		t.Fatal("expected emitter without hooks to be disabled")
	}
	var nilEmitter *Emitter
	if err := nilEmitter.Basket(context.Background(), VerbBasketCleared, BasketEventInput{}); err != nil {
		t.Fatalf("nil emitter should be inert, got %v", err)
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if err := enabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if len(events) != 1 || events[0].Channel != DefaultChannel {
		t.Fatalf("expected one event on the default channel, got %+v", events)
	}
}

func TestEmitterPreservesExplicitChannel(t *testing.T) {
	capture := &Recorder{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "web"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbOrderSubmitted,
		ObjectType: ObjectOrder,
		ObjectID:   "o-1",
		Channel:    "kiosk",
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := capture.Events()[0]
	if got.Channel != "kiosk" || !got.OccurredAt.Equal(at) {
		t.Fatalf("expected channel and time preserved, got %+v", got)
	}
}

func TestEmitterOrderPicksVerbFromError(t *testing.T) {
	capture := &Recorder{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "web"})

	_ = emitter.Order(context.Background(), OrderEventInput{SessionID: "s-1", OrderID: "o-1"})
	_ = emitter.Order(context.Background(), OrderEventInput{SessionID: "s-1", Err: errors.New("503")})
	_ = emitter.Basket(context.Background(), VerbBasketItemAdded, BasketEventInput{SessionID: "s-1", ProductID: "p"})

	events := capture.Events()
	if len(events) != 3 {
		t.Fatalf("expected three events, got %d", len(events))
	}
	if events[0].Verb != VerbOrderSubmitted || events[0].ObjectID != "o-1" {
		t.Fatalf("unexpected submitted event %+v", events[0])
	}
	if events[1].Verb != VerbOrderFailed || events[1].Metadata["error"] != "503" {
		t.Fatalf("unexpected failed event %+v", events[1])
	}
	if events[2].Verb != VerbBasketItemAdded || events[2].Channel != "web" {
		t.Fatalf("unexpected basket event %+v", events[2])
	}
}
