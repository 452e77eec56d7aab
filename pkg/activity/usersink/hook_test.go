package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-storefront/pkg/activity"
	"github.com/goliatone/go-storefront/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsBasketEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	session := uuid.New()

	event := activity.BuildBasketItemAddedEvent(activity.BasketEventInput{
		SessionID:  session.String(),
		ProductID:  "854cef69",
		Price:      "750",
		Items:      1,
		Total:      "750",
		Channel:    "storefront",
		OccurredAt: now,
	})
	event.DefinitionCode = "basket:add"
	event.Recipients = []string{"ops@example.com"}

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != session {
		t.Fatalf("expected actor %s got %s", session, record.ActorID)
	}
	if record.UserID != uuid.Nil {
		t.Fatalf("expected anonymous user, got %s", record.UserID)
	}
	if record.Verb != activity.VerbBasketItemAdded || record.ObjectType != activity.ObjectBasket || record.ObjectID != session.String() {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "storefront" {
		t.Fatalf("expected channel storefront got %q", record.Channel)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["product_id"] != "854cef69" || record.Data["total"] != "750" {
		t.Fatalf("expected metadata passthrough got %+v", record.Data)
	}
	if _, ok := record.Data["session_id"]; ok {
		t.Fatalf("expected no session_id for UUID actor: %+v", record.Data)
	}
	if record.Data["definition_code"] != "basket:add" {
		t.Fatalf("expected definition_code metadata got %v", record.Data["definition_code"])
	}
	recipients, ok := record.Data["recipients"].([]string)
	if !ok || len(recipients) != 1 || recipients[0] != "ops@example.com" {
		t.Fatalf("expected recipients metadata got %v", record.Data["recipients"])
	}
}

func TestHookNotifyKeepsNonUUIDSession(t *testing.T) {
	sink := &recordingSink{}
	tenant := uuid.New()
	hook := usersink.Hook{Sink: sink, Tenant: tenant}

	err := hook.Notify(context.Background(), activity.BuildOrderFailedEvent(activity.OrderEventInput{
		SessionID: "kiosk-7",
		Err:       errors.New("503"),
	}))
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	record := sink.records[0]
	if record.ActorID != uuid.Nil {
		t.Fatalf("expected nil actor for non-UUID session, got %s", record.ActorID)
	}
	if record.Data["session_id"] != "kiosk-7" {
		t.Fatalf("expected session_id in data, got %+v", record.Data)
	}
	if record.TenantID != tenant {
		t.Fatalf("expected default tenant %s, got %s", tenant, record.TenantID)
	}
	if record.Data["error"] != "503" {
		t.Fatalf("expected error metadata, got %v", record.Data["error"])
	}
}

func TestHookNotifySkipsIncompleteEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})
	_ = hook.Notify(context.Background(), activity.Event{Verb: activity.VerbBasketCleared})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for incomplete events, got %d", len(sink.records))
	}
}

func TestHookNotifyReturnsSinkError(t *testing.T) {
	boom := errors.New("sink down")
	sink := &recordingSink{err: boom}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbBasketCleared,
		ObjectType: activity.ObjectBasket,
		ObjectID:   "s-1",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}

func TestRecordLeavesTenantUnsetAndDataNilWhenEmpty(t *testing.T) {
	if _, ok := usersink.Record(activity.Event{Verb: activity.VerbBasketCleared}); ok {
		t.Fatal("expected unroutable event to be rejected")
	}
	record, ok := usersink.Record(activity.Event{
		Verb:       activity.VerbBasketCleared,
		ObjectType: activity.ObjectBasket,
		ObjectID:   "s-1",
	})
	if !ok {
		t.Fatal("expected record")
	}
	if record.TenantID != uuid.Nil || record.Data != nil {
		t.Fatalf("expected bare record, got %+v", record)
	}
}
