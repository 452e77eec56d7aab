// Package usersink forwards storefront activity into a go-users ActivitySink.
package usersink

import (
	"context"
	"maps"
	"slices"

	"github.com/goliatone/go-storefront/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook is an activity.Hook writing to Sink. Tenant is used for events that
// do not name a tenant themselves.
type Hook struct {
	Sink   usertypes.ActivitySink
	Tenant uuid.UUID
}

var _ activity.Hook = Hook{}

func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := Record(event)
	if !ok {
		return nil
	}
	if record.TenantID == uuid.Nil {
		record.TenantID = h.Tenant
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// Record converts event into a go-users activity record. It reports false
// for events without a verb or object.
//
// Storefront sessions are anonymous: the session id becomes ActorID when it
// is a UUID and is kept under data["session_id"] otherwise.
func Record(event activity.Event) (usertypes.ActivityRecord, bool) {
	event = event.Normalize()
	if !event.Routable() {
		return usertypes.ActivityRecord{}, false
	}
	actor, actorIsUUID := toUUID(event.ActorID)
	user, _ := toUUID(event.UserID)
	tenant, _ := toUUID(event.TenantID)

	data := maps.Clone(event.Metadata)
	extra := map[string]any{}
	if event.ActorID != "" && !actorIsUUID {
		extra["session_id"] = event.ActorID
	}
	if event.DefinitionCode != "" {
		extra["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		extra["recipients"] = slices.Clone(event.Recipients)
	}
	if len(extra) > 0 {
		if data == nil {
			data = map[string]any{}
		}
		maps.Copy(data, extra)
	}

	return usertypes.ActivityRecord{
		ActorID:    actor,
		UserID:     user,
		TenantID:   tenant,
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}, true
}

func toUUID(value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
