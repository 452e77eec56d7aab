package activity

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Event describes a storefront occurrence (basket mutation, order attempt)
// fanned out to hooks. IDs are strings; session ids are UUIDs in practice.
type Event struct {
	Verb       string
	ObjectType string
	ObjectID   string
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	// DefinitionCode and Recipients are passed through to sinks that route
	// notifications.
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Normalize returns a trimmed copy of e that shares no maps or slices with
// it. A zero OccurredAt becomes the current time.
func (e Event) Normalize() Event {
	for _, field := range []*string{
		&e.Verb, &e.ObjectType, &e.ObjectID, &e.ActorID, &e.UserID,
		&e.TenantID, &e.Channel, &e.DefinitionCode,
	} {
		*field = strings.TrimSpace(*field)
	}
	e.Metadata = cloneMap(e.Metadata)
	e.Recipients = slices.Clone(e.Recipients)
	if len(e.Recipients) == 0 {
		e.Recipients = nil
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return e
}

// Routable reports whether e names a verb and an object. Hooks never see
// events that are not routable.
func (e Event) Routable() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
