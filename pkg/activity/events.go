package activity

import (
	"strings"
	"time"
)

// Storefront activity verbs.
const (
	VerbBasketItemAdded   = "basket.item_added"
	VerbBasketItemRemoved = "basket.item_removed"
	VerbBasketCleared     = "basket.cleared"
	VerbOrderSubmitted    = "order.submitted"
	VerbOrderFailed       = "order.failed"
)

// Object types attached to storefront events.
const (
	ObjectBasket = "basket"
	ObjectOrder  = "order"
)

// BasketEventInput describes a basket mutation.
type BasketEventInput struct {
	SessionID  string
	ProductID  string
	Price      string
	Items      int
	Total      string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// OrderEventInput describes an order submission attempt.
type OrderEventInput struct {
	SessionID  string
	OrderID    string
	Payment    string
	Items      []string
	Total      string
	Err        error
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildBasketEvent constructs a basket activity event for verb. The object id
// is the session id, so every mutation of one basket groups together.
func BuildBasketEvent(verb string, input BasketEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if id := strings.TrimSpace(input.ProductID); id != "" {
		metadata = ensureMetadata(metadata)
		metadata["product_id"] = id
	}
	if input.Price != "" {
		metadata = ensureMetadata(metadata)
		metadata["price"] = input.Price
	}
	metadata = ensureMetadata(metadata)
	metadata["items"] = input.Items
	if input.Total != "" {
		metadata["total"] = input.Total
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.SessionID),
		ObjectType: ObjectBasket,
		ObjectID:   fallbackID(input.SessionID, ObjectBasket),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// BuildBasketItemAddedEvent constructs a basket.item_added event.
func BuildBasketItemAddedEvent(input BasketEventInput) Event {
	return BuildBasketEvent(VerbBasketItemAdded, input)
}

// BuildBasketItemRemovedEvent constructs a basket.item_removed event.
func BuildBasketItemRemovedEvent(input BasketEventInput) Event {
	return BuildBasketEvent(VerbBasketItemRemoved, input)
}

// BuildBasketClearedEvent constructs a basket.cleared event.
func BuildBasketClearedEvent(input BasketEventInput) Event {
	return BuildBasketEvent(VerbBasketCleared, input)
}

// BuildOrderSubmittedEvent constructs an order.submitted event. The remote
// order id is used as object id when known.
func BuildOrderSubmittedEvent(input OrderEventInput) Event {
	return buildOrderEvent(VerbOrderSubmitted, input)
}

// BuildOrderFailedEvent constructs an order.failed event carrying the error
// text in metadata.
func BuildOrderFailedEvent(input OrderEventInput) Event {
	return buildOrderEvent(VerbOrderFailed, input)
}

func buildOrderEvent(verb string, input OrderEventInput) Event {
	metadata := ensureMetadata(cloneMap(input.Metadata))
	if input.Payment != "" {
		metadata["payment"] = input.Payment
	}
	if len(input.Items) > 0 {
		metadata["items"] = append([]string{}, input.Items...)
	}
	if input.Total != "" {
		metadata["total"] = input.Total
	}
	if input.Err != nil {
		metadata["error"] = input.Err.Error()
	}
	objectID := strings.TrimSpace(input.OrderID)
	if objectID == "" {
		objectID = fallbackID(input.SessionID, ObjectOrder)
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.SessionID),
		ObjectType: ObjectOrder,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func fallbackID(id, fallback string) string {
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		return trimmed
	}
	return fallback
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
