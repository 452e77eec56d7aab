package storefront

import (
	"github.com/shopspring/decimal"
)

// CatalogItem is a purchasable product as delivered by the remote catalog.
// A nil Price marks the item as not for sale.
type CatalogItem struct {
	ID          string           `json:"id" validate:"required"`
	Title       string           `json:"title" validate:"required"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Image       string           `json:"image"`
	Description string           `json:"description"`
}

// ForSale reports whether the item carries a price.
func (i CatalogItem) ForSale() bool {
	return i.Price != nil
}

// PriceOrZero returns the item price, treating a missing price as zero.
func (i CatalogItem) PriceOrZero() decimal.Decimal {
	if i.Price == nil {
		return decimal.Zero
	}
	return *i.Price
}

// Basket holds the ids selected for checkout and their running total.
type Basket struct {
	Items []string        `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func (b Basket) clone() Basket {
	return Basket{
		Items: append([]string{}, b.Items...),
		Total: b.Total,
	}
}

// PaymentMethod enumerates the accepted payment options.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash
}

// OrderField names a mutable order draft property.
type OrderField string

const (
	FieldEmail   OrderField = "email"
	FieldPhone   OrderField = "phone"
	FieldAddress OrderField = "address"
	FieldPayment OrderField = "payment"
)

// OrderDraft is the in-progress checkout form data.
type OrderDraft struct {
	ID      string           `json:"id,omitempty"`
	Email   string           `json:"email"`
	Phone   string           `json:"phone"`
	Address string           `json:"address"`
	Payment PaymentMethod    `json:"payment"`
	Total   *decimal.Decimal `json:"total,omitempty"`
}

// DefaultOrderDraft returns the draft every checkout starts from.
func DefaultOrderDraft() OrderDraft {
	return OrderDraft{Payment: PaymentCard}
}

func (o OrderDraft) clone() OrderDraft {
	out := o
	if o.Total != nil {
		total := *o.Total
		out.Total = &total
	}
	return out
}

func (o OrderDraft) fields() map[string]any {
	return map[string]any{
		string(FieldEmail):   o.Email,
		string(FieldPhone):   o.Phone,
		string(FieldAddress): o.Address,
		string(FieldPayment): string(o.Payment),
	}
}

// FormErrors maps an order field to its human-readable validation message.
type FormErrors map[OrderField]string

func (e FormErrors) clone() FormErrors {
	out := make(FormErrors, len(e))
	for field, message := range e {
		out[field] = message
	}
	return out
}

// Messages returns the messages for fields in the given order, skipping
// fields without an error.
func (e FormErrors) Messages(fields ...OrderField) []string {
	var out []string
	for _, field := range fields {
		if message, ok := e[field]; ok && message != "" {
			out = append(out, message)
		}
	}
	return out
}

// OrderRequest is the body posted to the remote order endpoint.
type OrderRequest struct {
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Address string          `json:"address"`
	Payment PaymentMethod   `json:"payment"`
	Items   []string        `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

// OrderResult is the remote confirmation of a submitted order.
type OrderResult struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// EventName identifies a store change notification.
type EventName string

const (
	EventCatalogChanged        EventName = "catalog:change"
	EventPreviewChanged        EventName = "preview:change"
	EventBasketChanged         EventName = "basket:change"
	EventOrderFormErrorsChange EventName = "orderFormErrors:change"
	EventContactsErrorsChange  EventName = "contactsFormErrors:change"
)

// Listener receives every store change synchronously, on the mutating call
// stack. Payloads are copies: []CatalogItem, CatalogItem, Basket or FormErrors.
type Listener func(event EventName, payload any)
