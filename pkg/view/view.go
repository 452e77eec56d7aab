// Package view declares the rendering contracts the orchestrator drives and
// the typed models passed to them. Every render receives a complete model;
// views never merge partial state.
package view

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
)

// Element is a rendered fragment. templ.Component satisfies it.
type Element interface {
	Render(ctx context.Context, w io.Writer) error
}

// Button labels used by the product detail view.
const (
	LabelBuy         = "Купить"
	LabelRemove      = "Удалить"
	LabelUnavailable = "Недоступно"
)

// Form field names reported through input callbacks.
const (
	FieldAddress = "address"
	FieldPayment = "payment"
	FieldEmail   = "email"
	FieldPhone   = "phone"
)

// CardModel is the summary shown in the catalog gallery.
type CardModel struct {
	ID       string
	Title    string
	Category string
	Image    string
	Price    *decimal.Decimal
}

// PreviewModel extends the card with the detail view fields.
type PreviewModel struct {
	Card           CardModel
	Description    string
	ButtonLabel    string
	ButtonDisabled bool
}

// BasketRowModel is one line of the basket.
type BasketRowModel struct {
	Index int
	Title string
	Price *decimal.Decimal
}

// BasketModel is the whole basket view. Rows are already bound to their
// delete callbacks.
type BasketModel struct {
	Rows  []Element
	Total decimal.Decimal
}

// CheckoutFormModel is the address and payment step.
type CheckoutFormModel struct {
	Payment string
	Address string
	Valid   bool
	Errors  []string
}

// CheckoutData is what the checkout form submits.
type CheckoutData struct {
	Payment string
	Address string
}

// ContactFormModel is the email and phone step.
type ContactFormModel struct {
	Email  string
	Phone  string
	Valid  bool
	Errors []string
}

// ContactData is what the contact form submits.
type ContactData struct {
	Email string
	Phone string
}

// ConfirmationModel is the order success screen.
type ConfirmationModel struct {
	Total decimal.Decimal
}

// InputFunc receives a form field edit.
type InputFunc func(field, value string)

// Page is the long-lived shell: gallery, cart counter and scroll lock.
type Page interface {
	SetCatalog(cards []Element)
	SetCartCounter(count int)
	SetLocked(locked bool)
	OnCartClick(fn func())
}

// Modal shows one element at a time. Close hides it without invoking the
// OnClose callback, which only fires on user dismissal.
type Modal interface {
	Open(content Element)
	Close()
	OnClose(fn func())
}

// Preview is a rendered product detail whose button label can change after
// rendering.
type Preview interface {
	Element
	SetButtonLabel(label string)
}

// Basket renders the basket model and reports the checkout action.
type Basket interface {
	Render(model BasketModel) Element
	OnCheckout(fn func())
}

// CheckoutForm renders the address step.
type CheckoutForm interface {
	Render(model CheckoutFormModel) Element
	OnSubmit(fn func(CheckoutData))
	OnInput(fn InputFunc)
}

// ContactForm renders the contacts step.
type ContactForm interface {
	Render(model ContactFormModel) Element
	OnSubmit(fn func(ContactData))
	OnInput(fn InputFunc)
}

// Confirmation renders the success screen.
type Confirmation interface {
	Render(model ConfirmationModel) Element
	OnClose(fn func())
}

// Factory builds per-item views bound to their callbacks.
type Factory interface {
	Card(model CardModel, onClick func()) Element
	Preview(model PreviewModel, onToggle func()) Preview
	BasketRow(model BasketRowModel, onDelete func()) Element
}

// Set bundles every view the orchestrator drives.
type Set struct {
	Page         Page
	Modal        Modal
	Basket       Basket
	Checkout     CheckoutForm
	Contacts     ContactForm
	Confirmation Confirmation
	Factory      Factory
}
