package htmlview

import "github.com/goliatone/go-storefront/pkg/view"

// Factory builds htmlview per-item views.
type Factory struct{}

func (Factory) Card(model view.CardModel, onClick func()) view.Element {
	return NewCard(model, onClick)
}

func (Factory) Preview(model view.PreviewModel, onToggle func()) view.Preview {
	return NewPreview(model, onToggle)
}

func (Factory) BasketRow(model view.BasketRowModel, onDelete func()) view.Element {
	return NewBasketRow(model, onDelete)
}

// Views bundles a fresh set of htmlview views. The concrete values stay
// reachable for driving interactions.
type Views struct {
	Page         *Page
	Modal        *Modal
	Basket       *Basket
	Checkout     *CheckoutForm
	Contacts     *ContactForm
	Confirmation *Confirmation
}

// New constructs every singleton view.
func New() *Views {
	return &Views{
		Page:         NewPage(),
		Modal:        NewModal(),
		Basket:       NewBasket(),
		Checkout:     NewCheckoutForm(),
		Contacts:     NewContactForm(),
		Confirmation: NewConfirmation(),
	}
}

// Set adapts the views to the orchestrator's contract.
func (v *Views) Set() view.Set {
	return view.Set{
		Page:         v.Page,
		Modal:        v.Modal,
		Basket:       v.Basket,
		Checkout:     v.Checkout,
		Contacts:     v.Contacts,
		Confirmation: v.Confirmation,
		Factory:      Factory{},
	}
}
