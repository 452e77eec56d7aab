package htmlview

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/goliatone/go-storefront/pkg/view"
)

// Confirmation is the order success screen.
type Confirmation struct {
	model   view.ConfirmationModel
	onClose func()
}

// NewConfirmation constructs the success view.
func NewConfirmation() *Confirmation {
	return &Confirmation{}
}

func (c *Confirmation) OnClose(fn func()) {
	c.onClose = fn
}

// Render stores model and returns the element showing it.
func (c *Confirmation) Render(model view.ConfirmationModel) view.Element {
	c.model = model
	return confirmationTemplate(model)
}

func confirmationTemplate(model view.ConfirmationModel) templ.Component {
	return component(func(_ context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<div class="order-success"><h2 class="order-success__title">Заказ оформлен</h2><p class="order-success__description">`)
		buf.WriteString(templ.EscapeString("Списано " + Amount(model.Total) + " синапсов"))
		buf.WriteString(`</p><button class="button order-success__close">За новыми покупками!</button></div>`)
		return nil
	})
}

// Model returns the last rendered model.
func (c *Confirmation) Model() view.ConfirmationModel {
	return c.model
}

// Close simulates a click on the close button.
func (c *Confirmation) Close() {
	if c.onClose != nil {
		c.onClose()
	}
}
