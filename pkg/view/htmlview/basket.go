package htmlview

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/goliatone/go-storefront/pkg/view"
)

// BasketRow is one basket line with a delete button.
type BasketRow struct {
	model    view.BasketRowModel
	onDelete func()
}

// NewBasketRow binds model to onDelete.
func NewBasketRow(model view.BasketRowModel, onDelete func()) *BasketRow {
	return &BasketRow{model: model, onDelete: onDelete}
}

// Model returns the rendered model.
func (r *BasketRow) Model() view.BasketRowModel {
	return r.model
}

// Delete simulates a click on the row's delete button.
func (r *BasketRow) Delete() {
	if r.onDelete != nil {
		r.onDelete()
	}
}

func (r *BasketRow) Render(ctx context.Context, w io.Writer) error {
	return basketRowTemplate(r.model).Render(ctx, w)
}

func basketRowTemplate(model view.BasketRowModel) templ.Component {
	return component(func(_ context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<li class="basket__item card card_compact"><span class="basket__item-index">`)
		buf.WriteString(templ.EscapeString(strconv.Itoa(model.Index)))
		buf.WriteString(`</span><span class="card__title">`)
		buf.WriteString(templ.EscapeString(model.Title))
		buf.WriteString(`</span><span class="card__price">`)
		buf.WriteString(templ.EscapeString(PriceLabel(model.Price)))
		buf.WriteString(`</span><button class="basket__item-delete card__button" aria-label="удалить"></button></li>`)
		return nil
	})
}

// Basket renders the basket list and total.
type Basket struct {
	model      view.BasketModel
	onCheckout func()
}

// NewBasket constructs an empty basket view.
func NewBasket() *Basket {
	return &Basket{}
}

func (b *Basket) OnCheckout(fn func()) {
	b.onCheckout = fn
}

// Render stores model and returns the element showing it.
func (b *Basket) Render(model view.BasketModel) view.Element {
	model.Rows = append([]view.Element(nil), model.Rows...)
	b.model = model
	return basketTemplate(model)
}

// Model returns the last rendered model.
func (b *Basket) Model() view.BasketModel {
	return b.model
}

// CanCheckout reports whether the checkout button is enabled.
func (b *Basket) CanCheckout() bool {
	return len(b.model.Rows) > 0
}

// Checkout simulates a click on the checkout button.
func (b *Basket) Checkout() {
	if !b.CanCheckout() || b.onCheckout == nil {
		return
	}
	b.onCheckout()
}

func basketTemplate(model view.BasketModel) templ.Component {
	return component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<div class="basket"><h2 class="modal__title">Корзина</h2><ul class="basket__list">`)
		if len(model.Rows) == 0 {
			buf.WriteString(`<p>`)
			buf.WriteString(templ.EscapeString(EmptyBasket))
			buf.WriteString(`</p>`)
		}
		for _, row := range components(model.Rows) {
			if err := row.Render(ctx, buf); err != nil {
				return err
			}
		}
		buf.WriteString(`</ul><div class="modal__actions"><button class="button basket__button"`)
		disabledAttr(buf, len(model.Rows) == 0)
		buf.WriteString(`>Оформить</button><span class="basket__price">`)
		buf.WriteString(templ.EscapeString(Amount(model.Total) + " синапсов"))
		buf.WriteString(`</span></div></div>`)
		return nil
	})
}
