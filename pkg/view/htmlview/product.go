package htmlview

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/goliatone/go-storefront/pkg/view"
)

// Card is a gallery item. Clicking it invokes the preview callback.
type Card struct {
	model   view.CardModel
	onClick func()
}

// NewCard binds model to onClick.
func NewCard(model view.CardModel, onClick func()) *Card {
	return &Card{model: model, onClick: onClick}
}

// Model returns the rendered model.
func (c *Card) Model() view.CardModel {
	return c.model
}

// Click simulates a click anywhere on the card.
func (c *Card) Click() {
	if c.onClick != nil {
		c.onClick()
	}
}

func (c *Card) Render(ctx context.Context, w io.Writer) error {
	return cardTemplate(c.model).Render(ctx, w)
}

func cardTemplate(model view.CardModel) templ.Component {
	return component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<button class="gallery__item card" data-id="`)
		buf.WriteString(templ.EscapeString(model.ID))
		buf.WriteString(`">`)
		if err := cardBody(model).Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString(`</button>`)
		return nil
	})
}

// cardBody renders the fields shared by the gallery card and the detail view.
func cardBody(model view.CardModel) templ.Component {
	return component(func(_ context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<span class="card__category card__category_`)
		buf.WriteString(templ.EscapeString(CategoryClass(model.Category)))
		buf.WriteString(`">`)
		buf.WriteString(templ.EscapeString(model.Category))
		buf.WriteString(`</span><h2 class="card__title">`)
		buf.WriteString(templ.EscapeString(model.Title))
		buf.WriteString(`</h2><img class="card__image" src="`)
		buf.WriteString(templ.EscapeString(model.Image))
		buf.WriteString(`" alt="`)
		buf.WriteString(templ.EscapeString(model.Title))
		buf.WriteString(`"/><span class="card__price">`)
		buf.WriteString(templ.EscapeString(PriceLabel(model.Price)))
		buf.WriteString(`</span>`)
		return nil
	})
}

// Preview is the product detail view: the card body followed by a detail
// extension with description and basket toggle. It has no click-to-preview
// behaviour of its own.
type Preview struct {
	model    view.PreviewModel
	onToggle func()
}

// NewPreview binds model to onToggle. Items without a price render a
// disabled button labelled view.LabelUnavailable.
func NewPreview(model view.PreviewModel, onToggle func()) *Preview {
	if model.Card.Price == nil {
		model.ButtonLabel = view.LabelUnavailable
		model.ButtonDisabled = true
	}
	return &Preview{model: model, onToggle: onToggle}
}

// Model returns the current model, including label changes.
func (p *Preview) Model() view.PreviewModel {
	return p.model
}

func (p *Preview) SetButtonLabel(label string) {
	if p.model.ButtonDisabled {
		return
	}
	p.model.ButtonLabel = label
}

// Toggle simulates a click on the basket button. Disabled buttons ignore it.
func (p *Preview) Toggle() {
	if p.model.ButtonDisabled || p.onToggle == nil {
		return
	}
	p.onToggle()
}

func (p *Preview) Render(ctx context.Context, w io.Writer) error {
	return previewTemplate(p.model).Render(ctx, w)
}

func previewTemplate(model view.PreviewModel) templ.Component {
	return component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<div class="card card_full" data-id="`)
		buf.WriteString(templ.EscapeString(model.Card.ID))
		buf.WriteString(`">`)
		if err := cardBody(model.Card).Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString(`<p class="card__text">`)
		buf.WriteString(templ.EscapeString(model.Description))
		buf.WriteString(`</p><button class="button card__button"`)
		disabledAttr(buf, model.ButtonDisabled)
		buf.WriteString(`>`)
		buf.WriteString(templ.EscapeString(model.ButtonLabel))
		buf.WriteString(`</button></div>`)
		return nil
	})
}
