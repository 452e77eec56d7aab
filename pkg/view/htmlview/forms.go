package htmlview

import (
	"bytes"
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/goliatone/go-storefront/pkg/view"
)

type formBase struct {
	onInput view.InputFunc
	valid   bool
	errors  []string
}

func (f *formBase) OnInput(fn view.InputFunc) {
	f.onInput = fn
}

func (f *formBase) input(field, value string) {
	if f.onInput != nil {
		f.onInput(field, value)
	}
}

// Valid reports whether the submit button is enabled.
func (f *formBase) Valid() bool {
	return f.valid
}

// Errors returns the messages shown under the form.
func (f *formBase) Errors() []string {
	return append([]string(nil), f.errors...)
}

func formFooter(valid bool, errors []string, label string) templ.Component {
	return component(func(_ context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<div class="modal__actions"><button type="submit" class="button"`)
		disabledAttr(buf, !valid)
		buf.WriteString(`>`)
		buf.WriteString(templ.EscapeString(label))
		buf.WriteString(`</button><span class="form__errors">`)
		buf.WriteString(templ.EscapeString(strings.Join(errors, ", ")))
		buf.WriteString(`</span></div></form>`)
		return nil
	})
}

// CheckoutForm is the payment and address step.
type CheckoutForm struct {
	formBase
	payment  string
	address  string
	onSubmit func(view.CheckoutData)
}

// NewCheckoutForm constructs the form with card payment selected.
func NewCheckoutForm() *CheckoutForm {
	return &CheckoutForm{payment: "card"}
}

func (f *CheckoutForm) OnSubmit(fn func(view.CheckoutData)) {
	f.onSubmit = fn
}

// Render replaces the whole form state with model.
func (f *CheckoutForm) Render(model view.CheckoutFormModel) view.Element {
	f.payment = model.Payment
	f.address = model.Address
	f.valid = model.Valid
	f.errors = append([]string(nil), model.Errors...)
	return checkoutFormTemplate(model)
}

var paymentOptions = []struct{ name, label string }{{"card", "Онлайн"}, {"cash", "При получении"}}

func checkoutFormTemplate(model view.CheckoutFormModel) templ.Component {
	return component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<form class="form" name="order"><div class="order__field"><h2 class="modal__title">Способ оплаты</h2><div class="order__buttons">`)
		for _, option := range paymentOptions {
			buf.WriteString(`<button type="button" name="`)
			buf.WriteString(templ.EscapeString(option.name))
			buf.WriteString(`" class="button button_alt`)
			if option.name == model.Payment {
				buf.WriteString(` button_alt-active`)
			}
			buf.WriteString(`">`)
			buf.WriteString(templ.EscapeString(option.label))
			buf.WriteString(`</button>`)
		}
		buf.WriteString(`</div></div><label class="order__field"><span class="form__label modal__title">Адрес доставки</span>`)
		buf.WriteString(`<input name="address" class="form__input" type="text" placeholder="Введите адрес" value="`)
		buf.WriteString(templ.EscapeString(model.Address))
		buf.WriteString(`"/></label>`)
		return formFooter(model.Valid, model.Errors, "Далее").Render(ctx, buf)
	})
}

// SelectPayment simulates a click on a payment button.
func (f *CheckoutForm) SelectPayment(method string) {
	f.payment = method
	f.input(view.FieldPayment, method)
}

// InputAddress simulates typing into the address field.
func (f *CheckoutForm) InputAddress(value string) {
	f.address = value
	f.input(view.FieldAddress, value)
}

// Data returns the current form values.
func (f *CheckoutForm) Data() view.CheckoutData {
	return view.CheckoutData{Payment: f.payment, Address: f.address}
}

// Submit simulates form submission. Disabled forms ignore it.
func (f *CheckoutForm) Submit() {
	if !f.valid || f.onSubmit == nil {
		return
	}
	f.onSubmit(f.Data())
}

// ContactForm is the email and phone step.
type ContactForm struct {
	formBase
	email    string
	phone    string
	onSubmit func(view.ContactData)
}

// NewContactForm constructs an empty contact form.
func NewContactForm() *ContactForm {
	return &ContactForm{}
}

func (f *ContactForm) OnSubmit(fn func(view.ContactData)) {
	f.onSubmit = fn
}

// Render replaces the whole form state with model.
func (f *ContactForm) Render(model view.ContactFormModel) view.Element {
	f.email = model.Email
	f.phone = model.Phone
	f.valid = model.Valid
	f.errors = append([]string(nil), model.Errors...)
	return contactFormTemplate(model)
}

func contactFormTemplate(model view.ContactFormModel) templ.Component {
	return component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<form class="form" name="contacts"><div class="order"><label class="order__field"><span class="form__label modal__title">Email</span>`)
		buf.WriteString(`<input name="email" class="form__input" type="text" placeholder="Введите Email" value="`)
		buf.WriteString(templ.EscapeString(model.Email))
		buf.WriteString(`"/></label><label class="order__field"><span class="form__label modal__title">Телефон</span>`)
		buf.WriteString(`<input name="phone" class="form__input" type="text" placeholder="+7 (" value="`)
		buf.WriteString(templ.EscapeString(model.Phone))
		buf.WriteString(`"/></label></div>`)
		return formFooter(model.Valid, model.Errors, "Оплатить").Render(ctx, buf)
	})
}

// InputEmail simulates typing into the email field.
func (f *ContactForm) InputEmail(value string) {
	f.email = value
	f.input(view.FieldEmail, value)
}

// InputPhone simulates typing into the phone field.
func (f *ContactForm) InputPhone(value string) {
	f.phone = value
	f.input(view.FieldPhone, value)
}

// Data returns the current form values.
func (f *ContactForm) Data() view.ContactData {
	return view.ContactData{Email: f.email, Phone: f.phone}
}

// Submit simulates form submission. Disabled forms ignore it.
func (f *ContactForm) Submit() {
	if !f.valid || f.onSubmit == nil {
		return
	}
	f.onSubmit(f.Data())
}
