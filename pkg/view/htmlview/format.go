// Package htmlview renders the storefront views as HTML fragments using templ
// components. Interaction methods (Click, Submit, Input...) stand in for DOM
// events and invoke the callbacks the orchestrator registered.
package htmlview

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PriceUnavailable labels items without a price.
const PriceUnavailable = "Бесценно"

// EmptyBasket is shown instead of rows when the basket is empty.
const EmptyBasket = "Корзина пуста"

var categoryClasses = map[string]string{
	"софт-скил":      "soft",
	"хард-скил":      "hard",
	"кнопка":         "button",
	"дополнительное": "additional",
	"другое":         "other",
}

// CategoryClass maps a catalog category to its CSS modifier.
func CategoryClass(category string) string {
	if class, ok := categoryClasses[category]; ok {
		return class
	}
	return "other"
}

var printer = message.NewPrinter(language.Russian)

// Amount formats a decimal with Russian digit grouping.
func Amount(value decimal.Decimal) string {
	if value.IsInteger() {
		return printer.Sprintf("%d", value.IntPart())
	}
	return printer.Sprintf("%.2f", value.InexactFloat64())
}

// PriceLabel renders "N синапсов", or PriceUnavailable for a nil price.
func PriceLabel(price *decimal.Decimal) string {
	if price == nil {
		return PriceUnavailable
	}
	return Amount(*price) + " синапсов"
}

// component adapts a template body to templ.Component. The body writes into
// w directly when w is already a buffer, otherwise into a pooled buffer
// flushed once it returns.
func component(body func(ctx context.Context, buf *bytes.Buffer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		buf, isBuf := w.(*bytes.Buffer)
		if !isBuf {
			buf = templ.GetBuffer()
			defer templ.ReleaseBuffer(buf)
		}
		if err := body(ctx, buf); err != nil {
			return err
		}
		if !isBuf {
			_, err := buf.WriteTo(w)
			return err
		}
		return nil
	})
}

func disabledAttr(buf *bytes.Buffer, on bool) {
	if on {
		buf.WriteString(" disabled")
	}
}
