package htmlview

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-storefront/pkg/view"
)

func render(t *testing.T, element view.Element) string {
	t.Helper()
	var buf bytes.Buffer
	if err := element.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestPriceLabel(t *testing.T) {
	if got := PriceLabel(nil); got != PriceUnavailable {
		t.Fatalf("expected %q, got %q", PriceUnavailable, got)
	}
	if got := PriceLabel(price(750)); got != "750 синапсов" {
		t.Fatalf("unexpected label %q", got)
	}
	half := decimal.RequireFromString("12.5")
	if got := PriceLabel(&half); !strings.HasSuffix(got, " синапсов") || !strings.HasPrefix(got, "12") {
		t.Fatalf("unexpected fractional label %q", got)
	}
}

func TestCategoryClass(t *testing.T) {
	cases := map[string]string{
		"софт-скил":      "soft",
		"хард-скил":      "hard",
		"кнопка":         "button",
		"дополнительное": "additional",
		"другое":         "other",
		"unknown":        "other",
	}
	for category, want := range cases {
		if got := CategoryClass(category); got != want {
			t.Fatalf("CategoryClass(%q) = %q, want %q", category, got, want)
		}
	}
}

func TestCardRendersAndClicks(t *testing.T) {
	clicks := 0
	card := NewCard(view.CardModel{
		ID:       "p1",
		Title:    "<b>Кнопка</b>",
		Category: "кнопка",
		Image:    "https://cdn/x.svg",
		Price:    price(750),
	}, func() { clicks++ })

	out := render(t, card)
	for _, want := range []string{
		`data-id="p1"`,
		"card__category_button",
		"&lt;b&gt;Кнопка&lt;/b&gt;",
		`src="https://cdn/x.svg"`,
		"750 синапсов",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}

	card.Click()
	if clicks != 1 {
		t.Fatalf("expected one click, got %d", clicks)
	}
}

func TestPreviewToggleAndLabel(t *testing.T) {
	toggles := 0
	preview := NewPreview(view.PreviewModel{
		Card:        view.CardModel{ID: "p1", Title: "Item", Price: price(100)},
		Description: "Описание",
		ButtonLabel: view.LabelBuy,
	}, func() { toggles++ })

	out := render(t, preview)
	if !strings.Contains(out, "Описание") || !strings.Contains(out, view.LabelBuy) {
		t.Fatalf("unexpected preview markup %s", out)
	}
	if strings.Contains(out, "disabled") {
		t.Fatalf("priced item must not render a disabled button: %s", out)
	}

	preview.Toggle()
	preview.SetButtonLabel(view.LabelRemove)
	if toggles != 1 {
		t.Fatalf("expected one toggle, got %d", toggles)
	}
	if !strings.Contains(render(t, preview), view.LabelRemove) {
		t.Fatal("expected relabelled button")
	}
}

func TestRenderToPlainWriterMatchesBuffer(t *testing.T) {
	preview := NewPreview(view.PreviewModel{
		Card:        view.CardModel{ID: "p1", Title: "Item", Category: "софт-скил", Price: price(100)},
		Description: "a & b",
		ButtonLabel: view.LabelBuy,
	}, nil)

	want := render(t, preview)
	var out strings.Builder
	if err := preview.Render(context.Background(), &out); err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.String() != want {
		t.Fatalf("plain writer got %s, buffer got %s", out.String(), want)
	}
	if !strings.HasPrefix(want, `<div class="card card_full" data-id="p1">`) || !strings.HasSuffix(want, `</button></div>`) {
		t.Fatalf("unexpected preview shell %s", want)
	}
	if strings.Count(want, "card__title") != 1 || !strings.Contains(want, "a &amp; b") {
		t.Fatalf("unexpected preview body %s", want)
	}
}

func TestPreviewUnpricedIsDisabled(t *testing.T) {
	toggles := 0
	preview := NewPreview(view.PreviewModel{
		Card:        view.CardModel{ID: "p3", Title: "Free"},
		ButtonLabel: view.LabelBuy,
	}, func() { toggles++ })

	preview.Toggle()
	preview.SetButtonLabel(view.LabelRemove)
	if toggles != 0 {
		t.Fatalf("disabled button must ignore clicks, got %d", toggles)
	}
	model := preview.Model()
	if !model.ButtonDisabled || model.ButtonLabel != view.LabelUnavailable {
		t.Fatalf("unexpected model %+v", model)
	}
	out := render(t, preview)
	if !strings.Contains(out, " disabled") || !strings.Contains(out, PriceUnavailable) {
		t.Fatalf("unexpected markup %s", out)
	}
}

func TestBasketEmptyAndCheckout(t *testing.T) {
	basket := NewBasket()
	checkouts := 0
	basket.OnCheckout(func() { checkouts++ })

	out := render(t, basket.Render(view.BasketModel{Total: decimal.Zero}))
	if !strings.Contains(out, EmptyBasket) || !strings.Contains(out, " disabled") {
		t.Fatalf("unexpected empty basket %s", out)
	}
	basket.Checkout()
	if checkouts != 0 {
		t.Fatal("empty basket must not check out")
	}

	deleted := 0
	row := NewBasketRow(view.BasketRowModel{Index: 1, Title: "Item", Price: price(750)}, func() { deleted++ })
	out = render(t, basket.Render(view.BasketModel{Rows: []view.Element{row}, Total: decimal.NewFromInt(750)}))
	if strings.Contains(out, EmptyBasket) || !strings.Contains(out, "basket__item-index\">1<") {
		t.Fatalf("unexpected basket %s", out)
	}
	if !strings.Contains(out, "750 синапсов") {
		t.Fatalf("expected total in %s", out)
	}
	basket.Checkout()
	row.Delete()
	if checkouts != 1 || deleted != 1 {
		t.Fatalf("expected one checkout and one delete, got %d and %d", checkouts, deleted)
	}
}

func TestCheckoutForm(t *testing.T) {
	form := NewCheckoutForm()
	var inputs []string
	var submitted []view.CheckoutData
	form.OnInput(func(field, value string) { inputs = append(inputs, field+"="+value) })
	form.OnSubmit(func(data view.CheckoutData) { submitted = append(submitted, data) })

	out := render(t, form.Render(view.CheckoutFormModel{
		Payment: "cash",
		Errors:  []string{"a", "b"},
	}))
	if !strings.Contains(out, "button_alt-active\">При получении") {
		t.Fatalf("expected cash highlighted in %s", out)
	}
	if !strings.Contains(out, "a, b") {
		t.Fatalf("expected joined errors in %s", out)
	}

	form.SelectPayment("card")
	form.InputAddress("Moscow")
	form.Submit()
	if len(submitted) != 0 {
		t.Fatal("invalid form must not submit")
	}
	if strings.Join(inputs, ";") != "payment=card;address=Moscow" {
		t.Fatalf("unexpected inputs %v", inputs)
	}

	form.Render(view.CheckoutFormModel{Payment: "card", Address: "Moscow", Valid: true})
	form.Submit()
	if len(submitted) != 1 || submitted[0] != (view.CheckoutData{Payment: "card", Address: "Moscow"}) {
		t.Fatalf("unexpected submissions %+v", submitted)
	}
}

func TestContactForm(t *testing.T) {
	form := NewContactForm()
	var inputs []string
	var submitted []view.ContactData
	form.OnInput(func(field, value string) { inputs = append(inputs, field) })
	form.OnSubmit(func(data view.ContactData) { submitted = append(submitted, data) })

	form.Render(view.ContactFormModel{})
	form.InputEmail("a@b.c")
	form.InputPhone("+1234567")
	form.Submit()
	if len(submitted) != 0 {
		t.Fatal("invalid form must not submit")
	}
	if strings.Join(inputs, ",") != "email,phone" {
		t.Fatalf("unexpected inputs %v", inputs)
	}

	out := render(t, form.Render(view.ContactFormModel{Email: "a@b.c", Phone: "+1234567", Valid: true}))
	if !strings.Contains(out, `value="a@b.c"`) {
		t.Fatalf("expected email value in %s", out)
	}
	form.Submit()
	if len(submitted) != 1 || submitted[0].Email != "a@b.c" || submitted[0].Phone != "+1234567" {
		t.Fatalf("unexpected submissions %+v", submitted)
	}
}

func TestConfirmation(t *testing.T) {
	confirmation := NewConfirmation()
	closed := 0
	confirmation.OnClose(func() { closed++ })

	out := render(t, confirmation.Render(view.ConfirmationModel{Total: decimal.NewFromInt(750)}))
	if !strings.Contains(out, "Списано 750 синапсов") {
		t.Fatalf("unexpected confirmation %s", out)
	}
	confirmation.Close()
	if closed != 1 {
		t.Fatalf("expected close callback, got %d", closed)
	}
}

func TestModalCloseVersusDismiss(t *testing.T) {
	modal := NewModal()
	dismissed := 0
	modal.OnClose(func() { dismissed++ })

	modal.Open(NewCard(view.CardModel{ID: "p1", Title: "Item"}, nil))
	if !modal.IsOpen() || modal.Content() == nil {
		t.Fatal("expected open modal with content")
	}
	if !strings.Contains(render(t, modal), "modal_active") {
		t.Fatal("expected active modal markup")
	}

	modal.Close()
	if modal.IsOpen() || dismissed != 0 {
		t.Fatalf("Close must not fire the callback, got %d", dismissed)
	}

	modal.Open(NewCard(view.CardModel{ID: "p1", Title: "Item"}, nil))
	modal.Dismiss()
	if modal.IsOpen() || dismissed != 1 {
		t.Fatalf("Dismiss must close and fire the callback, got %d", dismissed)
	}
}

func TestPageState(t *testing.T) {
	page := NewPage()
	clicks := 0
	page.OnCartClick(func() { clicks++ })

	page.SetCatalog([]view.Element{
		NewCard(view.CardModel{ID: "p1", Title: "One"}, nil),
		nil,
		NewCard(view.CardModel{ID: "p2", Title: "Two"}, nil),
	})
	page.SetCartCounter(2)
	page.SetLocked(true)
	page.ClickCart()

	if clicks != 1 || page.Counter() != 2 || !page.Locked() || len(page.Cards()) != 3 {
		t.Fatal("unexpected page state")
	}
	out := render(t, page)
	for _, want := range []string{"page__wrapper_locked", `data-id="p1"`, `data-id="p2"`, "header__basket-counter\">2<"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
}

func TestViewsSetIsComplete(t *testing.T) {
	set := New().Set()
	if set.Page == nil || set.Modal == nil || set.Basket == nil || set.Checkout == nil ||
		set.Contacts == nil || set.Confirmation == nil || set.Factory == nil {
		t.Fatalf("incomplete set %+v", set)
	}
	preview := set.Factory.Preview(view.PreviewModel{Card: view.CardModel{ID: "p1", Price: price(1)}}, nil)
	preview.SetButtonLabel(view.LabelRemove)
	if preview.(*Preview).Model().ButtonLabel != view.LabelRemove {
		t.Fatal("expected relabelled preview")
	}
}
