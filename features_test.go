package storefront_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	storefront "github.com/goliatone/go-storefront"
)

type featureContext struct {
	store         *storefront.Store
	basketChanges int
	lastResult    bool
}

func (c *featureContext) reset() error {
	store, err := storefront.New()
	if err != nil {
		return err
	}
	c.store = store
	c.basketChanges = 0
	c.lastResult = false
	store.SetListener(func(event storefront.EventName, _ any) {
		if event == storefront.EventBasketChanged {
			c.basketChanges++
		}
	})
	return nil
}

func (c *featureContext) aCatalog(table *godog.Table) error {
	var items []storefront.CatalogItem
	for _, row := range table.Rows[1:] {
		item := storefront.CatalogItem{ID: row.Cells[0].Value, Title: row.Cells[0].Value}
		if raw := strings.TrimSpace(row.Cells[1].Value); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return err
			}
			item.Price = &price
		}
		items = append(items, item)
	}
	c.store.UpdateCatalog(items)
	return nil
}

func (c *featureContext) product(id string) (storefront.CatalogItem, error) {
	item, ok := c.store.ProductByID(id)
	if !ok {
		return storefront.CatalogItem{}, fmt.Errorf("product %q is not in the catalog", id)
	}
	return item, nil
}

func (c *featureContext) iAddToTheBasket(id string) error {
	item, err := c.product(id)
	if err != nil {
		return err
	}
	c.store.AddProductToCart(item)
	return nil
}

func (c *featureContext) iRemoveFromTheBasket(id string) error {
	item, err := c.product(id)
	if err != nil {
		return err
	}
	c.store.RemoveProductFromCart(item)
	return nil
}

func (c *featureContext) iClearTheBasket() error {
	c.store.ClearCart()
	return nil
}

func (c *featureContext) theBasketHoldsWithTotal(ids string, total int64) error {
	want := strings.Split(ids, ",")
	got := c.store.CartItems()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return fmt.Errorf("expected items %v, got %v", want, got)
	}
	if !c.store.CartTotal().Equal(decimal.NewFromInt(total)) {
		return fmt.Errorf("expected total %d, got %s", total, c.store.CartTotal())
	}
	return nil
}

func (c *featureContext) theBasketIsEmpty() error {
	if items := c.store.CartItems(); len(items) != 0 {
		return fmt.Errorf("expected empty basket, got %v", items)
	}
	if !c.store.CartTotal().IsZero() {
		return fmt.Errorf("expected zero total, got %s", c.store.CartTotal())
	}
	return nil
}

func (c *featureContext) basketChangesWereReported(count int) error {
	if c.basketChanges != count {
		return fmt.Errorf("expected %d basket changes, got %d", count, c.basketChanges)
	}
	return nil
}

func (c *featureContext) aFreshOrderDraft() error {
	c.store.ClearOrder()
	return nil
}

func (c *featureContext) iSetTo(field, value string) error {
	switch storefront.OrderField(field) {
	case storefront.FieldEmail, storefront.FieldPhone:
		return c.store.UpdateContactField(storefront.OrderField(field), value)
	default:
		return c.store.UpdateOrderField(storefront.OrderField(field), value)
	}
}

func (c *featureContext) iValidateTheOrder() error {
	c.lastResult = c.store.ValidateOrder()
	return nil
}

func (c *featureContext) iValidateTheContacts() error {
	c.lastResult = c.store.ValidateContacts()
	return nil
}

func (c *featureContext) validation(result string) error {
	want := result == "passes"
	if c.lastResult != want {
		return fmt.Errorf("expected validation to %s, errors: %v", strings.TrimSuffix(result, "es"), c.store.FormErrors())
	}
	return nil
}

func (c *featureContext) theErrorIs(field, message string) error {
	got, ok := c.store.FormErrors()[storefront.OrderField(field)]
	if !ok || got != message {
		return fmt.Errorf("expected %s error %q, got %q", field, message, got)
	}
	return nil
}

func (c *featureContext) thereIsNoError(field string) error {
	if got, ok := c.store.FormErrors()[storefront.OrderField(field)]; ok {
		return fmt.Errorf("unexpected %s error %q", field, got)
	}
	return nil
}

func (c *featureContext) theErrorsAreExactly(table *godog.Table) error {
	want := storefront.FormErrors{}
	for _, row := range table.Rows[1:] {
		want[storefront.OrderField(row.Cells[0].Value)] = row.Cells[1].Value
	}
	got := c.store.FormErrors()
	if len(got) != len(want) {
		return fmt.Errorf("expected errors %v, got %v", want, got)
	}
	for field, message := range want {
		if got[field] != message {
			return fmt.Errorf("expected errors %v, got %v", want, got)
		}
	}
	return nil
}

func (c *featureContext) iClearTheOrder() error {
	c.store.ClearOrder()
	return nil
}

func (c *featureContext) theDraftIsTheDefaultDraft() error {
	if got := c.store.Order(); got != storefront.DefaultOrderDraft() {
		return fmt.Errorf("expected default draft, got %+v", got)
	}
	return nil
}

func (c *featureContext) thereAreNoErrors() error {
	if errs := c.store.FormErrors(); len(errs) != 0 {
		return fmt.Errorf("expected no errors, got %v", errs)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	fc := &featureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, fc.reset()
	})

	ctx.Step(`^a catalog:$`, fc.aCatalog)
	ctx.Step(`^I add "([^"]*)" to the basket$`, fc.iAddToTheBasket)
	ctx.Step(`^I remove "([^"]*)" from the basket$`, fc.iRemoveFromTheBasket)
	ctx.Step(`^I clear the basket$`, fc.iClearTheBasket)
	ctx.Step(`^the basket holds "([^"]*)" with total (\d+)$`, fc.theBasketHoldsWithTotal)
	ctx.Step(`^the basket is empty$`, fc.theBasketIsEmpty)
	ctx.Step(`^(\d+) basket changes were reported$`, fc.basketChangesWereReported)

	ctx.Step(`^a fresh order draft$`, fc.aFreshOrderDraft)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, fc.iSetTo)
	ctx.Step(`^I validate the order$`, fc.iValidateTheOrder)
	ctx.Step(`^I validate the contacts$`, fc.iValidateTheContacts)
	ctx.Step(`^validation (passes|fails)$`, fc.validation)
	ctx.Step(`^the "([^"]*)" error is "([^"]*)"$`, fc.theErrorIs)
	ctx.Step(`^there is no "([^"]*)" error$`, fc.thereIsNoError)
	ctx.Step(`^the errors are exactly:$`, fc.theErrorsAreExactly)
	ctx.Step(`^I clear the order$`, fc.iClearTheOrder)
	ctx.Step(`^the draft is the default draft$`, fc.theDraftIsTheDefaultDraft)
	ctx.Step(`^there are no errors$`, fc.thereAreNoErrors)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
