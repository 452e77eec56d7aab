package orchestrator

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/internal/api"
	"github.com/goliatone/go-storefront/internal/fakeapi"
	"github.com/goliatone/go-storefront/pkg/view/htmlview"
)

func TestFullFlowAgainstFakeServer(t *testing.T) {
	server := fakeapi.New(fakeapi.SampleProducts(), fakeapi.WithIDGenerator(func() string { return "remote-1" }))
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	store, err := storefront.New()
	require.NoError(t, err)
	views := htmlview.New()
	client := api.New(ts.URL, "https://cdn.example.com", api.WithTimeout(2*time.Second))

	orch, err := New(store, client, views.Set(), WithPreviewCloseDelay(0))
	require.NoError(t, err)
	orch.Start(context.Background())
	orch.Wait()

	cards := views.Page.Cards()
	require.Len(t, cards, len(fakeapi.SampleProducts()))
	first := cards[0].(*htmlview.Card)
	assert.Equal(t, "https://cdn.example.com/5_Dots.svg", first.Model().Image)

	first.Click()
	views.Modal.Content().(*htmlview.Preview).Toggle()
	cards[3].(*htmlview.Card).Click()
	views.Modal.Content().(*htmlview.Preview).Toggle()
	require.Len(t, store.CartItems(), 2)

	views.Page.ClickCart()
	views.Basket.Checkout()
	views.Checkout.InputAddress("Spb, Nevsky 1")
	views.Checkout.Submit()
	views.Contacts.InputEmail("buyer@example.com")
	views.Contacts.InputPhone("+7 999 123-45-67")
	views.Contacts.Submit()
	orch.Wait()

	require.Equal(t, StageConfirmed, orch.Stage())
	orders, err := server.Orders().List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "remote-1", orders[0].ID)
	assert.Equal(t, "3250", orders[0].Total.String())
	assert.Equal(t, "3250", views.Confirmation.Model().Total.String())
	assert.Empty(t, store.CartItems())
}
