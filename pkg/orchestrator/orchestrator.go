// Package orchestrator mediates between the storefront Store, the remote API
// and the views. It subscribes to store changes, re-renders the affected
// views and turns view callbacks into store mutations.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/activity"
	"github.com/goliatone/go-storefront/pkg/view"
)

var (
	// ErrNilStore indicates New was called without a store.
	ErrNilStore = errors.New("orchestrator: store is nil")
	// ErrNilAPI indicates New was called without a remote API.
	ErrNilAPI = errors.New("orchestrator: api is nil")
	// ErrIncompleteViews indicates a view.Set with a missing member.
	ErrIncompleteViews = errors.New("orchestrator: view set is incomplete")
)

// API is the remote service the orchestrator depends on.
type API interface {
	ProductList(ctx context.Context) ([]storefront.CatalogItem, error)
	PostOrder(ctx context.Context, req storefront.OrderRequest) (storefront.OrderResult, error)
}

// Orchestrator drives a single storefront session.
//
// Every entry point (view callbacks, remote completions and the delayed
// preview close) holds mu, so store mutations and the notifications they
// trigger never interleave. Store notifications run on the mutating call
// stack and therefore never take mu themselves.
type Orchestrator struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	store *storefront.Store
	api   API
	views view.Set

	logger     *zap.Logger
	closeDelay time.Duration
	activity   *activity.Emitter
	ctx        context.Context

	stage       Stage
	preview     view.Preview
	previewID   string
	previewSeq  uint64
	basketModel view.BasketModel
}

// New wires store, api and views together and registers the orchestrator as
// the store's listener.
func New(store *storefront.Store, api API, views view.Set, opts ...Option) (*Orchestrator, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if api == nil {
		return nil, ErrNilAPI
	}
	if views.Page == nil || views.Modal == nil || views.Basket == nil || views.Checkout == nil ||
		views.Contacts == nil || views.Confirmation == nil || views.Factory == nil {
		return nil, ErrIncompleteViews
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	o := &Orchestrator{
		store:      store,
		api:        api,
		views:      views,
		logger:     cfg.logger,
		closeDelay: cfg.closeDelay,
		activity:   activity.NewEmitter(cfg.hooks, activity.Config{Enabled: len(cfg.hooks) > 0, Channel: activity.DefaultChannel}),
		ctx:        cfg.ctx,
		stage:      StageBrowsing,
		basketModel: view.BasketModel{
			Total: decimal.Zero,
		},
	}

	store.SetListener(o.handle)
	views.Page.OnCartClick(o.openCart)
	views.Modal.OnClose(o.modalDismissed)
	views.Basket.OnCheckout(o.proceedToCheckout)
	views.Checkout.OnInput(o.orderInput)
	views.Checkout.OnSubmit(o.submitCheckout)
	views.Contacts.OnInput(o.contactInput)
	views.Contacts.OnSubmit(o.submitContacts)
	views.Confirmation.OnClose(o.closeConfirmation)
	return o, nil
}

// Start loads the catalog in the background. ctx bounds every later remote
// call as well.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	if ctx != nil {
		o.ctx = ctx
	}
	ctx = o.ctx
	o.mu.Unlock()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		items, err := o.api.ProductList(ctx)

		o.mu.Lock()
		defer o.mu.Unlock()
		if err != nil {
			o.logger.Error("catalog load failed", zap.Error(err))
			return
		}
		o.logger.Debug("catalog loaded", zap.Int("items", len(items)))
		o.store.UpdateCatalog(items)
	}()
}

// Wait blocks until in-flight remote calls and pending preview closes have
// finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Stage returns the current checkout stage.
func (o *Orchestrator) Stage() Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stage
}

// handle is the store listener.
func (o *Orchestrator) handle(event storefront.EventName, payload any) {
	switch event {
	case storefront.EventCatalogChanged:
		items, _ := payload.([]storefront.CatalogItem)
		o.renderCatalog(items)
	case storefront.EventPreviewChanged:
		if item, ok := payload.(storefront.CatalogItem); ok {
			o.renderPreview(item)
		}
	case storefront.EventBasketChanged:
		if basket, ok := payload.(storefront.Basket); ok {
			o.renderBasket(basket)
		}
	case storefront.EventOrderFormErrorsChange:
		if o.stage == StageAddressEntry {
			o.show(o.views.Checkout.Render(o.checkoutModel()), StageAddressEntry)
		}
	case storefront.EventContactsErrorsChange:
		if o.stage == StageContactEntry {
			o.show(o.views.Contacts.Render(o.contactModel()), StageContactEntry)
		}
	default:
		o.logger.Warn("unhandled store event", zap.String("event", string(event)))
	}
}

func (o *Orchestrator) renderCatalog(items []storefront.CatalogItem) {
	cards := make([]view.Element, 0, len(items))
	for _, item := range items {
		id := item.ID
		cards = append(cards, o.views.Factory.Card(cardModel(item), func() { o.selectProduct(id) }))
	}
	o.views.Page.SetCatalog(cards)
}

func (o *Orchestrator) renderPreview(item storefront.CatalogItem) {
	id := item.ID
	model := view.PreviewModel{
		Card:        cardModel(item),
		Description: item.Description,
		ButtonLabel: o.buttonLabel(item),
	}
	model.ButtonDisabled = !item.ForSale()
	o.preview = o.views.Factory.Preview(model, func() { o.togglePreview(id) })
	o.previewID = id
	o.previewSeq++
	o.show(o.preview, StageProductDetail)
}

func (o *Orchestrator) renderBasket(basket storefront.Basket) {
	o.views.Page.SetCartCounter(len(basket.Items))

	rows := make([]view.Element, 0, len(basket.Items))
	for i, id := range basket.Items {
		item, ok := o.store.ProductByID(id)
		if !ok {
			item = storefront.CatalogItem{ID: id}
		}
		productID := id
		rows = append(rows, o.views.Factory.BasketRow(view.BasketRowModel{
			Index: i + 1,
			Title: item.Title,
			Price: item.Price,
		}, func() { o.removeFromCart(productID) }))
	}
	o.basketModel = view.BasketModel{Rows: rows, Total: basket.Total}

	if o.stage == StageCartOpen {
		o.show(o.views.Basket.Render(o.basketModel), StageCartOpen)
	}
}

func (o *Orchestrator) buttonLabel(item storefront.CatalogItem) string {
	switch {
	case !item.ForSale():
		return view.LabelUnavailable
	case o.store.IsProductInCart(item):
		return view.LabelRemove
	default:
		return view.LabelBuy
	}
}

func (o *Orchestrator) checkoutModel() view.CheckoutFormModel {
	order := o.store.Order()
	errs := o.store.FormErrors().Messages(storefront.FieldAddress)
	return view.CheckoutFormModel{
		Payment: string(order.Payment),
		Address: order.Address,
		Valid:   len(errs) == 0,
		Errors:  errs,
	}
}

func (o *Orchestrator) contactModel() view.ContactFormModel {
	order := o.store.Order()
	errs := o.store.FormErrors().Messages(storefront.FieldEmail, storefront.FieldPhone)
	return view.ContactFormModel{
		Email:  order.Email,
		Phone:  order.Phone,
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// show puts content in the modal and locks the page behind it.
func (o *Orchestrator) show(content view.Element, stage Stage) {
	o.views.Modal.Open(content)
	o.views.Page.SetLocked(true)
	o.stage = stage
}

// hide closes the modal and returns to browsing.
func (o *Orchestrator) hide() {
	if o.stage.modal() {
		o.views.Modal.Close()
	}
	o.views.Page.SetLocked(false)
	o.stage = StageBrowsing
	o.preview = nil
	o.previewID = ""
}

func (o *Orchestrator) selectProduct(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	item, ok := o.store.ProductByID(id)
	if !ok {
		o.logger.Warn("selected product is not in the catalog", zap.String("product_id", id))
		return
	}
	if err := o.store.SetPreview(item); err != nil {
		o.logger.Warn("preview rejected", zap.String("product_id", id), zap.Error(err))
	}
}

func (o *Orchestrator) togglePreview(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	item, ok := o.store.ProductByID(id)
	if !ok || !item.ForSale() {
		return
	}
	if o.store.IsProductInCart(item) {
		o.store.RemoveProductFromCart(item)
	} else {
		o.store.AddProductToCart(item)
	}
	if o.preview != nil && o.previewID == id {
		o.preview.SetButtonLabel(o.buttonLabel(item))
	}
	o.schedulePreviewClose()
}

// schedulePreviewClose closes the detail view after closeDelay unless the
// user has moved on to another view meanwhile. Callers hold mu.
func (o *Orchestrator) schedulePreviewClose() {
	if o.closeDelay <= 0 {
		o.hide()
		return
	}
	seq := o.previewSeq
	o.wg.Add(1)
	time.AfterFunc(o.closeDelay, func() {
		defer o.wg.Done()
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.stage == StageProductDetail && o.previewSeq == seq {
			o.hide()
		}
	})
}

func (o *Orchestrator) openCart() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.show(o.views.Basket.Render(o.basketModel), StageCartOpen)
}

func (o *Orchestrator) removeFromCart(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	item, ok := o.store.ProductByID(id)
	if !ok {
		item = storefront.CatalogItem{ID: id}
	}
	o.store.RemoveProductFromCart(item)
}

func (o *Orchestrator) proceedToCheckout() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.beginCheckout()
}

// beginCheckout resets the draft and renders a fresh address form. ClearOrder
// is silent, so the render here is the only one.
func (o *Orchestrator) beginCheckout() {
	o.store.ClearOrder()
	o.show(o.views.Checkout.Render(view.CheckoutFormModel{
		Payment: string(storefront.PaymentCard),
		Address: "",
		Valid:   false,
	}), StageAddressEntry)
}

func (o *Orchestrator) orderInput(field, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.store.UpdateOrderField(storefront.OrderField(field), value); err != nil {
		o.logger.Warn("order input rejected", zap.String("field", field), zap.Error(err))
	}
}

func (o *Orchestrator) contactInput(field, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.store.UpdateContactField(storefront.OrderField(field), value); err != nil {
		o.logger.Warn("contact input rejected", zap.String("field", field), zap.Error(err))
	}
}

func (o *Orchestrator) submitCheckout(data view.CheckoutData) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stage != StageAddressEntry || strings.TrimSpace(data.Address) == "" {
		return
	}
	if err := o.store.UpdateOrderField(storefront.FieldAddress, data.Address); err != nil {
		o.logger.Warn("checkout rejected", zap.Error(err))
		return
	}
	if err := o.store.UpdateOrderField(storefront.FieldPayment, data.Payment); err != nil {
		o.logger.Warn("checkout rejected", zap.Error(err))
		return
	}
	if !o.store.ValidateOrder() {
		return
	}
	order := o.store.Order()
	o.show(o.views.Contacts.Render(view.ContactFormModel{
		Email: order.Email,
		Phone: order.Phone,
		Valid: false,
	}), StageContactEntry)
}

func (o *Orchestrator) submitContacts(data view.ContactData) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stage != StageContactEntry || data.Email == "" || data.Phone == "" {
		return
	}
	if err := o.store.UpdateContactField(storefront.FieldEmail, data.Email); err != nil {
		o.logger.Warn("contacts rejected", zap.Error(err))
		return
	}
	if err := o.store.UpdateContactField(storefront.FieldPhone, data.Phone); err != nil {
		o.logger.Warn("contacts rejected", zap.Error(err))
		return
	}
	if !o.store.ValidateContacts() {
		return
	}

	total := o.store.CartTotal()
	o.store.UpdateTotal(total)
	order := o.store.Order()
	req := storefront.OrderRequest{
		Email:   order.Email,
		Phone:   order.Phone,
		Address: order.Address,
		Payment: order.Payment,
		Items:   o.store.CartItems(),
		Total:   total,
	}
	o.stage = StageSubmitting
	ctx := o.ctx

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		result, err := o.api.PostOrder(ctx, req)

		o.mu.Lock()
		defer o.mu.Unlock()
		if err != nil {
			o.logger.Error("order submit failed", zap.Int("items", len(req.Items)), zap.Error(err))
			o.emitOrder(req, "", err)
			if o.stage == StageSubmitting {
				o.stage = StageContactEntry
			}
			return
		}
		o.logger.Info("order submitted", zap.String("order_id", result.ID), zap.String("total", total.String()))
		o.show(o.views.Confirmation.Render(view.ConfirmationModel{Total: total}), StageConfirmed)
		o.store.ClearCart()
		o.store.ClearOrder()
		o.emitOrder(req, result.ID, nil)
	}()
}

func (o *Orchestrator) closeConfirmation() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hide()
}

// modalDismissed runs after the user closed the modal.
func (o *Orchestrator) modalDismissed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hide()
}

// emitOrder reports order.submitted, or order.failed when cause is set.
func (o *Orchestrator) emitOrder(req storefront.OrderRequest, orderID string, cause error) {
	err := o.activity.Order(o.ctx, activity.OrderEventInput{
		SessionID: o.store.SessionID(),
		OrderID:   orderID,
		Payment:   string(req.Payment),
		Items:     req.Items,
		Total:     req.Total.String(),
		Err:       cause,
	})
	if err != nil {
		o.logger.Warn("activity hook failed", zap.Bool("order_failed", cause != nil), zap.Error(err))
	}
}

func cardModel(item storefront.CatalogItem) view.CardModel {
	return view.CardModel{
		ID:       item.ID,
		Title:    item.Title,
		Category: item.Category,
		Image:    item.Image,
		Price:    item.Price,
	}
}
