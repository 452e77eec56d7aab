package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-storefront/pkg/activity"
)

// Store owns the storefront session state: catalog, preview selection,
// basket, order draft and validation errors.
//
// Every mutation that changes externally visible state reports to the single
// registered Listener before returning. Store is not safe for concurrent use;
// callers serialise access (see pkg/orchestrator).
type Store struct {
	catalog    []CatalogItem
	preview    string
	basket     Basket
	order      OrderDraft
	formErrors FormErrors

	listener  Listener
	validator *Validator
	activity  *activity.Emitter
	sessionID string
	logger    EvaluatorLogger
}

// New constructs a Store with an empty catalog, basket and default order
// draft. It fails only when the configured validation rules do not compile.
func New(opts ...Option) (*Store, error) {
	cfg := applyOptions(opts)

	validator := cfg.validator
	if validator == nil {
		evaluator, err := cfg.resolveEvaluator()
		if err != nil {
			return nil, err
		}
		validator, err = NewValidator(evaluator, cfg.orderPass(), cfg.contactsPass(), cfg.evaluatorLogger())
		if err != nil {
			return nil, err
		}
	}

	return &Store{
		basket:     Basket{Items: []string{}, Total: decimal.Zero},
		order:      DefaultOrderDraft(),
		formErrors: FormErrors{},
		listener:   cfg.listener,
		validator:  validator,
		activity:   activity.NewEmitter(cfg.activityHooks, cfg.activityEmitterConfig()),
		sessionID:  cfg.sessionIDOrNew(),
		logger:     cfg.evaluatorLogger(),
	}, nil
}

// SetListener fills the single notification slot, replacing any previous
// listener. A nil listener silences the store.
func (s *Store) SetListener(listener Listener) {
	s.listener = listener
}

// SessionID identifies this store instance in activity events.
func (s *Store) SessionID() string {
	return s.sessionID
}

func (s *Store) notify(event EventName, payload any) {
	if s.listener != nil {
		s.listener(event, payload)
	}
}

// Catalog returns a copy of the current catalog.
func (s *Store) Catalog() []CatalogItem {
	return append([]CatalogItem{}, s.catalog...)
}

// ProductByID looks up a catalog item by id.
func (s *Store) ProductByID(id string) (CatalogItem, bool) {
	for _, item := range s.catalog {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogItem{}, false
}

// Preview returns the id of the item selected for the detail view.
func (s *Store) Preview() string {
	return s.preview
}

// Basket returns a snapshot of the basket.
func (s *Store) Basket() Basket {
	return s.basket.clone()
}

// Order returns a snapshot of the order draft.
func (s *Store) Order() OrderDraft {
	return s.order.clone()
}

// FormErrors returns a copy of the accumulated validation errors.
func (s *Store) FormErrors() FormErrors {
	return s.formErrors.clone()
}

// UpdateCatalog replaces the catalog wholesale.
func (s *Store) UpdateCatalog(items []CatalogItem) {
	s.catalog = append([]CatalogItem{}, items...)
	s.notify(EventCatalogChanged, s.Catalog())
}

// SetPreview selects item for the detail view. The item must be part of the
// current catalog.
func (s *Store) SetPreview(item CatalogItem) error {
	if _, ok := s.ProductByID(item.ID); !ok {
		return fmt.Errorf("%w: %q", ErrProductNotInCatalog, item.ID)
	}
	s.preview = item.ID
	s.notify(EventPreviewChanged, item)
	return nil
}

// AddProductToCart appends item to the basket and adds its price to the
// total. The basket does not reject duplicates.
func (s *Store) AddProductToCart(item CatalogItem) {
	s.basket.Items = append(s.basket.Items, item.ID)
	s.basket.Total = s.basket.Total.Add(item.PriceOrZero())
	s.emitBasketActivity(activity.VerbBasketItemAdded, item)
	s.notify(EventBasketChanged, s.Basket())
}

// RemoveProductFromCart drops every occurrence of item from the basket. The
// total is reduced once per removed occurrence, so removing an id that is not
// present leaves the basket unchanged. Listeners are notified either way.
func (s *Store) RemoveProductFromCart(item CatalogItem) {
	kept := make([]string, 0, len(s.basket.Items))
	removed := 0
	for _, id := range s.basket.Items {
		if id == item.ID {
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.basket.Items = kept
	if removed > 0 {
		s.basket.Total = s.basket.Total.Sub(item.PriceOrZero().Mul(decimal.NewFromInt(int64(removed))))
		s.emitBasketActivity(activity.VerbBasketItemRemoved, item)
	}
	s.notify(EventBasketChanged, s.Basket())
}

// ClearCart empties the basket.
func (s *Store) ClearCart() {
	s.basket = Basket{Items: []string{}, Total: decimal.Zero}
	s.emitBasketActivity(activity.VerbBasketCleared, CatalogItem{})
	s.notify(EventBasketChanged, s.Basket())
}

// IsProductInCart reports whether item's id is in the basket.
func (s *Store) IsProductInCart(item CatalogItem) bool {
	for _, id := range s.basket.Items {
		if id == item.ID {
			return true
		}
	}
	return false
}

// CartItems returns a copy of the basket ids.
func (s *Store) CartItems() []string {
	return append([]string{}, s.basket.Items...)
}

// CartTotal returns the basket total.
func (s *Store) CartTotal() decimal.Decimal {
	return s.basket.Total
}

// UpdateContactField writes email or phone and runs the contacts pass.
func (s *Store) UpdateContactField(field OrderField, value string) error {
	switch field {
	case FieldEmail:
		s.order.Email = value
	case FieldPhone:
		s.order.Phone = value
	default:
		return fmt.Errorf("%w: %q is not a contact field", ErrUnknownField, field)
	}
	s.ValidateContacts()
	return nil
}

// UpdateOrderField writes address or payment and runs the order pass.
// Payment goes through SetPaymentMethod; a rejected method keeps the
// previous one, and the pass still runs and notifies.
func (s *Store) UpdateOrderField(field OrderField, value string) error {
	var err error
	switch field {
	case FieldAddress:
		s.order.Address = value
	case FieldPayment:
		err = s.SetPaymentMethod(PaymentMethod(value))
	default:
		return fmt.Errorf("%w: %q is not an order field", ErrUnknownField, field)
	}
	s.ValidateOrder()
	return err
}

// SetPaymentMethod selects the payment option. It does not validate or
// notify on its own.
func (s *Store) SetPaymentMethod(method PaymentMethod) error {
	method = PaymentMethod(strings.TrimSpace(string(method)))
	if !method.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
	}
	s.order.Payment = method
	return nil
}

// UpdateTotal records the total on the order draft.
func (s *Store) UpdateTotal(value decimal.Decimal) {
	s.order.Total = &value
}

// ClearOrder resets the draft to its defaults and drops every validation
// error. It does not notify; callers render the fresh form themselves.
func (s *Store) ClearOrder() {
	s.order = DefaultOrderDraft()
	s.formErrors = FormErrors{}
}

// ValidateOrder runs the address pass, merges its result into the error map
// and reports whether the pass found no errors.
func (s *Store) ValidateOrder() bool {
	errs := s.validator.ValidateOrder(s.order)
	s.mergeErrors(s.validator.OrderFields(), errs)
	s.notify(EventOrderFormErrorsChange, s.FormErrors())
	return len(errs) == 0
}

// ValidateContacts runs the email and phone pass, merges its result into the
// error map and reports whether the pass found no errors.
func (s *Store) ValidateContacts() bool {
	errs := s.validator.ValidateContacts(s.order)
	s.mergeErrors(s.validator.ContactFields(), errs)
	s.notify(EventContactsErrorsChange, s.FormErrors())
	return len(errs) == 0
}

// mergeErrors overwrites the errors of fields owned by a pass, dropping the
// ones that validated clean. Fields of the other pass are left alone.
func (s *Store) mergeErrors(fields []OrderField, errs FormErrors) {
	for _, field := range fields {
		if message, ok := errs[field]; ok {
			s.formErrors[field] = message
			continue
		}
		delete(s.formErrors, field)
	}
}

func (s *Store) emitBasketActivity(verb string, item CatalogItem) {
	err := s.activity.Basket(context.Background(), verb, activity.BasketEventInput{
		SessionID: s.sessionID,
		ProductID: item.ID,
		Price:     priceMetadata(item.Price),
		Items:     len(s.basket.Items),
		Total:     s.basket.Total.String(),
	})
	if err != nil {
		s.logger.LogEvaluation(EvaluatorLogEvent{
			Engine: "activity",
			Expr:   verb,
			Passed: false,
			Err:    fmt.Errorf("storefront: activity %s: %w", verb, err),
		})
	}
}

func priceMetadata(price *decimal.Decimal) string {
	if price == nil {
		return ""
	}
	return price.String()
}
