package storefront

import "errors"

var (
	// ErrProductNotInCatalog indicates an operation referenced an id the
	// current catalog does not contain.
	ErrProductNotInCatalog = errors.New("storefront: product not in catalog")
	// ErrUnknownPaymentMethod indicates a payment value outside card/cash.
	ErrUnknownPaymentMethod = errors.New("storefront: unknown payment method")
	// ErrUnknownField indicates a write to a field the form does not own.
	ErrUnknownField = errors.New("storefront: unknown order field")
	// ErrNoEvaluator indicates no rule evaluator could be resolved.
	ErrNoEvaluator = errors.New("storefront: evaluator not configured")
)
