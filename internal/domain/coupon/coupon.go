// Package coupon validates coupon codes against the persisted catalog.
// Coupons are not a dedicated entity: a code and its discount percentage
// live on the products themselves, stamped there by the admin editor.
package coupon

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
)

// ErrEmptyCode is returned when an empty code reaches the validator. The
// checkout boundary rejects empty input before validation, so hitting this
// indicates a programming error in the caller.
var ErrEmptyCode = errors.New("coupon code is empty")

// Result holds the outcome of validating a single coupon code. At most one
// discount percentage is ever active; coupons do not combine.
type Result struct {
	Valid   bool
	Percent int
}

// Validator checks a submitted coupon code and reports the discount it
// grants. Validation never mutates cart state; applying the discount is the
// cart engine's job.
type Validator interface {
	Validate(ctx context.Context, code string) (Result, error)
}

// CatalogSource supplies the product list to validate against. Reads must
// reflect the latest persisted catalog, not an in-memory snapshot, so codes
// saved by the admin are immediately redeemable.
type CatalogSource interface {
	Products() []catalog.Product
}
