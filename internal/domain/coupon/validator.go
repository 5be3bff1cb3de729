package coupon

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
)

// Index sizing: catalogs are small, but the filter is cheap enough to size
// for far more codes than any store will carry.
const (
	indexCapacity = 10_000
	indexFPR      = 0.001
)

// CatalogValidator implements Validator by scanning the catalog for a
// product carrying the submitted code. Matching is a case-insensitive exact
// comparison; the first product in catalog order with the code and a
// positive discount wins.
//
// A bloom filter over the known codes serves as a negative index: a code the
// filter has never seen is rejected without touching the store. The filter
// is rebuilt on every catalog save via Reindex, so it can only produce false
// positives, which fall through to the authoritative scan.
type CatalogValidator struct {
	source CatalogSource
	index  atomic.Pointer[bloom.BloomFilter]
}

var _ Validator = (*CatalogValidator)(nil)

// NewCatalogValidator creates a CatalogValidator reading from source.
func NewCatalogValidator(source CatalogSource) *CatalogValidator {
	return &CatalogValidator{source: source}
}

// Reindex rebuilds the negative index from the given product list. Wire it
// to the catalog store's change hook.
func (v *CatalogValidator) Reindex(products []catalog.Product) {
	filter := bloom.NewWithEstimates(indexCapacity, indexFPR)
	for _, p := range products {
		if p.CouponCode != "" {
			filter.AddString(strings.ToLower(p.CouponCode))
		}
	}
	v.index.Store(filter)
}

// Validate checks code against the persisted catalog. An unknown code is not
// an error: it yields a zero Result.
func (v *CatalogValidator) Validate(ctx context.Context, code string) (Result, error) {
	if code == "" {
		return Result{}, ErrEmptyCode
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if filter := v.index.Load(); filter != nil && !filter.TestString(strings.ToLower(code)) {
		return Result{}, nil
	}

	for _, p := range v.source.Products() {
		if p.CouponCode != "" && strings.EqualFold(p.CouponCode, code) && p.DiscountPercent > 0 {
			return Result{Valid: true, Percent: p.DiscountPercent}, nil
		}
	}
	return Result{}, nil
}
