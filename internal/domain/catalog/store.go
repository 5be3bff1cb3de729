package catalog

import (
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/vitrine-shop/vitrine/internal/kv"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ChangeFunc observes the full product list after every catalog mutation.
// Used to keep the coupon code index in sync with admin saves.
type ChangeFunc func(products []Product)

// Store reads and writes the product list and carousel. Reads always go to
// the key-value store, never to a cached copy, so a checkout started before
// an admin save still sees the saved catalog.
type Store struct {
	mu       sync.Mutex
	kv       *kv.Store
	lg       *zap.Logger
	onChange []ChangeFunc
}

// NewStore creates a catalog Store backed by the given key-value store.
func NewStore(store *kv.Store, lg *zap.Logger) *Store {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Store{kv: store, lg: lg}
}

// OnChange registers fn to run after every catalog mutation, and once
// immediately with the current product list.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
	fn(s.Products())
}

// Products returns the persisted product list, or the default catalog when
// the key is absent or unparsable.
func (s *Store) Products() []Product {
	raw, ok := s.kv.Get(kv.KeyProductList)
	if !ok {
		return DefaultProducts()
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		s.lg.Debug("discarding malformed product list", zap.Error(err))
		return DefaultProducts()
	}
	return products
}

// ProductByID returns the product with the given id, or ErrNotFound.
func (s *Store) ProductByID(id int) (Product, error) {
	for _, p := range s.Products() {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, errors.Wrapf(ErrNotFound, "id %d", id)
}

// Replace overwrites the product list and persists it.
func (s *Store) Replace(products []Product) error {
	for _, p := range products {
		if p.Price.IsNegative() {
			return errors.Errorf("product %d: negative price %s", p.ID, p.Price)
		}
		if len(p.AdditionalImages) > MaxAdditionalImages {
			return errors.Errorf("product %d: at most %d additional images", p.ID, MaxAdditionalImages)
		}
	}
	return s.save(products)
}

// SetGlobalCoupon stamps the given coupon code and discount percentage onto
// every product, the way the admin editor applies a store-wide promotion.
// A positive discount with an empty code is persisted as-is but flagged,
// since such a discount can never be redeemed.
func (s *Store) SetGlobalCoupon(code string, percent int) error {
	if percent < 0 || percent > 100 {
		return errors.Errorf("discount percent %d out of range [0, 100]", percent)
	}
	if percent > 0 && code == "" {
		s.lg.Warn("global discount set without a coupon code; it cannot be redeemed",
			zap.Int("percent", percent),
		)
	}

	products := s.Products()
	for i := range products {
		products[i].CouponCode = code
		products[i].DiscountPercent = percent
	}
	return s.save(products)
}

func (s *Store) save(products []Product) error {
	doc, err := json.Marshal(products)
	if err != nil {
		return errors.Wrap(err, "encode product list")
	}
	if err := s.kv.Set(kv.KeyProductList, doc); err != nil {
		return errors.Wrap(err, "persist product list")
	}

	s.mu.Lock()
	observers := make([]ChangeFunc, len(s.onChange))
	copy(observers, s.onChange)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(products)
	}
	return nil
}

// CarouselImages returns the persisted carousel, or the defaults.
func (s *Store) CarouselImages() []string {
	raw, ok := s.kv.Get(kv.KeyCarouselImages)
	if !ok {
		return DefaultCarousel()
	}
	var images []string
	if err := json.Unmarshal(raw, &images); err != nil {
		s.lg.Debug("discarding malformed carousel list", zap.Error(err))
		return DefaultCarousel()
	}
	return images
}

// ReplaceCarousel overwrites the carousel image list and persists it.
func (s *Store) ReplaceCarousel(images []string) error {
	doc, err := json.Marshal(images)
	if err != nil {
		return errors.Wrap(err, "encode carousel list")
	}
	if err := s.kv.Set(kv.KeyCarouselImages, doc); err != nil {
		return errors.Wrap(err, "persist carousel list")
	}
	return nil
}
