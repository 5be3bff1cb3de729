package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
	"github.com/vitrine-shop/vitrine/internal/domain/coupon"
	"github.com/vitrine-shop/vitrine/internal/kv"
)

var hundred = decimal.NewFromInt(100)

// ErrInvalidCoupon is returned by ApplyCoupon when the submitted code does
// not match any catalog coupon.
var ErrInvalidCoupon = errors.New("invalid coupon code")

// Engine owns the cart state and persists every mutation. It is the single
// writer of the applied coupon and discount: the validator only reports,
// the engine applies.
type Engine struct {
	mu        sync.Mutex
	kv        *kv.Store
	validator coupon.Validator
	lg        *zap.Logger

	items    []Item
	delivery DeliveryMethod
	payment  PaymentMethod
	customer CustomerInfo
	applied  string
	discount int
}

// NewEngine creates an Engine, restoring any previously persisted state.
// Malformed persisted values fall back to their defaults.
func NewEngine(store *kv.Store, validator coupon.Validator, lg *zap.Logger) *Engine {
	if lg == nil {
		lg = zap.NewNop()
	}
	e := &Engine{
		kv:        store,
		validator: validator,
		lg:        lg,
		delivery:  DeliveryPickup,
		payment:   PaymentMoney,
	}
	e.restore()
	return e
}

func (e *Engine) restore() {
	e.load(kv.KeyCart, &e.items)
	e.load(kv.KeyCustomerInfo, &e.customer)
	e.load(kv.KeyAppliedCoupon, &e.applied)
	e.load(kv.KeyDiscount, &e.discount)

	var delivery DeliveryMethod
	if e.load(kv.KeyDeliveryMethod, &delivery) && ValidDeliveryMethod(delivery) {
		e.delivery = delivery
	}
	var payment PaymentMethod
	if e.load(kv.KeyPaymentMethod, &payment) && ValidPaymentMethod(payment) {
		e.payment = payment
	}

	// Drop restored items that violate the quantity invariant.
	items := e.items[:0]
	for _, it := range e.items {
		if it.Quantity >= 1 {
			items = append(items, it)
		}
	}
	e.items = items
	if e.discount < 0 || e.discount > 100 {
		e.discount = 0
	}
}

func (e *Engine) load(key string, dst any) bool {
	raw, ok := e.kv.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		e.lg.Debug("discarding malformed cart state", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (e *Engine) persist(pairs map[string]any) error {
	docs := make(map[string][]byte, len(pairs))
	for key, v := range pairs {
		doc, err := json.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "encode %s", key)
		}
		docs[key] = doc
	}
	if err := e.kv.SetAll(docs); err != nil {
		return errors.Wrap(err, "persist cart state")
	}
	return nil
}

// AddItem puts one unit of product in the cart, incrementing the quantity
// when the product is already there.
func (e *Engine) AddItem(product catalog.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == product.ID {
			e.items[i].Quantity++
			return e.persist(map[string]any{kv.KeyCart: e.items})
		}
	}
	e.items = append(e.items, Item{Product: product, Quantity: 1})
	return e.persist(map[string]any{kv.KeyCart: e.items})
}

// RemoveItem takes one unit of the product out of the cart, deleting the
// line when its quantity reaches zero. Removing an absent product is a
// no-op.
func (e *Engine) RemoveItem(productID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID != productID {
			continue
		}
		if e.items[i].Quantity > 1 {
			e.items[i].Quantity--
		} else {
			e.items = append(e.items[:i], e.items[i+1:]...)
		}
		return e.persist(map[string]any{kv.KeyCart: e.items})
	}
	return nil
}

// RemoveAll deletes the product's line entirely regardless of quantity.
func (e *Engine) RemoveAll(productID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == productID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return e.persist(map[string]any{kv.KeyCart: e.items})
		}
	}
	return nil
}

// Clear empties the cart and resets the applied coupon and discount.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	e.applied = ""
	e.discount = 0
	return e.persist(map[string]any{
		kv.KeyCart:          []Item{},
		kv.KeyAppliedCoupon: "",
		kv.KeyDiscount:      0,
	})
}

// Items returns a copy of the cart lines.
func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]Item, len(e.items))
	copy(items, e.items)
	return items
}

// Subtotal is the sum of unit price times quantity over all lines.
func (e *Engine) Subtotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked()
}

func (e *Engine) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range e.items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// DiscountAmount is the monetary value of the applied discount.
func (e *Engine) DiscountAmount() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.discountAmountLocked()
}

func (e *Engine) discountAmountLocked() decimal.Decimal {
	if e.discount == 0 {
		return decimal.Zero
	}
	return e.subtotalLocked().Mul(decimal.NewFromInt(int64(e.discount))).Div(hundred)
}

// FinalTotal is the subtotal less the applied discount. With no discount it
// equals the subtotal.
func (e *Engine) FinalTotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked().Sub(e.discountAmountLocked())
}

// DeliveryMethod returns the current delivery selection.
func (e *Engine) DeliveryMethod() DeliveryMethod {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delivery
}

// SetDeliveryMethod stores the delivery selection.
func (e *Engine) SetDeliveryMethod(m DeliveryMethod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delivery = m
	return e.persist(map[string]any{kv.KeyDeliveryMethod: m})
}

// PaymentMethod returns the current payment selection.
func (e *Engine) PaymentMethod() PaymentMethod {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.payment
}

// SetPaymentMethod stores the payment selection.
func (e *Engine) SetPaymentMethod(m PaymentMethod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.payment = m
	return e.persist(map[string]any{kv.KeyPaymentMethod: m})
}

// CustomerInfo returns the customer contact and address.
func (e *Engine) CustomerInfo() CustomerInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.customer
}

// SetCustomerInfo stores the customer contact and address. No format
// validation happens here; the checkout boundary enforces what delivery
// requires.
func (e *Engine) SetCustomerInfo(info CustomerInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.customer = info
	return e.persist(map[string]any{kv.KeyCustomerInfo: info})
}

// AppliedCoupon returns the applied code and its discount percentage.
func (e *Engine) AppliedCoupon() (code string, percent int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applied, e.discount
}

// SetAppliedCoupon stores the coupon code directly. Clearing the code also
// resets the discount; the setter enforces the invariant so callers cannot
// leave a dangling percentage.
func (e *Engine) SetAppliedCoupon(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.applied = code
	if code == "" {
		e.discount = 0
	}
	return e.persist(map[string]any{
		kv.KeyAppliedCoupon: e.applied,
		kv.KeyDiscount:      e.discount,
	})
}

// ApplyCoupon validates code and, when valid, stores it with its discount.
// An unrecognized code clears any previously applied coupon and returns
// ErrInvalidCoupon. Code and discount persist in a single write.
func (e *Engine) ApplyCoupon(ctx context.Context, code string) (coupon.Result, error) {
	res, err := e.validator.Validate(ctx, code)
	if err != nil {
		return coupon.Result{}, errors.Wrap(err, "validate coupon")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !res.Valid {
		e.applied = ""
		e.discount = 0
		if perr := e.persist(map[string]any{
			kv.KeyAppliedCoupon: "",
			kv.KeyDiscount:      0,
		}); perr != nil {
			return coupon.Result{}, perr
		}
		return res, ErrInvalidCoupon
	}

	e.applied = code
	e.discount = res.Percent
	if perr := e.persist(map[string]any{
		kv.KeyAppliedCoupon: code,
		kv.KeyDiscount:      res.Percent,
	}); perr != nil {
		return coupon.Result{}, perr
	}
	return res, nil
}
