// Package cart implements the cart engine: the active order-in-progress,
// its totals, and the delivery, payment, customer and coupon selections.
// Every mutation persists to the key-value store immediately.
package cart

import (
	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
)

// DeliveryMethod selects how the order reaches the customer.
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

// PaymentMethod selects how the customer intends to pay. The wire values are
// the storefront's persisted names.
type PaymentMethod string

const (
	PaymentMoney  PaymentMethod = "money"
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentOther  PaymentMethod = "other"
)

// Label returns the customer-facing name of the payment method.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMoney:
		return "Dinheiro"
	case PaymentPix:
		return "Pix"
	case PaymentCredit:
		return "Cartão de Crédito"
	case PaymentDebit:
		return "Cartão de Débito"
	default:
		return "Outro"
	}
}

// ValidDeliveryMethod reports whether m is a known delivery method.
func ValidDeliveryMethod(m DeliveryMethod) bool {
	return m == DeliveryPickup || m == DeliveryDelivery
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMoney, PaymentPix, PaymentCredit, PaymentDebit, PaymentOther:
		return true
	}
	return false
}

// Item is a product in the cart with its quantity. The product is embedded
// as a snapshot, so a later catalog edit does not reprice an open cart.
// Quantity is always at least 1; reaching 0 removes the item.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Address is the customer's delivery address. Empty fields mean
// "not provided".
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	City       string `json:"city"`
	ZipCode    string `json:"zipCode"`
}

// Empty reports whether every address field is blank.
func (a Address) Empty() bool {
	return a == Address{}
}

// CustomerInfo identifies the customer placing the order. All fields are
// optional at this layer; the checkout boundary enforces what it needs.
type CustomerInfo struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}
