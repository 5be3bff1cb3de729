// Package whatsapp composes order summaries and builds deep links into the
// WhatsApp messaging service. The hand-off is one-way: a link is produced
// and opened by the client, and no acknowledgment ever comes back.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitrine-shop/vitrine/internal/domain/cart"
	"github.com/vitrine-shop/vitrine/internal/domain/profile"
)

const sendURL = "https://api.whatsapp.com/send"

var hundred = decimal.NewFromInt(100)

// OrderDetails carries everything the composer needs to render an order
// summary.
type OrderDetails struct {
	Items           []cart.Item
	Delivery        cart.DeliveryMethod
	Payment         cart.PaymentMethod
	Customer        cart.CustomerInfo
	CouponCode      string
	DiscountPercent int
	Store           profile.Profile
}

// Composer renders order messages. The clock is injectable for tests.
type Composer struct {
	now func() time.Time
}

// NewComposer creates a Composer using the wall clock.
func NewComposer() *Composer {
	return &Composer{now: time.Now}
}

// ComposeOrder renders the human-readable order text sent to the store:
// customer identification, coupon details, itemized products, totals,
// delivery and payment selections, timestamp and store identification.
func (c *Composer) ComposeOrder(d OrderDetails) string {
	now := c.now()

	customer := "Cliente não identificado"
	if strings.TrimSpace(d.Customer.Name) != "" {
		customer = fmt.Sprintf("*Nome:* %s", d.Customer.Name)
	}

	subtotal := decimal.Zero
	units := 0
	lines := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		lineTotal := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		units += it.Quantity
		lines = append(lines, fmt.Sprintf(
			"*%s*\nQuantidade: %d\nValor unitário: R$ %s\nSubtotal: R$ %s",
			it.Name, it.Quantity, it.Price.StringFixed(2), lineTotal.StringFixed(2),
		))
	}

	discounted := d.CouponCode != "" && d.DiscountPercent > 0
	discountAmount := decimal.Zero
	if discounted {
		discountAmount = subtotal.Mul(decimal.NewFromInt(int64(d.DiscountPercent))).Div(hundred)
	}

	couponInfo := ""
	if discounted {
		couponInfo = fmt.Sprintf(
			"\n\n*CUPOM APLICADO:*\n• Código: %s\n• Desconto: %d%%\n• Valor do desconto: R$ %s",
			d.CouponCode, d.DiscountPercent, discountAmount.StringFixed(2),
		)
	}

	var summary string
	if discounted {
		summary = fmt.Sprintf(
			"*RESUMO DO PEDIDO:*\n• Total de itens: %d\n• Total de produtos: %d\n• Subtotal: R$ %s\n• Desconto (%d%%): -R$ %s\n• Total final: R$ %s",
			len(d.Items), units, subtotal.StringFixed(2),
			d.DiscountPercent, discountAmount.StringFixed(2),
			subtotal.Sub(discountAmount).StringFixed(2),
		)
	} else {
		summary = fmt.Sprintf(
			"*RESUMO DO PEDIDO:*\n• Total de itens: %d\n• Total de produtos: %d\n• Valor total: R$ %s",
			len(d.Items), units, subtotal.StringFixed(2),
		)
	}

	delivery := "Retirar na loja"
	address := ""
	if d.Delivery == cart.DeliveryDelivery {
		delivery = "Entrega no endereço"
		address = fmt.Sprintf("\n*Endereço de entrega:*\n%s", FormatAddress(d.Customer.Address))
	}

	return fmt.Sprintf(
		"Olá! Gostaria de fazer um pedido:\n\n%s%s\n\n*PRODUTOS:*\n%s\n\n%s\n\n*Método de entrega:* %s%s\n*Forma de pagamento:* %s\n\n*Data:* %s às %s\n\n*%s*\n%s\n\nObrigado!",
		customer,
		couponInfo,
		strings.Join(lines, "\n\n"),
		summary,
		delivery,
		address,
		d.Payment.Label(),
		now.Format("02/01/2006"),
		now.Format("15:04:05"),
		d.Store.Name,
		d.Store.Address,
	)
}

// FormatAddress joins the non-empty address fields in street, number,
// complement, city, postal-code order. A fully empty address renders the
// "not provided" placeholder.
func FormatAddress(a cart.Address) string {
	var b strings.Builder
	if a.Street != "" {
		b.WriteString(a.Street)
	}
	if a.Number != "" {
		fmt.Fprintf(&b, ", %s", a.Number)
	}
	if a.Complement != "" {
		fmt.Fprintf(&b, ", %s", a.Complement)
	}
	if a.City != "" {
		fmt.Fprintf(&b, ", %s", a.City)
	}
	if a.ZipCode != "" {
		fmt.Fprintf(&b, ", CEP: %s", a.ZipCode)
	}
	if b.Len() == 0 {
		return "Endereço não informado"
	}
	return b.String()
}

// OrderLink builds the deep link that opens a chat with the store,
// pre-filled with the composed message.
func OrderLink(message, storePhone string) string {
	q := url.Values{}
	q.Set("phone", NormalizePhone(storePhone))
	q.Set("text", message)
	return sendURL + "?" + q.Encode()
}

// MessageLink builds a deep link carrying only a pre-filled text, with no
// destination phone. Used as the share fallback on platforms without a
// native share capability.
func MessageLink(message string) string {
	q := url.Values{}
	q.Set("text", message)
	return sendURL + "?" + q.Encode()
}
