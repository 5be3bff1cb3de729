package handler

import (
	"net/http"

	"github.com/vitrine-shop/vitrine/internal/domain/cart"
	"github.com/vitrine-shop/vitrine/internal/whatsapp"
)

// checkoutResponse hands the composed order back to the client. Opening the
// link is the client's job; no delivery confirmation ever flows back.
type checkoutResponse struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	items := h.cart.Items()
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	customer := h.cart.CustomerInfo()
	delivery := h.cart.DeliveryMethod()
	if delivery == cart.DeliveryDelivery && customer.Address.Street == "" {
		writeError(w, http.StatusUnprocessableEntity, "delivery requires a street address")
		return
	}

	code, percent := h.cart.AppliedCoupon()
	store := h.profile.Load()

	msg := h.composer.ComposeOrder(whatsapp.OrderDetails{
		Items:           items,
		Delivery:        delivery,
		Payment:         h.cart.PaymentMethod(),
		Customer:        customer,
		CouponCode:      code,
		DiscountPercent: percent,
		Store:           store,
	})

	respond(w, r, http.StatusOK, checkoutResponse{
		Message:     msg,
		WhatsAppURL: whatsapp.OrderLink(msg, store.Phone),
	})
}
