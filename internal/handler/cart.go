package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/vitrine-shop/vitrine/internal/domain/cart"
	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
)

// cartView is the JSON shape of the cart. Amounts are fixed to two decimal
// places.
type cartView struct {
	Items           []cart.Item         `json:"items"`
	Subtotal        string              `json:"subtotal"`
	DiscountPercent int                 `json:"discountPercent"`
	DiscountAmount  string              `json:"discountAmount"`
	Total           string              `json:"total"`
	DeliveryMethod  cart.DeliveryMethod `json:"deliveryMethod"`
	PaymentMethod   cart.PaymentMethod  `json:"paymentMethod"`
	Customer        cart.CustomerInfo   `json:"customer"`
	AppliedCoupon   string              `json:"appliedCoupon"`
}

func (h *Handler) cartView() cartView {
	code, percent := h.cart.AppliedCoupon()
	items := h.cart.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return cartView{
		Items:           items,
		Subtotal:        h.cart.Subtotal().StringFixed(2),
		DiscountPercent: percent,
		DiscountAmount:  h.cart.DiscountAmount().StringFixed(2),
		Total:           h.cart.FinalTotal().StringFixed(2),
		DeliveryMethod:  h.cart.DeliveryMethod(),
		PaymentMethod:   h.cart.PaymentMethod(),
		Customer:        h.cart.CustomerInfo(),
		AppliedCoupon:   code,
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"productId"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.catalog.ProductByID(req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("product %d not found", req.ProductID))
			return
		}
		serverError(w, r, err)
		return
	}

	if err := h.cart.AddItem(p); err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	h.removeFromCart(w, r, h.cart.RemoveItem)
}

func (h *Handler) removeCartLine(w http.ResponseWriter, r *http.Request) {
	h.removeFromCart(w, r, h.cart.RemoveAll)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request, remove func(int) error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "product id must be an integer")
		return
	}
	if err := remove(id); err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(); err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) setDelivery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method cart.DeliveryMethod `json:"method"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !cart.ValidDeliveryMethod(req.Method) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown delivery method %q", req.Method))
		return
	}
	if err := h.cart.SetDeliveryMethod(req.Method); err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) setPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method cart.PaymentMethod `json:"method"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !cart.ValidPaymentMethod(req.Method) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown payment method %q", req.Method))
		return
	}
	if err := h.cart.SetPaymentMethod(req.Method); err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) setCustomer(w http.ResponseWriter, r *http.Request) {
	var info cart.CustomerInfo
	if err := decode(r, &info); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.cart.SetCustomerInfo(info); err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Empty input is a user error, rejected before the validator runs.
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "coupon code is required")
		return
	}

	res, err := h.cart.ApplyCoupon(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidCoupon) {
			writeError(w, http.StatusUnprocessableEntity, "invalid coupon code")
			return
		}
		serverError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, struct {
		Valid    bool     `json:"valid"`
		Discount int      `json:"discount"`
		Cart     cartView `json:"cart"`
	}{Valid: res.Valid, Discount: res.Percent, Cart: h.cartView()})
}

func (h *Handler) removeCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.SetAppliedCoupon(""); err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.cartView())
}
