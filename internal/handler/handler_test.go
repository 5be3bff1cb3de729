package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-shop/vitrine/internal/domain/cart"
	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
	"github.com/vitrine-shop/vitrine/internal/domain/coupon"
	"github.com/vitrine-shop/vitrine/internal/domain/profile"
	"github.com/vitrine-shop/vitrine/internal/domain/theme"
	"github.com/vitrine-shop/vitrine/internal/kv"
	"github.com/vitrine-shop/vitrine/internal/whatsapp"
)

// newTestServer wires the full stack over a throwaway store file, the same
// way the application composes it.
func newTestServer(t *testing.T) *http.ServeMux {
	t.Helper()

	store, err := kv.Open(filepath.Join(t.TempDir(), "store.json"), nil)
	require.NoError(t, err)

	catalogStore := catalog.NewStore(store, nil)
	validator := coupon.NewCatalogValidator(catalogStore)
	catalogStore.OnChange(validator.Reindex)
	engine := cart.NewEngine(store, validator, nil)

	h := NewHandler(
		Config{PublicURL: "https://loja.example.com/"},
		catalogStore,
		engine,
		profile.NewStore(store, nil),
		theme.NewStore(store, nil),
		whatsapp.NewComposer(),
	)
	return h.Routes()
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}

func TestListProducts(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []catalog.Product
	decodeBody(t, w, &products)
	assert.Len(t, products, 6)
}

func TestGetProduct(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p catalog.Product
	decodeBody(t, w, &p)
	assert.Equal(t, "Smartphone Premium", p.Name)
}

func TestGetProduct_Errors(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodGet, "/api/products/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShareProduct(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodGet, "/api/products/1/share", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var s whatsapp.Share
	decodeBody(t, w, &s)
	assert.Equal(t, "Smartphone Premium", s.Title)
	assert.Equal(t, "https://loja.example.com/produto/1", s.URL)
	assert.Contains(t, s.FallbackURL, "api.whatsapp.com")
}

func TestShareSite(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodGet, "/api/share", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var s whatsapp.Share
	decodeBody(t, w, &s)
	assert.Equal(t, "Loja Online", s.Title)
	assert.Equal(t, "https://loja.example.com", s.URL)
}

func TestGetCarousel(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodGet, "/api/carousel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var images []string
	decodeBody(t, w, &images)
	assert.Len(t, images, 3)
}

func TestCartFlow(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Items    []cart.Item `json:"items"`
		Subtotal string      `json:"subtotal"`
		Total    string      `json:"total"`
	}
	decodeBody(t, w, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, "3999.98", view.Subtotal)
	assert.Equal(t, "3999.98", view.Total)

	// One unit off, then the whole line.
	w = doJSON(t, mux, http.MethodDelete, "/api/cart/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)

	w = doJSON(t, mux, http.MethodDelete, "/api/cart/items/1/all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &view)
	assert.Empty(t, view.Items)
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 999})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestClearCart(t *testing.T) {
	mux := newTestServer(t)
	doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})

	w := doJSON(t, mux, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Items         []cart.Item `json:"items"`
		AppliedCoupon string      `json:"appliedCoupon"`
	}
	decodeBody(t, w, &view)
	assert.Empty(t, view.Items)
	assert.Empty(t, view.AppliedCoupon)
}

func TestSetDeliveryAndPayment(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPut, "/api/cart/delivery", map[string]any{"method": "delivery"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, http.MethodPut, "/api/cart/delivery", map[string]any{"method": "teleport"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, http.MethodPut, "/api/cart/payment", map[string]any{"method": "pix"})
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		DeliveryMethod string `json:"deliveryMethod"`
		PaymentMethod  string `json:"paymentMethod"`
	}
	decodeBody(t, w, &view)
	assert.Equal(t, "delivery", view.DeliveryMethod)
	assert.Equal(t, "pix", view.PaymentMethod)

	w = doJSON(t, mux, http.MethodPut, "/api/cart/payment", map[string]any{"method": "barter"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCouponFlow(t *testing.T) {
	mux := newTestServer(t)

	// Stamp a store-wide coupon, then redeem it case-insensitively.
	w := doJSON(t, mux, http.MethodPut, "/api/admin/coupon", map[string]any{"code": "PROMO20", "percent": 20})
	require.Equal(t, http.StatusOK, w.Code)

	doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})

	w = doJSON(t, mux, http.MethodPost, "/api/cart/coupon", map[string]any{"code": "promo20"})
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Valid    bool `json:"valid"`
		Discount int  `json:"discount"`
		Cart     struct {
			Subtotal       string `json:"subtotal"`
			DiscountAmount string `json:"discountAmount"`
			Total          string `json:"total"`
			AppliedCoupon  string `json:"appliedCoupon"`
		} `json:"cart"`
	}
	decodeBody(t, w, &res)
	assert.True(t, res.Valid)
	assert.Equal(t, 20, res.Discount)
	assert.Equal(t, "1999.99", res.Cart.Subtotal)
	assert.Equal(t, "400.00", res.Cart.DiscountAmount)
	assert.Equal(t, "1599.99", res.Cart.Total)
	assert.Equal(t, "promo20", res.Cart.AppliedCoupon)
}

func TestApplyCoupon_EmptyCode(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPost, "/api/cart/coupon", map[string]any{"code": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyCoupon_InvalidCodeClearsPrevious(t *testing.T) {
	mux := newTestServer(t)
	doJSON(t, mux, http.MethodPut, "/api/admin/coupon", map[string]any{"code": "PROMO20", "percent": 20})
	doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})
	doJSON(t, mux, http.MethodPost, "/api/cart/coupon", map[string]any{"code": "PROMO20"})

	w := doJSON(t, mux, http.MethodPost, "/api/cart/coupon", map[string]any{"code": "BOGUS"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/cart", nil)
	var view struct {
		AppliedCoupon   string `json:"appliedCoupon"`
		DiscountPercent int    `json:"discountPercent"`
	}
	decodeBody(t, w, &view)
	assert.Empty(t, view.AppliedCoupon)
	assert.Zero(t, view.DiscountPercent)
}

func TestRemoveCoupon(t *testing.T) {
	mux := newTestServer(t)
	doJSON(t, mux, http.MethodPut, "/api/admin/coupon", map[string]any{"code": "PROMO20", "percent": 20})
	doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})
	doJSON(t, mux, http.MethodPost, "/api/cart/coupon", map[string]any{"code": "PROMO20"})

	w := doJSON(t, mux, http.MethodDelete, "/api/cart/coupon", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		AppliedCoupon   string `json:"appliedCoupon"`
		DiscountPercent int    `json:"discountPercent"`
		Total           string `json:"total"`
		Subtotal        string `json:"subtotal"`
	}
	decodeBody(t, w, &view)
	assert.Empty(t, view.AppliedCoupon)
	assert.Zero(t, view.DiscountPercent)
	assert.Equal(t, view.Subtotal, view.Total)
}

func TestCheckout_EmptyCart(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPost, "/api/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_DeliveryRequiresStreet(t *testing.T) {
	mux := newTestServer(t)
	doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})
	doJSON(t, mux, http.MethodPut, "/api/cart/delivery", map[string]any{"method": "delivery"})

	w := doJSON(t, mux, http.MethodPost, "/api/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckout_Success(t *testing.T) {
	mux := newTestServer(t)
	doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})
	doJSON(t, mux, http.MethodPut, "/api/cart/customer", map[string]any{
		"name": "Maria", "phone": "11999998888",
		"address": map[string]any{"street": "", "number": "", "complement": "", "city": "", "zipCode": ""},
	})

	w := doJSON(t, mux, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Message     string `json:"message"`
		WhatsAppURL string `json:"whatsappUrl"`
	}
	decodeBody(t, w, &res)
	assert.Contains(t, res.Message, "Olá! Gostaria de fazer um pedido:")
	assert.Contains(t, res.Message, "*Nome:* Maria")
	assert.Contains(t, res.Message, "*Smartphone Premium*")
	assert.Contains(t, res.Message, "*Método de entrega:* Retirar na loja")
	assert.Contains(t, res.WhatsAppURL, "api.whatsapp.com/send")
	assert.Contains(t, res.WhatsAppURL, "phone=5511999999999", "store phone, normalized")
}

func TestAdminReplaceProducts(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPut, "/api/admin/products", []map[string]any{
		{"id": 1, "name": "Caneca", "description": "", "price": "25.00",
			"image": "https://cdn.example.com/caneca.jpg", "additionalImages": []string{}, "isPromotion": false},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/products", nil)
	var products []catalog.Product
	decodeBody(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Caneca", products[0].Name)
}

func TestAdminReplaceProducts_RejectsBadImages(t *testing.T) {
	mux := newTestServer(t)

	// Not an image media type.
	w := doJSON(t, mux, http.MethodPut, "/api/admin/products", []map[string]any{
		{"id": 1, "name": "X", "description": "", "price": "1",
			"image": "data:text/html;base64,PGh0bWw+", "additionalImages": []string{}, "isPromotion": false},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Oversized payload: base64 of >5MiB decodes past the limit.
	huge := strings.Repeat("A", (maxImageBytes/3+10)*4)
	w = doJSON(t, mux, http.MethodPut, "/api/admin/products", []map[string]any{
		{"id": 1, "name": "X", "description": "", "price": "1",
			"image": "data:image/png;base64," + huge, "additionalImages": []string{}, "isPromotion": false},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCarousel(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPut, "/api/admin/carousel", []string{"https://cdn.example.com/b1.jpg"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/carousel", nil)
	var images []string
	decodeBody(t, w, &images)
	assert.Equal(t, []string{"https://cdn.example.com/b1.jpg"}, images)
}

func TestAdminProfile(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPut, "/api/admin/profile", map[string]any{"name": "Loja da Maria"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/admin/profile", nil)
	var p profile.Profile
	decodeBody(t, w, &p)
	assert.Equal(t, "Loja da Maria", p.Name)
	assert.Equal(t, "(11) 99999-9999", p.Phone, "unpatched field keeps its default")
}

func TestAdminWhatsApp(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPut, "/api/admin/whatsapp", map[string]any{"phone": "11977776666"})
	require.Equal(t, http.StatusOK, w.Code)

	var p profile.Profile
	decodeBody(t, w, &p)
	assert.Equal(t, "11977776666", p.Phone)
}

func TestAdminSocials(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPut, "/api/admin/socials/instagram", map[string]any{
		"url": "https://instagram.com/loja", "enabled": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var p profile.Profile
	decodeBody(t, w, &p)
	assert.Equal(t, "https://instagram.com/loja", p.Socials["instagram"].URL)
	assert.True(t, p.Socials["instagram"].Enabled)

	w = doJSON(t, mux, http.MethodPut, "/api/admin/socials/myspace", map[string]any{"enabled": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminTheme(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPut, "/api/admin/theme", map[string]any{"primary": "#ff0000"})
	require.Equal(t, http.StatusOK, w.Code)

	var c theme.Config
	decodeBody(t, w, &c)
	assert.Equal(t, "#ff0000", c.Primary)
	assert.Equal(t, "#ffffff", c.HeaderBg)

	w = doJSON(t, mux, http.MethodPost, "/api/admin/theme/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &c)
	assert.Equal(t, theme.Default(), c)
}

func TestUnknownRoute(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var e struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	decodeBody(t, w, &e)
	assert.Equal(t, http.StatusNotFound, e.Code)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	mux := newTestServer(t)

	w := doJSON(t, mux, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1, "extra": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
