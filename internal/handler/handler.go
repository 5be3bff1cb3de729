// Package handler exposes the storefront and admin operations over HTTP.
// Handlers are thin: decode, delegate to the domain, map errors.
package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/vitrine-shop/vitrine/internal/domain/cart"
	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
	"github.com/vitrine-shop/vitrine/internal/domain/profile"
	"github.com/vitrine-shop/vitrine/internal/domain/theme"
	"github.com/vitrine-shop/vitrine/internal/whatsapp"
)

// maxImageBytes caps uploaded (data-URL) images at 5 MiB, matching the
// storefront's upload guard.
const maxImageBytes = 5 << 20

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// PublicURL is the storefront's public base URL, used in share links.
	PublicURL string
}

// Handler serves the storefront API.
type Handler struct {
	catalog   *catalog.Store
	cart      *cart.Engine
	profile   *profile.Store
	theme     *theme.Store
	composer  *whatsapp.Composer
	publicURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	catalogStore *catalog.Store,
	engine *cart.Engine,
	profileStore *profile.Store,
	themeStore *theme.Store,
	composer *whatsapp.Composer,
) *Handler {
	return &Handler{
		catalog:   catalogStore,
		cart:      engine,
		profile:   profileStore,
		theme:     themeStore,
		composer:  composer,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}
}

// Routes returns the API route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("GET /api/products/{id}/share", h.shareProduct)
	mux.HandleFunc("GET /api/share", h.shareSite)
	mux.HandleFunc("GET /api/carousel", h.getCarousel)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}/all", h.removeCartLine)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)
	mux.HandleFunc("PUT /api/cart/delivery", h.setDelivery)
	mux.HandleFunc("PUT /api/cart/payment", h.setPayment)
	mux.HandleFunc("PUT /api/cart/customer", h.setCustomer)
	mux.HandleFunc("POST /api/cart/coupon", h.applyCoupon)
	mux.HandleFunc("DELETE /api/cart/coupon", h.removeCoupon)

	mux.HandleFunc("POST /api/checkout", h.checkout)

	mux.HandleFunc("PUT /api/admin/products", h.replaceProducts)
	mux.HandleFunc("PUT /api/admin/coupon", h.setGlobalCoupon)
	mux.HandleFunc("PUT /api/admin/carousel", h.replaceCarousel)
	mux.HandleFunc("GET /api/admin/profile", h.getProfile)
	mux.HandleFunc("PUT /api/admin/profile", h.updateProfile)
	mux.HandleFunc("PUT /api/admin/whatsapp", h.updateWhatsApp)
	mux.HandleFunc("PUT /api/admin/socials/{key}", h.updateSocial)
	mux.HandleFunc("GET /api/admin/theme", h.getTheme)
	mux.HandleFunc("PUT /api/admin/theme", h.updateTheme)
	mux.HandleFunc("POST /api/admin/theme/reset", h.resetTheme)

	mux.HandleFunc("/", h.notFound)

	return mux
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// respond writes v as a JSON response with the given status.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Debug("write response", zap.Error(err))
	}
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: status, Message: msg})
}

// serverError logs err with the request-scoped logger and responds 500.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// decode reads the request body as JSON into dst.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

// checkImageRef validates an image reference from an admin payload. Remote
// URLs pass through untouched; inline data URLs must carry an image media
// type and decode to at most maxImageBytes.
func checkImageRef(ref string) error {
	if !strings.HasPrefix(ref, "data:") {
		return nil
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return errors.New("malformed data URL")
	}
	mediaType, _, _ := strings.Cut(meta, ";")
	if !strings.HasPrefix(mediaType, "image/") {
		return errors.Errorf("unsupported media type %q, only images are accepted", mediaType)
	}
	if size := base64.StdEncoding.DecodedLen(len(payload)); size > maxImageBytes {
		return errors.Errorf("image too large: %d bytes exceeds the 5 MiB limit", size)
	}
	return nil
}
