package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
	"github.com/vitrine-shop/vitrine/internal/whatsapp"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.catalog.Products())
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromPath(w, r)
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, p)
}

func (h *Handler) shareProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromPath(w, r)
	if !ok {
		return
	}
	productURL := fmt.Sprintf("%s/produto/%d", h.publicURL, p.ID)
	respond(w, r, http.StatusOK, whatsapp.ShareProduct(p, productURL))
}

func (h *Handler) shareSite(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, whatsapp.ShareSite(h.profile.Load(), h.publicURL))
}

func (h *Handler) getCarousel(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.catalog.CarouselImages())
}

// productFromPath resolves the {id} path segment to a product, writing the
// error response itself when resolution fails.
func (h *Handler) productFromPath(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "product id must be an integer")
		return catalog.Product{}, false
	}
	p, err := h.catalog.ProductByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
			return catalog.Product{}, false
		}
		serverError(w, r, err)
		return catalog.Product{}, false
	}
	return p, true
}
