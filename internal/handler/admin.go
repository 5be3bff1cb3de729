package handler

import (
	"net/http"

	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
	"github.com/vitrine-shop/vitrine/internal/domain/profile"
	"github.com/vitrine-shop/vitrine/internal/domain/theme"
)

func (h *Handler) replaceProducts(w http.ResponseWriter, r *http.Request) {
	var products []catalog.Product
	if err := decode(r, &products); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, p := range products {
		if err := checkImageRef(p.Image); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		for _, img := range p.AdditionalImages {
			if err := checkImageRef(img); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
	}
	if err := h.catalog.Replace(products); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, r, http.StatusOK, products)
}

func (h *Handler) setGlobalCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code    string `json:"code"`
		Percent int    `json:"percent"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.catalog.SetGlobalCoupon(req.Code, req.Percent); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, r, http.StatusOK, h.catalog.Products())
}

func (h *Handler) replaceCarousel(w http.ResponseWriter, r *http.Request) {
	var images []string
	if err := decode(r, &images); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, img := range images {
		if err := checkImageRef(img); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := h.catalog.ReplaceCarousel(images); err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, images)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.profile.Load())
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch profile.Patch
	if err := decode(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.LogoURL != nil {
		if err := checkImageRef(*patch.LogoURL); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	p, err := h.profile.Update(patch)
	if err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, p)
}

func (h *Handler) updateWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.profile.Update(profile.Patch{Phone: &req.Phone})
	if err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, p)
}

func (h *Handler) updateSocial(w http.ResponseWriter, r *http.Request) {
	var patch profile.SocialPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.profile.UpdateSocial(r.PathValue("key"), patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, r, http.StatusOK, p)
}

func (h *Handler) getTheme(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.theme.Load())
}

func (h *Handler) updateTheme(w http.ResponseWriter, r *http.Request) {
	var patch theme.Patch
	if err := decode(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.theme.Update(patch)
	if err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, c)
}

func (h *Handler) resetTheme(w http.ResponseWriter, r *http.Request) {
	c, err := h.theme.Reset()
	if err != nil {
		serverError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, c)
}
