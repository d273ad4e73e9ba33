package handlers

import (
	"net/http"
	"strings"

	"github.com/hongminglow/kitchen-guide/internal/http/render"
	"github.com/hongminglow/kitchen-guide/internal/models"
)

type searchView struct {
	render.Page
	Query        string
	Products     []models.Product
	Preparations []models.Preparation
}

// Search runs a case-insensitive keyword search over products and
// preparations and renders both result sets.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	products, err := h.products.SearchProducts(r.Context(), term)
	if err != nil {
		h.logger.Error().Err(err).Str("query", term).Msg("search products")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	preparations, err := h.preparations.SearchPreparations(r.Context(), term)
	if err != nil {
		h.logger.Error().Err(err).Str("query", term).Msg("search preparations")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	h.renderer.HTML(w, http.StatusOK, "search_results", searchView{
		Page:         h.page(r),
		Query:        term,
		Products:     products,
		Preparations: preparations,
	})
}
