package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/kitchen-guide/internal/http/render"
	"github.com/hongminglow/kitchen-guide/internal/models"
	"github.com/hongminglow/kitchen-guide/internal/storage"
	"github.com/hongminglow/kitchen-guide/internal/upload"
)

type indexView struct {
	render.Page
	Products []models.Product
}

type productFormView struct {
	render.Page
	Error string
	Form  models.ProductForm
}

type productDetailView struct {
	render.Page
	Product models.Product
}

type productEditView struct {
	render.Page
	Error   string
	Product models.Product
}

// Index renders the homepage with all products.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list products")
		h.renderer.ServerError(w, h.page(r))
		return
	}
	h.renderer.HTML(w, http.StatusOK, "index", indexView{Page: h.page(r), Products: products})
}

// NewProduct renders the empty product form.
func (h *Handler) NewProduct(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, http.StatusOK, "product_new", productFormView{Page: h.page(r)})
}

// CreateProduct validates the multipart submission, stores the optional
// image, and inserts the product. The row is only written once the blob is
// safely stored.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.parseUploadForm(w, r) {
		return
	}

	form := models.ProductForm{
		SupplierName: r.FormValue("supplier_name"),
		ProductName:  r.FormValue("product_name"),
		Location:     r.FormValue("location"),
		Description:  r.FormValue("description"),
	}
	if err := form.Validate(); err != nil {
		h.renderer.HTML(w, http.StatusBadRequest, "product_new", productFormView{Page: h.page(r), Error: err.Error(), Form: form})
		return
	}

	pictureURL := ""
	if fh := formFile(r, "picture"); fh != nil {
		if !upload.ValidImageExtension(fh.Filename) {
			h.renderer.HTML(w, http.StatusBadRequest, "product_new", productFormView{Page: h.page(r), Error: invalidFileTypeMsg, Form: form})
			return
		}
		url, err := h.saveImage(r, fh)
		if err != nil {
			h.logger.Error().Err(err).Msg("store product image")
			h.renderer.ServerError(w, h.page(r))
			return
		}
		pictureURL = url
	}

	product, err := h.products.CreateProduct(r.Context(), form, pictureURL)
	if err != nil {
		h.logger.Error().Err(err).Msg("create product")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	http.Redirect(w, r, "/product/"+product.ID.String(), http.StatusSeeOther)
}

// ProductDetail renders a single product.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.NotFound(w, h.page(r))
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.renderer.NotFound(w, h.page(r))
			return
		}
		h.logger.Error().Err(err).Str("product_id", id.String()).Msg("get product")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	h.renderer.HTML(w, http.StatusOK, "product_detail", productDetailView{Page: h.page(r), Product: product})
}

// EditProduct renders the pre-filled edit form.
func (h *Handler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.NotFound(w, h.page(r))
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.renderer.NotFound(w, h.page(r))
			return
		}
		h.logger.Error().Err(err).Str("product_id", id.String()).Msg("get product")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	h.renderer.HTML(w, http.StatusOK, "product_edit", productEditView{Page: h.page(r), Product: product})
}

// UpdateProduct rewrites an existing product. Without a replacement upload the
// current picture is kept; a replaced blob is not deleted from storage.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.NotFound(w, h.page(r))
		return
	}

	existing, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.renderer.NotFound(w, h.page(r))
			return
		}
		h.logger.Error().Err(err).Str("product_id", id.String()).Msg("get product")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	if !h.parseUploadForm(w, r) {
		return
	}

	form := models.ProductForm{
		SupplierName: r.FormValue("supplier_name"),
		ProductName:  r.FormValue("product_name"),
		Location:     r.FormValue("location"),
		Description:  r.FormValue("description"),
	}
	if err := form.Validate(); err != nil {
		h.renderer.HTML(w, http.StatusBadRequest, "product_edit", productEditView{Page: h.page(r), Error: err.Error(), Product: existing})
		return
	}

	pictureURL := existing.PictureURL
	if fh := formFile(r, "picture"); fh != nil && upload.ValidImageExtension(fh.Filename) {
		url, err := h.saveImage(r, fh)
		if err != nil {
			h.logger.Error().Err(err).Msg("store product image")
			h.renderer.ServerError(w, h.page(r))
			return
		}
		pictureURL = url
	}

	product, err := h.products.UpdateProduct(r.Context(), id, form, pictureURL)
	if err != nil {
		h.logger.Error().Err(err).Str("product_id", id.String()).Msg("update product")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	http.Redirect(w, r, "/product/"+product.ID.String(), http.StatusSeeOther)
}
