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

type preparationsIndexView struct {
	render.Page
	Preparations []models.Preparation
}

type preparationFormView struct {
	render.Page
	Error string
	Form  models.PreparationForm
}

type preparationDetailView struct {
	render.Page
	Preparation models.Preparation
	Steps       []models.PreparationStep
}

type preparationEditView struct {
	render.Page
	Error       string
	Preparation models.Preparation
	Steps       []models.PreparationStep
}

// PreparationsIndex renders the list of all preparations.
func (h *Handler) PreparationsIndex(w http.ResponseWriter, r *http.Request) {
	preparations, err := h.preparations.ListPreparations(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list preparations")
		h.renderer.ServerError(w, h.page(r))
		return
	}
	h.renderer.HTML(w, http.StatusOK, "preparations_index", preparationsIndexView{Page: h.page(r), Preparations: preparations})
}

// NewPreparation renders the empty preparation form.
func (h *Handler) NewPreparation(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, http.StatusOK, "preparation_new", preparationFormView{Page: h.page(r)})
}

// CreatePreparation validates the multipart submission, uploads the main and
// per-step images, and inserts the preparation with its steps in one
// transaction.
func (h *Handler) CreatePreparation(w http.ResponseWriter, r *http.Request) {
	if !h.parseUploadForm(w, r) {
		return
	}

	form := models.PreparationForm{
		Name:     r.FormValue("name"),
		PrepType: r.FormValue("prep_type"),
		Shift:    r.FormValue("shift"),
		Location: r.FormValue("location"),
		Steps:    r.FormValue("steps"),
	}
	if err := form.Validate(); err != nil {
		h.renderer.HTML(w, http.StatusBadRequest, "preparation_new", preparationFormView{Page: h.page(r), Error: err.Error(), Form: form})
		return
	}

	pictureURL := ""
	if fh := formFile(r, "picture"); fh != nil && upload.ValidImageExtension(fh.Filename) {
		url, err := h.saveImage(r, fh)
		if err != nil {
			h.logger.Error().Err(err).Msg("store preparation image")
			h.renderer.ServerError(w, h.page(r))
			return
		}
		pictureURL = url
	}

	steps, err := h.buildSteps(r, collectSteps(r.MultipartForm))
	if err != nil {
		h.logger.Error().Err(err).Msg("store step image")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	prep, err := h.preparations.CreatePreparation(r.Context(), form, pictureURL, steps)
	if err != nil {
		h.logger.Error().Err(err).Msg("create preparation")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	http.Redirect(w, r, "/preparation/"+prep.ID.String(), http.StatusSeeOther)
}

// PreparationDetail renders a preparation with its ordered steps.
func (h *Handler) PreparationDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.NotFound(w, h.page(r))
		return
	}

	prep, err := h.preparations.GetPreparation(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.renderer.NotFound(w, h.page(r))
			return
		}
		h.logger.Error().Err(err).Str("preparation_id", id.String()).Msg("get preparation")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	steps, err := h.preparations.GetSteps(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("preparation_id", id.String()).Msg("get steps")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	h.renderer.HTML(w, http.StatusOK, "preparation_detail", preparationDetailView{Page: h.page(r), Preparation: prep, Steps: steps})
}

// EditPreparation renders the pre-filled edit form with existing steps.
func (h *Handler) EditPreparation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.NotFound(w, h.page(r))
		return
	}

	prep, err := h.preparations.GetPreparation(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.renderer.NotFound(w, h.page(r))
			return
		}
		h.logger.Error().Err(err).Str("preparation_id", id.String()).Msg("get preparation")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	steps, err := h.preparations.GetSteps(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("preparation_id", id.String()).Msg("get steps")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	h.renderer.HTML(w, http.StatusOK, "preparation_edit", preparationEditView{Page: h.page(r), Preparation: prep, Steps: steps})
}

// UpdatePreparation rewrites the preparation and replaces its whole step list
// in a single transaction. Replaced image blobs stay in storage.
func (h *Handler) UpdatePreparation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.NotFound(w, h.page(r))
		return
	}

	existing, err := h.preparations.GetPreparation(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.renderer.NotFound(w, h.page(r))
			return
		}
		h.logger.Error().Err(err).Str("preparation_id", id.String()).Msg("get preparation")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	if !h.parseUploadForm(w, r) {
		return
	}

	form := models.PreparationForm{
		Name:     r.FormValue("name"),
		PrepType: r.FormValue("prep_type"),
		Shift:    r.FormValue("shift"),
		Location: r.FormValue("location"),
		Steps:    r.FormValue("steps"),
	}
	if err := form.Validate(); err != nil {
		currentSteps, stepsErr := h.preparations.GetSteps(r.Context(), id)
		if stepsErr != nil {
			h.logger.Error().Err(stepsErr).Str("preparation_id", id.String()).Msg("get steps")
			h.renderer.ServerError(w, h.page(r))
			return
		}
		h.renderer.HTML(w, http.StatusBadRequest, "preparation_edit", preparationEditView{
			Page:        h.page(r),
			Error:       err.Error(),
			Preparation: existing,
			Steps:       currentSteps,
		})
		return
	}

	pictureURL := existing.PictureURL
	if fh := formFile(r, "picture"); fh != nil && upload.ValidImageExtension(fh.Filename) {
		url, err := h.saveImage(r, fh)
		if err != nil {
			h.logger.Error().Err(err).Msg("store preparation image")
			h.renderer.ServerError(w, h.page(r))
			return
		}
		pictureURL = url
	}

	steps, err := h.buildSteps(r, collectSteps(r.MultipartForm))
	if err != nil {
		h.logger.Error().Err(err).Msg("store step image")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	if _, err := h.preparations.UpdatePreparation(r.Context(), id, form, pictureURL, steps); err != nil {
		h.logger.Error().Err(err).Str("preparation_id", id.String()).Msg("update preparation")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	http.Redirect(w, r, "/preparation/"+id.String(), http.StatusSeeOther)
}
