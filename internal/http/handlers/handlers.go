// Package handlers owns the server-rendered pages: product and preparation
// CRUD, keyword search, and the login/register/logout flows.
package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hongminglow/kitchen-guide/internal/auth"
	"github.com/hongminglow/kitchen-guide/internal/http/render"
	"github.com/hongminglow/kitchen-guide/internal/middleware"
	"github.com/hongminglow/kitchen-guide/internal/storage"
	"github.com/hongminglow/kitchen-guide/internal/upload"
)

const invalidFileTypeMsg = "Invalid file type. Only JPG, PNG, and WEBP are allowed."

// Handler carries the dependencies shared by all page handlers.
type Handler struct {
	products     storage.ProductStore
	preparations storage.PreparationStore
	users        storage.UserStore
	uploads      upload.Store
	tokens       *auth.TokenManager
	gate         *middleware.Auth
	renderer     *render.Renderer
	logger       zerolog.Logger
	maxUpload    int64
}

// New constructs the page handler set.
func New(
	products storage.ProductStore,
	preparations storage.PreparationStore,
	users storage.UserStore,
	uploads upload.Store,
	tokens *auth.TokenManager,
	gate *middleware.Auth,
	renderer *render.Renderer,
	logger zerolog.Logger,
	maxUpload int64,
) *Handler {
	return &Handler{
		products:     products,
		preparations: preparations,
		users:        users,
		uploads:      uploads,
		tokens:       tokens,
		gate:         gate,
		renderer:     renderer,
		logger:       logger,
		maxUpload:    maxUpload,
	}
}

// page resolves the optional caller identity for the shared navigation bar.
func (h *Handler) page(r *http.Request) render.Page {
	if id := h.gate.OptionalIdentity(r); id != nil {
		return render.Page{IsAuthenticated: true, Username: id.Username}
	}
	return render.Page{}
}

// parseUploadForm bounds the request body at the configured upload limit and
// parses the multipart payload. ParseMultipartForm's argument only caps
// in-memory buffering, so without the MaxBytesReader wrap an oversized body
// would spill to disk and be accepted.
func (h *Handler) parseUploadForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "invalid multipart data", http.StatusBadRequest)
		return false
	}
	return true
}

// saveImage reads an uploaded file and stores it through the configured
// backend, returning the blob URL.
func (h *Handler) saveImage(r *http.Request, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return h.uploads.Save(r.Context(), data, fh.Filename)
}

// formFile returns the upload for the named field, or nil when the field is
// absent or empty.
func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return files[0]
}

// stepInput is one step parsed from the dynamic step_description_N /
// step_image_N multipart fields.
type stepInput struct {
	num         int
	description string
	image       *multipart.FileHeader
}

// collectSteps gathers step fields from the parsed multipart form, ordered by
// their submitted number. Steps with neither a description nor an image are
// dropped; the survivors are renumbered sequentially by the store.
func collectSteps(form *multipart.Form) []stepInput {
	byNum := map[int]*stepInput{}

	for key, values := range form.Value {
		numStr, ok := strings.CutPrefix(key, "step_description_")
		if !ok {
			continue
		}
		num, err := strconv.Atoi(numStr)
		if err != nil || len(values) == 0 {
			continue
		}
		step := byNum[num]
		if step == nil {
			step = &stepInput{num: num}
			byNum[num] = step
		}
		step.description = values[0]
	}

	for key, files := range form.File {
		numStr, ok := strings.CutPrefix(key, "step_image_")
		if !ok {
			continue
		}
		num, err := strconv.Atoi(numStr)
		if err != nil || len(files) == 0 || files[0].Filename == "" {
			continue
		}
		if !upload.ValidImageExtension(files[0].Filename) {
			continue
		}
		step := byNum[num]
		if step == nil {
			step = &stepInput{num: num}
			byNum[num] = step
		}
		step.image = files[0]
	}

	steps := make([]stepInput, 0, len(byNum))
	for _, step := range byNum {
		if strings.TrimSpace(step.description) == "" && step.image == nil {
			continue
		}
		steps = append(steps, *step)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].num < steps[j].num })
	return steps
}

// buildSteps uploads each step's image (when present) and produces the rows
// to persist.
func (h *Handler) buildSteps(r *http.Request, inputs []stepInput) ([]storage.NewStep, error) {
	steps := make([]storage.NewStep, 0, len(inputs))
	for _, in := range inputs {
		pictureURL := ""
		if in.image != nil {
			url, err := h.saveImage(r, in.image)
			if err != nil {
				return nil, err
			}
			pictureURL = url
		}
		steps = append(steps, storage.NewStep{Description: in.description, PictureURL: pictureURL})
	}
	return steps, nil
}
