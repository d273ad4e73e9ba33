package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/kitchen-guide/internal/auth"
	"github.com/hongminglow/kitchen-guide/internal/http/render"
	"github.com/hongminglow/kitchen-guide/internal/middleware"
	"github.com/hongminglow/kitchen-guide/internal/models"
	"github.com/hongminglow/kitchen-guide/internal/storage"
)

type stubPreparationStore struct {
	preparations []models.Preparation
	lastSteps    []storage.NewStep
}

func (s *stubPreparationStore) ListPreparations(context.Context) ([]models.Preparation, error) {
	return s.preparations, nil
}

func (s *stubPreparationStore) GetPreparation(_ context.Context, id uuid.UUID) (models.Preparation, error) {
	for _, p := range s.preparations {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Preparation{}, storage.ErrNotFound
}

func (s *stubPreparationStore) GetSteps(context.Context, uuid.UUID) ([]models.PreparationStep, error) {
	return nil, nil
}

func (s *stubPreparationStore) CreatePreparation(_ context.Context, form models.PreparationForm, pictureURL string, steps []storage.NewStep) (models.Preparation, error) {
	s.lastSteps = steps
	return models.Preparation{ID: uuid.New(), Name: form.Name, PrepType: form.PrepType, Shift: form.Shift, Location: form.Location, PictureURL: pictureURL, Steps: form.Steps}, nil
}

func (s *stubPreparationStore) UpdatePreparation(_ context.Context, id uuid.UUID, form models.PreparationForm, pictureURL string, steps []storage.NewStep) (models.Preparation, error) {
	s.lastSteps = steps
	return models.Preparation{ID: id, Name: form.Name}, nil
}

func (s *stubPreparationStore) SearchPreparations(context.Context, string) ([]models.Preparation, error) {
	return s.preparations, nil
}

func newPreparationTestHandler(t *testing.T, preparations *stubPreparationStore, uploads *stubUploadStore) *Handler {
	t.Helper()
	renderer, err := render.New(zerolog.Nop())
	require.NoError(t, err)
	tokens := auth.NewTokenManager("test_secret_key_for_testing", 24*time.Hour)
	gate := middleware.NewAuth(tokens, renderer, zerolog.Nop())
	return New(nil, preparations, nil, uploads, tokens, gate, renderer, zerolog.Nop(), 20<<20)
}

func TestCreatePreparationWithSteps(t *testing.T) {
	preparations := &stubPreparationStore{}
	uploads := &stubUploadStore{}
	h := newPreparationTestHandler(t, preparations, uploads)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":      "Fruit salad",
		"prep_type": "fruit",
		"shift":     "brekkie",
		"location":  "Cold prep bench",
		"steps":     "Wash, chop, mix",
		// Submitted out of order and with a gap; they come back ordered.
		"step_description_3": "Mix in the serving bowl",
		"step_description_1": "Wash the fruit",
	}
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	fw, err := w.CreateFormFile("step_image_1", "wash.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-jpg"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/preparation", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.CreatePreparation(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, preparations.lastSteps, 2)
	assert.Equal(t, "Wash the fruit", preparations.lastSteps[0].Description)
	assert.NotEmpty(t, preparations.lastSteps[0].PictureURL)
	assert.Equal(t, "Mix in the serving bowl", preparations.lastSteps[1].Description)
	assert.Empty(t, preparations.lastSteps[1].PictureURL)
	assert.Equal(t, 1, uploads.saved)
}

func TestCreatePreparationInvalidType(t *testing.T) {
	preparations := &stubPreparationStore{}
	h := newPreparationTestHandler(t, preparations, &stubUploadStore{})

	fields := map[string]string{
		"name":      "Mystery dish",
		"prep_type": "dessert",
		"shift":     "brekkie",
		"location":  "Bench",
		"steps":     "???",
	}
	body, contentType := multipartBody(t, fields, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/preparation", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.CreatePreparation(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid preparation type")
	assert.Nil(t, preparations.lastSteps)
}

func TestPreparationDetailRendersSteps(t *testing.T) {
	prepID := uuid.New()
	preparations := &stubPreparationStore{preparations: []models.Preparation{
		{ID: prepID, Name: "Fruit salad", PrepType: "fruit", Shift: "brekkie", Location: "Bench", Steps: "Summary"},
	}}
	h := newPreparationTestHandler(t, preparations, &stubUploadStore{})

	req := httptest.NewRequest(http.MethodGet, "/preparation/"+prepID.String(), nil)
	req = withURLParam(req, "id", prepID.String())
	rec := httptest.NewRecorder()
	h.PreparationDetail(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fruit salad")
}
