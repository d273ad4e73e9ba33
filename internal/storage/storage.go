package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hongminglow/kitchen-guide/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// NewStep carries the fields of one step when creating or replacing a
// preparation's step list.
type NewStep struct {
	Description string
	PictureURL  string
}

// ProductStore captures persistence operations for products.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error)
	CreateProduct(ctx context.Context, form models.ProductForm, pictureURL string) (models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, form models.ProductForm, pictureURL string) (models.Product, error)
	SearchProducts(ctx context.Context, term string) ([]models.Product, error)
}

// PreparationStore captures persistence operations for preparations and their steps.
type PreparationStore interface {
	ListPreparations(ctx context.Context) ([]models.Preparation, error)
	GetPreparation(ctx context.Context, id uuid.UUID) (models.Preparation, error)
	GetSteps(ctx context.Context, preparationID uuid.UUID) ([]models.PreparationStep, error)
	CreatePreparation(ctx context.Context, form models.PreparationForm, pictureURL string, steps []NewStep) (models.Preparation, error)
	UpdatePreparation(ctx context.Context, id uuid.UUID, form models.PreparationForm, pictureURL string, steps []NewStep) (models.Preparation, error)
	SearchPreparations(ctx context.Context, term string) ([]models.Preparation, error)
}

// UserStore captures persistence operations for user accounts. Lookups only
// return active users.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}
