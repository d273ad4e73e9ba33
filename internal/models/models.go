package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a registered food product.
type Product struct {
	ID           uuid.UUID `json:"id"`
	SupplierName string    `json:"supplier_name"`
	ProductName  string    `json:"product_name"`
	Location     string    `json:"location"`
	PictureURL   string    `json:"picture_url"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Preparation is a multi-step food-preparation procedure.
type Preparation struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PrepType   string    `json:"prep_type"`
	Shift      string    `json:"shift"`
	Location   string    `json:"location"`
	PictureURL string    `json:"picture_url"`
	Steps      string    `json:"steps"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PreparationStep is one ordered step of a preparation, with an optional image.
type PreparationStep struct {
	ID            uuid.UUID `json:"id"`
	PreparationID uuid.UUID `json:"preparation_id"`
	StepNumber    int32     `json:"step_number"`
	Description   string    `json:"description"`
	PictureURL    string    `json:"picture_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
