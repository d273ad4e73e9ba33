package models

import (
	"errors"
	"strings"
	"unicode"
)

var prepTypes = []string{"fruit", "bread", "veg", "meat", "seafood"}
var shifts = []string{"brekkie", "lunch", "both"}

// ProductForm carries submitted product fields before persistence.
type ProductForm struct {
	SupplierName string
	ProductName  string
	Location     string
	Description  string
}

// Validate checks required fields and returns a user-facing message on failure.
func (f ProductForm) Validate() error {
	if strings.TrimSpace(f.SupplierName) == "" {
		return errors.New("Supplier name cannot be empty")
	}
	if strings.TrimSpace(f.ProductName) == "" {
		return errors.New("Product name cannot be empty")
	}
	if strings.TrimSpace(f.Location) == "" {
		return errors.New("Location cannot be empty")
	}
	if strings.TrimSpace(f.Description) == "" {
		return errors.New("Description cannot be empty")
	}
	return nil
}

// PreparationForm carries submitted preparation fields before persistence.
type PreparationForm struct {
	Name     string
	PrepType string
	Shift    string
	Location string
	Steps    string
}

// Validate checks required fields and the fixed type/shift vocabularies.
func (f PreparationForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("Preparation name cannot be empty")
	}
	if !contains(prepTypes, f.PrepType) {
		return errors.New("Invalid preparation type")
	}
	if !contains(shifts, f.Shift) {
		return errors.New("Invalid shift selection")
	}
	if strings.TrimSpace(f.Location) == "" {
		return errors.New("Location cannot be empty")
	}
	if strings.TrimSpace(f.Steps) == "" {
		return errors.New("Steps cannot be empty")
	}
	return nil
}

// RegisterForm carries a registration submission.
type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate applies the registration rules: username 3-50 chars of letters,
// digits, or underscores; a plausible email; password at least 6 chars and
// matching its confirmation.
func (f RegisterForm) Validate() error {
	username := strings.TrimSpace(f.Username)
	if username == "" {
		return errors.New("Username cannot be empty")
	}
	if len(username) < 3 {
		return errors.New("Username must be at least 3 characters")
	}
	if len(username) > 50 {
		return errors.New("Username cannot exceed 50 characters")
	}
	for _, r := range username {
		if !isAlphanumeric(r) && r != '_' {
			return errors.New("Username can only contain letters, numbers, and underscores")
		}
	}
	if strings.TrimSpace(f.Email) == "" {
		return errors.New("Email cannot be empty")
	}
	if !strings.Contains(f.Email, "@") || !strings.Contains(f.Email, ".") {
		return errors.New("Invalid email format")
	}
	if len(f.Password) < 6 {
		return errors.New("Password must be at least 6 characters")
	}
	if f.Password != f.ConfirmPassword {
		return errors.New("Passwords do not match")
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
