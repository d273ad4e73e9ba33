package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProductForm() ProductForm {
	return ProductForm{
		SupplierName: "Fresh Farms",
		ProductName:  "Sourdough Loaf",
		Location:     "Dry store",
		Description:  "Daily delivery",
	}
}

func TestProductFormValidate(t *testing.T) {
	assert.NoError(t, validProductForm().Validate())

	f := validProductForm()
	f.SupplierName = "   "
	assert.ErrorContains(t, f.Validate(), "Supplier name")

	f = validProductForm()
	f.Description = ""
	assert.ErrorContains(t, f.Validate(), "Description")
}

func TestPreparationFormValidate(t *testing.T) {
	valid := PreparationForm{Name: "Fruit salad", PrepType: "fruit", Shift: "brekkie", Location: "Bench", Steps: "Wash and chop"}
	assert.NoError(t, valid.Validate())

	f := valid
	f.PrepType = "dessert"
	assert.ErrorContains(t, f.Validate(), "preparation type")

	f = valid
	f.Shift = "dinner"
	assert.ErrorContains(t, f.Validate(), "shift")

	f = valid
	f.Steps = ""
	assert.ErrorContains(t, f.Validate(), "Steps")
}

func TestRegisterFormValidate(t *testing.T) {
	valid := RegisterForm{Username: "kitchen_hand", Email: "staff@example.com", Password: "longenough", ConfirmPassword: "longenough"}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name    string
		mutate  func(*RegisterForm)
		message string
	}{
		{"short username", func(f *RegisterForm) { f.Username = "ab" }, "at least 3"},
		{"bad characters", func(f *RegisterForm) { f.Username = "no spaces!" }, "letters, numbers"},
		{"bad email", func(f *RegisterForm) { f.Email = "not-an-email" }, "email"},
		{"short password", func(f *RegisterForm) { f.Password = "tiny"; f.ConfirmPassword = "tiny" }, "at least 6"},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "different" }, "do not match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := valid
			tc.mutate(&f)
			assert.ErrorContains(t, f.Validate(), tc.message)
		})
	}
}
