package validation

import (
	"testing"

	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name" validate:"required,max=5"`
	Phone   string `json:"phone" validate:"required,phone"`
	Method  string `json:"paymentMethod" validate:"required,payment_method"`
	ZipCode string `json:"zipCode" validate:"required,numeric,len=5"`
}

func TestStructPasses(t *testing.T) {
	err := Struct(sample{Name: "Kim", Phone: "010-1234-5678", Method: "CARD", ZipCode: "06236"})
	require.NoError(t, err)

	err = Struct(sample{Name: "Kim", Phone: "0212345678", Method: "MOBILE", ZipCode: "12345"})
	require.NoError(t, err)
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	err := Struct(sample{Name: "Kimberly", Phone: "12", Method: "CASH", ZipCode: "1a"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at most 5", details["name"])
	assert.Equal(t, "must be a valid phone number", details["phone"])
	assert.Equal(t, "must be one of CARD, BANK_TRANSFER, VIRTUAL_ACCOUNT, MOBILE", details["paymentMethod"])
	assert.Equal(t, "must contain only digits", details["zipCode"])
}

func TestStructRequired(t *testing.T) {
	err := Struct(sample{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details := typed.Details().(map[string]string)
	for _, field := range []string{"name", "phone", "paymentMethod", "zipCode"} {
		assert.Equal(t, "is required", details[field], field)
	}
}
