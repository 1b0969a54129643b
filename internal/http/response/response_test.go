package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type testStruct struct {
		Email    string  `validate:"required,email"`
		Role     string  `validate:"oneof=provider purchaser"`
		Password string  `validate:"min=6"`
		Amount   float64 `validate:"gte=0"`
	}

	v := validator.New()
	ts := testStruct{
		Email:    "not-an-email",
		Role:     "admin",
		Password: "abc",
		Amount:   -1,
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field Role must be one of: provider purchaser")
	assert.Contains(t, resp.Error, "field Password is too short")
	assert.Contains(t, resp.Error, "field Amount must be at least 0")
}

func TestValidationErrorRequired(t *testing.T) {
	type testStruct struct {
		Username string `validate:"required"`
	}

	v := validator.New()

	err := v.Struct(testStruct{})
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Username is a required field")
}
