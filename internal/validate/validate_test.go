package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name  string `json:"name" validate:"trimmin=2" errmsg:"Name must be at least 2 characters long"`
	Email string `json:"email" validate:"required,email" errmsg:"required=Email is required|email=Email is not valid"`
	Phone string `json:"phone" validate:"omitempty,phone10" errmsg:"Phone must be a valid 10-digit number"`
	Count int    `json:"count" validate:"gte=0"`
}

func TestStructValid(t *testing.T) {
	assert.Nil(t, Struct(samplePayload{Name: "Ana", Email: "ana@example.com"}))
	assert.NoError(t, StructError(samplePayload{Name: "Ana", Email: "ana@example.com", Phone: "1234567890"}))
}

func TestStructCollectsInFieldOrder(t *testing.T) {
	violations := Struct(samplePayload{Name: " a ", Email: "nope", Phone: "123", Count: -1})
	require.Len(t, violations, 4)

	assert.Equal(t, "name", violations[0].Field)
	assert.Equal(t, "Name must be at least 2 characters long", violations[0].Message)
	assert.Equal(t, "email", violations[1].Field)
	assert.Equal(t, "Email is not valid", violations[1].Message)
	assert.Equal(t, "phone", violations[2].Field)
	assert.Equal(t, "count", violations[3].Field)
	// No errmsg tag falls back to a generic message.
	assert.Contains(t, violations[3].Message, "count")
}

func TestStructPerTagMessages(t *testing.T) {
	violations := Struct(samplePayload{Name: "Ana", Email: ""})
	require.Len(t, violations, 1)
	assert.Equal(t, "Email is required", violations[0].Message)
}

func TestValidationErrorMessage(t *testing.T) {
	err := StructError(&samplePayload{Name: "Ana", Email: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "Email is not valid")
}
