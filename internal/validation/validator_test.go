package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Order    int    `json:"order" validate:"min=0"`
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(&sample{Username: "ada", Email: "ada@example.com", Priority: "low"}))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(&sample{Username: "ad", Email: "nope", Priority: "later", Order: -1})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "username must be at least 3 characters", verr.Fields["username"])
	assert.Equal(t, "email must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "priority must be one of: low, medium, high", verr.Fields["priority"])
	assert.Equal(t, "order must be at least 0", verr.Fields["order"])
	assert.Contains(t, err.Error(), "username must be at least 3 characters")
}

func TestStructRequired(t *testing.T) {
	err := Struct(&sample{})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "username is required", verr.Fields["username"])
	assert.Equal(t, "email is required", verr.Fields["email"])
}
