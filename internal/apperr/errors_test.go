package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("rename: %w", NotFound("Customer %d not found", 7))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "rename: Customer 7 not found", err.Error())
}

func TestAuthCarriesPasswordField(t *testing.T) {
	err := Auth("Incorrect password")

	var target *Error
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "password", target.Field)
	assert.Equal(t, "auth", target.Kind.String())
}

func TestUploadUnwrapsCause(t *testing.T) {
	err := Upload(context.DeadlineExceeded, "Upload of %s timed out", "sheet.pdf")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrUpload)
	assert.Contains(t, err.Error(), "sheet.pdf")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("name", "Customer name is required"), http.StatusBadRequest},
		{Range("quarter", "bad quarter"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Auth("Incorrect password"), http.StatusForbidden},
		{Conflict("busy"), http.StatusConflict},
		{Upload(errors.New("boom"), "failed"), http.StatusBadGateway},
		{Upload(context.DeadlineExceeded, "timed out"), http.StatusGatewayTimeout},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
