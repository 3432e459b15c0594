package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", domain.ErrValidation), fiber.StatusBadRequest},
		{domain.ErrUpstream, fiber.StatusBadRequest},
		{domain.ErrNotFound, fiber.StatusNotFound},
		{domain.ErrInternal, fiber.StatusInternalServerError},
		{domain.ErrCache, fiber.StatusInternalServerError},
		{errors.New("unknown"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorToStatusCode(tt.err), tt.err.Error())
	}
}
