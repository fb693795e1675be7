package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorStoreUnavailable", ErrVectorStoreUnavailable},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Distinct tests that the sentinels do not match each other
func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrAlreadyExists))
	assert.False(t, errors.Is(ErrAlreadyExists, ErrNotFound))
	assert.False(t, errors.Is(ErrDimensionMismatch, ErrInvalidInput))
}

// TestErrors_WrappedMatching tests errors.Is through a stage-named wrap
func TestErrors_WrappedMatching(t *testing.T) {
	wrapped := fmt.Errorf("get collection: %w", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrAlreadyExists))
}
