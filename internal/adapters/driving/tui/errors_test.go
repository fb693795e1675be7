package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrMissingSearcher_Message(t *testing.T) {
	assert.Contains(t, ErrMissingSearcher.Error(), "searcher")
}
