package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSpan_Len tests span length arithmetic
func TestSpan_Len(t *testing.T) {
	assert.Equal(t, 1000, Span{Start: 0, End: 1000}.Len())
	assert.Equal(t, 234, Span{Start: 2000, End: 2234}.Len())
	assert.Equal(t, 0, Span{Start: 5, End: 5}.Len())
}

// TestChunk_Module tests the module fallback used by diversification
func TestChunk_Module(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     string
	}{
		{"explicit module", map[string]string{MetaModule: "auth"}, "auth"},
		{"empty module value", map[string]string{MetaModule: ""}, DefaultModule},
		{"no metadata", nil, DefaultModule},
		{"other keys only", map[string]string{MetaChunkType: "code"}, DefaultModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Chunk{Metadata: tt.metadata}
			assert.Equal(t, tt.want, c.Module())
		})
	}
}
