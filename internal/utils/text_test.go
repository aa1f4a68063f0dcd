package utils

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "Science Fiction", NormalizeLabel("  Science\t  Fiction "))
	assert.Equal(t, "", NormalizeLabel("   "))
	// Decomposed "é" is composed.
	assert.Equal(t, "caf\u00e9", NormalizeLabel("cafe\u0301"))
}

func TestNormalizeSet(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil input", nil, []string{}},
		{"drops empties", []string{"", "  ", "sci-fi"}, []string{"sci-fi"}},
		{"keeps first of case duplicates", []string{"Fantasy", "fantasy", "FANTASY", "Horror"}, []string{"Fantasy", "Horror"}},
		{"preserves order", []string{"b", "a", "c"}, []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSet(tt.input))
		})
	}
}

func TestFoldHelpers(t *testing.T) {
	assert.Equal(t, FoldKey("Dune"), FoldKey("DUNE"))
	assert.True(t, ContainsFold("Frank Herbert", "herb"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("Dune", "asimov"))
	assert.True(t, AnyEqualFold([]string{"Sci-Fi", "Classic"}, "classic"))
	assert.False(t, AnyEqualFold(nil, "classic"))
}

func TestCollator_Compare(t *testing.T) {
	titles := []string{"banana", "Apple", "cherry"}
	c := NewCollator()
	slices.SortFunc(titles, c.Compare)

	assert.Equal(t, []string{"Apple", "banana", "cherry"}, titles)
	assert.Equal(t, 0, c.Compare("dune", "DUNE"))
}
