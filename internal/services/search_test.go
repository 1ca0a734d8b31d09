package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   \t ", []string{}},
		{"lowercases", "Intro GO", []string{"intro", "go"}},
		{"dedup keeps first position", "go Intro go GO", []string{"go", "intro"}},
		{"collapses spaces", "  calculus   book ", []string{"calculus", "book"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.query))
		})
	}
}

func TestOrderedSet(t *testing.T) {
	type doc struct{ id, v string }
	set := newOrderedSet(func(d doc) string { return d.id })
	set.Exclude("self")

	assert.True(t, set.Add(doc{"a", "first"}))
	assert.False(t, set.Add(doc{"a", "second"}))
	assert.False(t, set.Add(doc{"self", "x"}))
	set.AddAll([]doc{{"b", "1"}, {"a", "3"}, {"c", "2"}})

	got := set.Items()
	assert.Equal(t, []doc{{"a", "first"}, {"b", "1"}, {"c", "2"}}, got)
}
