package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Simple Chess", "simple-chess"},
		{"punctuation", "Simple Chess: Deluxe!", "simple-chess-deluxe"},
		{"accents", "Pokémon Édition", "pokemon-edition"},
		{"collapses separators", "  FPS -- Arena  ", "fps-arena"},
		{"keeps underscores", "retro_platformer 2", "retro_platformer-2"},
		{"nothing usable", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := Slugify(strings.Repeat("ab ", 100))

	assert.LessOrEqual(t, len(got), MaxSlugLength)
	assert.False(t, strings.HasSuffix(got, "-"))
	assert.True(t, IsSlug(got))
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("simple-chess_2"))
	assert.False(t, IsSlug("simple chess"))
	assert.False(t, IsSlug(""))
	assert.False(t, IsSlug("échecs"))
}
