package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Anna's Design Studio", "annas-design-studio"},
		{"John Smith", "john-smith"},
		{"  Spaced   Out  ", "spaced-out"},
		{"UPPER case 123", "upper-case-123"},
		{"!!!", ""},
		{"double--hyphen", "double-hyphen"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSlug(tt.in), "input %q", tt.in)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("john-smith"))
	assert.True(t, IsValidSlug("card123"))
	assert.False(t, IsValidSlug(""))
	assert.False(t, IsValidSlug("-leading"))
	assert.False(t, IsValidSlug("trailing-"))
	assert.False(t, IsValidSlug("Upper-Case"))
	assert.False(t, IsValidSlug("double--hyphen"))
}
