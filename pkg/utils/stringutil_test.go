package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://api.example.com", "https://api.example.com/"},
		{"https://api.example.com/", "https://api.example.com/"},
		{"https://api.example.com/v1///", "https://api.example.com/v1/"},
		{"  https://api.example.com/v1  ", "https://api.example.com/v1/"},
		{"", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBaseURL(tt.in), "input %q", tt.in)
	}
}

func TestRelativePath(t *testing.T) {
	for _, in := range []string{"items", "/items", "//items", "///items"} {
		assert.Equal(t, "items", RelativePath(in), "input %q", in)
	}
	assert.Equal(t, "items/1/", RelativePath("/items/1/"))
	assert.Equal(t, "", RelativePath("/"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5, true))
	assert.Equal(t, "ab…", Truncate("abcdef", 2, true))
	assert.Equal(t, "ab", Truncate("abcdef", 2, false))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "se****", Mask("secret", 2))
	assert.Equal(t, "a*", Mask("ab", 5))
	assert.Equal(t, "", Mask("", 2))
	assert.Equal(t, "****", Mask("pass", -1))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "  ", "b", "c"))
	assert.Equal(t, "", Coalesce())
}
