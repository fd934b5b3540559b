package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinPath(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{name: "no parts", parts: nil, expected: "/"},
		{name: "empty parts", parts: []string{"", "/"}, expected: "/"},
		{name: "single", parts: []string{"root"}, expected: "/root"},
		{name: "nested", parts: []string{"root", "photos", "a.jpg"}, expected: "/root/photos/a.jpg"},
		{name: "stray slashes", parts: []string{"/root/", "/b"}, expected: "/root/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinPath(tt.parts...))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b,,c ,"))
	assert.Nil(t, SplitList(" , "))
	assert.Nil(t, SplitList(""))
}
