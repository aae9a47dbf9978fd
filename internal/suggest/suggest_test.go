package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, Distance("name", "name"))
	assert.Equal(t, 1, Distance("nme", "name"))
	assert.Equal(t, 3, Distance("abc", "xyz"))
}

func TestClosest(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		candidates []string
		expected   string
		found      bool
	}{
		{"single typo", "cuont", []string{"count", "name"}, "count", true},
		{"prefers nearest", "nam", []string{"game", "name", "named"}, "name", true},
		{"too far", "verbose", []string{"count", "name"}, "", false},
		{"exact match skipped", "count", []string{"count"}, "", false},
		{"no candidates", "x", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.target, tt.candidates)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
