package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "no input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty string",
			input:    []string{""},
			expected: nil,
		},
		{
			name:     "single value",
			input:    []string{"sector"},
			expected: []string{"sector"},
		},
		{
			name:     "varied spacing",
			input:    []string{"symbol,  -pnl , qty"},
			expected: []string{"symbol", "-pnl", "qty"},
		},
		{
			name:     "leading and trailing commas",
			input:    []string{",,NOTE_SAVED,,VIEW_SAVED,,"},
			expected: []string{"NOTE_SAVED", "VIEW_SAVED"},
		},
		{
			name:     "comma only",
			input:    []string{",", "  "},
			expected: nil,
		},
		{
			name:     "repeated parameters concatenate",
			input:    []string{"symbol", "-pnl,qty"},
			expected: []string{"symbol", "-pnl", "qty"},
		},
		{
			name:     "internal spaces preserved",
			input:    []string{"Consumer Goods, Real Estate"},
			expected: []string{"Consumer Goods", "Real Estate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCSV(tt.input...))
		})
	}
}

func TestUnique(t *testing.T) {
	assert.Nil(t, Unique(nil))
	assert.Equal(t, []string{"b", "a", "c"}, Unique([]string{"b", "a", "b", "c", "a"}))
}
