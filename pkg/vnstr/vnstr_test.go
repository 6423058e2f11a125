package vnstr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "vietnamese diacritics folded",
			input:    "Điện thoại",
			expected: "dien thoai",
		},
		{
			name:     "digits and punctuation dropped",
			input:    "Máy tính bảng 10.5\"",
			expected: "may tinh bang ",
		},
		{
			name:     "upper case folded through lower",
			input:    "SAMSUNG",
			expected: "samsung",
		},
		{
			name:     "already plain ascii",
			input:    "apple",
			expected: "apple",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func TestPascalCase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "upper case normalized",
			input:    "ĐEN NHÁM",
			expected: "Đen Nhám",
		},
		{
			name:     "extra whitespace collapsed",
			input:    "  xanh   dương ",
			expected: "Xanh Dương",
		},
		{
			name:     "leading digit kept as is",
			input:    "128Gb",
			expected: "128gb",
		},
		{
			name:     "single word",
			input:    "trắng",
			expected: "Trắng",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PascalCase(tt.input))
		})
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "folded category name",
			input:    "may tinh bang",
			expected: "MTB",
		},
		{
			name:     "single word",
			input:    "laptop",
			expected: "L",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Initials(tt.input))
		})
	}
}
