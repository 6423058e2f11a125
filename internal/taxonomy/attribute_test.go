package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalAttribute(t *testing.T) {
	tests := []struct {
		name      string
		attribute string
		value     string
		expected  string
	}{
		{
			name:      "color label",
			attribute: "Màu sắc",
			value:     "Đen",
			expected:  "Màu",
		},
		{
			name:      "english color label",
			attribute: "Color",
			value:     "Navy Blue",
			expected:  "Màu",
		},
		{
			name:      "numeric value disqualifies color",
			attribute: "color",
			value:     "128",
			expected:  "Lựa chọn",
		},
		{
			name:      "storage with digits in value still matches",
			attribute: "ROM Storage",
			value:     "256gb",
			expected:  "Dung lượng",
		},
		{
			name:      "capacity label",
			attribute: "Dung lượng bộ nhớ",
			value:     "64gb",
			expected:  "Dung lượng",
		},
		{
			name:      "model label",
			attribute: "Lựa chọn mẫu",
			value:     "Kindle Paperwhite",
			expected:  "Model",
		},
		{
			name:      "screen label",
			attribute: "Kích thước màn hình",
			value:     "15.6 Inch",
			expected:  "Màn hình",
		},
		{
			name:      "warranty label",
			attribute: "Warranty",
			value:     "12 Tháng",
			expected:  "Bảo hành",
		},
		{
			name:      "unknown label falls through",
			attribute: "Combo quà tặng",
			value:     "Có",
			expected:  "Lựa chọn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalAttribute(tt.attribute, tt.value))
		})
	}
}

// Канонические имена сами совпадают со своими ключевыми словами, поэтому
// повторная канонизация ничего не меняет.
func TestCanonicalAttributeIdempotent(t *testing.T) {
	samples := []struct{ attribute, value string }{
		{"Màu sắc", "Đen"},
		{"storage", "128gb"},
		{"color", "128"},
		{"Combo quà tặng", "Có"},
		{"CPU", "Core I5"},
		{"Win bản quyền", "Win 11"},
	}

	for _, s := range samples {
		once := CanonicalAttribute(s.attribute, s.value)
		assert.Equal(t, once, CanonicalAttribute(once, s.value), "attribute %q value %q", s.attribute, s.value)
	}
}

// Порядок правил несёт семантику: метка, задевающая ключевые слова
// нескольких правил, уходит в первое по списку.
func TestCanonicalAttributeRuleOrder(t *testing.T) {
	// "màu màn hình" содержит и "màu", и "màn" — побеждает Màu.
	assert.Equal(t, "Màu", CanonicalAttribute("Màu màn hình", "Xanh"))
	// ...но с цифрой в значении правило Màu пропускается и метка уходит в Màn hình.
	assert.Equal(t, "Màn hình", CanonicalAttribute("Màu màn hình", "144hz"))
}
