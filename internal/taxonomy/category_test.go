package taxonomy

import (
	"testing"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSource(t *testing.T, key string) Source {
	t.Helper()
	src, ok := SourceByKey(key)
	require.True(t, ok, "source %q not registered", key)
	return src
}

func TestReconcileCategoryForceOnly(t *testing.T) {
	src := mustSource(t, "mayban")

	got := src.ReconcileCategory(domain.RawProductRow{Category: "Root", Name: "Panasonic KX-TS500"})
	assert.Equal(t, "Điện thoại bàn", got)

	// Пустая исходная категория тоже перезаписывается.
	got = src.ReconcileCategory(domain.RawProductRow{Category: "", Name: "Gigaset DA180"})
	assert.Equal(t, "Điện thoại bàn", got)
}

func TestReconcileCategoryRemap(t *testing.T) {
	src := mustSource(t, "dienthoai")

	tests := []struct {
		name     string
		category string
		expected string
	}{
		{"root remapped", "Root", "Điện thoại Smartphone"},
		{"marketplace label remapped", "Điện Thoại - Máy Tính Bảng", "Điện thoại Smartphone"},
		{"accessories remapped", "Phụ kiện", "Phụ kiện điện thoại"},
		{"unknown label kept", "Đồng hồ thông minh", "Đồng hồ thông minh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := src.ReconcileCategory(domain.RawProductRow{Category: tt.category, Name: "iPhone 15"})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReconcileCategoryForceWithReclass(t *testing.T) {
	src := mustSource(t, "maydocsach")

	got := src.ReconcileCategory(domain.RawProductRow{Category: "Root", Name: "Kindle Paperwhite 5"})
	assert.Equal(t, "Máy đọc sách", got)

	got = src.ReconcileCategory(domain.RawProductRow{Category: "Root", Name: "Máy tính bảng Kindle Fire HD 10"})
	assert.Equal(t, "Máy tính bảng", got)
}

func TestReconcileCategoryLastRuleWins(t *testing.T) {
	src := mustSource(t, "tivi")

	// Название задевает и oled, и smart, и led, и 4k — побеждает последнее
	// совпавшее правило.
	got := src.ReconcileCategory(domain.RawProductRow{
		Category: "Root",
		Name:     "Smart Tivi OLED LG 4K 55 inch",
	})
	assert.Equal(t, "Tivi 4K", got)

	// "oled" содержит "led", поэтому задевает и правило LED ниже по списку.
	got = src.ReconcileCategory(domain.RawProductRow{
		Category: "Điện Tử - Điện Lạnh",
		Name:     "Tivi OLED Sony",
	})
	assert.Equal(t, "Tivi thường (LED)", got)
}

func TestReconcileCategoryFinalRemap(t *testing.T) {
	src := mustSource(t, "tivi")

	// Ни одно ключевое правило не совпало — категория уходит в FinalRemap.
	got := src.ReconcileCategory(domain.RawProductRow{
		Category: "Điện Tử - Điện Lạnh",
		Name:     "Tivi Box Xiaomi",
	})
	assert.Equal(t, "Smart Tivi - Android Tivi", got)

	// Совпавшее правило перекрывает FinalRemap.
	got = src.ReconcileCategory(domain.RawProductRow{
		Category: "Điện Tử - Điện Lạnh",
		Name:     "Tivi Sony 4K 55 inch",
	})
	assert.Equal(t, "Tivi 4K", got)
}

func TestReconcileCategoryCaseSensitiveRule(t *testing.T) {
	src := mustSource(t, "pc")

	// Правило Mini PC регистрозависимое: "Mini" в названии его не активирует.
	got := src.ReconcileCategory(domain.RawProductRow{
		Category: "Laptop - Máy Vi Tính - Linh kiện",
		Name:     "PC Mini Intel NUC",
	})
	assert.Equal(t, "Máy tính đồng bộ", got)

	got = src.ReconcileCategory(domain.RawProductRow{
		Category: "Laptop - Máy Vi Tính - Linh kiện",
		Name:     "pc mini intel nuc",
	})
	assert.Equal(t, "Mini PC", got)
}

func TestSourceOrderPinned(t *testing.T) {
	expected := []string{
		"dienthoai", "mayban", "cucgach", "dieuhoa", "laptop", "maydocsach",
		"maygiat", "maytinhbang", "tivi", "tulanh", "camgiamsat", "pc", "mayanh",
	}

	require.Len(t, Sources, len(expected))
	for i, key := range expected {
		assert.Equal(t, key, Sources[i].Key)
	}
}
