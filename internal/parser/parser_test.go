package parser

import (
	"testing"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOptions(t *testing.T) {
	field := "Màu: Đen $$ Dung lượng: 128Gb = 5000000 VND"

	options, errs := ExtractOptions(field)
	require.Empty(t, errs)
	require.Len(t, options, 1)

	assert.Equal(t, []string{"Màu", "Dung lượng"}, options[0].Attrs)
	assert.Equal(t, []string{"Đen", "128gb"}, options[0].Values)
	assert.Equal(t, int64(5000000), options[0].Price)
}

func TestExtractOptionsMultiline(t *testing.T) {
	field := "Màu: Đen = 5000000 VND\nMàu: Trắng = 5200000 VND"

	options, errs := ExtractOptions(field)
	require.Empty(t, errs)
	require.Len(t, options, 2)

	assert.Equal(t, int64(5000000), options[0].Price)
	assert.Equal(t, []string{"Trắng"}, options[1].Values)
	assert.Equal(t, int64(5200000), options[1].Price)
}

func TestExtractOptionsBarePrice(t *testing.T) {
	options, errs := ExtractOptions("3200000 VND")
	require.Empty(t, errs)
	require.Len(t, options, 1)

	assert.Equal(t, domain.Option{
		Attrs:  []string{"Loại"},
		Values: []string{"Mặc Định"},
		Price:  3200000,
	}, options[0])
}

func TestExtractOptionsBareGarbage(t *testing.T) {
	options, errs := ExtractOptions("Liên hệ")
	assert.Nil(t, options)
	assert.Len(t, errs, 1)
}

// Неразборчивая строка не роняет разбор остальных.
func TestExtractOptionsPartialFailure(t *testing.T) {
	field := "Màu: Đen = 5000000 VND\nĐen = 100 VND\nMàu: Trắng = abc VND"

	options, errs := ExtractOptions(field)
	require.Len(t, options, 1)
	assert.Equal(t, []string{"Đen"}, options[0].Values)
	assert.Len(t, errs, 2)
}

// Лишнее двоеточие внутри пары — ошибка строки, а не всего поля.
func TestExtractOptionsDoubleColonPair(t *testing.T) {
	field := "Ghi chú: xem: mô tả = 1000000 VND\nMàu: Đỏ = 900000 VND"

	options, errs := ExtractOptions(field)
	require.Len(t, options, 1)
	assert.Equal(t, []string{"Đỏ"}, options[0].Values)
	assert.Len(t, errs, 1)
}
