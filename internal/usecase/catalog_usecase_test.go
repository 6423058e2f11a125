package usecase

import (
	"math/rand"
	"testing"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/internal/taxonomy"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource(t *testing.T, key string) taxonomy.Source {
	t.Helper()
	src, ok := taxonomy.SourceByKey(key)
	require.True(t, ok)
	return src
}

func productRow(sourceID int64, name, category, variantText string) domain.RawProductRow {
	return domain.RawProductRow{
		SourceID:      sourceID,
		Name:          name,
		Brand:         "Samsung",
		Category:      category,
		Specification: "spec",
		VariantText:   variantText,
		Description:   "desc",
		ImageURL:      "https://img.example/p.jpg",
	}
}

func testSources(t *testing.T) []SourceRows {
	return []SourceRows{
		{
			Source: testSource(t, "dienthoai"),
			Rows: []domain.RawProductRow{
				productRow(1, "Galaxy S24", "Root", "Màu: Đen = 20000000 VND\nMàu: Trắng = 21000000 VND"),
				productRow(2, "Galaxy A15", "Root", "4500000 VND"),
			},
		},
		{
			Source: testSource(t, "maytinhbang"),
			Rows: []domain.RawProductRow{
				productRow(3, "Galaxy Tab S9", "", "Dung lượng: 128Gb = 15000000 VND"),
			},
		},
	}
}

func TestCatalogBuildDeterministic(t *testing.T) {
	builder := NewCatalogBuilder(logger.NewSlogLogger())

	first, err := builder.Build(testSources(t), rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	second, err := builder.Build(testSources(t), rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCatalogBuildShape(t *testing.T) {
	builder := NewCatalogBuilder(logger.NewSlogLogger())

	catalog, err := builder.Build(testSources(t), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Len(t, catalog.Products, 3)
	assert.Len(t, catalog.Variants, 4)
	// Điện thoại Smartphone и Máy tính bảng.
	assert.Len(t, catalog.Categories, 2)

	for _, v := range catalog.Variants {
		assert.GreaterOrEqual(t, v.StockQuantity, int64(0))
		assert.LessOrEqual(t, v.StockQuantity, int64(120))
		assert.GreaterOrEqual(t, v.SoldQuantity, int64(0))
		assert.LessOrEqual(t, v.SoldQuantity, v.StockQuantity)
		assert.Equal(t, v.Price-v.OriginalPrice, v.Profit)
		assert.GreaterOrEqual(t, float64(v.OriginalPrice), float64(v.Price)*0.5)
	}

	for _, sourceID := range []int64{1, 2, 3} {
		pid, ok := catalog.ProductIDBySource[sourceID]
		require.True(t, ok)
		assert.NotEmpty(t, catalog.VariantIDsByProduct[pid])
	}
}

// Каждая ссылка каждой связки разрешается в уже собранную сущность.
func TestCatalogBuildReferentialClosure(t *testing.T) {
	builder := NewCatalogBuilder(logger.NewSlogLogger())

	catalog, err := builder.Build(testSources(t), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	categories := make(map[string]struct{})
	for _, c := range catalog.Categories {
		categories[c.ID] = struct{}{}
	}
	attrs := make(map[string]struct{})
	for _, a := range catalog.Attributes {
		attrs[a.ID] = struct{}{}
	}
	values := make(map[string]struct{})
	for _, v := range catalog.AttributeValues {
		values[v.ID] = struct{}{}
		assert.Contains(t, attrs, v.AttributeID)
	}
	products := make(map[string]struct{})
	for _, p := range catalog.Products {
		products[p.ID] = struct{}{}
		assert.Contains(t, categories, p.CategoryID)
	}
	variants := make(map[string]struct{})
	for _, v := range catalog.Variants {
		variants[v.ID] = struct{}{}
		assert.Contains(t, products, v.ProductID)
	}
	for _, av := range catalog.AttributeVariants {
		assert.Contains(t, variants, av.ProductVariantID)
		assert.Contains(t, attrs, av.AttributeID)
		assert.Contains(t, values, av.AttributeValueID)
	}
}

func TestCatalogBuildVariantResolution(t *testing.T) {
	builder := NewCatalogBuilder(logger.NewSlogLogger())

	catalog, err := builder.Build(testSources(t), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	id, ok := catalog.VariantIDByOption[domain.OptionKey{SourceProductID: 1, Pairs: "Màu:Đen"}]
	require.True(t, ok)
	assert.Equal(t, int64(20000000), catalog.PriceByVariantID[id])

	// Продукт с голой ценой получает синтетическую опцию.
	_, ok = catalog.VariantIDByOption[domain.OptionKey{SourceProductID: 2, Pairs: "Loại:Mặc Định"}]
	assert.True(t, ok)
}

func TestCatalogBuildDuplicateSourceID(t *testing.T) {
	builder := NewCatalogBuilder(logger.NewSlogLogger())

	sources := testSources(t)
	// Тот же исходный id в другом файле: строка отбрасывается, разрешение
	// остаётся за первым источником.
	sources[1].Rows = append(sources[1].Rows, productRow(1, "Fake Galaxy", "", "1000000 VND"))

	catalog, err := builder.Build(sources, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Len(t, catalog.Products, 3)

	pid := catalog.ProductIDBySource[1]
	variants := catalog.VariantIDsByProduct[pid]
	assert.Len(t, variants, 2)
}

func TestCatalogBuildCollapsesIdenticalProducts(t *testing.T) {
	builder := NewCatalogBuilder(logger.NewSlogLogger())

	src := testSource(t, "maytinhbang")
	sources := []SourceRows{{
		Source: src,
		Rows: []domain.RawProductRow{
			productRow(10, "Galaxy Tab S9", "", "Dung lượng: 128Gb = 15000000 VND"),
			productRow(11, "Galaxy Tab S9", "", "Dung lượng: 128Gb = 15000000 VND"),
		},
	}}

	catalog, err := builder.Build(sources, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// Контентный id совпал: продукт один, вариантов заново не порождается,
	// но оба исходных id разрешаются в него.
	assert.Len(t, catalog.Products, 1)
	assert.Len(t, catalog.Variants, 1)
	assert.Equal(t, catalog.ProductIDBySource[10], catalog.ProductIDBySource[11])
}

func TestCatalogBuildDropsIncompleteRows(t *testing.T) {
	builder := NewCatalogBuilder(logger.NewSlogLogger())

	noBrand := productRow(5, "Galaxy S24", "Root", "1000000 VND")
	noBrand.Brand = ""

	noCategory := productRow(6, "Galaxy S24", "", "1000000 VND")

	sources := []SourceRows{{
		Source: testSource(t, "dienthoai"),
		Rows:   []domain.RawProductRow{noBrand, noCategory},
	}}

	_, err := builder.Build(sources, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, e.ErrEmptyCatalog)
}

func TestCatalogBuildEmpty(t *testing.T) {
	builder := NewCatalogBuilder(logger.NewSlogLogger())

	_, err := builder.Build(nil, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, e.ErrEmptyCatalog)
}

func TestMakeSKU(t *testing.T) {
	assert.Equal(t, "SA-MTB-1", makeSKU("Samsung", "Máy tính bảng", 1))
	assert.Equal(t, "LG-TO-7", makeSKU("LG", "Tivi OLED", 7))
	assert.Equal(t, "XI-DTS-12", makeSKU("Xiaomi Việt Nam", "Điện thoại Smartphone", 12))
}
