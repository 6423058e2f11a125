package usecase

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/internal/parser"
	"github.com/DRSN-tech/eshop-etl/internal/taxonomy"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	"github.com/DRSN-tech/eshop-etl/pkg/vnstr"
)

const (
	maxStockQuantity    = 120
	originalPriceMean   = 0.8
	originalPriceStdDev = 0.05
	originalPriceFloor  = 0.5
)

// CatalogBuilder собирает каталог из сырых строк источников: чистка и
// дедупликация, сведение категорий, разбор мини-языка вариантов,
// генерация экономики вариантов и таблиц обратного разрешения.
type CatalogBuilder struct {
	logger logger.Logger
}

func NewCatalogBuilder(logger logger.Logger) *CatalogBuilder {
	return &CatalogBuilder{logger: logger}
}

// cleanRow — очищенная строка каталога с уже сведённой категорией и
// разобранными опциями.
type cleanRow struct {
	row      domain.RawProductRow
	category string
	options  []domain.Option
}

// Build собирает каталог. Источники обрабатываются в закреплённом порядке,
// продукты — в порядке строк файла; это фиксирует и порядок потребления rng.
func (b *CatalogBuilder) Build(sources []SourceRows, rng *rand.Rand) (*domain.Catalog, error) {
	rows := b.clean(sources)
	if len(rows) == 0 {
		return nil, e.ErrEmptyCatalog
	}

	catalog := &domain.Catalog{
		ProductIDBySource:   make(map[int64]string),
		VariantIDByOption:   make(map[domain.OptionKey]string),
		VariantIDsByProduct: make(map[string][]string),
		PriceByVariantID:    make(map[string]int64),
	}

	categoryIDByName := b.buildCategories(catalog, rows)
	attrIDByName, valueIDByPair := b.buildAttributes(catalog, rows)

	b.buildProducts(catalog, rows, categoryIDByName, attrIDByName, valueIDByPair, rng)

	b.logger.Infof("catalog built: %d categories, %d products, %d variants",
		len(catalog.Categories), len(catalog.Products), len(catalog.Variants))

	return catalog, nil
}

// clean отбрасывает строки с пропусками, точные дубликаты внутри источника
// и повторные исходные id между источниками, сводит категорию и разбирает
// поле вариантов. Продукт без единой разборчивой опции отбрасывается.
func (b *CatalogBuilder) clean(sources []SourceRows) []cleanRow {
	var (
		out          []cleanRow
		seenSourceID = make(map[int64]string)
	)

	for _, src := range sources {
		seenTuple := make(map[string]struct{}, len(src.Rows))

		for _, row := range src.Rows {
			if !rowComplete(row, src.Source) {
				b.logger.Debugf("source %s: row %d dropped: %v", src.Source.Key, row.SourceID, e.ErrMissingRequiredField)
				continue
			}

			tuple := rowTuple(row)
			if _, ok := seenTuple[tuple]; ok {
				continue
			}
			seenTuple[tuple] = struct{}{}

			if firstSrc, ok := seenSourceID[row.SourceID]; ok {
				b.logger.Warnf("source %s: duplicate source id %d (first seen in %s), row dropped",
					src.Source.Key, row.SourceID, firstSrc)
				continue
			}
			seenSourceID[row.SourceID] = src.Source.Key

			options, errs := parser.ExtractOptions(row.VariantText)
			for _, err := range errs {
				b.logger.Debugf("source %s: product %d: option skipped: %v", src.Source.Key, row.SourceID, err)
			}
			if len(options) == 0 {
				b.logger.Warnf("source %s: product %d has no parsable options, dropped", src.Source.Key, row.SourceID)
				continue
			}

			out = append(out, cleanRow{
				row:      row,
				category: src.Source.ReconcileCategory(row),
				options:  options,
			})
		}
	}

	return out
}

func rowComplete(row domain.RawProductRow, src taxonomy.Source) bool {
	if row.SourceID <= 0 || row.Name == "" || row.Brand == "" || row.Specification == "" ||
		row.VariantText == "" || row.Description == "" || row.ImageURL == "" {
		return false
	}
	if row.Category == "" && src.ForceCategory == "" {
		return false
	}
	return true
}

func rowTuple(row domain.RawProductRow) string {
	return strings.Join([]string{
		strconv.FormatInt(row.SourceID, 10),
		row.Name, row.Brand, row.Category, row.Specification,
		row.VariantText, row.Description, row.ImageURL,
	}, "\x1f")
}

// buildCategories создаёт категории в порядке первого появления.
func (b *CatalogBuilder) buildCategories(catalog *domain.Catalog, rows []cleanRow) map[string]string {
	idByName := make(map[string]string)

	for _, r := range rows {
		if _, ok := idByName[r.category]; ok {
			continue
		}

		category := domain.NewCategory(r.category)
		idByName[r.category] = category.ID
		catalog.Categories = append(catalog.Categories, category)
	}

	return idByName
}

type attrPair struct {
	attr  string
	value string
}

// buildAttributes собирает атрибуты и их значения по всем опциям каталога.
// Имена атрибутов и значения сортируются: множества, из которых они
// собираются, не имеют собственного порядка.
func (b *CatalogBuilder) buildAttributes(catalog *domain.Catalog, rows []cleanRow) (map[string]string, map[attrPair]string) {
	valuesByAttr := make(map[string]map[string]struct{})

	for _, r := range rows {
		for _, opt := range r.options {
			for i := range opt.Attrs {
				if valuesByAttr[opt.Attrs[i]] == nil {
					valuesByAttr[opt.Attrs[i]] = make(map[string]struct{})
				}
				valuesByAttr[opt.Attrs[i]][opt.Values[i]] = struct{}{}
			}
		}
	}

	attrNames := make([]string, 0, len(valuesByAttr))
	for name := range valuesByAttr {
		attrNames = append(attrNames, name)
	}
	sort.Strings(attrNames)

	attrIDByName := make(map[string]string, len(attrNames))
	valueIDByPair := make(map[attrPair]string)

	for _, name := range attrNames {
		attribute := domain.NewAttribute(name)
		attrIDByName[name] = attribute.ID
		catalog.Attributes = append(catalog.Attributes, attribute)

		values := make([]string, 0, len(valuesByAttr[name]))
		for v := range valuesByAttr[name] {
			values = append(values, v)
		}
		sort.Strings(values)

		for _, v := range values {
			value := domain.NewAttributeValue(attribute.ID, v)
			valueIDByPair[attrPair{attr: name, value: v}] = value.ID
			catalog.AttributeValues = append(catalog.AttributeValues, value)
		}
	}

	return attrIDByName, valueIDByPair
}

// buildProducts создаёт продукты и варианты. На каждую опцию rng потребляется
// в закреплённом порядке: остаток на складе, гауссов множитель закупочной
// цены, продано. Продукт с уже встреченным контентным id схлопывается в
// первый: исходный id добавляется в таблицу разрешения, вариантов заново
// не порождается.
func (b *CatalogBuilder) buildProducts(catalog *domain.Catalog, rows []cleanRow,
	categoryIDByName, attrIDByName map[string]string, valueIDByPair map[attrPair]string, rng *rand.Rand) {

	productSeen := make(map[string]struct{})
	rowHashSeen := make(map[string]struct{})
	variantSeq := int64(0)

	for _, r := range rows {
		product := domain.NewProduct(
			categoryIDByName[r.category],
			r.row.Name,
			r.row.Description,
			r.row.Specification,
			r.row.ImageURL,
			r.row.Brand,
		)

		catalog.ProductIDBySource[r.row.SourceID] = product.ID

		if _, ok := productSeen[product.ID]; ok {
			b.logger.Debugf("product %d collapsed into existing %s", r.row.SourceID, product.ID)
			continue
		}
		productSeen[product.ID] = struct{}{}
		catalog.Products = append(catalog.Products, product)

		for _, opt := range r.options {
			variantSeq++

			stock := rng.Int63n(maxStockQuantity + 1)
			originalPrice := drawOriginalPrice(rng, opt.Price)
			sold := drawSoldQuantity(rng, stock)

			variant := domain.NewProductVariant(
				product.ID,
				opt.Price,
				originalPrice,
				makeSKU(r.row.Brand, r.category, variantSeq),
				stock,
				sold,
			)

			catalog.Variants = append(catalog.Variants, variant)
			catalog.VariantIDsByProduct[product.ID] = append(catalog.VariantIDsByProduct[product.ID], variant.ID)
			catalog.PriceByVariantID[variant.ID] = variant.Price
			catalog.VariantIDByOption[domain.OptionKey{
				SourceProductID: r.row.SourceID,
				Pairs:           opt.SortedPairs(),
			}] = variant.ID

			for i := range opt.Attrs {
				av := domain.NewAttributeVariant(
					variant.ID,
					attrIDByName[opt.Attrs[i]],
					valueIDByPair[attrPair{attr: opt.Attrs[i], value: opt.Values[i]}],
				)
				if _, ok := rowHashSeen[av.RowHash]; ok {
					continue
				}
				rowHashSeen[av.RowHash] = struct{}{}
				catalog.AttributeVariants = append(catalog.AttributeVariants, av)
			}
		}
	}
}

// drawOriginalPrice — закупочная цена: цена, умноженная на гауссов множитель
// N(0.8, 0.05) с нижней границей в половину цены. Множитель не ограничен
// сверху, поэтому закупочная цена изредка превышает цену продажи.
func drawOriginalPrice(rng *rand.Rand, price int64) int64 {
	v := float64(price) * (rng.NormFloat64()*originalPriceStdDev + originalPriceMean)
	if floor := float64(price) * originalPriceFloor; v < floor {
		v = floor
	}
	return int64(math.Round(v))
}

// drawSoldQuantity — продано: U[stock/2, stock] при остатке больше десяти,
// иначе ноль.
func drawSoldQuantity(rng *rand.Rand, stock int64) int64 {
	if stock <= 10 {
		return 0
	}
	lo := stock / 2
	return lo + rng.Int63n(stock-lo+1)
}

// makeSKU — артикул BRAND[:2]-ИнициалыКатегории-порядковый номер.
func makeSKU(brand, category string, seq int64) string {
	b := vnstr.Fold(brand)
	b = strings.ReplaceAll(b, " ", "")
	if len(b) > 2 {
		b = b[:2]
	}

	return fmt.Sprintf("%s-%s-%d", strings.ToUpper(b), vnstr.Initials(vnstr.Fold(category)), seq)
}
