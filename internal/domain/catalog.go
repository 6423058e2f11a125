package domain

// Catalog — результат сборки каталога: сущностные наборы плюс таблицы
// обратного разрешения, которыми пользуется генератор транзакций.
type Catalog struct {
	Categories        []Category
	Products          []Product
	Attributes        []Attribute
	AttributeValues   []AttributeValue
	Variants          []ProductVariant
	AttributeVariants []AttributeVariant

	// ProductIDBySource сопоставляет исходный идентификатор продукта
	// его контентному id.
	ProductIDBySource map[int64]string
	// VariantIDByOption разрешает (исходный id продукта, канонические пары
	// опции) в id варианта.
	VariantIDByOption map[OptionKey]string
	// VariantIDsByProduct — варианты каждого продукта, в порядке создания.
	VariantIDsByProduct map[string][]string
	// PriceByVariantID — цена варианта для построения позиций заказов.
	PriceByVariantID map[string]int64
}
