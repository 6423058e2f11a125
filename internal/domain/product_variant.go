package domain

import "github.com/DRSN-tech/eshop-etl/pkg/contenthash"

// ProductVariant — одна ценовая опция продукта.
// Инвариант: 0 <= SoldQuantity <= StockQuantity.
// OriginalPrice может превышать Price (гауссова выборка ограничена только
// снизу), тогда Profit отрицателен — граничный случай сохранён намеренно.
type ProductVariant struct {
	ID            string
	ProductID     string
	Price         int64
	OriginalPrice int64
	Profit        int64
	SKU           string
	StockQuantity int64
	SoldQuantity  int64
}

func NewProductVariant(productID string, price, originalPrice int64, sku string, stock, sold int64) ProductVariant {
	profit := price - originalPrice

	return ProductVariant{
		ID: contenthash.Sum(
			productID,
			contenthash.Int(price),
			contenthash.Int(originalPrice),
			contenthash.Int(profit),
			sku,
			contenthash.Int(stock),
			contenthash.Int(sold),
		),
		ProductID:     productID,
		Price:         price,
		OriginalPrice: originalPrice,
		Profit:        profit,
		SKU:           sku,
		StockQuantity: stock,
		SoldQuantity:  sold,
	}
}

// AttributeVariant — связка варианта с парой (атрибут, значение).
// У строки нет собственной сущностной идентичности, только хэш содержимого
// для дедупликации при загрузке.
type AttributeVariant struct {
	RowHash          string
	ProductVariantID string
	AttributeID      string
	AttributeValueID string
}

func NewAttributeVariant(productVariantID, attributeID, attributeValueID string) AttributeVariant {
	return AttributeVariant{
		RowHash:          contenthash.Sum(productVariantID, attributeID, attributeValueID),
		ProductVariantID: productVariantID,
		AttributeID:      attributeID,
		AttributeValueID: attributeValueID,
	}
}
