package domain

import "github.com/DRSN-tech/eshop-etl/pkg/contenthash"

// Attribute — каноническое имя атрибута варианта (Màu, Dung lượng, ...).
type Attribute struct {
	ID   string
	Name string
}

func NewAttribute(name string) Attribute {
	return Attribute{
		ID:   contenthash.Sum(name),
		Name: name,
	}
}

// AttributeValue — конкретное значение атрибута; id зависит от пары
// (attribute_id, value).
type AttributeValue struct {
	ID          string
	AttributeID string
	Value       string
}

func NewAttributeValue(attributeID, value string) AttributeValue {
	return AttributeValue{
		ID:          contenthash.Sum(attributeID, value),
		AttributeID: attributeID,
		Value:       value,
	}
}
