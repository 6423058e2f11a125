package domain

import (
	"time"

	"github.com/DRSN-tech/eshop-etl/pkg/contenthash"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "Percentage"
	DiscountFixedAmount DiscountType = "FixedAmount"
)

type DiscountStatus string

const (
	DiscountActive   DiscountStatus = "Active"
	DiscountInactive DiscountStatus = "Inactive"
	DiscountExpired  DiscountStatus = "Expired"
)

// Discount — скидка на вариант продукта. Статус всегда выводится из дат
// относительно опорного времени, он не задаётся извне.
type Discount struct {
	ID               string
	ProductVariantID string
	Code             string
	Name             string
	Type             DiscountType
	Value            decimal.Decimal
	Status           DiscountStatus
	StartDate        time.Time
	EndDate          time.Time
}

func NewDiscount(productVariantID, code, name string, typ DiscountType, value decimal.Decimal, start, end, reference time.Time) Discount {
	status := DiscountStatusAt(start, end, reference)

	return Discount{
		ID: contenthash.Sum(
			productVariantID,
			code,
			name,
			string(typ),
			contenthash.Decimal(value),
			string(status),
			contenthash.Time(start),
			contenthash.Time(end),
		),
		ProductVariantID: productVariantID,
		Code:             code,
		Name:             name,
		Type:             typ,
		Value:            value,
		Status:           status,
		StartDate:        start,
		EndDate:          end,
	}
}

// DiscountStatusAt выводит статус скидки из её дат на момент at.
func DiscountStatusAt(start, end, at time.Time) DiscountStatus {
	switch {
	case at.Before(start):
		return DiscountInactive
	case at.After(end):
		return DiscountExpired
	default:
		return DiscountActive
	}
}
