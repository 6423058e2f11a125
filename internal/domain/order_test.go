package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusFrom(t *testing.T) {
	tests := []struct {
		name     string
		manage   ManageStatus
		payment  PaymentStatus
		expected OrderStatus
	}{
		{"pending", ManagePending, "", OrderProcessing},
		{"rejected", ManageRejected, "", OrderRejected},
		{"processing paid", ManageProcessing, PaymentPaid, OrderProcessing},
		{"processing partially paid", ManageProcessing, PaymentPartiallyPaid, OrderProcessing},
		{"processing unpaid", ManageProcessing, "", OrderRejected},
		{"completed", ManageCompleted, "", OrderCompleted},
		{"cancelled falls through", ManageCancelled, "", OrderProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OrderStatusFrom(tt.manage, tt.payment))
		})
	}
}

func TestPaymentStatusFrom(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		manage   ManageStatus
		order    OrderStatus
		expected PaymentStatus
	}{
		{"rejected cod cancelled", PaymentMethodCOD, ManageProcessing, OrderRejected, PaymentCancelled},
		{"rejected cashless refunded", "PayPal", ManageProcessing, OrderRejected, PaymentRefunded},
		{"pending", "Credit Card", ManagePending, OrderProcessing, PaymentPending},
		{"processing cod pending", PaymentMethodCOD, ManageProcessing, OrderProcessing, PaymentPending},
		{"processing cashless partially paid", "Bank Transfer", ManageProcessing, OrderProcessing, PaymentPartiallyPaid},
		{"completed paid", PaymentMethodCOD, ManageCompleted, OrderCompleted, PaymentPaid},
		{"cancelled cod", PaymentMethodCOD, ManageCancelled, OrderProcessing, PaymentCancelled},
		{"cancelled cashless", "PayPal", ManageCancelled, OrderProcessing, PaymentRefunded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PaymentStatusFrom(tt.method, tt.manage, tt.order))
		})
	}
}

func TestDiscountStatusAt(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, DiscountInactive, DiscountStatusAt(start, end, start.AddDate(0, 0, -1)))
	assert.Equal(t, DiscountActive, DiscountStatusAt(start, end, start))
	assert.Equal(t, DiscountActive, DiscountStatusAt(start, end, start.AddDate(0, 1, 0)))
	assert.Equal(t, DiscountActive, DiscountStatusAt(start, end, end))
	assert.Equal(t, DiscountExpired, DiscountStatusAt(start, end, end.AddDate(0, 0, 1)))
}

// Идентификатор зависит только от содержимого: одинаковые кортежи полей
// дают одинаковый id независимо от запуска.
func TestContentIdentity(t *testing.T) {
	date := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(5000000)

	a := NewOrder(7, date, "Hà Nội", OrderCompleted, PaymentMethodCOD, &date, PaymentPaid, amount)
	b := NewOrder(7, date, "Hà Nội", OrderCompleted, PaymentMethodCOD, &date, PaymentPaid, amount)
	assert.Equal(t, a.ID, b.ID)

	c := NewOrder(8, date, "Hà Nội", OrderCompleted, PaymentMethodCOD, &date, PaymentPaid, amount)
	assert.NotEqual(t, a.ID, c.ID)

	// Отсутствующая дата оплаты отличается от присутствующей.
	d := NewOrder(7, date, "Hà Nội", OrderCompleted, PaymentMethodCOD, nil, PaymentPaid, amount)
	assert.NotEqual(t, a.ID, d.ID)
}

func TestNewProductVariantProfit(t *testing.T) {
	v := NewProductVariant("pid", 1000, 800, "SA-MTB-1", 50, 30)
	assert.Equal(t, int64(200), v.Profit)

	// Закупочная цена выше продажной даёт отрицательную наценку.
	v = NewProductVariant("pid", 1000, 1100, "SA-MTB-2", 50, 30)
	assert.Equal(t, int64(-100), v.Profit)
}
