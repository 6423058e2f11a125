package domain

import (
	"time"

	"github.com/DRSN-tech/eshop-etl/pkg/contenthash"
	"github.com/shopspring/decimal"
)

// ManageStatus — внутренний статус обработки заказа менеджером,
// первичный вход машины состояний.
type ManageStatus string

const (
	ManagePending    ManageStatus = "Pending"
	ManageProcessing ManageStatus = "Processing"
	ManageCancelled  ManageStatus = "Cancelled"
	ManageCompleted  ManageStatus = "Completed"
	ManageRejected   ManageStatus = "Rejected"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderRejected   OrderStatus = "Rejected"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "Pending"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentPaid          PaymentStatus = "Paid"
	PaymentCancelled     PaymentStatus = "Cancelled"
	PaymentRefunded      PaymentStatus = "Refunded"
)

const PaymentMethodCOD = "COD"

// OrderStatusFrom выводит статус заказа из статуса обработки.
// payment передаётся пустым, если статус платежа ещё не определён.
func OrderStatusFrom(manage ManageStatus, payment PaymentStatus) OrderStatus {
	switch manage {
	case ManagePending:
		return OrderProcessing
	case ManageRejected:
		return OrderRejected
	case ManageProcessing:
		if payment == PaymentPaid || payment == PaymentPartiallyPaid {
			return OrderProcessing
		}
		return OrderRejected
	case ManageCompleted:
		return OrderCompleted
	}

	return OrderProcessing
}

// PaymentStatusFrom выводит статус платежа из способа оплаты и статусов заказа.
// Замыкание машины состояний: Rejected влечёт Cancelled/Refunded,
// Completed влечёт Paid.
func PaymentStatusFrom(paymentMethod string, manage ManageStatus, order OrderStatus) PaymentStatus {
	if order == OrderRejected {
		if paymentMethod == PaymentMethodCOD {
			return PaymentCancelled
		}
		return PaymentRefunded
	}

	switch manage {
	case ManagePending:
		return PaymentPending
	case ManageProcessing:
		if paymentMethod == PaymentMethodCOD {
			return PaymentPending
		}
		return PaymentPartiallyPaid
	case ManageCompleted:
		return PaymentPaid
	case ManageCancelled:
		if paymentMethod == PaymentMethodCOD {
			return PaymentCancelled
		}
		return PaymentRefunded
	}

	return PaymentPending
}

// Order — синтетический заказ. Всегда ровно один OrderItem и одна запись
// OrderHistory на заказ (1:1:1 по построению).
type Order struct {
	ID              string
	CustomerID      int64
	OrderDate       time.Time
	ShippingAddress string
	Status          OrderStatus
	PaymentMethod   string
	PaymentDate     *time.Time
	PaymentStatus   PaymentStatus
	PaymentAmount   decimal.Decimal
}

func NewOrder(customerID int64, orderDate time.Time, shippingAddress string, status OrderStatus,
	paymentMethod string, paymentDate *time.Time, paymentStatus PaymentStatus, paymentAmount decimal.Decimal) Order {
	return Order{
		ID: contenthash.Sum(
			contenthash.Int(customerID),
			contenthash.Time(orderDate),
			shippingAddress,
			string(status),
			paymentMethod,
			contenthash.NullTime(paymentDate),
			string(paymentStatus),
			contenthash.Decimal(paymentAmount),
		),
		CustomerID:      customerID,
		OrderDate:       orderDate,
		ShippingAddress: shippingAddress,
		Status:          status,
		PaymentMethod:   paymentMethod,
		PaymentDate:     paymentDate,
		PaymentStatus:   paymentStatus,
		PaymentAmount:   paymentAmount,
	}
}

type OrderItem struct {
	ID               string
	ProductVariantID string
	OrderID          string
	Quantity         int64
	UnitPrice        int64
	Note             string
}

func NewOrderItem(productVariantID, orderID string, quantity, unitPrice int64, note string) OrderItem {
	return OrderItem{
		ID: contenthash.Sum(
			productVariantID,
			orderID,
			contenthash.Int(quantity),
			contenthash.Int(unitPrice),
			note,
		),
		ProductVariantID: productVariantID,
		OrderID:          orderID,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		Note:             note,
	}
}

type OrderHistory struct {
	ID             string
	ManagerID      int64
	OrderID        string
	ProcessingTime *time.Time
	PreviousStatus OrderStatus
	NewStatus      OrderStatus
}

func NewOrderHistory(managerID int64, orderID string, processingTime *time.Time, previous, next OrderStatus) OrderHistory {
	return OrderHistory{
		ID: contenthash.Sum(
			contenthash.Int(managerID),
			orderID,
			contenthash.NullTime(processingTime),
			string(previous),
			string(next),
		),
		ManagerID:      managerID,
		OrderID:        orderID,
		ProcessingTime: processingTime,
		PreviousStatus: previous,
		NewStatus:      next,
	}
}
