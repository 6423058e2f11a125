package usecase

import (
	"time"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/internal/taxonomy"
	"github.com/shopspring/decimal"
)

// PIPELINE USECASE

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunInfo — состояние одного запуска конвейера.
type RunInfo struct {
	ID         string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt *time.Time
	Err        string
	Reports    []LoadReport
}

// LoadReport — итог загрузки одного сущностного набора; публикуется в Kafka
// через outbox.
type LoadReport struct {
	RunID              string    `json:"run_id"`
	Table              string    `json:"table"`
	RowsSeen           int64     `json:"rows_seen"`
	RowsSkippedByCache int64     `json:"rows_skipped_by_cache"`
	RowsInserted       int64     `json:"rows_inserted"`
	FinishedAt         time.Time `json:"finished_at"`
}

// SourceRows — сырые каталожные строки одного файла-источника.
type SourceRows struct {
	Source taxonomy.Source
	Rows   []domain.RawProductRow
}

// TransactionSet — выход генератора синтетических транзакций.
type TransactionSet struct {
	Feedbacks         []domain.Feedback
	FeedbackResponses []domain.FeedbackResponse
	Discounts         []domain.Discount
	Orders            []domain.Order
	OrderItems        []domain.OrderItem
	OrderHistories    []domain.OrderHistory
}

// Voucher — действующая скидка варианта для расчёта суммы оплаты заказа.
type Voucher struct {
	Type      domain.DiscountType
	Value     decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

// OutboxEvent — событие отчёта о загрузке, записываемое в той же транзакции,
// что и сам merge, и публикуемое воркером в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	RunID       string
	Table       string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{Key: key, Payload: payload}
}
