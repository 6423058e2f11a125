package usecase

import (
	"context"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/internal/taxonomy"
)

// ExportRepository читает сырые CSV-выгрузки источников из объектного
// хранилища.
type ExportRepository interface {
	ProductRows(ctx context.Context, src taxonomy.Source) ([]domain.RawProductRow, error)
	FeedbackRows(ctx context.Context, src taxonomy.Source) ([]domain.RawFeedbackRow, error)
	ResponseRows(ctx context.Context, src taxonomy.Source) ([]domain.RawFeedbackResponseRow, error)
}

// IdentityRepository читает пулы покупателей и менеджеров из общего
// хранилища платформы.
type IdentityRepository interface {
	// Customers возвращает незаблокированных покупателей по возрастанию id.
	Customers(ctx context.Context) ([]domain.Customer, error)
	// ManagersByRole возвращает менеджеров роли по возрастанию id.
	ManagersByRole(ctx context.Context, role string) ([]domain.Manager, error)
}

// CatalogRepository загружает каталожные сущности. Каждый Merge вставляет
// только строки, контентного id которых ещё нет в таблице, и возвращает
// число реально вставленных строк.
type CatalogRepository interface {
	MergeCategories(ctx context.Context, categories []domain.Category) (int64, error)
	MergeProducts(ctx context.Context, products []domain.Product) (int64, error)
	MergeAttributes(ctx context.Context, attributes []domain.Attribute) (int64, error)
	MergeAttributeValues(ctx context.Context, values []domain.AttributeValue) (int64, error)
	MergeProductVariants(ctx context.Context, variants []domain.ProductVariant) (int64, error)
	MergeAttributeVariants(ctx context.Context, rows []domain.AttributeVariant) (int64, error)
}

// SalesRepository загружает транзакционные сущности с той же merge-семантикой.
type SalesRepository interface {
	MergeFeedbacks(ctx context.Context, feedbacks []domain.Feedback) (int64, error)
	MergeFeedbackResponses(ctx context.Context, responses []domain.FeedbackResponse) (int64, error)
	MergeDiscounts(ctx context.Context, discounts []domain.Discount) (int64, error)
	MergeOrders(ctx context.Context, orders []domain.Order) (int64, error)
	MergeOrderItems(ctx context.Context, items []domain.OrderItem) (int64, error)
	MergeOrderHistories(ctx context.Context, histories []domain.OrderHistory) (int64, error)
}

// HashCacheRepository — кэш уже загруженных контентных хэшей.
// Кэш ускоряет повторные запуски, но не является источником истины:
// merge в любом случае проверяет наличие строки в таблице.
type HashCacheRepository interface {
	// FilterKnown возвращает подмножество hashes, уже отмеченных в кэше
	// для таблицы table.
	FilterKnown(ctx context.Context, table string, hashes []string) (map[string]struct{}, error)
	AddKnown(ctx context.Context, table string, hashes []string) error
}

// OutboxRepository — транзакционный outbox отчётов о загрузке.
type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
