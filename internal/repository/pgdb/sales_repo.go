package pgdb

import (
	"context"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// SalesRepo загружает транзакционные сущности: отзывы, ответы, скидки и
// заказы. Семантика merge та же, что у каталога: конфликт по контентному
// хэшу означает уже загруженную строку.
type SalesRepo struct {
	pool *pgxpool.Pool
}

func NewSalesRepo(pool *pgxpool.Pool) *SalesRepo {
	return &SalesRepo{pool: pool}
}

func (r *SalesRepo) MergeFeedbacks(ctx context.Context, feedbacks []domain.Feedback) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO feedback (id, customer_id, product_id, product_variant_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, f := range feedbacks {
		batch.Queue(query, f.ID, f.CustomerID, f.ProductID, f.ProductVariantID, f.Rating, f.Comment, f.CreatedAt)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *SalesRepo) MergeFeedbackResponses(ctx context.Context, responses []domain.FeedbackResponse) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO feedback_response (id, manager_id, feedback_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, resp := range responses {
		batch.Queue(query, resp.ID, resp.ManagerID, resp.FeedbackID, resp.Comment, resp.CreatedAt)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *SalesRepo) MergeDiscounts(ctx context.Context, discounts []domain.Discount) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO discount (
			id, product_variant_id, code, name, type, value, status, start_date, end_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, d := range discounts {
		batch.Queue(query, d.ID, d.ProductVariantID, d.Code, d.Name, string(d.Type), d.Value, string(d.Status), d.StartDate, d.EndDate)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *SalesRepo) MergeOrders(ctx context.Context, orders []domain.Order) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO "order" (
			id, customer_id, order_date, shipping_address, status,
			payment_method, payment_date, payment_status, payment_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(query, o.ID, o.CustomerID, o.OrderDate, o.ShippingAddress, string(o.Status),
			o.PaymentMethod, o.PaymentDate, string(o.PaymentStatus), o.PaymentAmount)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *SalesRepo) MergeOrderItems(ctx context.Context, items []domain.OrderItem) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO order_item (id, product_variant_id, order_id, quantity, unit_price, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.ProductVariantID, item.OrderID, item.Quantity, item.UnitPrice, item.Note)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *SalesRepo) MergeOrderHistories(ctx context.Context, histories []domain.OrderHistory) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO order_history (id, manager_id, order_id, processing_time, previous_status, new_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, h := range histories {
		batch.Queue(query, h.ID, h.ManagerID, h.OrderID, h.ProcessingTime, string(h.PreviousStatus), string(h.NewStatus))
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}
