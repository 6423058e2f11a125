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

// CatalogRepo загружает каталожные сущности в PostgreSQL. Первичный ключ
// каждой таблицы — контентный хэш строки, поэтому merge сводится к
// INSERT ... ON CONFLICT DO NOTHING: повторная загрузка того же набора
// не меняет данные.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

func (r *CatalogRepo) MergeCategories(ctx context.Context, categories []domain.Category) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO category (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(query, c.ID, c.Name)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *CatalogRepo) MergeProducts(ctx context.Context, products []domain.Product) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO product (id, category_id, name, description, specification, image_url, brand)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.CategoryID, p.Name, p.Description, p.Specification, p.ImageURL, p.Brand)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *CatalogRepo) MergeAttributes(ctx context.Context, attributes []domain.Attribute) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO attribute (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, a := range attributes {
		batch.Queue(query, a.ID, a.Name)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *CatalogRepo) MergeAttributeValues(ctx context.Context, values []domain.AttributeValue) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO attribute_value (id, attribute_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, v := range values {
		batch.Queue(query, v.ID, v.AttributeID, v.Value)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *CatalogRepo) MergeProductVariants(ctx context.Context, variants []domain.ProductVariant) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO product_variant (
			id, product_id, price, original_price, profit, sku, stock_quantity, sold_quantity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, v := range variants {
		batch.Queue(query, v.ID, v.ProductID, v.Price, v.OriginalPrice, v.Profit, v.SKU, v.StockQuantity, v.SoldQuantity)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}

func (r *CatalogRepo) MergeAttributeVariants(ctx context.Context, rows []domain.AttributeVariant) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO attribute_variant (hash, product_variant_id, attribute_id, attribute_value_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hash) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, av := range rows {
		batch.Queue(query, av.RowHash, av.ProductVariantID, av.AttributeID, av.AttributeValueID)
	}

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return inserted, nil
}
