package usecase

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/DRSN-tech/eshop-etl/internal/cfg"
	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/internal/taxonomy"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	roleServiceCustomer = "service_customer"
	roleProductManager  = "product_manager"
)

// PipelineUseCase — оркестратор батча: извлечение выгрузок, сборка каталога,
// генерация транзакций и идемпотентная загрузка сущностных наборов в порядке
// зависимостей. Запуски выполняются в фоне, состояние хранится в памяти.
type PipelineUseCase struct {
	exportRepo   ExportRepository
	identityRepo IdentityRepository
	catalogRepo  CatalogRepository
	salesRepo    SalesRepository
	cacheRepo    HashCacheRepository
	outboxRepo   OutboxRepository
	dbPool       transaction.Transactional
	builder      *CatalogBuilder
	engine       *TransactionEngine
	pipeline     *cfg.PipelineCfg
	logger       logger.Logger

	mu   sync.Mutex
	runs map[string]*RunInfo
}

func NewPipelineUC(
	exportRepo ExportRepository,
	identityRepo IdentityRepository,
	catalogRepo CatalogRepository,
	salesRepo SalesRepository,
	cacheRepo HashCacheRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	builder *CatalogBuilder,
	engine *TransactionEngine,
	pipeline *cfg.PipelineCfg,
	logger logger.Logger,
) *PipelineUseCase {
	return &PipelineUseCase{
		exportRepo:   exportRepo,
		identityRepo: identityRepo,
		catalogRepo:  catalogRepo,
		salesRepo:    salesRepo,
		cacheRepo:    cacheRepo,
		outboxRepo:   outboxRepo,
		dbPool:       dbPool,
		builder:      builder,
		engine:       engine,
		pipeline:     pipeline,
		logger:       logger,
		runs:         make(map[string]*RunInfo),
	}
}

// StartRun регистрирует запуск и выполняет его в фоне.
func (p *PipelineUseCase) StartRun(ctx context.Context) (*RunInfo, error) {
	run := &RunInfo{
		ID:        uuid.NewString(),
		Status:    RunRunning,
		StartedAt: time.Now().UTC(),
	}

	p.mu.Lock()
	p.runs[run.ID] = run
	p.mu.Unlock()

	go p.execute(context.Background(), run.ID)

	info := *run
	return &info, nil
}

// GetRun возвращает копию состояния запуска.
func (p *PipelineUseCase) GetRun(_ context.Context, id string) (*RunInfo, error) {
	const op = "PipelineUseCase.GetRun"

	p.mu.Lock()
	defer p.mu.Unlock()

	run, ok := p.runs[id]
	if !ok {
		return nil, e.Wrap(op, e.ErrRunNotFound)
	}

	info := *run
	info.Reports = append([]LoadReport(nil), run.Reports...)

	return &info, nil
}

// execute — полный проход батча. Генератор случайности один на запуск и
// потребляется в закреплённом порядке: каталог, отзывы, ответы, скидки,
// заказы. Любое изменение этого порядка меняет весь синтетический выход.
func (p *PipelineUseCase) execute(ctx context.Context, runID string) {
	const op = "PipelineUseCase.execute"

	p.logger.Infof("pipeline run %s started, seed %d", runID, p.pipeline.Seed)

	rng := rand.New(rand.NewSource(p.pipeline.Seed))

	err := p.run(ctx, runID, rng)
	if err != nil {
		p.logger.Errorf(err, "pipeline run %s failed", runID)
		p.finishRun(runID, e.Wrap(op, err))
		return
	}

	p.logger.Infof("pipeline run %s finished", runID)
	p.finishRun(runID, nil)
}

func (p *PipelineUseCase) run(ctx context.Context, runID string, rng *rand.Rand) error {
	const op = "PipelineUseCase.run"

	// Извлечение: каталожные выгрузки в закреплённом порядке источников.
	sources := make([]SourceRows, 0, len(taxonomy.Sources))
	for _, src := range taxonomy.Sources {
		rows, err := p.exportRepo.ProductRows(ctx, src)
		if err != nil {
			return e.Wrap(op, err)
		}
		sources = append(sources, SourceRows{Source: src, Rows: rows})
	}

	catalog, err := p.builder.Build(sources, rng)
	if err != nil {
		return e.Wrap(op, err)
	}

	customers, err := p.identityRepo.Customers(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	serviceManagers, err := p.identityRepo.ManagersByRole(ctx, roleServiceCustomer)
	if err != nil {
		return e.Wrap(op, err)
	}

	productManagers, err := p.identityRepo.ManagersByRole(ctx, roleProductManager)
	if err != nil {
		return e.Wrap(op, err)
	}

	var feedbackRows []domain.RawFeedbackRow
	var responseRows []domain.RawFeedbackResponseRow
	for _, src := range taxonomy.Sources {
		fb, err := p.exportRepo.FeedbackRows(ctx, src)
		if err != nil {
			return e.Wrap(op, err)
		}
		feedbackRows = append(feedbackRows, fb...)

		resp, err := p.exportRepo.ResponseRows(ctx, src)
		if err != nil {
			return e.Wrap(op, err)
		}
		responseRows = append(responseRows, resp...)
	}

	feedbackSet, err := p.engine.BuildFeedbacks(catalog, feedbackRows, customers, rng)
	if err != nil {
		return e.Wrap(op, err)
	}

	responses, err := p.engine.BuildResponses(feedbackSet, responseRows, serviceManagers, rng)
	if err != nil {
		return e.Wrap(op, err)
	}

	discounts, vouchers := p.engine.BuildDiscounts(catalog, rng)

	orders, orderItems, orderHistories, err := p.engine.BuildOrders(catalog, feedbackSet, customers, productManagers, vouchers, rng)
	if err != nil {
		return e.Wrap(op, err)
	}

	// Загрузка в порядке зависимостей: внешние ключи каждого набора уже
	// загружены к моменту его merge.
	if err := p.loadCatalog(ctx, runID, catalog); err != nil {
		return e.Wrap(op, err)
	}

	set := TransactionSet{
		Feedbacks:         feedbackSet.Feedbacks,
		FeedbackResponses: responses,
		Discounts:         discounts,
		Orders:            orders,
		OrderItems:        orderItems,
		OrderHistories:    orderHistories,
	}
	if err := p.loadTransactions(ctx, runID, set); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (p *PipelineUseCase) loadCatalog(ctx context.Context, runID string, catalog *domain.Catalog) error {
	hashes := make([]string, 0, len(catalog.Categories))
	for _, row := range catalog.Categories {
		hashes = append(hashes, row.ID)
	}
	err := p.loadEntitySet(ctx, runID, "category", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.Category, 0, len(catalog.Categories))
		for _, row := range catalog.Categories {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.catalogRepo.MergeCategories(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range catalog.Products {
		hashes = append(hashes, row.ID)
	}
	err = p.loadEntitySet(ctx, runID, "product", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.Product, 0, len(catalog.Products))
		for _, row := range catalog.Products {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.catalogRepo.MergeProducts(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range catalog.Attributes {
		hashes = append(hashes, row.ID)
	}
	err = p.loadEntitySet(ctx, runID, "attribute", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.Attribute, 0, len(catalog.Attributes))
		for _, row := range catalog.Attributes {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.catalogRepo.MergeAttributes(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range catalog.AttributeValues {
		hashes = append(hashes, row.ID)
	}
	err = p.loadEntitySet(ctx, runID, "attribute_value", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.AttributeValue, 0, len(catalog.AttributeValues))
		for _, row := range catalog.AttributeValues {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.catalogRepo.MergeAttributeValues(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range catalog.Variants {
		hashes = append(hashes, row.ID)
	}
	err = p.loadEntitySet(ctx, runID, "product_variant", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.ProductVariant, 0, len(catalog.Variants))
		for _, row := range catalog.Variants {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.catalogRepo.MergeProductVariants(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range catalog.AttributeVariants {
		hashes = append(hashes, row.RowHash)
	}
	return p.loadEntitySet(ctx, runID, "attribute_variant", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.AttributeVariant, 0, len(catalog.AttributeVariants))
		for _, row := range catalog.AttributeVariants {
			if _, ok := skip[row.RowHash]; !ok {
				rows = append(rows, row)
			}
		}
		return p.catalogRepo.MergeAttributeVariants(ctx, rows)
	})
}

func (p *PipelineUseCase) loadTransactions(ctx context.Context, runID string, set TransactionSet) error {
	hashes := make([]string, 0, len(set.Feedbacks))
	for _, row := range set.Feedbacks {
		hashes = append(hashes, row.ID)
	}
	err := p.loadEntitySet(ctx, runID, "feedback", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.Feedback, 0, len(set.Feedbacks))
		for _, row := range set.Feedbacks {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.salesRepo.MergeFeedbacks(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range set.FeedbackResponses {
		hashes = append(hashes, row.ID)
	}
	err = p.loadEntitySet(ctx, runID, "feedback_response", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.FeedbackResponse, 0, len(set.FeedbackResponses))
		for _, row := range set.FeedbackResponses {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.salesRepo.MergeFeedbackResponses(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range set.Discounts {
		hashes = append(hashes, row.ID)
	}
	err = p.loadEntitySet(ctx, runID, "discount", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.Discount, 0, len(set.Discounts))
		for _, row := range set.Discounts {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.salesRepo.MergeDiscounts(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range set.Orders {
		hashes = append(hashes, row.ID)
	}
	err = p.loadEntitySet(ctx, runID, "order", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.Order, 0, len(set.Orders))
		for _, row := range set.Orders {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.salesRepo.MergeOrders(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range set.OrderItems {
		hashes = append(hashes, row.ID)
	}
	err = p.loadEntitySet(ctx, runID, "order_item", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.OrderItem, 0, len(set.OrderItems))
		for _, row := range set.OrderItems {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.salesRepo.MergeOrderItems(ctx, rows)
	})
	if err != nil {
		return err
	}

	hashes = hashes[:0]
	for _, row := range set.OrderHistories {
		hashes = append(hashes, row.ID)
	}
	return p.loadEntitySet(ctx, runID, "order_history", hashes, func(ctx context.Context, skip map[string]struct{}) (int64, error) {
		rows := make([]domain.OrderHistory, 0, len(set.OrderHistories))
		for _, row := range set.OrderHistories {
			if _, ok := skip[row.ID]; !ok {
				rows = append(rows, row)
			}
		}
		return p.salesRepo.MergeOrderHistories(ctx, rows)
	})
}

// loadEntitySet загружает один сущностный набор: фильтр по кэшу хэшей,
// merge и запись отчёта в outbox одной транзакцией, затем пополнение кэша.
// Кэш — только ускорение: merge сам проверяет наличие строк, поэтому
// недоступный кэш понижается до предупреждения.
func (p *PipelineUseCase) loadEntitySet(ctx context.Context, runID, table string, hashes []string,
	merge func(ctx context.Context, skip map[string]struct{}) (int64, error)) error {

	const op = "PipelineUseCase.loadEntitySet"

	skip, err := p.cacheRepo.FilterKnown(ctx, table, hashes)
	if err != nil {
		p.logger.Warnf("hash cache unavailable for %s: %v", table, e.Wrap(op, err))
		skip = make(map[string]struct{})
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	inserted, err := merge(ctx, skip)
	if err != nil {
		return e.Wrap(op, err)
	}

	report := LoadReport{
		RunID:              runID,
		Table:              table,
		RowsSeen:           int64(len(hashes)),
		RowsSkippedByCache: int64(len(skip)),
		RowsInserted:       inserted,
		FinishedAt:         time.Now().UTC(),
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return e.Wrap(op, err)
	}

	_, err = p.outboxRepo.Create(ctx, &OutboxEvent{
		EventID: uuid.NewString(),
		RunID:   runID,
		Table:   table,
		Payload: payload,
		Status:  Pending,
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	if cacheErr := p.cacheRepo.AddKnown(ctx, table, hashes); cacheErr != nil {
		p.logger.Warnf("failed to extend hash cache for %s: %v", table, e.Wrap(op, cacheErr))
	}

	p.appendReport(runID, report)

	p.logger.Infof("table %s: %d rows seen, %d skipped by cache, %d inserted",
		table, report.RowsSeen, report.RowsSkippedByCache, report.RowsInserted)

	return nil
}

func (p *PipelineUseCase) appendReport(runID string, report LoadReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if run, ok := p.runs[runID]; ok {
		run.Reports = append(run.Reports, report)
	}
}

func (p *PipelineUseCase) finishRun(runID string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	run, ok := p.runs[runID]
	if !ok {
		return
	}

	now := time.Now().UTC()
	run.FinishedAt = &now

	if err != nil {
		run.Status = RunFailed
		run.Err = err.Error()
		return
	}

	run.Status = RunSucceeded
}
