package usecase

import (
	"math/rand"
	"testing"
	"time"

	"github.com/DRSN-tech/eshop-etl/internal/cfg"
	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReference = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func testEngine() *TransactionEngine {
	return NewTransactionEngine(logger.NewSlogLogger(), &cfg.PipelineCfg{
		ReferenceTime:      testReference,
		OrderSampleSize:    20,
		DiscountSampleSize: 3,
	})
}

func testCustomers() []domain.Customer {
	return []domain.Customer{
		{ID: 1, CreatedAt: time.Date(2023, 1, 10, 8, 0, 0, 0, time.UTC), Address: "Hà Nội"},
		{ID: 2, CreatedAt: time.Date(2023, 5, 2, 8, 0, 0, 0, time.UTC), Address: "Đà Nẵng"},
		{ID: 3, CreatedAt: time.Date(2024, 2, 20, 8, 0, 0, 0, time.UTC), Address: "TP HCM"},
	}
}

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()

	builder := NewCatalogBuilder(logger.NewSlogLogger())
	catalog, err := builder.Build(testSources(t), rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	return catalog
}

func TestRandomDate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	start := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		got := randomDate(rng, start, end)

		assert.False(t, got.Before(start))
		assert.False(t, got.After(end))
		// Время суток наследуется от начала интервала.
		assert.Equal(t, 9, got.Hour())
		assert.Equal(t, 30, got.Minute())
	}
}

func TestRandomDateDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	start := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, start, randomDate(rng, start, start))
	assert.Equal(t, start, randomDate(rng, start, start.AddDate(0, 0, -5)))
}

func TestResolveVariant(t *testing.T) {
	catalog := testCatalog(t)

	id := resolveVariant(catalog, 1, "Màu sắc: Đen")
	require.NotNil(t, id)
	assert.Equal(t, int64(20000000), catalog.PriceByVariantID[*id])

	// Лишние двоеточия внутри пары не мешают разрешению.
	id = resolveVariant(catalog, 1, "Màu sắc : ghi chú: Đen")
	require.NotNil(t, id)

	assert.Nil(t, resolveVariant(catalog, 1, "Màu sắc: Tím"))
	assert.Nil(t, resolveVariant(catalog, 999, "Màu sắc: Đen"))
	assert.Nil(t, resolveVariant(catalog, 1, ""))
	assert.Nil(t, resolveVariant(catalog, 1, "nan"))
	assert.Nil(t, resolveVariant(catalog, 1, "Đen"))
}

func TestDrawDiscountValue(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 50; i++ {
		v := drawDiscountValue(rng, domain.DiscountPercentage, 500, 1000)
		assert.True(t, v.GreaterThanOrEqual(decimal.NewFromFloat(0.05)), "rate %s", v)
		assert.True(t, v.LessThanOrEqual(decimal.NewFromFloat(0.30)), "rate %s", v)
	}

	for i := 0; i < 50; i++ {
		v := drawDiscountValue(rng, domain.DiscountFixedAmount, 500, 1000)
		assert.True(t, v.GreaterThanOrEqual(decimal.NewFromInt(700)), "price %s", v)
		assert.True(t, v.LessThan(decimal.NewFromInt(1000)), "price %s", v)
	}

	// Ни одна ставка не оставляет наценки — скидка вырождается в полную цену.
	v := drawDiscountValue(rng, domain.DiscountPercentage, 1000, 1000)
	assert.True(t, v.Equal(decimal.NewFromInt(1000)))
}

func TestPaymentAmount(t *testing.T) {
	orderDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	base := paymentAmount(1000, 3, orderDate, nil)
	assert.True(t, base.Equal(decimal.NewFromInt(3000)))

	active := &Voucher{
		Type:      domain.DiscountPercentage,
		Value:     decimal.NewFromFloat(0.1),
		StartDate: orderDate.AddDate(0, -1, 0),
		EndDate:   orderDate.AddDate(0, 1, 0),
	}
	assert.True(t, paymentAmount(1000, 3, orderDate, active).Equal(decimal.NewFromInt(2700)))

	fixed := &Voucher{
		Type:      domain.DiscountFixedAmount,
		Value:     decimal.NewFromInt(900),
		StartDate: orderDate.AddDate(0, -1, 0),
		EndDate:   orderDate.AddDate(0, 1, 0),
	}
	assert.True(t, paymentAmount(1000, 3, orderDate, fixed).Equal(decimal.NewFromInt(2100)))

	// Истёкший на дату заказа ваучер не применяется; будущий — применяется.
	expired := &Voucher{
		Type:      domain.DiscountPercentage,
		Value:     decimal.NewFromFloat(0.1),
		StartDate: orderDate.AddDate(0, -2, 0),
		EndDate:   orderDate.AddDate(0, -1, 0),
	}
	assert.True(t, paymentAmount(1000, 3, orderDate, expired).Equal(decimal.NewFromInt(3000)))

	upcoming := &Voucher{
		Type:      domain.DiscountPercentage,
		Value:     decimal.NewFromFloat(0.1),
		StartDate: orderDate.AddDate(0, 1, 0),
		EndDate:   orderDate.AddDate(0, 2, 0),
	}
	assert.True(t, paymentAmount(1000, 3, orderDate, upcoming).Equal(decimal.NewFromInt(2700)))
}

func feedbackRows() []domain.RawFeedbackRow {
	return []domain.RawFeedbackRow{
		{FeedbackID: 100, SourceProductID: 1, SourceCustomer: "nguyen_a", Rating: 5, Content: "Hàng tốt", Variant: "Màu: Đen"},
		{FeedbackID: 101, SourceProductID: 1, SourceCustomer: "nguyen_a", Rating: 4, Content: "Giao nhanh", Variant: ""},
		{FeedbackID: 102, SourceProductID: 999, SourceCustomer: "tran_b", Rating: 3, Content: "Tạm được", Variant: ""},
	}
}

func TestBuildFeedbacks(t *testing.T) {
	engine := testEngine()
	catalog := testCatalog(t)

	set, err := engine.BuildFeedbacks(catalog, feedbackRows(), testCustomers(), rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.Len(t, set.Feedbacks, 3)

	// Один исходный покупатель всегда отображается в одного нового.
	assert.Equal(t, set.Feedbacks[0].CustomerID, set.Feedbacks[1].CustomerID)

	// Разрешённая ссылка на продукт и вариант.
	require.NotNil(t, set.Feedbacks[0].ProductID)
	require.NotNil(t, set.Feedbacks[0].ProductVariantID)
	assert.Equal(t, catalog.ProductIDBySource[1], *set.Feedbacks[0].ProductID)

	// Неизвестный исходный продукт: строка сохранена с пустыми ссылками.
	assert.Nil(t, set.Feedbacks[2].ProductID)
	assert.Nil(t, set.Feedbacks[2].ProductVariantID)

	for _, fb := range set.Feedbacks {
		assert.False(t, fb.CreatedAt.After(testReference))
	}

	assert.Equal(t, set.Feedbacks[0].ID, set.BySourceID[100].ID)
}

func TestBuildFeedbacksDeterministic(t *testing.T) {
	engine := testEngine()
	catalog := testCatalog(t)

	first, err := engine.BuildFeedbacks(catalog, feedbackRows(), testCustomers(), rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	second, err := engine.BuildFeedbacks(catalog, feedbackRows(), testCustomers(), rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildFeedbacksEmptyPool(t *testing.T) {
	engine := testEngine()
	catalog := testCatalog(t)

	_, err := engine.BuildFeedbacks(catalog, feedbackRows(), nil, rand.New(rand.NewSource(3)))
	assert.ErrorIs(t, err, e.ErrEmptyIdentityPool)
}

func TestBuildResponses(t *testing.T) {
	engine := testEngine()
	catalog := testCatalog(t)
	rng := rand.New(rand.NewSource(3))

	set, err := engine.BuildFeedbacks(catalog, feedbackRows(), testCustomers(), rng)
	require.NoError(t, err)

	rows := []domain.RawFeedbackResponseRow{
		{FeedbackID: 100, Content: "Cảm ơn bạn đã mua hàng tại Tiki!"},
		{FeedbackID: 555, Content: "TIKI xin lỗi vì trải nghiệm chưa tốt"},
	}
	managers := []domain.Manager{{ID: 11}, {ID: 12}}

	responses, err := engine.BuildResponses(set, rows, managers, rng)
	require.NoError(t, err)
	require.Len(t, responses, 2)

	// Упоминания исходной площадки переписаны независимо от регистра.
	assert.Equal(t, "Cảm ơn bạn đã mua hàng tại PTIT-EShop!", responses[0].Comment)
	assert.Equal(t, "PTIT-EShop xin lỗi vì trải nghiệm chưa tốt", responses[1].Comment)

	// Ответ не раньше своего отзыва.
	require.NotNil(t, responses[0].FeedbackID)
	assert.Equal(t, set.BySourceID[100].ID, *responses[0].FeedbackID)
	assert.False(t, responses[0].CreatedAt.Before(set.BySourceID[100].CreatedAt))

	// Ответ на несуществующий отзыв сохраняется без ссылки.
	assert.Nil(t, responses[1].FeedbackID)
}

func TestBuildDiscounts(t *testing.T) {
	engine := testEngine()
	catalog := testCatalog(t)

	discounts, vouchers := engine.BuildDiscounts(catalog, rand.New(rand.NewSource(5)))
	require.Len(t, discounts, 3)
	require.Len(t, vouchers, 3)

	seen := make(map[string]struct{})
	for _, d := range discounts {
		assert.Regexp(t, `^PTIT-[A-Z0-9]{10}$`, d.Code)
		assert.Contains(t, voucherNames, d.Name)
		assert.False(t, d.EndDate.Before(d.StartDate))
		assert.Equal(t, domain.DiscountStatusAt(d.StartDate, d.EndDate, testReference), d.Status)

		// Выборка вариантов без повторений.
		_, dup := seen[d.ProductVariantID]
		assert.False(t, dup)
		seen[d.ProductVariantID] = struct{}{}

		v, ok := vouchers[d.ProductVariantID]
		require.True(t, ok)
		assert.Equal(t, d.Type, v.Type)
		assert.True(t, d.Value.Equal(v.Value))
	}
}

func TestBuildOrders(t *testing.T) {
	engine := testEngine()
	catalog := testCatalog(t)
	rng := rand.New(rand.NewSource(9))

	set, err := engine.BuildFeedbacks(catalog, feedbackRows(), testCustomers(), rng)
	require.NoError(t, err)

	managers := []domain.Manager{{ID: 21}}

	orders, items, histories, err := engine.BuildOrders(catalog, set, testCustomers(), managers, nil, rng)
	require.NoError(t, err)

	// По заказу на отзыв плюс выборка покупателей; позиция и запись истории
	// на каждый заказ.
	require.Len(t, orders, len(set.Feedbacks)+20)
	require.Len(t, items, len(orders))
	require.Len(t, histories, len(orders))

	// Заказы по отзывам: подтверждённая покупка.
	for i, fb := range set.Feedbacks {
		order := orders[i]

		assert.Equal(t, domain.OrderCompleted, order.Status)
		assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
		require.NotNil(t, order.PaymentDate)

		// Дата заказа за 1–3 дня до отзыва.
		lag := fb.CreatedAt.Sub(order.OrderDate)
		assert.GreaterOrEqual(t, lag, 24*time.Hour)
		assert.LessOrEqual(t, lag, 72*time.Hour)

		assert.Equal(t, fb.CustomerID, order.CustomerID)
	}

	for i, order := range orders {
		assert.Equal(t, order.ID, items[i].OrderID)
		assert.Equal(t, order.ID, histories[i].OrderID)

		assert.GreaterOrEqual(t, items[i].Quantity, int64(1))
		assert.LessOrEqual(t, items[i].Quantity, int64(5))
		assert.Equal(t, catalog.PriceByVariantID[items[i].ProductVariantID], items[i].UnitPrice)

		// Без ваучеров сумма оплаты равна цене позиции.
		expected := decimal.NewFromInt(items[i].UnitPrice).Mul(decimal.NewFromInt(items[i].Quantity))
		assert.True(t, order.PaymentAmount.Equal(expected))

		// Безналичная оплата — в день заказа.
		if order.PaymentMethod != domain.PaymentMethodCOD {
			require.NotNil(t, order.PaymentDate)
			assert.Equal(t, order.OrderDate, *order.PaymentDate)
		}

		// Замыкание машины состояний.
		switch order.Status {
		case domain.OrderRejected:
			assert.Contains(t, []domain.PaymentStatus{domain.PaymentCancelled, domain.PaymentRefunded}, order.PaymentStatus)
		case domain.OrderCompleted:
			assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
		}

		assert.Equal(t, order.Status, histories[i].NewStatus)
		assert.Equal(t, int64(21), histories[i].ManagerID)
	}
}

func TestBuildOrdersGuards(t *testing.T) {
	engine := testEngine()
	catalog := testCatalog(t)
	rng := rand.New(rand.NewSource(9))
	set := &FeedbackSet{BySourceID: map[int64]domain.Feedback{}}
	managers := []domain.Manager{{ID: 21}}

	_, _, _, err := engine.BuildOrders(catalog, set, nil, managers, nil, rng)
	assert.ErrorIs(t, err, e.ErrEmptyIdentityPool)

	_, _, _, err = engine.BuildOrders(catalog, set, testCustomers(), nil, nil, rng)
	assert.ErrorIs(t, err, e.ErrEmptyIdentityPool)

	empty := &domain.Catalog{}
	_, _, _, err = engine.BuildOrders(empty, set, testCustomers(), managers, nil, rng)
	assert.ErrorIs(t, err, e.ErrEmptyCatalog)
}

func TestDrawManageStatus(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	counts := make(map[domain.ManageStatus]int)
	for i := 0; i < 1000; i++ {
		counts[drawManageStatus(rng)]++
	}

	// При весах 0.01/0.01/0.01/0.97 подавляющее большинство — Completed.
	assert.Greater(t, counts[domain.ManageCompleted], 900)
	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 1000, total)
}

func TestDedupeFeedbackRows(t *testing.T) {
	rows := []domain.RawFeedbackRow{
		{FeedbackID: 1, SourceProductID: 1, SourceCustomer: "a", Rating: 5, Content: "ok"},
		{FeedbackID: 1, SourceProductID: 1, SourceCustomer: "a", Rating: 5, Content: "ok"},
		{FeedbackID: 1, SourceProductID: 1, SourceCustomer: "a", Rating: 4, Content: "ok"},
	}

	out := dedupeFeedbackRows(rows)
	assert.Len(t, out, 2)
}
