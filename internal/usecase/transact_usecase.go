package usecase

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/eshop-etl/internal/cfg"
	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/internal/taxonomy"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	"github.com/DRSN-tech/eshop-etl/pkg/vnstr"
	"github.com/shopspring/decimal"
)

const (
	brandRewrite = "PTIT-EShop"

	discountCodePrefix  = "PTIT-"
	discountCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	discountCodeLength  = 10

	minDiscountRate = 5
	maxDiscountRate = 30
	minProfitMargin = 0.05

	maxOrderQuantity    = 5
	feedbackOrderMinLag = 1
	feedbackOrderMaxLag = 3
)

// brandPattern — упоминания исходной площадки в ответах менеджеров,
// переписываемые на собственный бренд.
var brandPattern = regexp.MustCompile(`(?i)tiki`)

var paymentMethods = []string{domain.PaymentMethodCOD, "Credit Card", "Bank Transfer", "PayPal"}

var previousStatuses = []domain.OrderStatus{
	domain.OrderPending, domain.OrderProcessing, domain.OrderCompleted, domain.OrderCancelled,
}

// manageStatusWeights — веса статусов обработки синтетического заказа.
// Порядок закреплён: Pending, Processing, Cancelled, Completed.
var manageStatusWeights = []struct {
	status domain.ManageStatus
	weight float64
}{
	{domain.ManagePending, 0.01},
	{domain.ManageProcessing, 0.01},
	{domain.ManageCancelled, 0.01},
	{domain.ManageCompleted, 0.97},
}

// voucherNames — пул названий скидок. Дубликат в списке намеренный:
// он удваивает вес этого названия при выборе.
var voucherNames = []string{
	"Giảm giá sinh nhật",
	"Giảm giá ngày lễ",
	"Giảm giá hot",
	"Giảm giá sốc",
	"Giảm giá cực mạnh",
	"Giảm giá lớn",
	"Giảm giá hấp dẫn",
	"Giảm giá cực chất",
	"Giảm giá không thể bỏ qua",
	"Giảm giá cực đã",
	"Giảm giá cực phê",
	"Giảm giá cực chất",
	"Giảm giá cực đỉnh",
	"Giảm giá cực chất lượng",
	"Giảm giá cực chất lượng cao",
}

var discountTypes = []domain.DiscountType{domain.DiscountPercentage, domain.DiscountFixedAmount}

// TransactionEngine порождает синтетические транзакционные сущности поверх
// собранного каталога: отзывы, ответы менеджеров, скидки и заказы.
// Вся случайность идёт из переданного rng, «сейчас» — ReferenceTime
// конфигурации, поэтому два запуска с одним seed дают байт-в-байт
// одинаковый выход.
type TransactionEngine struct {
	logger logger.Logger

	ref                time.Time
	orderSampleSize    int
	discountSampleSize int
}

func NewTransactionEngine(logger logger.Logger, pipeline *cfg.PipelineCfg) *TransactionEngine {
	return &TransactionEngine{
		logger:             logger,
		ref:                pipeline.ReferenceTime,
		orderSampleSize:    pipeline.OrderSampleSize,
		discountSampleSize: pipeline.DiscountSampleSize,
	}
}

// FeedbackSet — отзывы плюс таблица разрешения исходных идентификаторов,
// нужная ответам менеджеров и заказам.
type FeedbackSet struct {
	Feedbacks []domain.Feedback
	// BySourceID — первый отзыв каждого исходного id.
	BySourceID map[int64]domain.Feedback
}

// BuildFeedbacks переносит сырые отзывы на синтетических покупателей.
// Исходные покупатели отображаются на случайную выборку пула стабильно:
// один исходный покупатель — всегда один и тот же новый. Неразрешённые
// ссылки на продукт или вариант остаются пустыми, строка сохраняется.
func (t *TransactionEngine) BuildFeedbacks(catalog *domain.Catalog, rows []domain.RawFeedbackRow,
	customers []domain.Customer, rng *rand.Rand) (*FeedbackSet, error) {

	if len(customers) == 0 {
		return nil, e.Wrap("customers", e.ErrEmptyIdentityPool)
	}

	rows = dedupeFeedbackRows(rows)

	sample := sampleCustomers(customers, len(rows), rng)

	set := &FeedbackSet{
		Feedbacks:  make([]domain.Feedback, 0, len(rows)),
		BySourceID: make(map[int64]domain.Feedback, len(rows)),
	}

	oldToNew := make(map[string]int64)
	unresolved := 0

	for _, row := range rows {
		// Кандидат тянется из rng всегда, даже если исходный покупатель
		// уже отображён: стабильность отображения не должна смещать
		// последовательность генератора.
		candidate := sample[rng.Intn(len(sample))].ID
		customerID, ok := oldToNew[row.SourceCustomer]
		if !ok {
			customerID = candidate
			oldToNew[row.SourceCustomer] = customerID
		}

		var productID *string
		if id, ok := catalog.ProductIDBySource[row.SourceProductID]; ok {
			productID = &id
		}

		variantID := resolveVariant(catalog, row.SourceProductID, row.Variant)
		if productID == nil || (row.Variant != "" && variantID == nil) {
			unresolved++
		}

		createdAt := randomDate(rng, sample[rng.Intn(len(sample))].CreatedAt, t.ref)

		feedback := domain.NewFeedback(customerID, productID, variantID, row.Rating, row.Content, createdAt)
		set.Feedbacks = append(set.Feedbacks, feedback)

		if _, ok := set.BySourceID[row.FeedbackID]; !ok {
			set.BySourceID[row.FeedbackID] = feedback
		}
	}

	if unresolved > 0 {
		t.logger.Warnf("feedbacks: %d rows with %v kept with null references", unresolved, e.ErrUnresolvedReference)
	}

	return set, nil
}

// BuildResponses переносит ответы магазина на отзывы. Упоминания исходной
// площадки в тексте переписываются на собственный бренд.
func (t *TransactionEngine) BuildResponses(set *FeedbackSet, rows []domain.RawFeedbackResponseRow,
	serviceManagers []domain.Manager, rng *rand.Rand) ([]domain.FeedbackResponse, error) {

	if len(serviceManagers) == 0 {
		return nil, e.Wrap("service managers", e.ErrEmptyIdentityPool)
	}

	rows = dedupeResponseRows(rows)

	responses := make([]domain.FeedbackResponse, 0, len(rows))

	for _, row := range rows {
		managerID := serviceManagers[rng.Intn(len(serviceManagers))].ID

		var (
			feedbackID *string
			after      = t.ref
		)
		if fb, ok := set.BySourceID[row.FeedbackID]; ok {
			feedbackID = &fb.ID
			after = fb.CreatedAt
		}

		comment := brandPattern.ReplaceAllString(row.Content, brandRewrite)
		createdAt := randomDate(rng, after, t.ref)

		responses = append(responses, domain.NewFeedbackResponse(managerID, feedbackID, comment, createdAt))
	}

	return responses, nil
}

// BuildDiscounts назначает скидки случайной выборке вариантов без
// повторений. Возвращает и таблицу ваучеров по варианту — она нужна
// расчёту суммы оплаты заказов.
func (t *TransactionEngine) BuildDiscounts(catalog *domain.Catalog, rng *rand.Rand) ([]domain.Discount, map[string]Voucher) {
	n := t.discountSampleSize
	if n > len(catalog.Variants) {
		n = len(catalog.Variants)
	}

	discounts := make([]domain.Discount, 0, n)
	vouchers := make(map[string]Voucher, n)

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC)
	endLimit := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	for _, idx := range rng.Perm(len(catalog.Variants))[:n] {
		variant := catalog.Variants[idx]

		code := discountCodePrefix + randomCode(rng)
		name := voucherNames[rng.Intn(len(voucherNames))]
		typ := discountTypes[rng.Intn(len(discountTypes))]
		value := drawDiscountValue(rng, typ, variant.OriginalPrice, variant.Price)

		start := randomDate(rng, windowStart, windowEnd)
		end := randomDate(rng, start, endLimit)

		discounts = append(discounts, domain.NewDiscount(variant.ID, code, name, typ, value, start, end, t.ref))

		vouchers[variant.ID] = Voucher{
			Type:      typ,
			Value:     value,
			StartDate: start,
			EndDate:   end,
		}
	}

	return discounts, vouchers
}

// drawDiscountValue подбирает ставку 5–30%, оставляющую не меньше 5% наценки
// над закупочной ценой. Percentage хранит долю, FixedAmount — саму цену со
// скидкой. Если ни одна ставка не проходит, скидка вырождается в полную цену.
func drawDiscountValue(rng *rand.Rand, typ domain.DiscountType, originalPrice, price int64) decimal.Decimal {
	type option struct {
		rate  float64
		price float64
	}

	var valid []option
	for i := minDiscountRate; i <= maxDiscountRate; i++ {
		rate := float64(i) / 100
		discounted := float64(price) * (1 - rate)

		if discounted > float64(originalPrice)*(1+minProfitMargin) {
			valid = append(valid, option{rate: rate, price: discounted})
		}
	}

	if len(valid) == 0 {
		return decimal.NewFromInt(price)
	}

	pick := valid[rng.Intn(len(valid))]
	if typ == domain.DiscountPercentage {
		return decimal.NewFromFloat(pick.rate).Round(3)
	}

	return decimal.NewFromFloat(pick.price).Round(3)
}

func randomCode(rng *rand.Rand) string {
	var b strings.Builder
	b.Grow(discountCodeLength)
	for i := 0; i < discountCodeLength; i++ {
		b.WriteByte(discountCodeCharset[rng.Intn(len(discountCodeCharset))])
	}

	return b.String()
}

// orderSeed — одна будущая строка заказа до розыгрыша полей.
type orderSeed struct {
	customerID        int64
	address           string
	customerCreatedAt time.Time
	feedbackAt        *time.Time
	productID         *string
	variantID         string
}

// BuildOrders порождает заказы: по одному на каждый отзыв (подтверждённая
// покупка, принудительно Completed/Paid) плюс выборка покупателей с
// повторениями. Каждый заказ даёт ровно одну позицию и одну запись истории.
//
// rng потребляется тремя закреплёнными проходами: добор вариантов,
// затем розыгрыш полей каждой строки по порядку.
func (t *TransactionEngine) BuildOrders(catalog *domain.Catalog, set *FeedbackSet,
	customers []domain.Customer, productManagers []domain.Manager,
	vouchers map[string]Voucher, rng *rand.Rand) ([]domain.Order, []domain.OrderItem, []domain.OrderHistory, error) {

	if len(customers) == 0 {
		return nil, nil, nil, e.Wrap("customers", e.ErrEmptyIdentityPool)
	}
	if len(productManagers) == 0 {
		return nil, nil, nil, e.Wrap("product managers", e.ErrEmptyIdentityPool)
	}
	if len(catalog.Variants) == 0 {
		return nil, nil, nil, e.ErrEmptyCatalog
	}

	customerByID := make(map[int64]domain.Customer, len(customers))
	for _, c := range customers {
		customerByID[c.ID] = c
	}

	seeds := make([]orderSeed, 0, len(set.Feedbacks)+t.orderSampleSize)

	for _, fb := range set.Feedbacks {
		seed := orderSeed{
			customerID: fb.CustomerID,
			address:    customerByID[fb.CustomerID].Address,
			feedbackAt: &fb.CreatedAt,
			productID:  fb.ProductID,
		}
		if fb.ProductVariantID != nil {
			seed.variantID = *fb.ProductVariantID
		}
		seeds = append(seeds, seed)
	}

	for i := 0; i < t.orderSampleSize; i++ {
		c := customers[rng.Intn(len(customers))]
		seeds = append(seeds, orderSeed{
			customerID:        c.ID,
			address:           c.Address,
			customerCreatedAt: c.CreatedAt,
		})
	}

	// Добор вариантов: общий пул для строк без ссылки на продукт.
	variantPool := make([]string, t.orderSampleSize)
	for i := range variantPool {
		variantPool[i] = catalog.Variants[rng.Intn(len(catalog.Variants))].ID
	}

	for i := range seeds {
		if seeds[i].variantID != "" {
			continue
		}

		if seeds[i].productID != nil {
			if ids := catalog.VariantIDsByProduct[*seeds[i].productID]; len(ids) > 0 {
				seeds[i].variantID = ids[rng.Intn(len(ids))]
				continue
			}
		}

		seeds[i].variantID = variantPool[rng.Intn(len(variantPool))]
	}

	var (
		orders    = make([]domain.Order, 0, len(seeds))
		items     = make([]domain.OrderItem, 0, len(seeds))
		histories = make([]domain.OrderHistory, 0, len(seeds))
	)

	for _, seed := range seeds {
		orderDate := t.drawOrderDate(rng, seed)

		paymentMethod := paymentMethods[rng.Intn(len(paymentMethods))]

		var (
			manage      domain.ManageStatus
			orderStatus domain.OrderStatus
			payStatus   domain.PaymentStatus
		)
		if seed.feedbackAt != nil {
			// Отзыв подразумевает состоявшуюся покупку.
			manage = domain.ManageCompleted
			orderStatus = domain.OrderCompleted
			payStatus = domain.PaymentPaid
		} else {
			manage = drawManageStatus(rng)
			orderStatus = domain.OrderStatusFrom(manage, "")
			payStatus = domain.PaymentStatusFrom(paymentMethod, manage, orderStatus)
		}

		paymentDate := t.drawPaymentDate(rng, seed, paymentMethod, orderDate, orderStatus)

		quantity := int64(1 + rng.Intn(maxOrderQuantity))
		unitPrice := catalog.PriceByVariantID[seed.variantID]

		var voucher *Voucher
		if v, ok := vouchers[seed.variantID]; ok {
			voucher = &v
		}
		amount := paymentAmount(unitPrice, quantity, orderDate, voucher)

		managerID := productManagers[rng.Intn(len(productManagers))].ID

		var processingTime *time.Time
		if paymentDate != nil {
			pt := randomDate(rng, orderDate, *paymentDate)
			processingTime = &pt
		}

		previous := previousStatuses[rng.Intn(len(previousStatuses))]

		order := domain.NewOrder(seed.customerID, orderDate, seed.address, orderStatus,
			paymentMethod, paymentDate, payStatus, amount)

		orders = append(orders, order)
		items = append(items, domain.NewOrderItem(seed.variantID, order.ID, quantity, unitPrice, ""))
		histories = append(histories, domain.NewOrderHistory(managerID, order.ID, processingTime, previous, orderStatus))
	}

	return orders, items, histories, nil
}

// drawOrderDate: для заказа по отзыву — за 1–3 дня до отзыва, иначе
// случайная дата между регистрацией покупателя и опорным временем.
func (t *TransactionEngine) drawOrderDate(rng *rand.Rand, seed orderSeed) time.Time {
	if seed.feedbackAt != nil {
		lag := feedbackOrderMinLag + rng.Intn(feedbackOrderMaxLag-feedbackOrderMinLag+1)
		return seed.feedbackAt.AddDate(0, 0, -lag)
	}

	return randomDate(rng, seed.customerCreatedAt, t.ref)
}

// drawPaymentDate: безналичные оплачиваются в день заказа; наложенный
// платёж — случайной датой после заказа, но только если заказ завершён.
// Заказ по отзыву оплачен всегда.
func (t *TransactionEngine) drawPaymentDate(rng *rand.Rand, seed orderSeed,
	paymentMethod string, orderDate time.Time, status domain.OrderStatus) *time.Time {

	if seed.feedbackAt == nil {
		if paymentMethod == domain.PaymentMethodCOD && status == domain.OrderCompleted {
			d := randomDate(rng, orderDate, t.ref)
			return &d
		}
		if paymentMethod != domain.PaymentMethodCOD {
			return &orderDate
		}
		return nil
	}

	if paymentMethod == domain.PaymentMethodCOD {
		d := randomDate(rng, orderDate, t.ref)
		return &d
	}
	return &orderDate
}

func drawManageStatus(rng *rand.Rand) domain.ManageStatus {
	var total float64
	for _, w := range manageStatusWeights {
		total += w.weight
	}

	r := rng.Float64() * total
	for _, w := range manageStatusWeights {
		if r < w.weight {
			return w.status
		}
		r -= w.weight
	}

	return manageStatusWeights[len(manageStatusWeights)-1].status
}

// paymentAmount — сумма оплаты позиции с учётом ваучера варианта.
// Ваучер, истёкший на дату заказа, не применяется. FixedAmount хранит
// цену со скидкой, поэтому вычитается из суммы как есть.
func paymentAmount(unitPrice, quantity int64, orderDate time.Time, voucher *Voucher) decimal.Decimal {
	base := decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(quantity))

	if voucher == nil || domain.DiscountStatusAt(voucher.StartDate, voucher.EndDate, orderDate) == domain.DiscountExpired {
		return base
	}

	if voucher.Type == domain.DiscountPercentage {
		return base.Mul(decimal.NewFromInt(1).Sub(voucher.Value))
	}

	return base.Sub(voucher.Value)
}

// resolveVariant разрешает свободный текст опции из отзыва в id варианта
// тем же каноническим ключом, которым собирался каталог. Пары терпимы к
// лишним двоеточиям: атрибут — до первого, значение — после последнего.
func resolveVariant(catalog *domain.Catalog, sourceProductID int64, variantText string) *string {
	variantText = strings.TrimSpace(variantText)
	if variantText == "" || strings.EqualFold(variantText, "nan") {
		return nil
	}

	option := domain.Option{}
	for _, pair := range strings.Split(variantText, "$$") {
		colonFirst := strings.Index(pair, ":")
		colonLast := strings.LastIndex(pair, ":")
		if colonFirst < 0 {
			return nil
		}

		value := vnstr.PascalCase(strings.TrimSpace(pair[colonLast+1:]))
		attr := taxonomy.CanonicalAttribute(strings.TrimSpace(pair[:colonFirst]), value)

		option.Attrs = append(option.Attrs, attr)
		option.Values = append(option.Values, value)
	}

	id, ok := catalog.VariantIDByOption[domain.OptionKey{
		SourceProductID: sourceProductID,
		Pairs:           option.SortedPairs(),
	}]
	if !ok {
		return nil
	}

	return &id
}

// sampleCustomers — выборка без повторений размера не больше пула.
func sampleCustomers(customers []domain.Customer, n int, rng *rand.Rand) []domain.Customer {
	if n > len(customers) {
		n = len(customers)
	}
	if n == 0 {
		n = 1
	}

	sample := make([]domain.Customer, 0, n)
	for _, idx := range rng.Perm(len(customers))[:n] {
		sample = append(sample, customers[idx])
	}

	return sample
}

// randomDate — случайная дата между start и end с шагом в сутки;
// время суток наследуется от start. Вырожденный интервал даёт start.
func randomDate(rng *rand.Rand, start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}

	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, rng.Intn(days+1))
}

func dedupeFeedbackRows(rows []domain.RawFeedbackRow) []domain.RawFeedbackRow {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0:0]

	for _, row := range rows {
		key := strings.Join([]string{
			strconv.FormatInt(row.FeedbackID, 10),
			strconv.FormatInt(row.SourceProductID, 10),
			row.SourceCustomer,
			strconv.FormatFloat(row.Rating, 'f', -1, 64),
			row.Content, row.Variant, row.Time,
		}, "\x1f")

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}

	return out
}

func dedupeResponseRows(rows []domain.RawFeedbackResponseRow) []domain.RawFeedbackResponseRow {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0:0]

	for _, row := range rows {
		key := strconv.FormatInt(row.FeedbackID, 10) + "\x1f" + row.Content

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}

	return out
}
