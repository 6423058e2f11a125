package minio

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/DRSN-tech/eshop-etl/internal/cfg"
	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/internal/taxonomy"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// Колонки каталожных выгрузок.
const (
	colID            = "Id"
	colName          = "Tên sản phẩm"
	colBrand         = "Thương hiệu"
	colCategory      = "Danh mục"
	colSpecification = "Thông số kỹ thuật"
	colVariant       = "Phiên bản"
	colDescription   = "Mô tả"
	colImageURL      = "Hình ảnh"
)

// Колонки выгрузок отзывов и ответов магазина.
const (
	colFeedbackID     = "feedback_id"
	colProductID      = "product_id"
	colCustomerID     = "customer_id"
	colRating         = "rating"
	colContent        = "content"
	colFeedbackOption = "variant"
	colTime           = "time"
)

// ExportRepo читает сырые CSV-выгрузки источников из MinIO потоково,
// строка за строкой.
type ExportRepo struct {
	mc     *minio.Client
	cfg    *cfg.MinIOCfg
	logger logger.Logger
}

func NewExportRepo(mc *minio.Client, cfg *cfg.MinIOCfg, logger logger.Logger) *ExportRepo {
	return &ExportRepo{
		mc:     mc,
		cfg:    cfg,
		logger: logger,
	}
}

// ProductRows читает каталожную выгрузку источника.
func (r *ExportRepo) ProductRows(ctx context.Context, src taxonomy.Source) ([]domain.RawProductRow, error) {
	if src.ProductFile == "" {
		return nil, nil
	}

	var rows []domain.RawProductRow

	err := r.readCSV(ctx, r.cfg.ProductPrefix+src.ProductFile, func(header headerIndex, record []string) {
		rows = append(rows, domain.RawProductRow{
			SourceID:      parseInt(header.get(record, colID)),
			Name:          header.get(record, colName),
			Brand:         header.get(record, colBrand),
			Category:      header.get(record, colCategory),
			Specification: header.get(record, colSpecification),
			VariantText:   header.get(record, colVariant),
			Description:   header.get(record, colDescription),
			ImageURL:      header.get(record, colImageURL),
		})
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return rows, nil
}

// FeedbackRows читает выгрузку отзывов источника.
func (r *ExportRepo) FeedbackRows(ctx context.Context, src taxonomy.Source) ([]domain.RawFeedbackRow, error) {
	if src.FeedbackFile == "" {
		return nil, nil
	}

	var rows []domain.RawFeedbackRow

	err := r.readCSV(ctx, r.cfg.FeedbackPrefix+src.FeedbackFile, func(header headerIndex, record []string) {
		rows = append(rows, domain.RawFeedbackRow{
			FeedbackID:      parseInt(header.get(record, colFeedbackID)),
			SourceProductID: parseInt(header.get(record, colProductID)),
			SourceCustomer:  header.get(record, colCustomerID),
			Rating:          parseFloat(header.get(record, colRating)),
			Content:         header.get(record, colContent),
			Variant:         header.get(record, colFeedbackOption),
			Time:            header.get(record, colTime),
		})
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return rows, nil
}

// ResponseRows читает выгрузку ответов магазина на отзывы.
func (r *ExportRepo) ResponseRows(ctx context.Context, src taxonomy.Source) ([]domain.RawFeedbackResponseRow, error) {
	if src.ResponseFile == "" {
		return nil, nil
	}

	var rows []domain.RawFeedbackResponseRow

	err := r.readCSV(ctx, r.cfg.ResponsePrefix+src.ResponseFile, func(header headerIndex, record []string) {
		rows = append(rows, domain.RawFeedbackResponseRow{
			FeedbackID: parseInt(header.get(record, colFeedbackID)),
			Content:    header.get(record, colContent),
		})
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return rows, nil
}

type headerIndex map[string]int

func (h headerIndex) get(record []string, column string) string {
	idx, ok := h[column]
	if !ok || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

// readCSV стримит объект из бакета и вызывает fn на каждую строку данных.
// Строки с неверным числом полей пропускаются с предупреждением.
func (r *ExportRepo) readCSV(ctx context.Context, key string, fn func(header headerIndex, record []string)) error {
	obj, err := r.mc.GetObject(ctx, r.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	reader := csv.NewReader(obj)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headerRecord, err := reader.Read()
	if err != nil {
		return err
	}

	header := make(headerIndex, len(headerRecord))
	for i, name := range headerRecord {
		header[strings.TrimSpace(name)] = i
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			r.logger.Warnf("object %s: line %d skipped: %v", key, line, err)
			continue
		}

		fn(header, record)
	}

	return nil
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}

	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return v
}
