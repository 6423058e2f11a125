package domain

// RawProductRow — строка исходного каталожного файла одной категории.
// Имена колонок источника: Id, Tên sản phẩm, Thương hiệu, Danh mục,
// Thông số kỹ thuật, Phiên bản, Mô tả, Hình ảnh.
type RawProductRow struct {
	SourceID      int64
	Name          string
	Brand         string
	Category      string
	Specification string
	VariantText   string
	Description   string
	ImageURL      string
}

// RawFeedbackRow — строка исходного файла отзывов.
type RawFeedbackRow struct {
	FeedbackID      int64
	SourceProductID int64
	SourceCustomer  string
	Rating          float64
	Content         string
	Variant         string
	Time            string
}

// RawFeedbackResponseRow — строка исходного файла ответов магазина на отзывы.
type RawFeedbackResponseRow struct {
	FeedbackID int64
	Content    string
}
