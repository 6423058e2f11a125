package domain

import (
	"time"

	"github.com/DRSN-tech/eshop-etl/pkg/contenthash"
)

// Feedback — отзыв покупателя. Ссылки на продукт/вариант могут быть nil,
// если свободный текст опции в отзыве не совпал ни с одной разобранной
// опцией каталога: строка при этом сохраняется.
type Feedback struct {
	ID               string
	CustomerID       int64
	ProductID        *string
	ProductVariantID *string
	Rating           float64
	Comment          string
	CreatedAt        time.Time
}

func NewFeedback(customerID int64, productID, productVariantID *string, rating float64, comment string, createdAt time.Time) Feedback {
	return Feedback{
		ID: contenthash.Sum(
			contenthash.Int(customerID),
			contenthash.NullString(productID),
			contenthash.NullString(productVariantID),
			contenthash.Float(rating),
			comment,
			contenthash.Time(createdAt),
		),
		CustomerID:       customerID,
		ProductID:        productID,
		ProductVariantID: productVariantID,
		Rating:           rating,
		Comment:          comment,
		CreatedAt:        createdAt,
	}
}

// FeedbackResponse — ответ менеджера на отзыв.
// Инвариант: CreatedAt не раньше CreatedAt самого отзыва.
type FeedbackResponse struct {
	ID         string
	ManagerID  int64
	FeedbackID *string
	Comment    string
	CreatedAt  time.Time
}

func NewFeedbackResponse(managerID int64, feedbackID *string, comment string, createdAt time.Time) FeedbackResponse {
	return FeedbackResponse{
		ID: contenthash.Sum(
			contenthash.Int(managerID),
			contenthash.NullString(feedbackID),
			comment,
			contenthash.Time(createdAt),
		),
		ManagerID:  managerID,
		FeedbackID: feedbackID,
		Comment:    comment,
		CreatedAt:  createdAt,
	}
}
