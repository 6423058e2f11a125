//go:generate goverter gen github.com/DRSN-tech/eshop-etl/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/DRSN-tech/eshop-etl/internal/usecase"
)

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertOutBoxStatus
type OutboxEventConverter interface {
	// goverter:map Table TableName
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	// goverter:map TableName Table
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertOutBoxStatus(s usecase.OutboxStatus) usecase.OutboxStatus {
	return s
}
