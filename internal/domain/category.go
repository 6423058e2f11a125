package domain

import "github.com/DRSN-tech/eshop-etl/pkg/contenthash"

// Category описывает категорию единой таксономии.
// Идентификатор зависит только от имени: одна и та же категория в любом
// запуске получает один и тот же id.
type Category struct {
	ID   string
	Name string
}

func NewCategory(name string) Category {
	return Category{
		ID:   contenthash.Sum(name),
		Name: name,
	}
}
