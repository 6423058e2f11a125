package domain

import "github.com/DRSN-tech/eshop-etl/pkg/contenthash"

// Product описывает продукт каталога. Идентификатор — хэш описательных
// полей, поэтому один и тот же продукт из двух исходных файлов
// схлопывается в одну запись.
type Product struct {
	ID            string
	CategoryID    string
	Name          string
	Description   string
	Specification string
	ImageURL      string
	Brand         string
}

func NewProduct(categoryID, name, description, specification, imageURL, brand string) Product {
	return Product{
		ID:            contenthash.Sum(categoryID, name, description, specification, imageURL, brand),
		CategoryID:    categoryID,
		Name:          name,
		Description:   description,
		Specification: specification,
		ImageURL:      imageURL,
		Brand:         brand,
	}
}
