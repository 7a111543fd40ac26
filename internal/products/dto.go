package product

import (
	"github.com/shopspring/decimal"

	"github.com/salescope/salescope-backend/pkg/db/models"
	"github.com/salescope/salescope-backend/pkg/render"
)

// ImportProductInput is one product row in a bulk import request.
type ImportProductInput struct {
	Name  string          `json:"name" validate:"required,max=256"`
	Price decimal.Decimal `json:"price"`
}

// ImportInput holds the validated payload of a bulk import.
type ImportInput struct {
	Products []ImportProductInput `json:"products" validate:"required"`
}

// ProductDTO is the client-facing product representation.
type ProductDTO struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

func toDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     render.Amount(p.Price),
	}
}
