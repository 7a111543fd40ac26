package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/salescope/salescope-backend/pkg/db/models"
	"github.com/salescope/salescope-backend/pkg/render"
)

// SaleItemInput is one line item in a create/update request.
type SaleItemInput struct {
	ProductID int64           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SaleInput holds the validated payload of a sale create or full update.
// An absent or empty item list is valid and yields an amount of zero.
type SaleInput struct {
	Date  string          `json:"date" validate:"required"`
	Items []SaleItemInput `json:"items"`
}

// SaleItemDTO is the client-facing line item representation.
type SaleItemDTO struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// SaleDTO is the client-facing sale representation.
type SaleDTO struct {
	SaleID int64         `json:"sale_id"`
	Date   string        `json:"date"`
	Amount float64       `json:"amount"`
	Items  []SaleItemDTO `json:"items"`
}

// MetricsDTO carries the aggregates over an optionally filtered sale set.
// Totals are null, not zero, when the filtered set is empty.
type MetricsDTO struct {
	TotalSales   *float64           `json:"total_sales"`
	AverageSales *float64           `json:"average_sales"`
	SalesTrends  map[string]float64 `json:"sales_trends"`
}

func toDTO(saleID int64, date time.Time, amount decimal.Decimal, items []models.SaleItem) *SaleDTO {
	dto := &SaleDTO{
		SaleID: saleID,
		Date:   render.Date(date),
		Amount: render.Amount(amount),
		Items:  make([]SaleItemDTO, 0, len(items)),
	}
	for _, item := range items {
		dto.Items = append(dto.Items, SaleItemDTO{
			ProductID: item.ProductID,
			Quantity:  render.Quantity(item.Quantity),
		})
	}
	return dto
}
