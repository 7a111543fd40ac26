package models

import "github.com/shopspring/decimal"

// SaleItem ties a product to a sale. The item set of a sale is replaced
// wholesale on every update, so items carry no identity of their own
// beyond the (sale_id, product_id) pair.
type SaleItem struct {
	SaleID    int64           `gorm:"column:sale_id;primaryKey"`
	ProductID int64           `gorm:"column:product_id;primaryKey"`
	Quantity  decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
}

func (SaleItem) TableName() string {
	return "sale_item"
}
