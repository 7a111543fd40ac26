package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Rows are created through bulk import and
// never mutated afterwards.
type Product struct {
	ProductID int64           `gorm:"column:product_id;primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;size:256;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
}

func (Product) TableName() string {
	return "product"
}
