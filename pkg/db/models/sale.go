package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a recorded sale. Amount is derived from the item set and a
// snapshot of product prices; it is never taken from the client.
type Sale struct {
	SaleID int64           `gorm:"column:sale_id;primaryKey;autoIncrement"`
	Date   time.Time       `gorm:"column:date;type:date;not null"`
	Amount decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Items  []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (Sale) TableName() string {
	return "sale"
}
