package sales

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/salescope/salescope-backend/pkg/db"
	"github.com/salescope/salescope-backend/pkg/db/models"
)

// SaleRow is one row of the flattened sale/item join used by the
// streaming list. Sales without items surface once with null item
// columns; sales with items surface once per item.
type SaleRow struct {
	SaleID    int64               `gorm:"column:sale_id"`
	Date      time.Time           `gorm:"column:date"`
	Amount    decimal.Decimal     `gorm:"column:amount"`
	ProductID sql.NullInt64       `gorm:"column:product_id"`
	Quantity  decimal.NullDecimal `gorm:"column:quantity"`
}

// SaleAggregate carries the sum/avg pair over a filtered sale set.
// Both are null over an empty set.
type SaleAggregate struct {
	TotalSales   decimal.NullDecimal `gorm:"column:total_sales"`
	AverageSales decimal.NullDecimal `gorm:"column:average_sales"`
}

// YearlyTotal is one year bucket of the sales trends aggregate.
type YearlyTotal struct {
	Year       int             `gorm:"column:year"`
	TotalSales decimal.Decimal `gorm:"column:total_sales"`
}

// Repository defines persistence operations for the sale tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertSaleHeader(ctx context.Context, date time.Time) (int64, error)
	FindSale(ctx context.Context, saleID int64) (*models.Sale, error)
	FindSaleItems(ctx context.Context, saleID int64) ([]models.SaleItem, error)
	DeleteSaleItems(ctx context.Context, saleID int64) error
	FindProduct(ctx context.Context, productID int64) (*models.Product, error)
	InsertSaleItem(ctx context.Context, item *models.SaleItem) error
	UpdateSaleHeader(ctx context.Context, saleID int64, date time.Time, amount decimal.Decimal) error
	Aggregate(ctx context.Context, rng DateRange) (*SaleAggregate, error)
	YearlyTotals(ctx context.Context, rng DateRange) ([]YearlyTotal, error)
	OpenSaleRowCursor(tx *gorm.DB, rng DateRange, opts db.CursorOptions) (*db.Cursor[SaleRow], error)
}
