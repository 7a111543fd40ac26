package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/salescope/salescope-backend/pkg/db"
	"github.com/salescope/salescope-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sales repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) InsertSaleHeader(ctx context.Context, date time.Time) (int64, error) {
	sale := models.Sale{
		Date:   date,
		Amount: decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(&sale).Error; err != nil {
		return 0, err
	}
	return sale.SaleID, nil
}

func (r *repository) FindSale(ctx context.Context, saleID int64) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) FindSaleItems(ctx context.Context, saleID int64) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("product_id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) DeleteSaleItems(ctx context.Context, saleID int64) error {
	return r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Delete(&models.SaleItem{}).Error
}

func (r *repository) FindProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) InsertSaleItem(ctx context.Context, item *models.SaleItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateSaleHeader writes the recomputed date and amount in one statement.
func (r *repository) UpdateSaleHeader(ctx context.Context, saleID int64, date time.Time, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("sale_id = ?", saleID).
		Updates(map[string]any{
			"date":   date,
			"amount": amount,
		}).Error
}

func (r *repository) Aggregate(ctx context.Context, rng DateRange) (*SaleAggregate, error) {
	var agg SaleAggregate
	query := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("SUM(amount) AS total_sales, AVG(amount) AS average_sales")
	err := rng.Apply(query).Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *repository) YearlyTotals(ctx context.Context, rng DateRange) ([]YearlyTotal, error) {
	var totals []YearlyTotal
	query := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("CAST(EXTRACT(YEAR FROM date) AS INTEGER) AS year, SUM(amount) AS total_sales").
		Group("year")
	err := rng.Apply(query).Order("year ASC").Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repository) OpenSaleRowCursor(tx *gorm.DB, rng DateRange, opts db.CursorOptions) (*db.Cursor[SaleRow], error) {
	query := tx.Model(&models.Sale{}).
		Select("sale.sale_id, sale.date, sale.amount, sale_item.product_id, sale_item.quantity").
		Joins("LEFT JOIN sale_item ON sale_item.sale_id = sale.sale_id").
		Order("sale.sale_id ASC, sale_item.product_id ASC")
	return db.OpenCursor[SaleRow](tx, rng.Apply(query), opts)
}
