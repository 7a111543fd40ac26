package product

import (
	"context"

	"gorm.io/gorm"

	"github.com/salescope/salescope-backend/pkg/db"
	"github.com/salescope/salescope-backend/pkg/db/models"
)

// maxQueryArgs is the Postgres bind parameter ceiling for one statement.
const maxQueryArgs = 32767

// maxInsertBatch keeps a single bulk INSERT under the bind parameter
// ceiling (three bound columns per product row).
const maxInsertBatch = maxQueryArgs / 3

// Repository defines persistence operations for the product table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertProducts(ctx context.Context, products []models.Product) error
	OpenProductCursor(tx *gorm.DB, opts db.CursorOptions) (*db.Cursor[models.Product], error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) InsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&products, maxInsertBatch).Error
}

func (r *repository) OpenProductCursor(tx *gorm.DB, opts db.CursorOptions) (*db.Cursor[models.Product], error) {
	query := tx.Model(&models.Product{}).Order("product_id ASC")
	return db.OpenCursor[models.Product](tx, query, opts)
}
