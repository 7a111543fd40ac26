package product

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/salescope/salescope-backend/pkg/config"
	"github.com/salescope/salescope-backend/pkg/db"
	"github.com/salescope/salescope-backend/pkg/db/models"
	pkgerrors "github.com/salescope/salescope-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the product catalog operations.
type Service interface {
	Import(ctx context.Context, input ImportInput) error
	StreamProducts(ctx context.Context, fn func(record ProductDTO) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	cfg  config.APIConfig
}

// NewService constructs a product service instance.
func NewService(repo Repository, tx txRunner, cfg config.APIConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, cfg: cfg}, nil
}

func (s *service) Import(ctx context.Context, input ImportInput) error {
	if max := s.cfg.MaxProductsPerImport; max > 0 && len(input.Products) > max {
		return pkgerrors.New(pkgerrors.CodeValidation, "too many products in one import").
			WithField("products", fmt.Sprintf("must hold at most %d items", max))
	}

	rows := make([]models.Product, 0, len(input.Products))
	for i, p := range input.Products {
		if p.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithField(fmt.Sprintf("products.%d.price", i), "must not be negative")
		}
		rows = append(rows, models.Product{
			Name:  p.Name,
			Price: p.Price,
		})
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).InsertProducts(ctx, rows)
	})
}

// StreamProducts walks the full catalog inside one transaction, invoking
// fn once per product in product_id order. An error from fn aborts the
// walk and rolls the transaction back.
func (s *service) StreamProducts(ctx context.Context, fn func(record ProductDTO) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cursor, err := s.repo.OpenProductCursor(tx, db.CursorOptions{
			BatchSize: s.cfg.StreamBatchSize,
			Timeout:   s.cfg.StreamTimeout,
		})
		if err != nil {
			return err
		}
		return cursor.ForEach(func(record models.Product) error {
			return fn(toDTO(record))
		})
	})
}
