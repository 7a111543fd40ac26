package sales

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/salescope/salescope-backend/pkg/config"
	"github.com/salescope/salescope-backend/pkg/db"
	"github.com/salescope/salescope-backend/pkg/db/models"
	pkgerrors "github.com/salescope/salescope-backend/pkg/errors"
	"github.com/salescope/salescope-backend/pkg/render"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the sale recording and reporting operations.
type Service interface {
	Create(ctx context.Context, input SaleInput) (*SaleDTO, error)
	Update(ctx context.Context, saleID int64, input SaleInput) (*SaleDTO, error)
	Get(ctx context.Context, saleID int64) (*SaleDTO, error)
	StreamSales(ctx context.Context, rng DateRange, fn func(record SaleDTO) error) error
	Metrics(ctx context.Context, rng DateRange) (*MetricsDTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
	cfg  config.APIConfig
	now  func() time.Time
}

// NewService constructs a sales service instance.
func NewService(repo Repository, tx txRunner, cfg config.APIConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo: repo,
		tx:   tx,
		cfg:  cfg,
		now:  time.Now,
	}, nil
}

// Create records a new sale. The header is inserted first with an
// amount of zero to obtain the sale_id, then the item set and the
// recomputed amount are written by the replacement procedure. All of it
// commits or rolls back as one transaction.
func (s *service) Create(ctx context.Context, input SaleInput) (*SaleDTO, error) {
	date, err := s.parseInput(input)
	if err != nil {
		return nil, err
	}

	var dto *SaleDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		saleID, err := repo.InsertSaleHeader(ctx, date)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert sale header")
		}
		sale, err := s.replaceItems(ctx, repo, saleID, date, input.Items)
		if err != nil {
			return err
		}
		dto = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Update fully replaces the item set and date of an existing sale.
func (s *service) Update(ctx context.Context, saleID int64, input SaleInput) (*SaleDTO, error) {
	date, err := s.parseInput(input)
	if err != nil {
		return nil, err
	}

	var dto *SaleDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindSale(ctx, saleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sale")
		}
		sale, err := s.replaceItems(ctx, repo, saleID, date, input.Items)
		if err != nil {
			return err
		}
		dto = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Get(ctx context.Context, saleID int64) (*SaleDTO, error) {
	sale, err := s.repo.FindSale(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sale")
	}
	items, err := s.repo.FindSaleItems(ctx, saleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sale items")
	}
	return toDTO(sale.SaleID, sale.Date, sale.Amount, items), nil
}

// StreamSales walks the filtered sales, items attached, inside one
// transaction, invoking fn once per sale in sale_id order. An error
// from fn aborts the walk and rolls the transaction back.
func (s *service) StreamSales(ctx context.Context, rng DateRange, fn func(record SaleDTO) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cursor, err := s.repo.OpenSaleRowCursor(tx, rng, db.CursorOptions{
			BatchSize: s.cfg.StreamBatchSize,
			Timeout:   s.cfg.StreamTimeout,
		})
		if err != nil {
			return err
		}

		// The join yields one row per item, adjacent per sale; group
		// runs of the same sale_id into one record.
		var current *SaleDTO
		err = cursor.ForEach(func(row SaleRow) error {
			if current != nil && current.SaleID != row.SaleID {
				if err := fn(*current); err != nil {
					return err
				}
				current = nil
			}
			if current == nil {
				current = &SaleDTO{
					SaleID: row.SaleID,
					Date:   render.Date(row.Date),
					Amount: render.Amount(row.Amount),
					Items:  []SaleItemDTO{},
				}
			}
			if row.ProductID.Valid {
				current.Items = append(current.Items, SaleItemDTO{
					ProductID: row.ProductID.Int64,
					Quantity:  render.Quantity(row.Quantity.Decimal),
				})
			}
			return nil
		})
		if err != nil {
			return err
		}
		if current != nil {
			return fn(*current)
		}
		return nil
	})
}

// Metrics computes sum, per-sale average, and per-year totals over the
// filtered sale set. The average comes from its own aggregate rather
// than total divided by count. Years without sales are omitted.
func (s *service) Metrics(ctx context.Context, rng DateRange) (*MetricsDTO, error) {
	agg, err := s.repo.Aggregate(ctx, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate sales")
	}
	totals, err := s.repo.YearlyTotals(ctx, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate sales trends")
	}

	trends := make(map[string]float64, len(totals))
	for _, total := range totals {
		trends[strconv.Itoa(total.Year)] = render.Amount(total.TotalSales)
	}

	dto := &MetricsDTO{SalesTrends: trends}
	if agg.TotalSales.Valid {
		dto.TotalSales = render.NullableAmount(&agg.TotalSales.Decimal)
	}
	if agg.AverageSales.Valid {
		dto.AverageSales = render.NullableAmount(&agg.AverageSales.Decimal)
	}
	return dto, nil
}

// replaceItems runs the item-replacement procedure: delete the existing
// item set, re-insert from input in order while accumulating the amount
// in exact decimal arithmetic, then write date and amount back to the
// header in a single statement. Must run inside the caller's transaction.
func (s *service) replaceItems(ctx context.Context, repo Repository, saleID int64, date time.Time, items []SaleItemInput) (*SaleDTO, error) {
	if err := repo.DeleteSaleItems(ctx, saleID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete sale items")
	}

	amount := decimal.Zero
	inserted := make([]models.SaleItem, 0, len(items))
	for _, item := range items {
		product, err := repo.FindProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		amount = amount.Add(product.Price.Mul(item.Quantity))

		row := models.SaleItem{
			SaleID:    saleID,
			ProductID: product.ProductID,
			Quantity:  item.Quantity,
		}
		if err := repo.InsertSaleItem(ctx, &row); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in items").
					WithField("items", fmt.Sprintf("product %d appears more than once", item.ProductID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert sale item")
		}
		inserted = append(inserted, row)
	}

	if err := repo.UpdateSaleHeader(ctx, saleID, date, amount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update sale header")
	}

	return toDTO(saleID, date, amount, inserted), nil
}

func (s *service) parseInput(input SaleInput) (time.Time, error) {
	date, err := render.ParseDate(input.Date)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "not a valid date").
			WithField("date", "not a valid date")
	}
	if date.After(s.now()) {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must not be in the future").
			WithField("date", "must not be in the future")
	}
	for i, item := range input.Items {
		if item.ProductID <= 0 {
			return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithField(fmt.Sprintf("items.%d.product_id", i), "is required")
		}
		if !item.Quantity.IsPositive() {
			return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithField(fmt.Sprintf("items.%d.quantity", i), "must be greater than 0")
		}
	}
	return date, nil
}
