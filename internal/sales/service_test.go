package sales

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/salescope/salescope-backend/pkg/config"
	"github.com/salescope/salescope-backend/pkg/db/models"
	pkgerrors "github.com/salescope/salescope-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, client := openTestDB(t)
	svc, err := NewService(NewRepository(conn), client, config.APIConfig{})
	require.NoError(t, err)
	// keep future-date checks stable regardless of wall clock
	svc.(*service).now = func() time.Time {
		return mustParseDate(t, "01.06.2024")
	}
	return svc, conn
}

func qty(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCreateComputesAmountFromItems(t *testing.T) {
	svc, conn := newTestService(t)
	a := mustCreateTestProduct(t, conn, "A", "150")
	b := mustCreateTestProduct(t, conn, "B", "200")
	c := mustCreateTestProduct(t, conn, "C", "30")

	sale, err := svc.Create(context.Background(), SaleInput{
		Date: "25.12.2020",
		Items: []SaleItemInput{
			{ProductID: a.ProductID, Quantity: qty("1")},
			{ProductID: b.ProductID, Quantity: qty("1")},
			{ProductID: c.ProductID, Quantity: qty("1")},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, sale.SaleID)
	assert.Equal(t, "25.12.2020", sale.Date)
	assert.Equal(t, 380.0, sale.Amount)
	assert.Len(t, sale.Items, 3)

	var persisted models.Sale
	require.NoError(t, conn.Where("sale_id = ?", sale.SaleID).First(&persisted).Error)
	assert.True(t, persisted.Amount.Equal(decimal.NewFromInt(380)))
}

func TestCreateWithFractionalQuantity(t *testing.T) {
	svc, conn := newTestService(t)
	bulk := mustCreateTestProduct(t, conn, "Bulk", "19.99")

	sale, err := svc.Create(context.Background(), SaleInput{
		Date: "01.03.2024",
		Items: []SaleItemInput{
			{ProductID: bulk.ProductID, Quantity: qty("2.5")},
		},
	})
	require.NoError(t, err)
	// 19.99 * 2.5 accumulated in decimal, converted to float only here
	assert.Equal(t, 49.975, sale.Amount)
}

func TestCreateWithEmptyItems(t *testing.T) {
	svc, _ := newTestService(t)

	sale, err := svc.Create(context.Background(), SaleInput{Date: "01.03.2024"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sale.Amount)
	assert.Empty(t, sale.Items)
}

func TestCreateUnknownProductRollsBack(t *testing.T) {
	svc, conn := newTestService(t)
	a := mustCreateTestProduct(t, conn, "A", "150")

	_, err := svc.Create(context.Background(), SaleInput{
		Date: "01.03.2024",
		Items: []SaleItemInput{
			{ProductID: a.ProductID, Quantity: qty("1")},
			{ProductID: a.ProductID + 999, Quantity: qty("1")},
		},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "product does not exist", typed.Message())

	// the whole transaction rolled back: no header, no items
	assert.Zero(t, countRows(t, conn, &models.Sale{}))
	assert.Zero(t, countRows(t, conn, &models.SaleItem{}))
}

func TestCreateRejectsFutureDate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), SaleInput{Date: "02.06.2024"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Fields(), "date")
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, conn := newTestService(t)
	a := mustCreateTestProduct(t, conn, "A", "10")

	_, err := svc.Create(context.Background(), SaleInput{Date: "2024-03-01"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "not a valid date", typed.Message())

	_, err = svc.Create(context.Background(), SaleInput{
		Date:  "01.03.2024",
		Items: []SaleItemInput{{ProductID: a.ProductID, Quantity: qty("0")}},
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Fields(), "items.0.quantity")

	_, err = svc.Create(context.Background(), SaleInput{
		Date:  "01.03.2024",
		Items: []SaleItemInput{{Quantity: qty("1")}},
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Contains(t, typed.Fields(), "items.0.product_id")
}

func TestCreateRejectsDuplicateProduct(t *testing.T) {
	svc, conn := newTestService(t)
	a := mustCreateTestProduct(t, conn, "A", "10")

	_, err := svc.Create(context.Background(), SaleInput{
		Date: "01.03.2024",
		Items: []SaleItemInput{
			{ProductID: a.ProductID, Quantity: qty("1")},
			{ProductID: a.ProductID, Quantity: qty("2")},
		},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Zero(t, countRows(t, conn, &models.Sale{}))
}

func TestUpdateReplacesItemsAndRecomputes(t *testing.T) {
	svc, conn := newTestService(t)
	a := mustCreateTestProduct(t, conn, "A", "150")
	b := mustCreateTestProduct(t, conn, "B", "200")

	created, err := svc.Create(context.Background(), SaleInput{
		Date:  "25.12.2020",
		Items: []SaleItemInput{{ProductID: a.ProductID, Quantity: qty("1")}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.SaleID, SaleInput{
		Date:  "26.12.2020",
		Items: []SaleItemInput{{ProductID: b.ProductID, Quantity: qty("3")}},
	})
	require.NoError(t, err)
	assert.Equal(t, created.SaleID, updated.SaleID)
	assert.Equal(t, "26.12.2020", updated.Date)
	assert.Equal(t, 600.0, updated.Amount)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, b.ProductID, updated.Items[0].ProductID)

	// the old item set is gone
	assert.EqualValues(t, 1, countRows(t, conn, &models.SaleItem{}))
}

func TestUpdateUnknownSale(t *testing.T) {
	svc, conn := newTestService(t)

	_, err := svc.Update(context.Background(), 42, SaleInput{Date: "01.03.2024"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "sale not found", typed.Message())
	assert.Zero(t, countRows(t, conn, &models.Sale{}))
}

func TestUpdateUnknownProductLeavesSaleIntact(t *testing.T) {
	svc, conn := newTestService(t)
	a := mustCreateTestProduct(t, conn, "A", "150")

	created, err := svc.Create(context.Background(), SaleInput{
		Date:  "25.12.2020",
		Items: []SaleItemInput{{ProductID: a.ProductID, Quantity: qty("1")}},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.SaleID, SaleInput{
		Date:  "26.12.2020",
		Items: []SaleItemInput{{ProductID: a.ProductID + 999, Quantity: qty("1")}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// rollback restored the previous state, delete included
	got, err := svc.Get(context.Background(), created.SaleID)
	require.NoError(t, err)
	assert.Equal(t, "25.12.2020", got.Date)
	assert.Equal(t, 150.0, got.Amount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, a.ProductID, got.Items[0].ProductID)
}

func TestGetUnknownSale(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), 7)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func collectSales(t *testing.T, svc Service, rng DateRange) []SaleDTO {
	t.Helper()
	var out []SaleDTO
	err := svc.StreamSales(context.Background(), rng, func(record SaleDTO) error {
		out = append(out, record)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestStreamSalesWithDateFilter(t *testing.T) {
	svc, conn := newTestService(t)
	a := mustCreateTestProduct(t, conn, "A", "150")

	for _, date := range []string{"25.12.2020", "25.12.2021", "25.12.2022"} {
		_, err := svc.Create(context.Background(), SaleInput{
			Date:  date,
			Items: []SaleItemInput{{ProductID: a.ProductID, Quantity: qty("1")}},
		})
		require.NoError(t, err)
	}
	// one sale without items
	empty, err := svc.Create(context.Background(), SaleInput{Date: "25.12.2023"})
	require.NoError(t, err)

	all := collectSales(t, svc, DateRange{})
	require.Len(t, all, 4)
	assert.Equal(t, "25.12.2020", all[0].Date)
	assert.Equal(t, empty.SaleID, all[3].SaleID)
	assert.Empty(t, all[3].Items)
	require.Len(t, all[0].Items, 1)
	assert.Equal(t, 150.0, all[0].Amount)

	start := mustParseDate(t, "25.12.2021")
	filtered := collectSales(t, svc, DateRange{Start: &start})
	require.Len(t, filtered, 3)
	assert.Equal(t, "25.12.2021", filtered[0].Date)

	end := mustParseDate(t, "25.12.2021")
	bounded := collectSales(t, svc, DateRange{Start: &start, End: &end})
	require.Len(t, bounded, 1)
	assert.Equal(t, "25.12.2021", bounded[0].Date)
}

func TestStreamSalesCallbackErrorRollsBack(t *testing.T) {
	svc, conn := newTestService(t)
	a := mustCreateTestProduct(t, conn, "A", "150")
	_, err := svc.Create(context.Background(), SaleInput{
		Date:  "25.12.2020",
		Items: []SaleItemInput{{ProductID: a.ProductID, Quantity: qty("1")}},
	})
	require.NoError(t, err)

	err = svc.StreamSales(context.Background(), DateRange{}, func(SaleDTO) error {
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRepoAggregate(t *testing.T) {
	svc, conn := newTestService(t)
	repo := NewRepository(conn)

	agg, err := repo.Aggregate(context.Background(), DateRange{})
	require.NoError(t, err)
	assert.False(t, agg.TotalSales.Valid)
	assert.False(t, agg.AverageSales.Valid)

	a := mustCreateTestProduct(t, conn, "A", "100")
	for _, q := range []string{"1", "3"} {
		_, err := svc.Create(context.Background(), SaleInput{
			Date:  "25.12.2020",
			Items: []SaleItemInput{{ProductID: a.ProductID, Quantity: qty(q)}},
		})
		require.NoError(t, err)
	}

	agg, err = repo.Aggregate(context.Background(), DateRange{})
	require.NoError(t, err)
	require.True(t, agg.TotalSales.Valid)
	require.True(t, agg.AverageSales.Valid)
	assert.True(t, agg.TotalSales.Decimal.Equal(decimal.NewFromInt(400)))
	assert.True(t, agg.AverageSales.Decimal.Equal(decimal.NewFromInt(200)))
}
