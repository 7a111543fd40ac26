package render

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	dates := []string{"25.12.2020", "01.01.2023", "29.02.2024", "31.12.1999"}
	for _, raw := range dates {
		parsed, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, Date(parsed))
	}
}

func TestParseDateRejectsOtherFormats(t *testing.T) {
	for _, raw := range []string{"2020-12-25", "12/25/2020", "01-01-2021", "25.13.2020", "", "yesterday"} {
		_, err := ParseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestAmountConversion(t *testing.T) {
	assert.Equal(t, 380.0, Amount(decimal.NewFromInt(380)))
	assert.Equal(t, 190.5, Amount(decimal.RequireFromString("190.50")))
}

func TestNullableAmountPreservesNull(t *testing.T) {
	assert.Nil(t, NullableAmount(nil))

	d := decimal.RequireFromString("30.00")
	got := NullableAmount(&d)
	require.NotNil(t, got)
	assert.Equal(t, 30.0, *got)
}

func TestQuantityFractional(t *testing.T) {
	assert.Equal(t, 1.5, Quantity(decimal.RequireFromString("1.500")))
}

func TestDateKeepsCalendarDateOnly(t *testing.T) {
	loc := time.FixedZone("X", 5*3600)
	d := time.Date(2022, 12, 25, 23, 30, 0, 0, loc)
	assert.Equal(t, "25.12.2022", Date(d))
}
