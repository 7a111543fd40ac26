package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/salescope/salescope-backend/pkg/errors"
)

func TestParseDateRange(t *testing.T) {
	rng, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.Nil(t, rng.Start)
	assert.Nil(t, rng.End)

	rng, err = ParseDateRange("25.12.2021", "")
	require.NoError(t, err)
	require.NotNil(t, rng.Start)
	assert.Equal(t, mustParseDate(t, "25.12.2021"), *rng.Start)
	assert.Nil(t, rng.End)

	rng, err = ParseDateRange("25.12.2021", "31.12.2021")
	require.NoError(t, err)
	require.NotNil(t, rng.End)
	assert.Equal(t, mustParseDate(t, "31.12.2021"), *rng.End)
}

func TestParseDateRangeEndWithoutStart(t *testing.T) {
	_, err := ParseDateRange("", "25.12.2021")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Fields(), "start_date")
}

func TestParseDateRangeBadFormat(t *testing.T) {
	for _, value := range []string{"25-12.2021", "2021-12-25", "12.25.2021", "garbage"} {
		_, err := ParseDateRange(value, "")
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "start %q should be rejected", value)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		assert.Equal(t, "not a valid date", typed.Message())

		_, err = ParseDateRange("25.12.2021", value)
		typed = pkgerrors.As(err)
		require.NotNil(t, typed, "end %q should be rejected", value)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}
