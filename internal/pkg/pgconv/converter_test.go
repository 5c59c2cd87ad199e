//go:build unit

package pgconv_test

import (
	"testing"
	"time"

	"tool-rental/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumeric(t *testing.T) {
	d := decimal.RequireFromString("1234.56")
	got, err := pgconv.DecimalFromNumeric(pgconv.NumericFromDecimal(d))
	require.NoError(t, err)
	assert.True(t, d.Equal(got))

	zero, err := pgconv.DecimalFromNumeric(pgtype.Numeric{})
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	ptr, err := pgconv.DecimalPtrFromNumeric(pgtype.Numeric{})
	require.NoError(t, err)
	assert.Nil(t, ptr)

	_, err = pgconv.DecimalFromNumeric(pgtype.Numeric{NaN: true, Valid: true})
	require.ErrorIs(t, err, pgconv.ErrInvalidNumericValue)
}

func TestDateFromPgtype(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	got := pgconv.DateFromPgtype(pgtype.Date{Time: time.Date(2026, 3, 2, 0, 0, 0, 0, loc), Valid: true})
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got)
	assert.Nil(t, pgconv.DatePtrFromPgtype(pgtype.Date{}))
}
