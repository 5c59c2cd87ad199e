//go:build unit

package inventory_test

import (
	"testing"
	"time"

	"tool-rental/internal/domain/inventory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestRank(t *testing.T) {
	const a, b, c = int64(1), int64(2), int64(3)

	t.Run("busiest first, ties by id", func(t *testing.T) {
		got := inventory.Rank([]int64{b, c, a}, map[int64]int{a: 10, b: 3, c: 10})
		assert.Equal(t, []int64{a, c, b}, got)
	})

	t.Run("unused instances rank last", func(t *testing.T) {
		got := inventory.Rank([]int64{4, 2, 9}, map[int64]int{9: 1})
		assert.Equal(t, []int64{9, 2, 4}, got)
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := []int64{3, 1, 2}
		inventory.Rank(in, nil)
		assert.Equal(t, []int64{3, 1, 2}, in)
	})
}

func TestUsageDays(t *testing.T) {
	days := inventory.UsageDays([]inventory.Usage{
		{InstanceID: 1, Start: day(1), End: day(11)},
		{InstanceID: 1, Start: day(12), End: day(12)},
		{InstanceID: 2, Start: day(3), End: day(6)},
	})
	assert.Equal(t, map[int64]int{1: 11, 2: 3}, days)
}

func TestPeriod(t *testing.T) {
	_, err := inventory.NewPeriod(day(5), day(4))
	require.ErrorIs(t, err, inventory.ErrInvalidPeriod)

	p, err := inventory.NewPeriod(day(5), day(8))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Days())
	assert.True(t, p.Overlaps(day(8), day(9)))
	assert.True(t, p.Overlaps(day(1), day(5)))
	assert.False(t, p.Overlaps(day(9), day(10)))
	assert.False(t, p.Overlaps(day(1), day(4)))

	same, _ := inventory.NewPeriod(day(5), day(5))
	assert.Equal(t, 1, same.Days())
}

func TestReplacementValue(t *testing.T) {
	tool := &inventory.Tool{
		PurchaseCost: decimal.NewNullDecimal(decimal.NewFromInt(300)),
		CurrentValue: decimal.NewNullDecimal(decimal.Zero),
	}
	assert.True(t, decimal.NewFromInt(300).Equal(tool.ReplacementValue()))

	tool.CurrentValue = decimal.NewNullDecimal(decimal.NewFromInt(120))
	assert.True(t, decimal.NewFromInt(120).Equal(tool.ReplacementValue()))

	assert.True(t, (&inventory.Tool{}).ReplacementValue().IsZero())
}

func TestCertifiedThrough(t *testing.T) {
	inst := &inventory.Instance{}
	assert.True(t, inst.CertifiedThrough(day(10)))

	inst.RequiresCertification = true
	assert.False(t, inst.CertifiedThrough(day(10)))

	next := day(10)
	inst.NextCalibration = &next
	assert.True(t, inst.CertifiedThrough(day(10)))
	assert.False(t, inst.CertifiedThrough(day(11)))
}
