//go:build unit

package rental_test

import (
	"testing"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowAll(int64, int64) error { return nil }

func TestMarkItems(t *testing.T) {
	operator := int64(12)

	t.Run("bound line goes straight to picked up and activates the rental", func(t *testing.T) {
		r := reservedRental(builder.BoundLine(1, 1, 501, "10"))

		fx, err := r.MarkItems([]rental.PickMark{{LineID: 1, PickedQuantity: 1}}, allowAll, &operator, now)
		require.NoError(t, err)

		assert.Equal(t, rental.LinePickedUp, r.Line(1).State())
		assert.Equal(t, 1, r.Line(1).Quantity)
		assert.Equal(t, []rental.InstanceChange{{InstanceID: 501, Status: inventory.InstanceInRental}}, fx.Instances)
		assert.Equal(t, rental.StatusActive, r.Status)
		require.NotNil(t, r.ActualStart)
		assert.Equal(t, builder.Date(2026, 3, 2), *r.ActualStart)
		assert.Equal(t, 1, r.InvoiceableQuantity())
	})

	t.Run("unbound line splits into assigned and untracked lines", func(t *testing.T) {
		r := reservedRental(builder.UnboundLine(1, 1, 5, rental.LinePendingPickup, "10"))
		var checked []int64
		check := func(toolID, instanceID int64) error {
			assert.Equal(t, int64(1), toolID)
			checked = append(checked, instanceID)
			return nil
		}

		fx, err := r.MarkItems([]rental.PickMark{{LineID: 1, PickedQuantity: 3, InstanceIDs: []int64{601, 602}}}, check, &operator, now)
		require.NoError(t, err)

		assert.Equal(t, []int64{601, 602}, checked)
		assert.Len(t, fx.Instances, 2)
		source := r.Line(1)
		assert.Equal(t, 2, source.Quantity)
		assert.Equal(t, rental.LinePendingPickup, source.State())

		require.Len(t, r.Items, 4)
		assert.Equal(t, int64(601), *r.Items[1].InstanceID)
		assert.Equal(t, rental.LinePickedUp, r.Items[1].State())
		assert.Equal(t, "ASSIGNED FROM LINE 1", r.Items[1].CheckoutNotes)
		assert.Nil(t, r.Items[3].InstanceID)
		assert.Equal(t, 1, r.Items[3].Quantity)
		assert.Equal(t, "PICKED WITHOUT INSTANCE ID FROM LINE 1", r.Items[3].CheckoutNotes)
		assert.Equal(t, 3, r.InvoiceableQuantity())
	})

	t.Run("picking the rest fulfils the source", func(t *testing.T) {
		r := reservedRental(builder.UnboundLine(1, 1, 2, rental.LinePendingPickup, "10"))
		_, err := r.MarkItems([]rental.PickMark{{LineID: 1, InstanceIDs: []int64{601, 602}}}, allowAll, &operator, now)
		require.NoError(t, err)
		assert.Equal(t, 0, r.Line(1).Quantity)
		assert.Equal(t, rental.LineFulfilled, r.Line(1).State())
	})

	t.Run("failures", func(t *testing.T) {
		cases := []struct {
			name  string
			items []*rental.LineItem
			marks []rental.PickMark
			errIs error
		}{
			{
				name:  "unknown line",
				items: []*rental.LineItem{builder.UnboundLine(1, 1, 2, rental.LinePendingPickup, "10")},
				marks: []rental.PickMark{{LineID: 9, PickedQuantity: 1}},
				errIs: rental.ErrLineNotFound,
			},
			{
				name:  "nothing left",
				items: []*rental.LineItem{builder.UnboundLine(1, 1, 0, rental.LineSuperseded, "10")},
				marks: []rental.PickMark{{LineID: 1, PickedQuantity: 1}},
				errIs: rental.ErrNoRemainingQuantity,
			},
			{
				name:  "zero picked",
				items: []*rental.LineItem{builder.UnboundLine(1, 1, 2, rental.LinePendingPickup, "10")},
				marks: []rental.PickMark{{LineID: 1, PickedQuantity: -2}},
				errIs: rental.ErrInvalidPickedQuantity,
			},
			{
				name:  "more than remaining",
				items: []*rental.LineItem{builder.UnboundLine(1, 1, 2, rental.LinePendingPickup, "10")},
				marks: []rental.PickMark{{LineID: 1, PickedQuantity: 3}},
				errIs: rental.ErrQuantityExceedsRemaining,
			},
			{
				name:  "same instance twice on a line",
				items: []*rental.LineItem{builder.UnboundLine(1, 1, 3, rental.LinePendingPickup, "10")},
				marks: []rental.PickMark{{LineID: 1, PickedQuantity: 2, InstanceIDs: []int64{601, 601}}},
				errIs: rental.ErrDuplicateInstance,
			},
			{
				name: "same instance across lines",
				items: []*rental.LineItem{
					builder.UnboundLine(1, 1, 1, rental.LinePendingPickup, "10"),
					builder.UnboundLine(2, 1, 1, rental.LinePendingPickup, "10"),
				},
				marks: []rental.PickMark{
					{LineID: 1, InstanceIDs: []int64{601}},
					{LineID: 2, InstanceIDs: []int64{601}},
				},
				errIs: rental.ErrDuplicateInstance,
			},
			{
				name:  "more ids than picked",
				items: []*rental.LineItem{builder.UnboundLine(1, 1, 3, rental.LinePendingPickup, "10")},
				marks: []rental.PickMark{{LineID: 1, PickedQuantity: 1, InstanceIDs: []int64{601, 602}}},
				errIs: rental.ErrTooManyInstanceIDs,
			},
			{
				name:  "bound line with two units",
				items: []*rental.LineItem{builder.BoundLine(1, 1, 501, "10")},
				marks: []rental.PickMark{{LineID: 1, PickedQuantity: 2}},
				errIs: rental.ErrBoundLineQuantity,
			},
			{
				name:  "no marks",
				items: []*rental.LineItem{builder.BoundLine(1, 1, 501, "10")},
				errIs: rental.ErrNoItems,
			},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				r := reservedRental(c.items...)
				before := len(r.Items)
				_, err := r.MarkItems(c.marks, allowAll, &operator, now)
				require.ErrorIs(t, err, c.errIs)
				assert.Len(t, r.Items, before)
				assert.Equal(t, rental.StatusReserved, r.Status)
			})
		}
	})

	t.Run("rejected instance leaves the rental untouched", func(t *testing.T) {
		r := reservedRental(
			builder.UnboundLine(1, 1, 1, rental.LinePendingPickup, "10"),
			builder.UnboundLine(2, 1, 1, rental.LinePendingPickup, "10"),
		)
		check := func(_, instanceID int64) error {
			if instanceID == 602 {
				return rental.ErrScheduleConflict
			}
			return nil
		}
		_, err := r.MarkItems([]rental.PickMark{
			{LineID: 1, InstanceIDs: []int64{601}},
			{LineID: 2, InstanceIDs: []int64{602}},
		}, check, &operator, now)
		require.ErrorIs(t, err, rental.ErrScheduleConflict)
		assert.Len(t, r.Items, 2)
		assert.Equal(t, 1, r.Line(1).Quantity)
	})

	t.Run("closed rental", func(t *testing.T) {
		r := reservedRental(builder.BoundLine(1, 1, 501, "10"))
		r.Status = rental.StatusClosed
		_, err := r.MarkItems([]rental.PickMark{{LineID: 1, PickedQuantity: 1}}, allowAll, &operator, now)
		require.ErrorIs(t, err, rental.ErrNotPickable)
	})

	t.Run("already picked bound line", func(t *testing.T) {
		r := reservedRental(builder.BoundLine(1, 1, 501, "10"))
		_, err := r.MarkItems([]rental.PickMark{{LineID: 1, PickedQuantity: 1}}, allowAll, &operator, now)
		require.NoError(t, err)
		_, err = r.MarkItems([]rental.PickMark{{LineID: 1, PickedQuantity: 1}}, allowAll, &operator, now)
		require.ErrorIs(t, err, rental.ErrNoRemainingQuantity)
	})
}
