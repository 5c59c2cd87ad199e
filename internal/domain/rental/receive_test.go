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

func activeRental(items ...*rental.LineItem) *rental.Rental {
	r := reservedRental(items...)
	r.Status = rental.StatusActive
	return r
}

func TestReceiveItems(t *testing.T) {
	operator := int64(12)

	t.Run("partial receive of an unbound batch", func(t *testing.T) {
		r := activeRental(builder.UnboundLine(1, 1, 5, rental.LinePickedUp, "10"))

		_, completed, err := r.ReceiveItems([]rental.ReceiveMark{{LineID: 1, Returned: 2, NotReturned: 1}}, &operator, now)
		require.NoError(t, err)
		assert.False(t, completed)

		source := r.Line(1)
		assert.Equal(t, 2, source.Quantity)
		assert.Equal(t, rental.LinePendingPickup, source.State())

		var returned []*rental.LineItem
		for _, item := range r.Items[1:] {
			if item.State() == rental.LineReturned {
				returned = append(returned, item)
			}
		}
		require.Len(t, returned, 1)
		assert.Equal(t, 2, returned[0].Quantity)
		assert.Equal(t, "RETURNED FROM LINE 1", returned[0].CheckoutNotes)
		assert.Equal(t, rental.StatusActive, r.Status)
	})

	t.Run("bound line returned frees the instance", func(t *testing.T) {
		r := activeRental(
			builder.BoundLine(1, 1, 501, "10"),
			builder.BoundLine(2, 1, 502, "10"),
		)
		fx, completed, err := r.ReceiveItems([]rental.ReceiveMark{{LineID: 1, Returned: 1, Condition: "Good"}}, &operator, now)
		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, []rental.InstanceChange{{InstanceID: 501, Status: inventory.InstanceAvailable}}, fx.Instances)
		assert.Equal(t, 0, r.Line(1).Quantity)
		assert.Equal(t, rental.LineReturned, r.Line(1).State())
	})

	t.Run("bound line not returned keeps the instance", func(t *testing.T) {
		r := activeRental(builder.BoundLine(1, 1, 501, "10"))
		fx, completed, err := r.ReceiveItems([]rental.ReceiveMark{{LineID: 1, NotReturned: 1}}, &operator, now)
		require.NoError(t, err)
		assert.False(t, completed)
		assert.Empty(t, fx.Instances)
		assert.Equal(t, 1, r.Line(1).Quantity)
		assert.Equal(t, rental.LineNotReturned, r.Line(1).State())
	})

	t.Run("receiving everything completes the rental", func(t *testing.T) {
		r := activeRental(
			builder.BoundLine(1, 1, 501, "10"),
			builder.UnboundLine(2, 2, 2, rental.LinePickedUp, "10"),
		)
		fx, completed, err := r.ReceiveItems([]rental.ReceiveMark{
			{LineID: 1, Returned: 1},
			{LineID: 2, Returned: 2},
		}, &operator, now)
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Equal(t, rental.StatusReturned, r.Status)
		require.NotNil(t, r.ActualEnd)
		assert.Contains(t, r.Notes, "Returned via marked items")
		assert.Equal(t, rental.LineReturned, r.Line(2).State())
		assert.Contains(t, fx.ToolsAvailable, int64(2))
	})

	t.Run("returned split line cannot be received again", func(t *testing.T) {
		r := activeRental(builder.UnboundLine(1, 1, 5, rental.LinePickedUp, "10"))
		_, _, err := r.ReceiveItems([]rental.ReceiveMark{{LineID: 1, Returned: 2}}, &operator, now)
		require.NoError(t, err)

		split := r.Items[len(r.Items)-1]
		split.ID = 9
		require.Equal(t, rental.LineReturned, split.State())
		lines := len(r.Items)
		history := len(split.Lifecycle.History)

		_, _, err = r.ReceiveItems([]rental.ReceiveMark{{LineID: split.ID, Returned: 2}}, &operator, now)
		require.ErrorIs(t, err, rental.ErrNoRemainingQuantity)
		assert.Equal(t, 2, split.Quantity)
		assert.Len(t, r.Items, lines)
		assert.Len(t, split.Lifecycle.History, history)
	})

	t.Run("failures", func(t *testing.T) {
		cases := []struct {
			name  string
			marks []rental.ReceiveMark
			errIs error
		}{
			{"no marks", nil, rental.ErrNoItems},
			{"unknown line", []rental.ReceiveMark{{LineID: 7, Returned: 1}}, rental.ErrLineNotFound},
			{"zero quantities", []rental.ReceiveMark{{LineID: 1}}, rental.ErrInvalidReceiveQty},
			{"exceeds remaining", []rental.ReceiveMark{{LineID: 1, Returned: 2, NotReturned: 2}}, rental.ErrQuantityExceedsRemaining},
			{"twice exceeding", []rental.ReceiveMark{{LineID: 1, Returned: 2}, {LineID: 1, Returned: 2}}, rental.ErrQuantityExceedsRemaining},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				r := activeRental(builder.UnboundLine(1, 1, 3, rental.LinePickedUp, "10"))
				_, _, err := r.ReceiveItems(c.marks, &operator, now)
				require.ErrorIs(t, err, c.errIs)
				assert.Equal(t, 3, r.Line(1).Quantity)
				assert.Len(t, r.Items, 1)
			})
		}
	})

	t.Run("reserved rental cannot receive", func(t *testing.T) {
		r := reservedRental(builder.BoundLine(1, 1, 501, "10"))
		_, _, err := r.ReceiveItems([]rental.ReceiveMark{{LineID: 1, Returned: 1}}, &operator, now)
		require.ErrorIs(t, err, rental.ErrNotReceivable)
	})
}
