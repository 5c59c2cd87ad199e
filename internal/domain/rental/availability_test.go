//go:build unit

package rental_test

import (
	"math/rand"
	"testing"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableInstances(t *testing.T) {
	period := inventory.Period{Start: builder.Date(2026, 3, 10), End: builder.Date(2026, 3, 12)}

	t.Run("filters status, bookings, exclusions and certification", func(t *testing.T) {
		free := builder.NewInstance(1, 1, "B")
		booked := builder.NewInstance(2, 1, "C")
		retired := builder.NewInstance(3, 1, "D")
		retired.Status = inventory.InstanceRetired
		excluded := builder.NewInstance(4, 1, "E")
		expiring := builder.NewInstance(5, 1, "F")
		expiring.RequiresCertification = true
		calibrated := builder.Date(2026, 3, 11)
		expiring.NextCalibration = &calibrated
		noDate := builder.NewInstance(6, 1, "G")
		noDate.RequiresCertification = true
		certified := builder.NewInstance(7, 1, "A")
		certified.RequiresCertification = true
		until := builder.Date(2026, 3, 12)
		certified.NextCalibration = &until

		bookings := []rental.Booking{
			{RentalID: 50, InstanceID: 2, Status: rental.StatusActive, Start: builder.Date(2026, 3, 12), End: builder.Date(2026, 3, 20)},
			{RentalID: 51, InstanceID: 1, Status: rental.StatusOffer, Start: builder.Date(2026, 3, 10), End: builder.Date(2026, 3, 12)},
			{RentalID: 52, InstanceID: 1, Status: rental.StatusReserved, Start: builder.Date(2026, 3, 13), End: builder.Date(2026, 3, 14)},
		}

		got := rental.AvailableInstances(
			[]*inventory.Instance{free, booked, retired, excluded, expiring, noDate, certified},
			period, bookings, []int64{4},
		)
		ids := make([]int64, 0, len(got))
		for _, inst := range got {
			ids = append(ids, inst.ID)
		}
		assert.Equal(t, []int64{7, 1}, ids, "ordered by serial number")
	})

	t.Run("manual validation", func(t *testing.T) {
		inst := builder.NewInstance(1, 1, "A")
		bookings := []rental.Booking{
			{RentalID: 60, InstanceID: 1, Status: rental.StatusReserved, Start: builder.Date(2026, 3, 1), End: builder.Date(2026, 3, 10)},
		}
		require.ErrorIs(t, rental.ValidateInstance(nil, 1, period, nil, 0), rental.ErrInvalidInstance)
		require.ErrorIs(t, rental.ValidateInstance(inst, 2, period, nil, 0), rental.ErrInvalidInstance)
		require.ErrorIs(t, rental.ValidateInstance(inst, 1, period, bookings, 0), rental.ErrScheduleConflict)
		require.NoError(t, rental.ValidateInstance(inst, 1, period, bookings, 60), "own rental does not conflict")

		inst.Status = inventory.InstanceInRental
		require.ErrorIs(t, rental.ValidateInstance(inst, 1, period, nil, 0), rental.ErrInstanceUnavailable)
	})
}

// Whatever the bookings look like, an instance returned as available is never
// held by a blocking rental that overlaps the requested window.
func TestAvailableInstancesNeverDoubleBooks(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	statuses := []rental.Status{
		rental.StatusOffer, rental.StatusReserved, rental.StatusActive, rental.StatusOverdue,
		rental.StatusReturned, rental.StatusClosed, rental.StatusCancelled, rental.StatusLost,
		"Pending", "Approved",
	}
	base := builder.Date(2026, 1, 1)
	window := func() (time.Time, time.Time) {
		start := base.AddDate(0, 0, rng.Intn(60))
		return start, start.AddDate(0, 0, rng.Intn(10))
	}

	for iter := 0; iter < 500; iter++ {
		candidates := make([]*inventory.Instance, 8)
		for i := range candidates {
			candidates[i] = builder.NewInstance(int64(i+1), 1, string(rune('A'+i)))
		}
		bookings := make([]rental.Booking, rng.Intn(20))
		for i := range bookings {
			start, end := window()
			bookings[i] = rental.Booking{
				RentalID:   int64(100 + i),
				InstanceID: int64(1 + rng.Intn(8)),
				Status:     statuses[rng.Intn(len(statuses))],
				Start:      start,
				End:        end,
			}
		}
		start, end := window()
		period := inventory.Period{Start: start, End: end}

		for _, inst := range rental.AvailableInstances(candidates, period, bookings, nil) {
			for _, b := range bookings {
				if b.InstanceID != inst.ID {
					continue
				}
				blocking := rental.NormalizeStatus(string(b.Status)).IsBlocking()
				overlaps := !b.Start.After(end) && !b.End.Before(start)
				require.False(t, blocking && overlaps,
					"instance %d returned although booked by rental %d (%s %s..%s)", inst.ID, b.RentalID, b.Status, b.Start, b.End)
			}
		}
	}
}
