//go:build unit

package rental_test

import (
	"testing"

	"tool-rental/internal/domain/rental"
	"tool-rental/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []rental.Status{
	rental.StatusOffer,
	rental.StatusReserved,
	rental.StatusActive,
	rental.StatusOverdue,
	rental.StatusReturned,
	rental.StatusClosed,
	rental.StatusCancelled,
	rental.StatusLost,
}

var legal = map[rental.Status][]rental.Status{
	rental.StatusOffer:    {rental.StatusReserved, rental.StatusClosed},
	rental.StatusReserved: {rental.StatusActive, rental.StatusClosed},
	rental.StatusActive:   {rental.StatusOverdue, rental.StatusReturned, rental.StatusClosed},
	rental.StatusOverdue:  {rental.StatusActive, rental.StatusReturned, rental.StatusClosed},
	rental.StatusReturned: {rental.StatusClosed},
}

func isLegal(from, to rental.Status) bool {
	for _, t := range legal[from] {
		if t == to {
			return true
		}
	}
	return false
}

func TestTransitionTable(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if from == to {
				continue
			}
			t.Run(string(from)+" -> "+string(to), func(t *testing.T) {
				r := &rental.Rental{Status: from}
				err := r.TransitionTo(to)

				if isLegal(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, r.Status)
					assert.True(t, rental.CanTransition(from, to))
					return
				}
				require.Error(t, err)
				assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
				assert.Equal(t, errs.KindInvalidTransition, errs.KindOf(err))
				assert.Contains(t, err.Error(), string(from)+" -> "+string(to))
				assert.Equal(t, from, r.Status, "status must not change on a rejected transition")
			})
		}
	}
}

func TestTransitionToSameStatusIsNoop(t *testing.T) {
	r := &rental.Rental{Status: rental.StatusActive}
	require.NoError(t, r.TransitionTo(rental.StatusActive))
	assert.Equal(t, rental.StatusActive, r.Status)
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want rental.Status
	}{
		{"Pending", rental.StatusReserved},
		{"Approved", rental.StatusReserved},
		{"", rental.StatusReserved},
		{"  Active ", rental.StatusActive},
		{"Offer", rental.StatusOffer},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			assert.Equal(t, c.want, rental.NormalizeStatus(c.raw))
		})
	}

	t.Run("legacy alias takes part in transitions", func(t *testing.T) {
		r := &rental.Rental{Status: rental.Status("Approved")}
		require.NoError(t, r.TransitionTo(rental.StatusActive))
		assert.Equal(t, rental.StatusActive, r.Status)
	})
}

func TestStatusSets(t *testing.T) {
	blocking := map[rental.Status]bool{
		rental.StatusReserved: true,
		rental.StatusActive:   true,
		rental.StatusOverdue:  true,
	}
	terminal := map[rental.Status]bool{
		rental.StatusClosed:    true,
		rental.StatusCancelled: true,
		rental.StatusLost:      true,
	}
	for _, s := range allStatuses {
		assert.Equal(t, blocking[s], s.IsBlocking(), "blocking %s", s)
		assert.Equal(t, terminal[s], s.IsTerminal(), "terminal %s", s)
	}
	assert.Empty(t, rental.Targets(rental.StatusClosed))
	assert.ElementsMatch(t, legal[rental.StatusActive], rental.Targets(rental.StatusActive))
}
