//go:build unit

package user_test

import (
	"testing"
	"time"

	"tool-rental/internal/domain/user"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmp.AllowUnexported(user.Account{}),
}

type testCase struct {
	name       string
	employeeID int64
	role       user.Role
	errIs      error
}

func TestAccount(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates an active account", func(t *testing.T) {
		actual, err := user.NewAccount(4711, user.RoleUser, user.BaselineRights(user.RoleUser), now)
		require.NoError(t, err)

		assert.Equal(t, int64(4711), actual.EmployeeID())
		assert.True(t, actual.IsActive())
		assert.False(t, actual.HasCustomPIN())
		assert.True(t, actual.Rights().Checkout)
		assert.False(t, actual.Rights().ManageRentals)

		actual.SetPINHash("hash", now)
		assert.True(t, actual.HasCustomPIN())
		require.NotNil(t, actual.PINUpdatedAt())
	})

	t.Run("matches a reconstructed account", func(t *testing.T) {
		actual, err := user.NewAccount(4711, user.RoleAdmin, user.AllRights(), now)
		require.NoError(t, err)

		expected := user.ReconstructAccount(4711, user.RoleAdmin, user.AllRights(), nil, nil, true, now, now)
		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("Account mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("access change keeps the PIN", func(t *testing.T) {
		later := now.Add(time.Hour)
		actual := user.ReconstructAccount(4711, user.RoleUser, user.BaselineRights(user.RoleUser), nil, nil, true, now, now)
		actual.SetPINHash("hash", now)
		require.NoError(t, actual.ChangeAccess(user.RoleAdmin, user.AllRights(), later))

		hash := "hash"
		expected := user.ReconstructAccount(4711, user.RoleAdmin, user.AllRights(), &hash, &now, true, now, later)
		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("Account mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("validates input", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "admin role ok", employeeID: 1, role: user.RoleAdmin},
			{name: "user role ok", employeeID: 1, role: user.RoleUser},
			{name: "unknown role rejected", employeeID: 1, role: "operator", errIs: user.ErrInvalidRole},
			{name: "zero employee id rejected", employeeID: 0, role: user.RoleUser, errIs: user.ErrInvalidEmployeeID},
		})
	})
}

func TestRights(t *testing.T) {
	t.Run("role baselines", func(t *testing.T) {
		assert.Equal(t, user.AllRights(), user.BaselineRights(user.RoleAdmin))
		assert.Equal(t, user.Rights{Checkout: true}, user.BaselineRights(user.RoleUser))
	})

	t.Run("stored overrides apply flag by flag", func(t *testing.T) {
		r := user.ParseRights([]byte(`{"manageWarehouse": true, "checkout": false, "unknown": true}`), user.RoleUser)
		assert.Equal(t, user.Rights{ManageWarehouse: true}, r)
		assert.True(t, r.Has(user.RightManageWarehouse))
		assert.False(t, r.Has(user.RightCheckout))
	})

	t.Run("unreadable rights fall back to the baseline", func(t *testing.T) {
		assert.Equal(t, user.AllRights(), user.ParseRights([]byte(`[true]`), user.RoleAdmin))
		assert.Equal(t, user.Rights{Checkout: true}, user.ParseRights(nil, user.RoleUser))
	})

	t.Run("unknown roles normalize to user", func(t *testing.T) {
		assert.Equal(t, user.RoleUser, user.NormalizeRole("viewer"))
		assert.Equal(t, user.RoleAdmin, user.NormalizeRole("Admin"))
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := user.NewAccount(c.employeeID, c.role, user.BaselineRights(c.role), time.Now())

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
