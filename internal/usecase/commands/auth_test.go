//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/password"
	"tool-rental/internal/usecase/commands"
	commandsmock "tool-rental/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authFixture struct {
	*harness
	sessions *commandsmock.MockSessionIssuer
	guard    *commandsmock.MockLoginGuard
	cmds     commands.AuthCommands
}

func newAuthFixture(t *testing.T) *authFixture {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	f := &authFixture{
		harness:  h,
		sessions: commandsmock.NewMockSessionIssuer(ctrl),
		guard:    commandsmock.NewMockLoginGuard(ctrl),
	}
	f.cmds = commands.NewAuthCommands(h.uow, h.directory, f.sessions, f.guard, h.clock, h.logger, config.AuthConfig{
		AdminUsername:   "admin",
		AdminPassword:   "s3cret-admin",
		AdminEmployeeID: 999999,
		DefaultPIN:      "1234",
	})
	return f
}

func account(t *testing.T, id int64, pin string) *user.Account {
	t.Helper()
	a, err := user.NewAccount(id, user.RoleUser, user.BaselineRights(user.RoleUser), testNow)
	require.NoError(t, err)
	if pin != "" {
		hash, err := password.HashPassword(pin)
		require.NoError(t, err)
		a.SetPINHash(hash, testNow)
	}
	return a
}

func TestLogin(t *testing.T) {
	expiresAt := testNow.Add(12 * time.Hour)

	t.Run("local admin", func(t *testing.T) {
		f := newAuthFixture(t)
		f.guard.EXPECT().Check("10.0.0.1", "user:admin").Return(0, false)
		f.sessions.EXPECT().Issue(gomock.Any()).
			DoAndReturn(func(p auth.Principal) (string, time.Time, error) {
				assert.True(t, p.IsLocalAdmin)
				assert.Equal(t, int64(999999), p.EmployeeID)
				assert.True(t, p.Can(user.RightManageUsers))
				return "token", expiresAt, nil
			})
		f.guard.EXPECT().RecordSuccess("user:admin")

		res, err := f.cmds.Login(context.Background(), commands.LoginInput{
			Username: " Admin ", Password: "s3cret-admin", ClientIP: "10.0.0.1",
		})
		require.NoError(t, err)
		assert.Equal(t, "token", res.Token)
		assert.Equal(t, expiresAt, res.ExpiresAt)
	})

	t.Run("provisioned account without pin accepts the default pin", func(t *testing.T) {
		f := newAuthFixture(t)
		f.expectDirectory("4711")
		f.guard.EXPECT().Check("10.0.0.1", "employee:4711").Return(0, false)
		f.users.EXPECT().FindByEmployeeID(gomock.Any(), int64(4711)).Return(account(t, 4711, ""), nil)
		f.sessions.EXPECT().Issue(gomock.Any()).
			DoAndReturn(func(p auth.Principal) (string, time.Time, error) {
				assert.Equal(t, "E4711 - Employee 4711", p.DisplayName)
				return "token", expiresAt, nil
			})
		f.guard.EXPECT().RecordSuccess("employee:4711")

		_, err := f.cmds.Login(context.Background(), commands.LoginInput{
			EmployeeID: 4711, Password: "1234", ClientIP: "10.0.0.1",
		})
		require.NoError(t, err)
	})

	t.Run("failures are recorded with the guard", func(t *testing.T) {
		cases := []struct {
			name    string
			account *user.Account
			findErr error
			pin     string
		}{
			{name: "wrong personal pin", account: account(t, 4711, "5678"), pin: "1234"},
			{name: "unprovisioned account", findErr: errs.Mark(errs.New("none"), errs.ErrNotFound), pin: "1234"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newAuthFixture(t)
				f.guard.EXPECT().Check("10.0.0.1", "employee:4711").Return(0, false)
				f.users.EXPECT().FindByEmployeeID(gomock.Any(), int64(4711)).Return(tc.account, tc.findErr)
				f.guard.EXPECT().RecordFailure("10.0.0.1", "employee:4711")

				_, err := f.cmds.Login(context.Background(), commands.LoginInput{
					EmployeeID: 4711, Password: tc.pin, ClientIP: "10.0.0.1",
				})
				require.ErrorIs(t, err, commands.ErrInvalidCredentials)
				assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
			})
		}
	})

	t.Run("locked out attempts carry the retry delay", func(t *testing.T) {
		f := newAuthFixture(t)
		f.guard.EXPECT().Check("10.0.0.1", "employee:4711").Return(120, true)

		_, err := f.cmds.Login(context.Background(), commands.LoginInput{
			EmployeeID: 4711, Password: "1234", ClientIP: "10.0.0.1",
		})
		require.Error(t, err)
		assert.Equal(t, errs.KindTooManyAttempts, errs.KindOf(err))
		var locked *commands.LockedOutError
		require.True(t, errs.As(err, &locked))
		assert.Equal(t, 120, locked.RetryAfter)
	})

	t.Run("identity is required", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.cmds.Login(context.Background(), commands.LoginInput{Password: "1234"})
		require.ErrorIs(t, err, commands.ErrMissingIdentity)
	})
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	f.sessions.EXPECT().Revoke(gomock.Any(), "token").Return(nil)
	require.NoError(t, f.cmds.Logout(context.Background(), "token"))
}
