//go:build unit

package loginguard_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/loginguard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guardConfig = config.LoginGuardConfig{
	Window:        300 * time.Second,
	MaxPerIP:      50,
	MaxPerAccount: 8,
	Lockout:       900 * time.Second,
}

func newGuard() (*loginguard.Guard, *clock.MockClock) {
	clk := clock.NewMockClock(time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC))
	return loginguard.New(guardConfig, clk), clk
}

func TestGuard_AccountLockout(t *testing.T) {
	guard, clk := newGuard()
	const ip, account = "10.0.0.1", "employee:4711"

	for i := 0; i < 8; i++ {
		_, ok := guard.Check(ip, account)
		require.True(t, ok, "attempt %d should pass", i+1)
		guard.RecordFailure(ip, account)
		clk.Add(time.Second)
	}

	// ninth attempt
	retry, ok := guard.Check(ip, account)
	require.False(t, ok)
	assert.LessOrEqual(t, retry, 900)
	assert.Greater(t, retry, 0)

	previous := retry
	for i := 0; i < 5; i++ {
		clk.Add(100 * time.Second)
		guard.RecordFailure(ip, account)
		retry, ok = guard.Check(ip, account)
		require.False(t, ok)
		assert.LessOrEqual(t, retry, previous)
		previous = retry
	}

	clk.Add(time.Duration(previous+1) * time.Second)
	clk.Add(guardConfig.Window)
	_, ok = guard.Check(ip, account)
	assert.True(t, ok)
}

func TestGuard_OtherAccountsAreIndependent(t *testing.T) {
	guard, _ := newGuard()
	for i := 0; i < 8; i++ {
		guard.RecordFailure("10.0.0.1", "employee:1")
	}

	_, ok := guard.Check("10.0.0.1", "employee:1")
	assert.False(t, ok)
	_, ok = guard.Check("10.0.0.1", "employee:2")
	assert.True(t, ok)
}

func TestGuard_SuccessClearsAccount(t *testing.T) {
	guard, _ := newGuard()
	for i := 0; i < 7; i++ {
		guard.RecordFailure("10.0.0.1", "user:admin")
	}
	guard.RecordSuccess("user:admin")

	guard.RecordFailure("10.0.0.1", "user:admin")
	_, ok := guard.Check("10.0.0.1", "user:admin")
	assert.True(t, ok)
}

func TestGuard_PerIPWindow(t *testing.T) {
	guard, clk := newGuard()
	const ip = "10.0.0.9"
	for i := 0; i < 50; i++ {
		guard.RecordFailure(ip, fmt.Sprintf("employee:%d", i))
	}

	retry, ok := guard.Check(ip, "employee:999")
	require.False(t, ok)
	assert.Equal(t, 300, retry)

	clk.Add(guardConfig.Window + time.Second)
	_, ok = guard.Check(ip, "employee:999")
	assert.True(t, ok)
}

func TestGuard_ConcurrentAccess(t *testing.T) {
	guard, _ := newGuard()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			account := fmt.Sprintf("employee:%d", n%4)
			for j := 0; j < 20; j++ {
				guard.Check("10.0.0.1", account)
				guard.RecordFailure("10.0.0.2", account)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		_, ok := guard.Check("10.0.0.3", fmt.Sprintf("employee:%d", i))
		assert.False(t, ok)
	}
}
