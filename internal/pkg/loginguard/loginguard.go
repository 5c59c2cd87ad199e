package loginguard

import (
	"sync"
	"time"

	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
)

// Guard throttles login attempts with a sliding window per client address and
// per account, plus a lockout for accounts that keep failing.
type Guard struct {
	mu            sync.Mutex
	clock         clock.Clock
	window        time.Duration
	maxPerIP      int
	maxPerAccount int
	lockout       time.Duration

	byIP        map[string][]time.Time
	byAccount   map[string][]time.Time
	lockedUntil map[string]time.Time
}

func New(cfg config.LoginGuardConfig, clk clock.Clock) *Guard {
	return &Guard{
		clock:         clk,
		window:        atLeast(cfg.Window, time.Second),
		maxPerIP:      max(cfg.MaxPerIP, 1),
		maxPerAccount: max(cfg.MaxPerAccount, 1),
		lockout:       atLeast(cfg.Lockout, time.Second),
		byIP:          make(map[string][]time.Time),
		byAccount:     make(map[string][]time.Time),
		lockedUntil:   make(map[string]time.Time),
	}
}

// Check reports whether a login for account from ip may proceed. When it may
// not, the returned value is the number of seconds to wait (at least 1).
func (g *Guard) Check(ip, account string) (int, bool) {
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if until, ok := g.lockedUntil[account]; ok {
		if until.After(now) {
			return seconds(until.Sub(now)), false
		}
		delete(g.lockedUntil, account)
	}

	ipAttempts := g.prune(g.byIP, ip, now)
	accountAttempts := g.prune(g.byAccount, account, now)

	if len(ipAttempts) >= g.maxPerIP {
		return seconds(ipAttempts[0].Add(g.window).Sub(now)), false
	}
	if len(accountAttempts) >= g.maxPerAccount {
		g.lockedUntil[account] = now.Add(g.lockout)
		return seconds(g.lockout), false
	}
	return 0, true
}

func (g *Guard) RecordFailure(ip, account string) {
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.byIP[ip] = append(g.prune(g.byIP, ip, now), now)
	attempts := append(g.prune(g.byAccount, account, now), now)
	g.byAccount[account] = attempts
	if len(attempts) >= g.maxPerAccount {
		if until, locked := g.lockedUntil[account]; !locked || !until.After(now) {
			g.lockedUntil[account] = now.Add(g.lockout)
		}
	}
}

// RecordSuccess forgets the failures of account. Per-IP attempts are kept.
func (g *Guard) RecordSuccess(account string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.byAccount, account)
	delete(g.lockedUntil, account)
}

func (g *Guard) prune(table map[string][]time.Time, key string, now time.Time) []time.Time {
	cutoff := now.Add(-g.window)
	attempts := table[key]
	kept := attempts[:0]
	for _, at := range attempts {
		if !at.Before(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(table, key)
		return nil
	}
	table[key] = kept
	return kept
}

func seconds(d time.Duration) int {
	return max(int(d/time.Second), 1)
}

func atLeast(d, floor time.Duration) time.Duration {
	if d < floor {
		return floor
	}
	return d
}
