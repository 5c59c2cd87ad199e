package directory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"tool-rental/internal/domain/employee"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/metrics"
	"tool-rental/internal/usecase/shared"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNotConfigured = errs.Mark(errs.New("employee directory is not configured"), errs.ErrServiceUnavailable)
	ErrUnavailable   = errs.Mark(errs.New("employee directory is unavailable"), errs.ErrServiceUnavailable)
)

type rawEmployee struct {
	Number         json.RawMessage `json:"number"`
	Name           string          `json:"name"`
	Initials       string          `json:"initials"`
	Email          string          `json:"eMail"`
	DepartmentCode string          `json:"departmentCode"`
}

// Client reads the external employee directory and keeps it in a TTL cache.
// Concurrent refreshes collapse into one request.
type Client struct {
	cfg    config.DirectoryConfig
	http   *http.Client
	clock  clock.Clock
	logger *slog.Logger
	group  singleflight.Group

	mu          sync.RWMutex
	entries     []employee.Employee
	expiresAt   time.Time
	lastError   string
	lastRefresh *time.Time
}

func NewClient(cfg config.DirectoryConfig, clk clock.Clock, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		clock:  clk,
		logger: logger,
	}
}

func (c *Client) configured() bool {
	return strings.TrimSpace(c.cfg.BaseURL) != "" && strings.TrimSpace(c.cfg.Token) != ""
}

// Employees returns the directory sorted by name, refreshing an expired cache.
func (c *Client) Employees(ctx context.Context, forceRefresh bool) ([]employee.Employee, error) {
	if !forceRefresh {
		if cached, ok := c.fresh(); ok {
			return cached, nil
		}
	}
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	v, err, _ := c.group.Do("refresh", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return copyEntries(v.([]employee.Employee)), nil
}

// Index keys the directory by employee id. On an outage it falls back to the
// last known entries, which may be none.
func (c *Client) Index(ctx context.Context) map[int64]employee.Employee {
	entries, err := c.Employees(ctx, false)
	if err != nil {
		c.logger.Warn("employee directory lookup failed", "error", err.Error())
		c.mu.RLock()
		entries = copyEntries(c.entries)
		c.mu.RUnlock()
	}
	index := make(map[int64]employee.Employee, len(entries))
	for _, e := range entries {
		index[e.ID()] = e
	}
	return index
}

func (c *Client) Status() shared.DirectoryStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	remaining := int(c.expiresAt.Sub(c.clock.Now()).Seconds())
	if remaining < 0 || len(c.entries) == 0 {
		remaining = 0
	}
	return shared.DirectoryStatus{
		Configured:            c.configured(),
		CacheCount:            len(c.entries),
		CacheExpiresInSeconds: remaining,
		LastError:             c.lastError,
		LastRefreshAt:         c.lastRefresh,
	}
}

func (c *Client) fresh() ([]employee.Employee, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.entries) == 0 || !c.clock.Now().Before(c.expiresAt) {
		return nil, false
	}
	return copyEntries(c.entries), true
}

func (c *Client) refresh(ctx context.Context) ([]employee.Employee, error) {
	entries, err := c.fetch(ctx)
	if err != nil {
		metrics.IncDirectoryFetch("error")
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
		c.logger.Warn("employee directory refresh failed", "error", err.Error())
		return nil, err
	}
	metrics.IncDirectoryFetch("ok")

	now := c.clock.Now()
	c.mu.Lock()
	c.entries = entries
	c.expiresAt = now.Add(c.cfg.CacheTTL)
	c.lastError = ""
	c.lastRefresh = &now
	c.mu.Unlock()

	c.logger.Info("employee directory refreshed", "count", len(entries))
	return entries, nil
}

func (c *Client) fetch(ctx context.Context) ([]employee.Employee, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/Employees/all"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "build directory request"), ErrUnavailable)
	}
	req.Header.Set(c.headerName(), c.headerValue())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "employee directory connection error"), ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Mark(errs.Newf("employee directory returned status %d", resp.StatusCode), ErrUnavailable)
	}

	var rows []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "employee directory returned invalid JSON"), ErrUnavailable)
	}

	byNumber := make(map[string]employee.Employee, len(rows))
	for _, row := range rows {
		var raw rawEmployee
		if err := json.Unmarshal(row, &raw); err != nil {
			continue
		}
		entry, ok := employee.NewEmployee(numberString(raw.Number), raw.Name, raw.Initials, raw.Email, raw.DepartmentCode)
		if !ok {
			continue
		}
		byNumber[entry.NormalizedNumber] = entry
	}

	entries := make([]employee.Employee, 0, len(byNumber))
	for _, e := range byNumber {
		entries = append(entries, e)
	}
	employee.SortByName(entries)
	return entries, nil
}

func (c *Client) headerName() string {
	if name := strings.TrimSpace(c.cfg.AuthHeader); name != "" {
		return name
	}
	return "Authorization"
}

func (c *Client) headerValue() string {
	scheme := strings.TrimSpace(c.cfg.AuthScheme)
	if scheme == "" {
		return c.cfg.Token
	}
	return scheme + " " + c.cfg.Token
}

// The directory sends numbers either as strings or as JSON numbers.
func numberString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func copyEntries(in []employee.Employee) []employee.Employee {
	out := make([]employee.Employee, len(in))
	copy(out, in)
	return out
}
