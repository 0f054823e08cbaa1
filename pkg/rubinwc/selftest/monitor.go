package selftest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"

	"rubin.dev/rubinwc-go/pkg/rubinwc/logging"
)

// State is a node's operating posture with respect to the crypto boundary.
type State int32

const (
	// StateNormal: self-tests pass, all operations allowed.
	StateNormal State = 0
	// StateReadOnly: repeated failures, key custody disabled, verification
	// still allowed.
	StateReadOnly State = 1
	// StateFailed: failure budget exhausted, the embedding process should
	// stop serving.
	StateFailed State = 2
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateReadOnly:
		return "READ_ONLY"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON emits the state name so webhook and status payloads stay
// readable in log aggregators.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// MonitorConfig holds monitor tunables, loadable from RUBINWC_SELFTEST_*
// environment variables.
type MonitorConfig struct {
	// Interval between runs. RUBINWC_SELFTEST_INTERVAL (seconds, default 60).
	Interval time.Duration
	// ReadOnlyAfter is the consecutive-failure count that moves NORMAL to
	// READ_ONLY. RUBINWC_SELFTEST_READONLY_AFTER (default 3).
	ReadOnlyAfter int
	// FailedAfter is the consecutive-failure count that moves to FAILED.
	// Zero disables the transition. RUBINWC_SELFTEST_FAILED_AFTER
	// (default 10).
	FailedAfter int
	// Webhook receives a JSON POST on every state change when set.
	// RUBINWC_SELFTEST_WEBHOOK (optional).
	Webhook string
	// HTTPClient posts webhook events. Defaults to a 5 second timeout.
	HTTPClient *http.Client
	// OnFailed is invoked once per transition into FAILED, e.g. to begin
	// a graceful shutdown.
	OnFailed func()
	// Logger defaults to logging.New(nil).
	Logger logging.Logger
}

// MonitorConfigFromEnv reads tunables from the environment with safe
// defaults. Malformed values fall back to the default.
func MonitorConfigFromEnv() MonitorConfig {
	cfg := MonitorConfig{
		Interval:      60 * time.Second,
		ReadOnlyAfter: 3,
		FailedAfter:   10,
	}
	if v := os.Getenv("RUBINWC_SELFTEST_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Interval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("RUBINWC_SELFTEST_READONLY_AFTER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReadOnlyAfter = n
		}
	}
	if v := os.Getenv("RUBINWC_SELFTEST_FAILED_AFTER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.FailedAfter = n
		}
	}
	cfg.Webhook = os.Getenv("RUBINWC_SELFTEST_WEBHOOK")
	return cfg
}

// CheckFunc probes the boundary once. Monitor treats a nil return as
// healthy. Checker builds one from a Provider; tests inject fakes.
type CheckFunc func() error

// Checker returns a CheckFunc that runs the full suite against p and
// reports the first failing check.
func Checker(p Provider) CheckFunc {
	return func() error {
		r := Run(p)
		if r.OK() {
			return nil
		}
		f := r.FailedChecks()[0]
		return fmt.Errorf("selftest: %s: %s", f.Name, f.Detail)
	}
}

// Status is a point-in-time monitor snapshot.
type Status struct {
	State               State     `json:"state"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	Runs                int64     `json:"runs"`
	LastRun             time.Time `json:"last_run"`
	LastError           string    `json:"last_error,omitempty"`
}

// Monitor periodically runs a CheckFunc and drives the state machine.
// State reads are lock-free; polls are serialized.
type Monitor struct {
	cfg    MonitorConfig
	check  CheckFunc
	logger logging.Logger
	client *http.Client

	state       atomic.Int32
	consecutive atomic.Int32
	runs        atomic.Int64
	lastErr     atomic.Error
	lastRun     atomic.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor builds a monitor around check. Zero config fields get the
// MonitorConfigFromEnv defaults; FailedAfter zero means the FAILED
// transition is disabled.
func NewMonitor(cfg MonitorConfig, check CheckFunc) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.ReadOnlyAfter <= 0 {
		cfg.ReadOnlyAfter = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New(nil)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Monitor{
		cfg:    cfg,
		check:  check,
		logger: cfg.Logger,
		client: client,
	}
}

// State returns the current state. Safe for concurrent use.
func (m *Monitor) State() State {
	return State(m.state.Load())
}

// CanWrap reports whether key custody operations should be served.
func (m *Monitor) CanWrap() bool {
	return m.State() == StateNormal
}

// CanVerify reports whether verification should be served. Verification
// stays available in READ_ONLY.
func (m *Monitor) CanVerify() bool {
	return m.State() != StateFailed
}

// Status returns a snapshot of the monitor's counters.
func (m *Monitor) Status() Status {
	s := Status{
		State:               m.State(),
		ConsecutiveFailures: int(m.consecutive.Load()),
		Runs:                m.runs.Load(),
		LastRun:             m.lastRun.Load(),
	}
	if err := m.lastErr.Load(); err != nil {
		s.LastError = err.Error()
	}
	return s
}

// Start launches the poll loop. It returns an error if already running.
// The loop stops when ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done != nil {
		return fmt.Errorf("selftest: monitor already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.loop(ctx, m.done)
	return nil
}

// Stop halts the poll loop and waits for it to exit. Safe to call when
// not running.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll runs one check immediately and returns the resulting state.
func (m *Monitor) Poll(ctx context.Context) State {
	err := m.check()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs.Inc()
	m.lastRun.Store(time.Now())
	m.lastErr.Store(err)
	cur := State(m.state.Load())

	if err == nil {
		m.consecutive.Store(0)
		if cur != StateNormal {
			m.state.Store(int32(StateNormal))
			m.transition(ctx, cur, StateNormal, 0, "")
		}
		return StateNormal
	}

	n := int(m.consecutive.Inc())
	m.logger.Warn(ctx, "self-test failed",
		"consecutive", n,
		"readonly_after", m.cfg.ReadOnlyAfter,
		"error", err.Error(),
	)

	next := cur
	if cur != StateFailed && m.cfg.FailedAfter > 0 && n >= m.cfg.FailedAfter {
		next = StateFailed
	} else if cur == StateNormal && n >= m.cfg.ReadOnlyAfter {
		next = StateReadOnly
	}
	if next != cur {
		m.state.Store(int32(next))
		m.transition(ctx, cur, next, n, err.Error())
		if next == StateFailed && m.cfg.OnFailed != nil {
			go m.cfg.OnFailed()
		}
	}
	return next
}

func (m *Monitor) transition(ctx context.Context, from, to State, consecutive int, reason string) {
	args := []any{
		"from", from.String(),
		"to", to.String(),
		"consecutive", consecutive,
	}
	switch to {
	case StateFailed:
		m.logger.Error(ctx, "self-test state change: failure budget exhausted", args...)
	case StateReadOnly:
		m.logger.Warn(ctx, "self-test state change: key custody disabled", args...)
	default:
		m.logger.Info(ctx, "self-test state change: recovered", args...)
	}
	m.postWebhook(ctx, from, to, consecutive, reason)
}

type stateEvent struct {
	Event               string `json:"event"`
	From                string `json:"from"`
	To                  string `json:"to"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	Reason              string `json:"reason,omitempty"`
	Timestamp           string `json:"timestamp"`
}

func (m *Monitor) postWebhook(ctx context.Context, from, to State, consecutive int, reason string) {
	if m.cfg.Webhook == "" {
		return
	}
	ev := stateEvent{
		Event:               "selftest_state_change",
		From:                from.String(),
		To:                  to.String(),
		ConsecutiveFailures: consecutive,
		Reason:              reason,
		Timestamp:           time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(ev)
	if err != nil {
		m.logger.Warn(ctx, "webhook payload encode failed", "error", err.Error())
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Webhook, bytes.NewReader(body))
	if err != nil {
		m.logger.Warn(ctx, "webhook request build failed", "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Warn(ctx, "webhook post failed", "error", err.Error())
		return
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.logger.Warn(ctx, "webhook post rejected", "status", resp.StatusCode)
	}
}
