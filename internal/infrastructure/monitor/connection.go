package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

// Check names a dependency ping.
type Check struct {
	Name    string
	Ping    PingFunc
	Timeout time.Duration
}

// Monitor runs dependency checks on a cron schedule and caches the result
// for the health endpoint.
type Monitor struct {
	checks []Check
	cron   *cron.Cron

	status Status
	mu     sync.RWMutex
	logger *zap.Logger
}

func New(interval time.Duration, logger *zap.Logger, checks ...Check) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		checks: checks,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := m.cron.AddFunc(schedule, m.Refresh); err != nil {
		logger.Error("health check schedule rejected", zap.String("schedule", schedule), zap.Error(err))
	}
	return m
}

// Start runs one check immediately and then follows the schedule.
func (m *Monitor) Start() {
	m.Refresh()
	m.cron.Start()
}

// Stop halts the schedule and waits for a running check to finish.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
}

func (m *Monitor) IsOnline() bool {
	return m.GetStatus().Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	services := make(map[string]bool, len(m.status.Services))
	for name, ok := range m.status.Services {
		services[name] = ok
	}
	return Status{Services: services, LastCheck: m.status.LastCheck}
}

// Refresh pings every dependency once.
func (m *Monitor) Refresh() {
	services := make(map[string]bool, len(m.checks))
	for _, check := range m.checks {
		services[check.Name] = m.ping(check)
	}

	m.mu.Lock()
	previous := m.status.Services
	m.status = Status{Services: services, LastCheck: time.Now()}
	m.mu.Unlock()

	for name, ok := range services {
		if was, seen := previous[name]; !seen || was != ok {
			m.logger.Info("dependency status", zap.String("service", name), zap.Bool("online", ok))
		}
	}
}

func (m *Monitor) ping(check Check) bool {
	if check.Ping == nil {
		return false
	}
	timeout := check.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := check.Ping(ctx); err != nil {
		m.logger.Warn("dependency check failed", zap.String("service", check.Name), zap.Error(err))
		return false
	}
	return true
}
