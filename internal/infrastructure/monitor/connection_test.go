package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_Refresh(t *testing.T) {
	var failing atomic.Bool
	mon := New(time.Minute, nil,
		Check{Name: "store", Ping: func(context.Context) error { return nil }},
		Check{Name: "redis", Ping: func(context.Context) error {
			if failing.Load() {
				return errors.New("connection refused")
			}
			return nil
		}},
	)

	assert.False(t, mon.IsOnline(), "no check has run yet")

	mon.Refresh()
	status := mon.GetStatus()
	assert.True(t, status.Healthy())
	assert.Equal(t, map[string]bool{"store": true, "redis": true}, status.Services)
	assert.False(t, status.LastCheck.IsZero())

	failing.Store(true)
	mon.Refresh()
	assert.False(t, mon.IsOnline())
	assert.False(t, mon.GetStatus().Services["redis"])

	status.Services["redis"] = true
	assert.False(t, mon.GetStatus().Services["redis"], "status is returned as a copy")
}

func TestMonitor_PingTimeout(t *testing.T) {
	mon := New(time.Minute, nil, Check{
		Name:    "slow",
		Timeout: 10 * time.Millisecond,
		Ping: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}, Check{Name: "missing"})

	mon.Refresh()
	status := mon.GetStatus()
	assert.False(t, status.Services["slow"])
	assert.False(t, status.Services["missing"])
}

func TestMonitor_StartStop(t *testing.T) {
	var calls atomic.Int32
	mon := New(time.Second, nil, Check{Name: "store", Ping: func(context.Context) error {
		calls.Add(1)
		return nil
	}})

	mon.Start()
	mon.Stop()
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.True(t, mon.IsOnline())
}
