package client

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func newTestMonitor(t *testing.T, probe func(ctx context.Context) bool, events <-chan bool, opts ...MonitorOption) *Monitor {
	t.Helper()
	c := New("http://example.com")
	t.Cleanup(func() { _ = c.Close() })
	m := c.NewMonitor(events, opts...)
	m.probe = probe
	return m
}

func TestMonitorProbesOnStart(t *testing.T) {
	var probes atomic.Int32
	m := newTestMonitor(t, func(context.Context) bool {
		probes.Add(1)
		return true
	}, nil, WithPollInterval(time.Hour))
	m.Start()
	defer m.Stop()

	waitFor(t, func() bool { return probes.Load() == 1 }, "expected initial probe")
	waitFor(t, m.Online, "expected online after successful probe")
}

func TestMonitorReprobesOnOnlineTransition(t *testing.T) {
	var probes atomic.Int32
	events := make(chan bool)
	m := newTestMonitor(t, func(context.Context) bool {
		probes.Add(1)
		return true
	}, events, WithPollInterval(time.Hour))
	m.Start()
	defer m.Stop()

	waitFor(t, func() bool { return probes.Load() == 1 }, "expected initial probe")

	events <- false
	waitFor(t, func() bool { return !m.Online() }, "expected offline after offline event")
	if got := probes.Load(); got != 1 {
		t.Fatalf("offline transition must not probe, got %d probes", got)
	}

	// Coming back online shortens recovery feedback with an immediate probe.
	events <- true
	waitFor(t, func() bool { return probes.Load() == 2 }, "expected immediate re-probe")
	waitFor(t, m.Online, "expected online after re-probe")
}

func TestMonitorPollsWhileOnline(t *testing.T) {
	var probes atomic.Int32
	events := make(chan bool)
	m := newTestMonitor(t, func(context.Context) bool {
		probes.Add(1)
		return true
	}, events, WithPollInterval(20*time.Millisecond))
	m.Start()
	defer m.Stop()

	waitFor(t, func() bool { return probes.Load() >= 3 }, "expected periodic polling while online")

	// Polling pauses while offline.
	events <- false
	waitFor(t, func() bool { return !m.Online() }, "expected offline")
	base := probes.Load()
	time.Sleep(80 * time.Millisecond)
	if got := probes.Load(); got != base {
		t.Fatalf("polling should pause while offline: %d extra probes", got-base)
	}
}

func TestMonitorOnChange(t *testing.T) {
	flips := make(chan bool, 8)
	var healthy atomic.Bool
	healthy.Store(true)
	m := newTestMonitor(t, func(context.Context) bool {
		return healthy.Load()
	}, nil, WithPollInterval(10*time.Millisecond), WithOnChange(func(online bool) {
		flips <- online
	}))
	m.Start()
	defer m.Stop()

	if got := <-flips; !got {
		t.Fatal("first flip should be to online")
	}
	healthy.Store(false)
	if got := <-flips; got {
		t.Fatal("second flip should be to offline")
	}
}

func TestMonitorStopIdempotent(t *testing.T) {
	m := newTestMonitor(t, func(context.Context) bool { return true }, nil, WithPollInterval(time.Hour))
	m.Start()
	m.Stop()
	m.Stop()
}

func TestCloseStopsMonitors(t *testing.T) {
	c := New("http://example.com")
	m := c.NewMonitor(nil, WithPollInterval(time.Hour))
	m.probe = func(context.Context) bool { return true }
	m.Start()

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Stop already ran; a second Stop must not block or panic.
	m.Stop()
}
