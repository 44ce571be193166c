package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultPollInterval = 30 * time.Second

// Monitor passively tracks backend reachability. It listens for
// environment online/offline transitions and, while online, polls the
// health route on an interval. On an offline→online transition it
// re-probes immediately so recovery is noticed without waiting for the
// next tick or the next caller-initiated request.
//
// The monitor is purely observational: it never retries and never feeds
// the request path.
type Monitor struct {
	probe    func(ctx context.Context) bool
	interval time.Duration
	events   <-chan bool
	onChange func(online bool)

	done    chan struct{}
	wg      sync.WaitGroup
	started uint32
	stopped uint32

	envOnline atomic.Bool // last reported environment state
	reachable atomic.Bool // last probe result
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithPollInterval sets how often the monitor probes health while online.
func WithPollInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithOnChange installs a callback fired whenever observed reachability
// flips. Intended for UI feedback.
func WithOnChange(fn func(online bool)) MonitorOption {
	return func(m *Monitor) { m.onChange = fn }
}

// NewMonitor creates a Monitor fed by events, a channel of environment
// online/offline transitions (true = online). events may be nil when no
// environment signal is available; polling alone then drives the state.
// The monitor starts in the online state and begins with an immediate
// probe once Start is called. Stop is also wired into Client.Close.
func (c *Client) NewMonitor(events <-chan bool, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		probe:    c.IsReachable,
		interval: defaultPollInterval,
		events:   events,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.envOnline.Store(true)
	c.trackMonitor(m)
	return m
}

// Start launches the monitor loop. It is a no-op on subsequent calls.
func (m *Monitor) Start() {
	if !atomic.CompareAndSwapUint32(&m.started, 0, 1) {
		return
	}
	m.wg.Add(1)
	go m.run()
}

// Stop terminates the loop and waits for it to exit. Idempotent.
func (m *Monitor) Stop() {
	if !atomic.CompareAndSwapUint32(&m.stopped, 0, 1) {
		return
	}
	close(m.done)
	m.wg.Wait()
}

// Online returns the last observed reachability.
func (m *Monitor) Online() bool { return m.reachable.Load() }

func (m *Monitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.runProbe()

	for {
		select {
		case <-m.done:
			return

		case online, ok := <-m.events:
			if !ok {
				// Source closed; keep polling on the last known state.
				m.events = nil
				continue
			}
			was := m.envOnline.Swap(online)
			if online && !was {
				// Back online: shorten recovery feedback.
				m.runProbe()
				ticker.Reset(m.interval)
			}
			if !online {
				m.setReachable(false)
			}

		case <-ticker.C:
			if m.envOnline.Load() {
				m.runProbe()
			}
		}
	}
}

func (m *Monitor) runProbe() {
	ok := m.probe(context.Background())
	if ok {
		monitorProbesTotal.WithLabelValues("up").Inc()
	} else {
		monitorProbesTotal.WithLabelValues("down").Inc()
	}
	m.setReachable(ok)
}

func (m *Monitor) setReachable(ok bool) {
	if m.reachable.Swap(ok) != ok && m.onChange != nil {
		m.onChange(ok)
	}
}
