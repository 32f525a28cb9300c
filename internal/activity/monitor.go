package activity

import (
	"sync"
	"time"

	"github.com/lextoumbourou/idle"
)

// DefaultThreshold is how long without input counts as away
const DefaultThreshold = 5 * time.Minute

// Monitor tracks user activity and detects idle periods
type Monitor struct {
	threshold      time.Duration
	pollInterval   time.Duration
	idleTime       func() (time.Duration, error)
	isIdle         bool
	ticker         *time.Ticker
	stopChan       chan struct{}
	onBecameIdle   func()
	onBecameActive func()
	mu             sync.Mutex
	running        bool
}

// NewMonitor creates a new activity monitor
func NewMonitor(threshold time.Duration) *Monitor {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Monitor{
		threshold:    threshold,
		pollInterval: 10 * time.Second,
		idleTime:     idle.Get,
	}
}

// Start begins monitoring user activity
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	m.running = true
	m.stopChan = make(chan struct{})
	m.ticker = time.NewTicker(m.pollInterval)

	go m.monitorLoop(m.ticker, m.stopChan)
}

// Stop stops monitoring user activity
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.running = false
	close(m.stopChan)

	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
}

// IsIdle returns whether the user is currently idle
func (m *Monitor) IsIdle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isIdle
}

// SetOnBecameIdle sets the callback for when the user becomes idle
func (m *Monitor) SetOnBecameIdle(callback func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onBecameIdle = callback
}

// SetOnBecameActive sets the callback for when the user becomes active
func (m *Monitor) SetOnBecameActive(callback func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onBecameActive = callback
}

func (m *Monitor) monitorLoop(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-ticker.C:
			m.checkIdleStatus()
		case <-stop:
			return
		}
	}
}

// checkIdleStatus checks the current idle time and updates state
func (m *Monitor) checkIdleStatus() {
	idleDuration, err := m.idleTime()
	if err != nil {
		// If we can't get idle time, assume active
		m.setActive()
		return
	}

	if idleDuration >= m.threshold {
		m.setIdle()
	} else {
		m.setActive()
	}
}

// setIdle marks the user as idle and triggers callback
func (m *Monitor) setIdle() {
	m.mu.Lock()
	if m.isIdle {
		m.mu.Unlock()
		return
	}
	m.isIdle = true
	callback := m.onBecameIdle
	m.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// setActive marks the user as active and triggers callback
func (m *Monitor) setActive() {
	m.mu.Lock()
	if !m.isIdle {
		m.mu.Unlock()
		return
	}
	m.isIdle = false
	callback := m.onBecameActive
	m.mu.Unlock()

	if callback != nil {
		callback()
	}
}
