package activity

import (
	"errors"
	"testing"
	"time"
)

func TestIdleTransitionsFireOnce(t *testing.T) {
	m := NewMonitor(time.Minute)
	var current time.Duration
	var idleErr error
	m.idleTime = func() (time.Duration, error) { return current, idleErr }

	var idleCalls, activeCalls int
	m.SetOnBecameIdle(func() { idleCalls++ })
	m.SetOnBecameActive(func() { activeCalls++ })

	current = 10 * time.Second
	m.checkIdleStatus()
	if m.IsIdle() || idleCalls != 0 || activeCalls != 0 {
		t.Fatalf("active user must not trigger callbacks")
	}

	current = 2 * time.Minute
	m.checkIdleStatus()
	m.checkIdleStatus()
	if !m.IsIdle() || idleCalls != 1 {
		t.Fatalf("expected one idle transition, got %d", idleCalls)
	}

	current = 0
	m.checkIdleStatus()
	m.checkIdleStatus()
	if m.IsIdle() || activeCalls != 1 {
		t.Fatalf("expected one active transition, got %d", activeCalls)
	}

	current = 2 * time.Minute
	m.checkIdleStatus()
	idleErr = errors.New("no HID service")
	m.checkIdleStatus()
	if m.IsIdle() || activeCalls != 2 {
		t.Fatalf("an idle lookup error should count as activity")
	}
}

func TestDefaultThreshold(t *testing.T) {
	if m := NewMonitor(0); m.threshold != DefaultThreshold {
		t.Fatalf("expected default threshold, got %v", m.threshold)
	}
}

func TestStartStop(t *testing.T) {
	m := NewMonitor(time.Minute)
	m.idleTime = func() (time.Duration, error) { return 0, nil }
	m.Start()
	m.Start()
	m.Stop()
	m.Stop()
	m.Start()
	m.Stop()
}
