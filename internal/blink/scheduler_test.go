package blink

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	fire     func()
	running  bool
	interval time.Duration
	starts   int
}

func (f *fakeTimer) Start(interval time.Duration) {
	f.running = true
	f.interval = interval
	f.starts++
}

func (f *fakeTimer) Stop() { f.running = false }

// Fire delivers a tick the way a real timer would: only while running.
func (f *fakeTimer) Fire() {
	if f.running {
		f.fire()
	}
}

type fakeTarget struct {
	opacity float64
	history []float64
}

func (f *fakeTarget) Opacity() float64 { return f.opacity }

func (f *fakeTarget) SetOpacity(v float64) {
	f.opacity = v
	f.history = append(f.history, v)
}

// lockedTarget is a Target safe to share between goroutines
type lockedTarget struct {
	mu      sync.Mutex
	opacity float64
}

func (l *lockedTarget) Opacity() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opacity
}

func (l *lockedTarget) SetOpacity(v float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opacity = v
}

// newTestScheduler returns a scheduler with its period and pulse timers
func newTestScheduler(opacity float64) (*Scheduler, *fakeTarget, *fakeTimer, *fakeTimer) {
	target := &fakeTarget{opacity: opacity}
	var timers []*fakeTimer
	s := New(target, func(fire func()) Timer {
		t := &fakeTimer{fire: fire}
		timers = append(timers, t)
		return t
	})
	return s, target, timers[0], timers[1]
}

func TestArmBurstSequence(t *testing.T) {
	s, target, period, pulse := newTestScheduler(1)

	if err := s.Arm(time.Second, 100, 3); err != nil {
		t.Fatalf("Arm failed: %v", err)
	}
	if s.State() != StateArmed {
		t.Fatalf("expected Armed, got %s", s.State())
	}
	if !period.running || period.interval != time.Second {
		t.Fatalf("period timer not started with 1s: %+v", period)
	}

	period.Fire()
	if !pulse.running || pulse.interval != 100*time.Millisecond {
		t.Fatalf("pulse timer not started with 100ms: %+v", pulse)
	}

	pulse.Fire()
	pulse.Fire()
	pulse.Fire()

	want := []float64{0, 1, 0, 1, 0}
	if !reflect.DeepEqual(target.history, want) {
		t.Fatalf("opacity sequence %v, want %v", target.history, want)
	}
	if pulse.running {
		t.Fatalf("pulse timer should stop after the last toggle")
	}
	if !period.running {
		t.Fatalf("period timer should keep running between bursts")
	}
}

func TestBurstRepeatsEachPeriod(t *testing.T) {
	s, target, period, pulse := newTestScheduler(0.8)
	var bursts []int
	s.SetOnBurst(func(pulses int) { bursts = append(bursts, pulses) })

	if err := s.Arm(time.Minute, 50, 2); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		period.Fire()
		pulse.Fire()
		pulse.Fire()
	}

	if !reflect.DeepEqual(bursts, []int{2, 2}) {
		t.Fatalf("unexpected bursts %v", bursts)
	}
	if target.opacity != 0 {
		t.Fatalf("opacity should rest at 0 between bursts, got %v", target.opacity)
	}
	if pulse.starts != 2 {
		t.Fatalf("expected 2 pulse timer starts, got %d", pulse.starts)
	}
}

func TestArmTruncatesParameters(t *testing.T) {
	s, _, period, pulse := newTestScheduler(1)

	if err := s.Arm(time.Second, 150.9, 2.7); err != nil {
		t.Fatalf("Arm failed: %v", err)
	}
	period.Fire()
	if pulse.interval != 150*time.Millisecond {
		t.Fatalf("expected 150ms, got %v", pulse.interval)
	}
	pulse.Fire()
	if !pulse.running {
		t.Fatalf("count 2.7 should truncate to 2 pulses, stopped after 1")
	}
	pulse.Fire()
	if pulse.running {
		t.Fatalf("count 2.7 should truncate to 2 pulses")
	}
}

func TestArmRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name     string
		period   time.Duration
		interval float64
		count    float64
	}{
		{"zero count", time.Second, 100, 0},
		{"fraction count", time.Second, 100, 0.9},
		{"negative interval", time.Second, -100, 3},
		{"zero interval", time.Second, 0, 3},
		{"zero period", 0, 100, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, target, period, _ := newTestScheduler(0.6)

			err := s.Arm(tt.period, tt.interval, tt.count)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			if s.State() != StateIdle {
				t.Fatalf("expected Idle, got %s", s.State())
			}
			if period.running || target.opacity != 0.6 || len(target.history) != 0 {
				t.Fatalf("rejected Arm must leave everything untouched")
			}
		})
	}
}

func TestDisarmRestoresBaseline(t *testing.T) {
	s, target, period, pulse := newTestScheduler(0.7)

	if err := s.Arm(time.Second, 100, 3); err != nil {
		t.Fatal(err)
	}
	period.Fire()
	pulse.Fire()

	s.Disarm()
	if s.State() != StateIdle {
		t.Fatalf("expected Idle, got %s", s.State())
	}
	if period.running || pulse.running {
		t.Fatalf("both timers must stop")
	}
	if target.opacity != 0.7 {
		t.Fatalf("expected baseline 0.7, got %v", target.opacity)
	}

	// Stray ticks after disarm change nothing.
	before := len(target.history)
	period.fire()
	pulse.fire()
	if len(target.history) != before {
		t.Fatalf("ticks after Disarm must be ignored")
	}
}

func TestDisarmWhenIdleIsNoop(t *testing.T) {
	s, target, _, _ := newTestScheduler(0.5)
	s.Disarm()
	if len(target.history) != 0 {
		t.Fatalf("Disarm on an idle scheduler must not touch the target")
	}
}

func TestRearmKeepsFirstBaseline(t *testing.T) {
	s, target, period, pulse := newTestScheduler(0.9)

	if err := s.Arm(time.Second, 100, 3); err != nil {
		t.Fatal(err)
	}
	period.Fire()
	pulse.Fire()

	if err := s.Arm(2*time.Second, 200, 1); err != nil {
		t.Fatal(err)
	}
	if pulse.running {
		t.Fatalf("re-arm must cancel the burst in progress")
	}
	if period.interval != 2*time.Second {
		t.Fatalf("period not restarted with the new value")
	}
	if s.RestingOpacity() != 0.9 {
		t.Fatalf("re-arm replaced the baseline with %v", s.RestingOpacity())
	}

	s.Disarm()
	if target.opacity != 0.9 {
		t.Fatalf("expected first baseline 0.9, got %v", target.opacity)
	}
}

func TestSetRestingOpacityWhileArmed(t *testing.T) {
	s, target, _, _ := newTestScheduler(0.5)
	if err := s.Arm(time.Second, 100, 1); err != nil {
		t.Fatal(err)
	}
	s.SetRestingOpacity(4)
	if target.opacity != 0 {
		t.Fatalf("armed opacity changes must not touch the target, got %v", target.opacity)
	}
	if s.RestingOpacity() != 1 {
		t.Fatalf("expected clamped resting opacity 1, got %v", s.RestingOpacity())
	}
	s.Disarm()
	if target.opacity != 1 {
		t.Fatalf("expected clamped baseline 1, got %v", target.opacity)
	}
}

func TestSetRestingOpacityWhileIdle(t *testing.T) {
	s, target, _, _ := newTestScheduler(0.5)
	s.SetRestingOpacity(0.3)
	if target.opacity != 0.3 || s.RestingOpacity() != 0.3 {
		t.Fatalf("idle opacity change not applied: %v", target.opacity)
	}
}

func TestToggle(t *testing.T) {
	s, target, period, _ := newTestScheduler(0.8)

	armed, err := s.Toggle(time.Second, 100, 2)
	if err != nil || !armed {
		t.Fatalf("first toggle should arm: armed=%v err=%v", armed, err)
	}
	if !period.running {
		t.Fatalf("period timer not started")
	}

	armed, err = s.Toggle(time.Second, 100, 2)
	if err != nil || armed {
		t.Fatalf("second toggle should disarm: armed=%v err=%v", armed, err)
	}
	if period.running || target.opacity != 0.8 {
		t.Fatalf("disarm by toggle did not restore the baseline")
	}

	if _, err := s.Toggle(time.Second, 0, 2); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if s.State() != StateIdle {
		t.Fatalf("rejected toggle must stay idle")
	}
}

func TestRearmOnlyWhenArmed(t *testing.T) {
	s, _, period, _ := newTestScheduler(1)

	armed, err := s.Rearm(time.Second, 100, 2)
	if err != nil || armed || period.running {
		t.Fatalf("Rearm on idle must do nothing: armed=%v err=%v", armed, err)
	}
	if _, err := s.Rearm(0, 100, 2); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Rearm must validate while idle, got %v", err)
	}

	if err := s.Arm(time.Second, 100, 2); err != nil {
		t.Fatal(err)
	}
	armed, err = s.Rearm(3*time.Second, 100, 2)
	if err != nil || !armed || period.interval != 3*time.Second {
		t.Fatalf("Rearm on armed must restart the period: armed=%v err=%v", armed, err)
	}
}

func TestConcurrentToggleAndOpacity(t *testing.T) {
	target := &lockedTarget{}
	s := New(target, func(fire func()) Timer { return &fakeTimer{fire: fire} })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i%2 == 0 {
					_, _ = s.Toggle(time.Second, 100, 2)
				} else {
					s.SetRestingOpacity(float64(j%10) / 10)
				}
			}
		}(i)
	}
	wg.Wait()

	if s.Disarm() {
		if target.Opacity() != s.RestingOpacity() {
			t.Fatalf("disarm left opacity %v, resting %v", target.Opacity(), s.RestingOpacity())
		}
	}
}

func TestDisarmReportsState(t *testing.T) {
	s, _, _, _ := newTestScheduler(1)
	if s.Disarm() {
		t.Fatalf("idle Disarm must report false")
	}
	if err := s.Arm(time.Second, 100, 1); err != nil {
		t.Fatal(err)
	}
	if !s.Disarm() {
		t.Fatalf("armed Disarm must report true")
	}
}

func TestStateString(t *testing.T) {
	if StateIdle.String() != "Idle" || StateArmed.String() != "Armed" || State(9).String() != "Unknown" {
		t.Fatalf("unexpected state names")
	}
}
